package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/reviewboost/reviewboost-backend/internal/app/service"
	apperrors "github.com/reviewboost/reviewboost-backend/internal/errors"
	"github.com/reviewboost/reviewboost-backend/internal/middleware"
)

type ReviewController struct {
	authService   service.AuthService
	reviewService service.ReviewService
}

func NewReviewController(authService service.AuthService, reviewService service.ReviewService) *ReviewController {
	return &ReviewController{
		authService:   authService,
		reviewService: reviewService,
	}
}

type GenerateRequest struct {
	Count int `json:"count"` // 0 means the default batch size
}

// Generate produces a batch of review templates for a business
// POST /api/v1/businesses/:id/templates/generate
func (ctrl *ReviewController) Generate(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := currentUser(c, ctrl.authService)
	if !ok {
		return
	}
	businessID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid generation request")
		return
	}

	templates, err := ctrl.reviewService.GenerateTemplates(c.Request.Context(), actor, businessID, req.Count)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTemplateLimitReached):
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.TemplateLimitReached,
				"You have used this month's template generations, upgrade to generate more")
		case errors.Is(err, service.ErrBusinessNotActive):
			apperrors.Conflict(c, apperrors.BusinessInactive, "Templates can only be generated for active businesses")
		case errors.Is(err, service.ErrBusinessNotFound):
			apperrors.NotFound(c, apperrors.BusinessNotFound, "Business not found")
		case errors.Is(err, service.ErrBusinessAccessDenied):
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzOwnerOnly, "You do not own this business")
		default:
			log.Error("Template generation failed", err, map[string]interface{}{
				"business_id": businessID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, false)
		}
		return
	}

	log.Info("Templates generated", map[string]interface{}{
		"business_id": businessID,
		"count":       len(templates),
	})

	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"templates": templates,
	})
}

// ListTemplates returns a business's generated templates
// GET /api/v1/businesses/:id/templates
func (ctrl *ReviewController) ListTemplates(c *gin.Context) {
	actor, ok := currentUser(c, ctrl.authService)
	if !ok {
		return
	}
	businessID, ok := pathID(c, "id")
	if !ok {
		return
	}

	templates, err := ctrl.reviewService.ListTemplates(actor, businessID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBusinessNotFound):
			apperrors.NotFound(c, apperrors.BusinessNotFound, "Business not found")
		case errors.Is(err, service.ErrBusinessAccessDenied):
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzOwnerOnly, "You do not own this business")
		default:
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, false)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"templates": templates,
	})
}
