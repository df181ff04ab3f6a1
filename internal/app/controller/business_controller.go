package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/reviewboost/reviewboost-backend/internal/app/service"
	apperrors "github.com/reviewboost/reviewboost-backend/internal/errors"
	"github.com/reviewboost/reviewboost-backend/internal/middleware"
)

type BusinessController struct {
	authService     service.AuthService
	businessService service.BusinessService
}

func NewBusinessController(authService service.AuthService, businessService service.BusinessService) *BusinessController {
	return &BusinessController{
		authService:     authService,
		businessService: businessService,
	}
}

type BusinessRequest struct {
	Name      string `json:"name" binding:"required"`
	Category  string `json:"category"`
	Phone     string `json:"phone"`
	LogoURL   string `json:"logo_url"`
	ReviewURL string `json:"review_url" binding:"required"`
}

type CheckURLRequest struct {
	ReviewURL string `json:"review_url" binding:"required"`
	EditingID *uint  `json:"editing_id"` // set when editing an existing business
}

// List returns the authenticated owner's businesses
// GET /api/v1/businesses
func (ctrl *BusinessController) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	businesses, err := ctrl.businessService.ListMine(userID)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, false)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"businesses": businesses,
	})
}

// Get returns a single business
// GET /api/v1/businesses/:id
func (ctrl *BusinessController) Get(c *gin.Context) {
	actor, ok := currentUser(c, ctrl.authService)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	business, err := ctrl.businessService.GetByID(actor, id)
	if err != nil {
		ctrl.respondBusinessError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"business": business,
	})
}

// Create registers a new business. When the review URL collides with another
// account's record, the response explains how the conflict was arbitrated.
// POST /api/v1/businesses
func (ctrl *BusinessController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := currentUser(c, ctrl.authService)
	if !ok {
		return
	}

	var req BusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Please check the business details")
		return
	}

	result, err := ctrl.businessService.Create(actor, service.BusinessInput{
		Name:      req.Name,
		Category:  req.Category,
		Phone:     req.Phone,
		LogoURL:   req.LogoURL,
		ReviewURL: req.ReviewURL,
	})
	if err != nil {
		ctrl.respondBusinessError(c, err)
		return
	}

	log.Info("Business created", map[string]interface{}{
		"business_id": result.Business.ID,
		"user_id":     actor.ID,
		"status":      result.Business.Status,
		"branch":      result.Resolution.Branch,
	})

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"business":   result.Business,
		"resolution": result.Resolution,
	})
}

// Update edits a business. URL changes go through conflict arbitration.
// PUT /api/v1/businesses/:id
func (ctrl *BusinessController) Update(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := currentUser(c, ctrl.authService)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req BusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Please check the business details")
		return
	}

	business, err := ctrl.businessService.Update(actor, id, service.BusinessInput{
		Name:      req.Name,
		Category:  req.Category,
		Phone:     req.Phone,
		LogoURL:   req.LogoURL,
		ReviewURL: req.ReviewURL,
	})
	if err != nil {
		ctrl.respondBusinessError(c, err)
		return
	}

	log.Info("Business updated", map[string]interface{}{
		"business_id": business.ID,
		"user_id":     actor.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"business": business,
	})
}

// CheckURL is the dry-run conflict probe the frontend calls while the owner
// types. No state is ever changed here.
// PUT /api/v1/businesses
func (ctrl *BusinessController) CheckURL(c *gin.Context) {
	actor, ok := currentUser(c, ctrl.authService)
	if !ok {
		return
	}

	var req CheckURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "review_url is required")
		return
	}

	resolution, err := ctrl.businessService.CheckURL(actor, req.EditingID, req.ReviewURL)
	if err != nil {
		ctrl.respondBusinessError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  resolution,
	})
}

// Delete soft-deletes a business. Unlike archiving, no snapshot is taken and
// the record cannot be restored through the conflict workflow.
// DELETE /api/v1/businesses/:id
func (ctrl *BusinessController) Delete(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := currentUser(c, ctrl.authService)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.businessService.SoftDelete(actor, id); err != nil {
		ctrl.respondBusinessError(c, err)
		return
	}

	log.Info("Business deleted", map[string]interface{}{
		"business_id": id,
		"user_id":     actor.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Business deleted",
	})
}

// respondBusinessError maps service sentinels onto the error envelope
func (ctrl *BusinessController) respondBusinessError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidReviewURL):
		apperrors.BadRequest(c, apperrors.URLInvalid, "That does not look like a Google Maps review link")
	case errors.Is(err, service.ErrDuplicateOwnURL):
		apperrors.Conflict(c, apperrors.URLDuplicateOwn, "You already use this review URL on another business")
	case errors.Is(err, service.ErrDuplicateForeignURL):
		apperrors.Conflict(c, apperrors.URLDuplicateForeign, "This review URL is registered to another account")
	case errors.Is(err, service.ErrBusinessNotFound):
		apperrors.NotFound(c, apperrors.BusinessNotFound, "Business not found")
	case errors.Is(err, service.ErrBusinessAccessDenied):
		apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzOwnerOnly, "You do not own this business")
	case errors.Is(err, service.ErrBusinessLimitReached):
		apperrors.RespondWithError(c, http.StatusForbidden, apperrors.BusinessLimitReached, "Your plan does not allow more businesses")
	case errors.Is(err, service.ErrInvalidBusinessPhone):
		apperrors.BadRequest(c, apperrors.ValidationInvalidPhone, "Please enter a valid phone number")
	default:
		middleware.GetLoggerFromContext(c).Error("Business operation failed", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, false)
	}
}
