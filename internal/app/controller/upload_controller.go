package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/reviewboost/reviewboost-backend/internal/app/service"
	apperrors "github.com/reviewboost/reviewboost-backend/internal/errors"
	"github.com/reviewboost/reviewboost-backend/internal/middleware"
	"github.com/reviewboost/reviewboost-backend/internal/storage"
)

type UploadController struct {
	authService     service.AuthService
	businessService service.BusinessService
	storage         *storage.S3Storage
}

func NewUploadController(authService service.AuthService, businessService service.BusinessService, s3 *storage.S3Storage) *UploadController {
	return &UploadController{
		authService:     authService,
		businessService: businessService,
		storage:         s3,
	}
}

type PresignLogoRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	Size        int64  `json:"size" binding:"required"`
}

// PresignLogo issues a pre-signed S3 PUT URL for a business logo. The
// client uploads directly to S3 and saves the returned file URL on the
// business afterwards.
// POST /api/v1/businesses/:id/logo/presign
func (ctrl *UploadController) PresignLogo(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := currentUser(c, ctrl.authService)
	if !ok {
		return
	}
	businessID, ok := pathID(c, "id")
	if !ok {
		return
	}

	// ownership check before handing out an upload slot
	if _, err := ctrl.businessService.GetByID(actor, businessID); err != nil {
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

	var req PresignLogoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "filename, content_type and size are required")
		return
	}

	upload, err := ctrl.storage.PresignLogoUpload(c.Request.Context(), businessID, req.Filename, req.ContentType, req.Size)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrFileTooLarge):
			apperrors.BadRequest(c, apperrors.UploadFileTooLarge, err.Error())
		case errors.Is(err, storage.ErrInvalidContentType):
			apperrors.BadRequest(c, apperrors.UploadInvalidFileType, err.Error())
		default:
			log.Error("Presign failed", err, map[string]interface{}{
				"business_id": businessID,
			})
			apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "Could not prepare the upload")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"upload":  upload,
	})
}
