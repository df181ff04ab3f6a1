package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/reviewboost/reviewboost-backend/internal/app/service"
	apperrors "github.com/reviewboost/reviewboost-backend/internal/errors"
	"github.com/reviewboost/reviewboost-backend/internal/middleware"
)

type FunnelController struct {
	funnelService service.FunnelService
}

func NewFunnelController(funnelService service.FunnelService) *FunnelController {
	return &FunnelController{
		funnelService: funnelService,
	}
}

// Redirect resolves a funnel slug (from a QR code or short link) and sends
// the visitor to the business's Google review page. Public, no auth.
// GET /r/:slug
func (ctrl *FunnelController) Redirect(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	slug := c.Param("slug")
	if slug == "" {
		apperrors.NotFound(c, apperrors.FunnelNotFound, "This link is no longer available")
		return
	}

	target, err := ctrl.funnelService.ResolveSlug(c.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, service.ErrFunnelNotFound) {
			apperrors.NotFound(c, apperrors.FunnelNotFound, "This link is no longer available")
			return
		}
		log.Error("Funnel resolution failed", err, map[string]interface{}{
			"slug": slug,
		})
		apperrors.InternalError(c, "")
		return
	}

	// 302 so crawlers do not cache a redirect for a URL that may change
	c.Redirect(http.StatusFound, target)
}
