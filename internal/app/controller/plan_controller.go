package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/reviewboost/reviewboost-backend/internal/app/service"
	apperrors "github.com/reviewboost/reviewboost-backend/internal/errors"
)

type PlanController struct {
	planService service.PlanService
}

func NewPlanController(planService service.PlanService) *PlanController {
	return &PlanController{
		planService: planService,
	}
}

// List returns the subscription tiers. Public, used by the pricing page.
// GET /api/v1/plans
func (ctrl *PlanController) List(c *gin.Context) {
	plans, err := ctrl.planService.ListPlans()
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, false)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"plans":   plans,
	})
}
