package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/reviewboost/reviewboost-backend/internal/app/service"
	apperrors "github.com/reviewboost/reviewboost-backend/internal/errors"
	"github.com/reviewboost/reviewboost-backend/internal/middleware"
)

type EmployeeController struct {
	authService     service.AuthService
	employeeService service.EmployeeService
}

func NewEmployeeController(authService service.AuthService, employeeService service.EmployeeService) *EmployeeController {
	return &EmployeeController{
		authService:     authService,
		employeeService: employeeService,
	}
}

type AddEmployeeRequest struct {
	Name  string `json:"name" binding:"required"`
	Title string `json:"title"`
}

// List returns a business's staff with their personal funnel slugs
// GET /api/v1/businesses/:id/employees
func (ctrl *EmployeeController) List(c *gin.Context) {
	actor, ok := currentUser(c, ctrl.authService)
	if !ok {
		return
	}
	businessID, ok := pathID(c, "id")
	if !ok {
		return
	}

	employees, err := ctrl.employeeService.List(actor, businessID)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"employees": employees,
	})
}

// Add registers a staff member and issues their personal funnel slug
// POST /api/v1/businesses/:id/employees
func (ctrl *EmployeeController) Add(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := currentUser(c, ctrl.authService)
	if !ok {
		return
	}
	businessID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req AddEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Employee name is required")
		return
	}

	employee, err := ctrl.employeeService.Add(actor, businessID, req.Name, req.Title)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	log.Info("Employee added", map[string]interface{}{
		"business_id": businessID,
		"employee_id": employee.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"employee": employee,
	})
}

// Remove deletes a staff member, retiring their funnel slug
// DELETE /api/v1/businesses/:id/employees/:employeeId
func (ctrl *EmployeeController) Remove(c *gin.Context) {
	actor, ok := currentUser(c, ctrl.authService)
	if !ok {
		return
	}
	businessID, ok := pathID(c, "id")
	if !ok {
		return
	}
	employeeID, ok := pathID(c, "employeeId")
	if !ok {
		return
	}

	if err := ctrl.employeeService.Remove(actor, businessID, employeeID); err != nil {
		ctrl.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Employee removed",
	})
}

func (ctrl *EmployeeController) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrBusinessNotFound):
		apperrors.NotFound(c, apperrors.BusinessNotFound, "Business not found")
	case errors.Is(err, service.ErrBusinessAccessDenied):
		apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzOwnerOnly, "You do not own this business")
	case errors.Is(err, service.ErrEmployeeNotFound):
		apperrors.NotFound(c, apperrors.EmployeeNotFound, "Employee not found")
	default:
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, false)
	}
}
