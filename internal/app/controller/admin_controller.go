package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	"github.com/reviewboost/reviewboost-backend/internal/app/model"
	"github.com/reviewboost/reviewboost-backend/internal/app/repository"
	"github.com/reviewboost/reviewboost-backend/internal/app/service"
	apperrors "github.com/reviewboost/reviewboost-backend/internal/errors"
	"github.com/reviewboost/reviewboost-backend/internal/middleware"
	"github.com/reviewboost/reviewboost-backend/internal/websocket"
)

type AdminController struct {
	authService     service.AuthService
	adminService    service.AdminService
	businessService service.BusinessService
	activityService service.ActivityService
	resolver        service.ConflictResolver
	hub             *websocket.Hub
}

func NewAdminController(
	authService service.AuthService,
	adminService service.AdminService,
	businessService service.BusinessService,
	activityService service.ActivityService,
	resolver service.ConflictResolver,
	hub *websocket.Hub,
) *AdminController {
	return &AdminController{
		authService:     authService,
		adminService:    adminService,
		businessService: businessService,
		activityService: activityService,
		resolver:        resolver,
		hub:             hub,
	}
}

type ReassignRequest struct {
	TargetUserID uint `json:"target_user_id" binding:"required"`
	Reactivate   bool `json:"reactivate"`
}

// upgrader for the admin activity feed. Origins were already vetted by the
// CORS layer; the feed additionally requires an admin token.
var feedUpgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ListBusinesses returns all businesses across tenants, filterable by
// status, owner, category and free-text search
// GET /api/v1/admin/businesses
func (ctrl *AdminController) ListBusinesses(c *gin.Context) {
	filter := ctrl.businessFilter(c)

	businesses, err := ctrl.adminService.ListBusinesses(filter)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, true)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"businesses": businesses,
	})
}

// ListUsers returns registered accounts
// GET /api/v1/admin/users
func (ctrl *AdminController) ListUsers(c *gin.Context) {
	users, err := ctrl.adminService.ListUsers(c.Query("search"))
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, true)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"users":   users,
	})
}

// CheckURL probes a review URL with full owner detail. Unlike the owner
// facing probe, a collision here carries the conflicting owner's plan
// capacity so the operator can judge whether reassignment is viable.
// POST /api/v1/admin/businesses/check-url
func (ctrl *AdminController) CheckURL(c *gin.Context) {
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
		if errors.Is(err, service.ErrInvalidReviewURL) {
			apperrors.BadRequest(c, apperrors.URLInvalid, "That does not look like a Google Maps review link")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, true)
		return
	}

	if resolution.Branch != service.BranchURLFree {
		apperrors.RespondWithErrorDetails(c, http.StatusConflict, apperrors.URLDuplicateAdminFlow,
			"This review URL is already claimed", resolution)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  resolution,
	})
}

// Restore reverses an archive: the business returns to its pre-archive
// owner and state from the stored snapshot. If the URL has been claimed by
// someone else in the meantime, the restored record comes back parked.
// POST /api/v1/admin/businesses/:id/restore
func (ctrl *AdminController) Restore(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := currentUser(c, ctrl.authService)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	business, err := ctrl.resolver.Restore(actor, id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBusinessNotFound):
			apperrors.NotFound(c, apperrors.BusinessNotFound, "Business not found")
		case errors.Is(err, service.ErrNoPreviousState):
			apperrors.Conflict(c, apperrors.BusinessNoPreviousState, "This business has no archive snapshot to restore")
		case errors.Is(err, service.ErrDuplicateOwnURL):
			apperrors.Conflict(c, apperrors.URLDuplicateOwn, "The previous owner already reuses this review URL")
		default:
			log.Error("Restore failed", err, map[string]interface{}{
				"business_id": id,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, true)
		}
		return
	}

	log.Info("Business restored", map[string]interface{}{
		"business_id": business.ID,
		"owner_id":    business.UserID,
		"status":      business.Status,
		"admin_id":    actor.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"business": business,
	})
}

// Reassign hands an archived business to a different owner
// POST /api/v1/admin/businesses/:id/reassign
func (ctrl *AdminController) Reassign(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := currentUser(c, ctrl.authService)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req ReassignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "target_user_id is required")
		return
	}

	business, err := ctrl.resolver.Reassign(actor, id, req.TargetUserID, req.Reactivate)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBusinessNotFound):
			apperrors.NotFound(c, apperrors.BusinessNotFound, "Business not found")
		case errors.Is(err, service.ErrTargetUserNotFound):
			apperrors.NotFound(c, apperrors.UserNotFound, "Target user not found")
		case errors.Is(err, service.ErrDuplicateOwnURL):
			apperrors.Conflict(c, apperrors.URLDuplicateOwn, "The target user already uses this review URL")
		default:
			log.Error("Reassign failed", err, map[string]interface{}{
				"business_id":    id,
				"target_user_id": req.TargetUserID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, true)
		}
		return
	}

	log.Info("Business reassigned", map[string]interface{}{
		"business_id": business.ID,
		"new_owner":   business.UserID,
		"admin_id":    actor.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"business": business,
	})
}

// HardDelete permanently removes a business and its dependents
// DELETE /api/v1/admin/businesses/:id
func (ctrl *AdminController) HardDelete(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := currentUser(c, ctrl.authService)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.businessService.HardDelete(actor, id); err != nil {
		switch {
		case errors.Is(err, service.ErrBusinessNotFound):
			apperrors.NotFound(c, apperrors.BusinessNotFound, "Business not found")
		case errors.Is(err, service.ErrBusinessAccessDenied):
			apperrors.Forbidden(c, "")
		default:
			log.Error("Hard delete failed", err, map[string]interface{}{
				"business_id": id,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, true)
		}
		return
	}

	log.Info("Business permanently deleted", map[string]interface{}{
		"business_id": id,
		"admin_id":    actor.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Business permanently deleted",
	})
}

// Export streams an xlsx workbook of businesses matching the filter
// GET /api/v1/admin/businesses/export
func (ctrl *AdminController) Export(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := ctrl.businessFilter(c)

	file, err := ctrl.adminService.ExportBusinesses(filter)
	if err != nil {
		log.Error("Export failed", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, true)
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+service.ExportFilename(filter))
	if err := file.Write(c.Writer); err != nil {
		log.Error("Failed to write export", err, nil)
	}
}

// Activity returns recent audit entries
// GET /api/v1/admin/activity
func (ctrl *AdminController) Activity(c *gin.Context) {
	filter := repository.ActivityFilter{
		Action: c.Query("action"),
		Limit:  50,
	}
	if id, err := pathQueryUint(c, "business_id"); err == nil && id != 0 {
		filter.BusinessID = &id
	}

	entries, err := ctrl.activityService.ListRecent(filter)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, true)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"activity": entries,
	})
}

// Feed upgrades the connection to the live activity websocket
// GET /api/v1/admin/feed
func (ctrl *AdminController) Feed(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	conn, err := feedUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WebSocket upgrade failed", err, map[string]interface{}{
			"user_id": userID,
		})
		return
	}

	client := &websocket.Client{
		Hub:    ctrl.hub,
		Conn:   &websocket.Conn{Conn: conn},
		UserID: userID,
		Send:   make(chan []byte, 64),
	}
	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}

func (ctrl *AdminController) businessFilter(c *gin.Context) repository.BusinessFilter {
	filter := repository.BusinessFilter{
		Search:   c.Query("search"),
		Status:   model.BusinessStatus(c.Query("status")),
		Category: c.Query("category"),
	}
	if id, err := pathQueryUint(c, "owner_id"); err == nil && id != 0 {
		filter.OwnerID = &id
	}
	return filter
}
