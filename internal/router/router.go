package router

import (
	"github.com/gin-gonic/gin"
	"github.com/reviewboost/reviewboost-backend/config"
	"github.com/reviewboost/reviewboost-backend/internal/app/controller"
	"github.com/reviewboost/reviewboost-backend/internal/app/model"
	"github.com/reviewboost/reviewboost-backend/internal/middleware"
)

type Router struct {
	authController     *controller.AuthController
	businessController *controller.BusinessController
	reviewController   *controller.ReviewController
	funnelController   *controller.FunnelController
	employeeController *controller.EmployeeController
	adminController    *controller.AdminController
	uploadController   *controller.UploadController
	planController     *controller.PlanController
	authMiddleware     *middleware.AuthMiddleware
	generateLimiter    *middleware.RateLimiter
	config             *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	businessController *controller.BusinessController,
	reviewController *controller.ReviewController,
	funnelController *controller.FunnelController,
	employeeController *controller.EmployeeController,
	adminController *controller.AdminController,
	uploadController *controller.UploadController,
	planController *controller.PlanController,
	authMiddleware *middleware.AuthMiddleware,
	generateLimiter *middleware.RateLimiter,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:     authController,
		businessController: businessController,
		reviewController:   reviewController,
		funnelController:   funnelController,
		employeeController: employeeController,
		adminController:    adminController,
		uploadController:   uploadController,
		planController:     planController,
		authMiddleware:     authMiddleware,
		generateLimiter:    generateLimiter,
		config:             cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "ReviewBoost API is running",
		})
	})

	// public funnel redirect, the path printed on QR codes
	router.GET("/r/:slug", r.funnelController.Redirect)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.Me)
			auth.PUT("/me", r.authMiddleware.Authenticate(), r.authController.UpdateProfile)
		}

		v1.GET("/plans", r.planController.List)

		businesses := v1.Group("/businesses", r.authMiddleware.Authenticate())
		{
			businesses.GET("", r.businessController.List)
			businesses.POST("", r.businessController.Create)
			// dry-run URL validation, no persistence
			businesses.PUT("", r.businessController.CheckURL)
			businesses.GET("/:id", r.businessController.Get)
			businesses.PUT("/:id", r.businessController.Update)
			businesses.DELETE("/:id", r.businessController.Delete)

			businesses.GET("/:id/templates", r.reviewController.ListTemplates)
			businesses.POST("/:id/templates/generate",
				r.generateLimiter.Limit(),
				r.reviewController.Generate,
			)

			businesses.GET("/:id/employees", r.employeeController.List)
			businesses.POST("/:id/employees", r.employeeController.Add)
			businesses.DELETE("/:id/employees/:employeeId", r.employeeController.Remove)

			businesses.POST("/:id/logo/presign", r.uploadController.PresignLogo)
		}

		admin := v1.Group("/admin",
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireRole(string(model.RoleAdmin), string(model.RoleSuperAdmin)),
		)
		{
			admin.GET("/businesses", r.adminController.ListBusinesses)
			admin.GET("/businesses/export", r.adminController.Export)
			admin.POST("/businesses/check-url", r.adminController.CheckURL)
			admin.POST("/businesses/:id/restore", r.adminController.Restore)
			admin.POST("/businesses/:id/reassign", r.adminController.Reassign)
			admin.DELETE("/businesses/:id", r.adminController.HardDelete)
			admin.GET("/users", r.adminController.ListUsers)
			admin.GET("/activity", r.adminController.Activity)
			admin.GET("/feed", r.adminController.Feed)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
