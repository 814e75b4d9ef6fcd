package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/openplanner/gradplan-backend/internal/config"
	"github.com/openplanner/gradplan-backend/internal/handler"
	"github.com/openplanner/gradplan-backend/internal/middleware"
	"github.com/openplanner/gradplan-backend/internal/response"
	"github.com/openplanner/gradplan-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth     *handler.AuthHandler
	Course   *handler.CourseHandler
	Program  *handler.ProgramHandler
	Plan     *handler.PlanHandler
	Progress *handler.ProgressHandler
	Advisor  *handler.AdvisorHandler
	WS       *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/student/login", handlers.Auth.StudentLogin)
		auth.POST("/advisor/login", handlers.Auth.AdvisorLogin)

		// Authenticated profile routes
		auth.POST("/student/logout", middleware.RequireStudentJWT(authService), handlers.Auth.StudentLogout)
		auth.GET("/student/me", middleware.RequireStudentJWT(authService), handlers.Auth.GetStudentProfile)
		auth.POST("/advisor/logout", middleware.RequireAdvisorJWT(authService), handlers.Auth.AdvisorLogout)
	}

	// ─── 2. Catalog Group (Any authenticated student) ──────────────────
	catalog := router.Group("/api/v1/catalog")
	catalog.Use(middleware.RequireStudentJWT(authService))
	{
		catalog.GET("/courses", handlers.Course.ListCourses)
		catalog.GET("/courses/:code", handlers.Course.GetCourse)
		catalog.GET("/terms", handlers.Course.ListTerms)
	}

	// ─── 3. Programs Group ─────────────────────────────────────────────
	// Reads are student-visible; writes are advisor-only.
	programs := router.Group("/api/v1/programs")
	{
		programs.GET("", middleware.RequireStudentJWT(authService), handlers.Program.List)
		programs.GET("/:id", middleware.RequireStudentJWT(authService), handlers.Program.Get)

		programs.POST("", middleware.RequireAdvisorJWT(authService), handlers.Program.Create)
		programs.PUT("/:id", middleware.RequireAdvisorJWT(authService), handlers.Program.Update)
		programs.DELETE("/:id", middleware.RequireAdvisorJWT(authService), handlers.Program.Delete)
	}

	// ─── 4. Plans Group (Student JWT, ownership checked per plan) ──────
	plans := router.Group("/api/v1/plans")
	plans.Use(middleware.RequireStudentJWT(authService))
	{
		plans.GET("", handlers.Plan.List)
		plans.POST("", handlers.Plan.Create)
		plans.GET("/:id", handlers.Plan.Get)
		plans.DELETE("/:id", handlers.Plan.Delete)

		plans.GET("/:id/courses", handlers.Plan.ListCourses)
		plans.POST("/:id/courses", handlers.Plan.AddCourse)
		plans.PUT("/:id/courses/:courseId", handlers.Plan.UpdateCourse)
		plans.DELETE("/:id/courses/:courseId", handlers.Plan.RemoveCourse)

		plans.GET("/:id/programs", handlers.Plan.ListPrograms)
		plans.POST("/:id/programs", handlers.Plan.AttachProgram)
		plans.DELETE("/:id/programs/:programId", handlers.Plan.DetachProgram)

		plans.GET("/:id/progress", handlers.Progress.GetPlanProgress)
		plans.POST("/:id/audit", handlers.Plan.TriggerAudit)
	}

	// ─── 5. Advisor Group (Advisor JWT, read-only plan views) ──────────
	advisor := router.Group("/api/v1/advisor")
	advisor.Use(middleware.RequireAdvisorJWT(authService))
	{
		advisor.GET("/students/:id/plans", handlers.Advisor.ListStudentPlans)
		advisor.GET("/plans/:id", handlers.Advisor.GetPlan)
		advisor.GET("/plans/:id/progress", handlers.Advisor.GetPlanProgress)
	}

	// ─── 6. WebSocket Group (Student WS Auth) ──────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireStudentWSAuth(authService))
	{
		ws.GET("/plans/:id/audit", handlers.WS.PlanAuditStream)
	}

	return router
}
