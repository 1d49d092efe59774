package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/vinealms/vinea-backend/internal/config"
	"github.com/vinealms/vinea-backend/internal/handler"
	"github.com/vinealms/vinea-backend/internal/middleware"
	"github.com/vinealms/vinea-backend/internal/response"
	"github.com/vinealms/vinea-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	QuizPortal *handler.QuizPortalHandler
	Course     *handler.CourseHandler
	QuizAdmin  *handler.QuizAdminHandler
	Submission *handler.SubmissionHandler
	Dashboard  *handler.DashboardHandler
	WS         *handler.WSHandler
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
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

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
		auth.POST("/signup", handlers.Auth.Signup)
		auth.POST("/login", handlers.Auth.Login)

		// Authenticated profile route: any valid token type works.
		auth.GET("/me", middleware.RequireJWT(authService), handlers.Auth.GetProfile)
	}

	// ─── 2. Learner Group (JWT) ────────────────────────────────────────
	learnerAPI := router.Group("/api/v1/learner")
	learnerAPI.Use(middleware.RequireLearnerJWT(authService))
	{
		learnerAPI.GET("/courses", handlers.QuizPortal.ListCourses)
		learnerAPI.GET("/courses/:course_id/chapters/:chapter/paper", handlers.QuizPortal.GetChapterPaper)
		learnerAPI.GET("/quizzes", handlers.QuizPortal.ListQuizzes)
		learnerAPI.GET("/quizzes/:quiz_id/paper", handlers.QuizPortal.GetPaper)
		learnerAPI.GET("/quizzes/:quiz_id/draft", handlers.QuizPortal.GetDraft)
		learnerAPI.PUT("/quizzes/:quiz_id/draft", handlers.QuizPortal.SaveDraft)
		learnerAPI.POST("/quizzes/:quiz_id/submit", handlers.QuizPortal.Submit)
		learnerAPI.GET("/submissions", handlers.QuizPortal.ListMySubmissions)
		learnerAPI.GET("/submissions/:submission_id", handlers.QuizPortal.GetMySubmission)
	}

	// ─── 3. WebSocket Group (Admin WS Auth) ────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireAdminWSAuth(authService))
	{
		ws.GET("/admin/submissions/feed", handlers.WS.SubmissionFeed)
	}

	// ─── 4. Admin Group (JWT) ──────────────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdminJWT(authService))
	{
		// Course catalog
		adminAPI.GET("/courses", handlers.Course.List)
		adminAPI.GET("/courses/:course_id", handlers.Course.Get)
		adminAPI.POST("/courses", handlers.Course.Create)
		adminAPI.PUT("/courses/:course_id", handlers.Course.Update)
		adminAPI.DELETE("/courses/:course_id", handlers.Course.Delete)

		// Quiz authoring
		adminAPI.GET("/quizzes", handlers.QuizAdmin.List)
		adminAPI.GET("/quizzes/:quiz_id", handlers.QuizAdmin.Get)
		adminAPI.POST("/quizzes", handlers.QuizAdmin.Create)
		adminAPI.PUT("/quizzes/:quiz_id", handlers.QuizAdmin.Update)
		adminAPI.DELETE("/quizzes/:quiz_id", handlers.QuizAdmin.Delete)
		adminAPI.POST("/quizzes/:quiz_id/publish", handlers.QuizAdmin.Publish)
		adminAPI.POST("/quizzes/:quiz_id/unpublish", handlers.QuizAdmin.Unpublish)

		// Submission review
		adminAPI.GET("/submissions", handlers.Submission.List)
		adminAPI.GET("/submissions/:submission_id", handlers.Submission.Get)
		adminAPI.POST("/submissions/:submission_id/grade", handlers.Submission.Grade)
		adminAPI.POST("/submissions/:submission_id/grade-question", handlers.Submission.GradeQuestion)
		adminAPI.POST("/submissions/:submission_id/toggle-status", handlers.Submission.ToggleStatus)
		adminAPI.GET("/submissions/:submission_id/export", handlers.Submission.Export)
		adminAPI.DELETE("/submissions/:submission_id", handlers.Submission.Delete)

		// Dashboard
		adminAPI.GET("/dashboard", handlers.Dashboard.GetStats)
	}

	return router
}
