// Package routes assembles the HTTP API: repositories, services, handlers
// and the route table.
package routes

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/cloudvorkala/SPEED/config"
	"github.com/cloudvorkala/SPEED/handlers"
	"github.com/cloudvorkala/SPEED/helper"
	"github.com/cloudvorkala/SPEED/middleware"
	"github.com/cloudvorkala/SPEED/policy"
	"github.com/cloudvorkala/SPEED/repositories"
	"github.com/cloudvorkala/SPEED/services"
)

// New builds the engine. rdb may be nil, which disables token revocation.
func New(cfg config.Config, db *gorm.DB, rdb *redis.Client, logger *slog.Logger) *gin.Engine {
	g := gin.New()
	g.Use(middleware.RequestID(), middleware.RequestLogger(logger), gin.Recovery())
	attachRoutes(g, cfg, db, rdb, logger)
	return g
}

func attachRoutes(r *gin.Engine, cfg config.Config, db *gorm.DB, rdb *redis.Client, logger *slog.Logger) {
	r.Use(cors.New(corsConfig(cfg.Server.AllowedOrigins)))

	userRepo := repositories.NewUserRepository(db)
	articleRepo := repositories.NewArticleRepository(db)
	practiceRepo := repositories.NewPracticeRepository(db)
	claimRepo := repositories.NewClaimRepository(db)
	evidenceRepo := repositories.NewEvidenceRepository(db)
	savedQueryRepo := repositories.NewSavedQueryRepository(db)

	var sessions repositories.SessionRepository
	if rdb != nil {
		sessions = repositories.NewSessionRepository(rdb)
	}

	authService := services.NewAuthService(userRepo, sessions, cfg.Auth.JWTSecret, cfg.Auth.JWTExpiration, logger)
	articleService := services.NewArticleService(articleRepo, logger)
	analysisService := services.NewAnalysisService(articleRepo, logger)
	userService := services.NewUserService(userRepo, sessions, cfg.Auth.JWTExpiration, logger)
	practiceService := services.NewPracticeService(practiceRepo, evidenceRepo)
	claimService := services.NewClaimService(claimRepo, practiceRepo)
	evidenceService := services.NewEvidenceService(evidenceRepo, articleRepo, claimRepo, logger)
	savedQueryService := services.NewSavedQueryService(savedQueryRepo, evidenceRepo)
	dashboardService := services.NewDashboardService(articleRepo, userRepo, practiceRepo, evidenceRepo)

	h := helper.NewHTTPHelper()
	authHandler := handlers.NewAuthHandler(authService, h)
	articleHandler := handlers.NewArticleHandler(articleService, h)
	analysisHandler := handlers.NewAnalysisHandler(analysisService, h)
	userHandler := handlers.NewUserHandler(userService, dashboardService, h)
	practiceHandler := handlers.NewPracticeHandler(practiceService, claimService, h)
	evidenceHandler := handlers.NewEvidenceHandler(evidenceService, savedQueryService, h)

	authRequired := middleware.AuthMiddleware(authService)
	requireAdmin := middleware.RequireRole(policy.Admin)
	requireModerator := middleware.RequireRole(policy.Moderator)
	requireAnalyst := middleware.RequireRole(policy.Analyst)
	requireCurator := middleware.RequireRole(policy.Moderator, policy.Admin)
	requireEditor := middleware.RequireRole(policy.Admin, policy.Analyst)
	requireStaff := middleware.RequireRole(policy.Admin, policy.Moderator, policy.Analyst)

	health := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	}
	r.GET("/health", health)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", health)

		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authRequired, authHandler.Logout)
		}

		v1.GET("/profile", authRequired, authHandler.GetProfile)

		articles := v1.Group("/articles")
		{
			articles.GET("", articleHandler.GetArticles)
			articles.POST("/submit", authRequired, articleHandler.SubmitArticle)
			articles.POST("", authRequired, requireCurator, articleHandler.CreateArticle)
			articles.GET("/pending", authRequired, requireModerator, articleHandler.GetPendingArticles)
			articles.GET("/pending/count", authRequired, requireModerator, articleHandler.CountPendingArticles)
			articles.GET("/analyzed", authRequired, requireStaff, articleHandler.GetAnalyzedArticles)
			articles.GET("/:id", articleHandler.GetArticle)
			articles.PUT("/:id", authRequired, requireCurator, articleHandler.UpdateArticle)
			articles.POST("/:id/moderate", authRequired, requireModerator, articleHandler.ModerateArticle)
			articles.PUT("/:id/status", authRequired, requireAdmin, articleHandler.UpdateStatus)
			articles.PUT("/:id/rate", authRequired, articleHandler.RateArticle)
			articles.DELETE("/:id", authRequired, requireAdmin, articleHandler.DeleteArticle)
		}

		analysis := v1.Group("/analysis", authRequired)
		{
			analysis.GET("/articles", requireAnalyst, analysisHandler.GetArticlesForAnalysis)
			analysis.GET("/articles/:id", requireStaff, analysisHandler.GetArticleAnalysis)
			analysis.POST("/articles/:id", requireAnalyst, analysisHandler.AnalyzeArticle)
			analysis.GET("/rejected", requireCurator, analysisHandler.GetRejectedArticles)
			analysis.GET("/stats", requireAnalyst, analysisHandler.GetStats)
		}

		practices := v1.Group("/practices")
		{
			practices.GET("", practiceHandler.GetPractices)
			practices.GET("/:id", practiceHandler.GetPractice)
			practices.GET("/:id/summary", practiceHandler.GetPracticeSummary)
			practices.POST("", authRequired, requireEditor, practiceHandler.CreatePractice)
			practices.PUT("/:id", authRequired, requireEditor, practiceHandler.UpdatePractice)
			practices.DELETE("/:id", authRequired, requireAdmin, practiceHandler.DeletePractice)
		}

		claims := v1.Group("/claims")
		{
			claims.GET("", practiceHandler.GetClaims)
			claims.GET("/:id", practiceHandler.GetClaim)
			claims.POST("", authRequired, requireEditor, practiceHandler.CreateClaim)
			claims.PUT("/:id", authRequired, requireEditor, practiceHandler.UpdateClaim)
			claims.DELETE("/:id", authRequired, requireAdmin, practiceHandler.DeleteClaim)
		}

		evidence := v1.Group("/evidence")
		{
			evidence.GET("", evidenceHandler.GetEvidenceList)
			evidence.GET("/:id", evidenceHandler.GetEvidence)
			evidence.POST("", authRequired, requireAnalyst, evidenceHandler.CreateEvidence)
			evidence.PUT("/:id", authRequired, requireEditor, evidenceHandler.UpdateEvidence)
			evidence.DELETE("/:id", authRequired, requireEditor, evidenceHandler.DeleteEvidence)
		}

		savedQueries := v1.Group("/saved-queries", authRequired)
		{
			savedQueries.GET("", evidenceHandler.GetSavedQueries)
			savedQueries.POST("", evidenceHandler.SaveQuery)
			savedQueries.GET("/:id/results", evidenceHandler.RunSavedQuery)
			savedQueries.DELETE("/:id", evidenceHandler.DeleteSavedQuery)
		}

		users := v1.Group("/users", authRequired, requireAdmin)
		{
			users.GET("", userHandler.GetUsers)
			users.GET("/:id", userHandler.GetUser)
			users.PUT("/:id/roles", userHandler.UpdateRoles)
			users.DELETE("/:id", userHandler.DeleteUser)
		}

		v1.GET("/admin/dashboard", authRequired, requireAdmin, userHandler.GetDashboard)
	}
}

// corsConfig allows every origin when none are configured or "*" is listed.
func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		c.AllowOrigins = nil
		c.AllowAllOrigins = true
		c.AllowCredentials = false
	}
	return c
}
