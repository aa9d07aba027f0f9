package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/T0nystoyz/ExploreWithMe/config"
	"github.com/T0nystoyz/ExploreWithMe/database"
	"github.com/T0nystoyz/ExploreWithMe/internal/auditlog"
	"github.com/T0nystoyz/ExploreWithMe/internal/auth"
	"github.com/T0nystoyz/ExploreWithMe/internal/category"
	"github.com/T0nystoyz/ExploreWithMe/internal/comment"
	"github.com/T0nystoyz/ExploreWithMe/internal/compilation"
	"github.com/T0nystoyz/ExploreWithMe/internal/event"
	"github.com/T0nystoyz/ExploreWithMe/internal/participation"
	"github.com/T0nystoyz/ExploreWithMe/internal/reports"
	"github.com/T0nystoyz/ExploreWithMe/internal/stats"
	"github.com/T0nystoyz/ExploreWithMe/internal/user"
	"github.com/T0nystoyz/ExploreWithMe/middleware"
	"github.com/T0nystoyz/ExploreWithMe/utils"

	_ "github.com/T0nystoyz/ExploreWithMe/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Setup wires repositories, services and handlers onto the router. The public
// surface needs no auth; /users/* takes the caller identity from the path,
// matching the gateway contract; /admin/* requires an ADMIN JWT.
func Setup(r *gin.Engine, cfg *config.Config) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "app": cfg.AppName})
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.RateLimiter(utils.RedisClient))

	// ===========================
	// 🧱 Repositories & services

	auditRepo := auditlog.NewRepository(database.DB)
	auditSvc := auditlog.NewService(auditRepo)
	auditHandler := auditlog.NewHandler(auditSvc)

	userRepo := user.NewRepository(database.DB)
	userSvc := user.NewService(userRepo, auditSvc)
	userHandler := user.NewHandler(userSvc)

	authSvc := auth.NewService(userRepo, cfg)
	authHandler := auth.NewHandler(authSvc)

	catRepo := category.NewRepository(database.DB)
	catSvc := category.NewService(catRepo, auditSvc)
	catHandler := category.NewHandler(catSvc)

	statsClient := stats.NewClient(cfg.AppName, cfg.StatsURL, utils.KafkaWriter, utils.RedisClient,
		time.Duration(cfg.ViewCacheTTLSecs)*time.Second)

	eventRepo := event.NewRepository(database.DB)
	eventSvc := event.NewService(eventRepo, catRepo, userRepo, statsClient, auditSvc)
	eventHandler := event.NewHandler(eventSvc)

	partRepo := participation.NewRepository(database.DB)
	partSvc := participation.NewService(partRepo, eventRepo, userRepo, auditSvc)
	partHandler := participation.NewHandler(partSvc)

	compRepo := compilation.NewRepository(database.DB)
	compSvc := compilation.NewService(compRepo, eventRepo, auditSvc)
	compHandler := compilation.NewHandler(compSvc)

	commentRepo := comment.NewRepository(database.DB)
	commentSvc := comment.NewService(commentRepo, eventRepo, userRepo, auditSvc)
	commentHandler := comment.NewHandler(commentSvc)

	reportsSvc := reports.NewService(eventRepo, reports.NewExporter(), auditSvc)
	reportsHandler := reports.NewHandler(reportsSvc)

	// ===========================
	// 🔐 Auth

	r.POST("/auth/login", authHandler.Login)

	// ===========================
	// 🌐 Public surface

	r.GET("/events", eventHandler.PublicSearch)
	r.GET("/events/:eventId", eventHandler.GetPublicEvent)
	r.GET("/events/:eventId/comments", commentHandler.ListApprovedComments)

	r.GET("/categories", catHandler.ListCategories)
	r.GET("/categories/:catId", catHandler.GetCategory)

	r.GET("/compilations", compHandler.ListCompilations)
	r.GET("/compilations/:compId", compHandler.GetCompilation)

	// ===========================
	// 👤 Private surface (identity from path)

	users := r.Group("/users/:userId")
	{
		users.GET("/events", eventHandler.ListOwnEvents)
		users.POST("/events", eventHandler.CreateEvent)
		users.PATCH("/events", eventHandler.UpdateEvent)
		users.GET("/events/:eventId", eventHandler.GetOwnEvent)
		users.PATCH("/events/:eventId", eventHandler.CancelEvent)

		users.GET("/events/:eventId/requests", partHandler.ListEventRequests)
		users.PATCH("/events/:eventId/requests/:reqId/confirm", partHandler.ConfirmRequest)
		users.PATCH("/events/:eventId/requests/:reqId/reject", partHandler.RejectRequest)

		users.GET("/requests", partHandler.ListOwnRequests)
		users.POST("/requests", partHandler.CreateRequest)
		users.PATCH("/requests/:requestId/cancel", partHandler.CancelRequest)

		users.POST("/comments", commentHandler.CreateComment)
		users.PATCH("/comments/:commentId", commentHandler.UpdateComment)
		users.DELETE("/comments/:commentId", commentHandler.DeleteOwnComment)
	}

	// ===========================
	// 🛡️ Admin surface

	admin := r.Group("/admin", middleware.AuthMiddleware(cfg), middleware.RequireAdmin())
	{
		admin.GET("/users", userHandler.ListUsers)
		admin.POST("/users", userHandler.CreateUser)
		admin.DELETE("/users/:userId", userHandler.DeleteUser)

		admin.POST("/categories", catHandler.CreateCategory)
		admin.PATCH("/categories/:catId", catHandler.UpdateCategory)
		admin.DELETE("/categories/:catId", catHandler.DeleteCategory)

		admin.GET("/events", eventHandler.AdminSearch)
		admin.PUT("/events/:eventId", eventHandler.AdminUpdateEvent)
		admin.PATCH("/events/:eventId/publish", eventHandler.PublishEvent)
		admin.PATCH("/events/:eventId/reject", eventHandler.RejectEvent)

		admin.POST("/compilations", compHandler.CreateCompilation)
		admin.DELETE("/compilations/:compId", compHandler.DeleteCompilation)
		admin.PATCH("/compilations/:compId/events/:eventId", compHandler.AddEvent)
		admin.DELETE("/compilations/:compId/events/:eventId", compHandler.RemoveEvent)
		admin.PATCH("/compilations/:compId/pin", compHandler.PinCompilation)
		admin.DELETE("/compilations/:compId/pin", compHandler.UnpinCompilation)

		admin.GET("/comments", commentHandler.AdminListComments)
		admin.DELETE("/comments/:commentId", commentHandler.AdminDeleteComment)
		admin.PATCH("/comments/:commentId/approve", commentHandler.ApproveComment)
		admin.PATCH("/comments/:commentId/reject", commentHandler.RejectComment)

		admin.GET("/auditlogs", auditHandler.GetAuditLogs)
		admin.GET("/auditlogs/:id", auditHandler.GetAuditLogByID)

		admin.GET("/reports/events", reportsHandler.EventsReport)
	}
}
