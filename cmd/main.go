package main

import (
	"fmt"
	"log"
	"time"

	"github.com/gin-contrib/cors"
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
	"github.com/T0nystoyz/ExploreWithMe/internal/user"
	"github.com/T0nystoyz/ExploreWithMe/routes"
	"github.com/T0nystoyz/ExploreWithMe/utils"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg)

	// Init Redis
	if err := utils.InitRedis(cfg); err != nil {
		log.Printf("⚠️ Redis init failed, view cache and rate limiter run degraded: %v", err)
	}

	// Init Kafka
	utils.InitializeKafka(cfg)
	defer utils.CloseKafka()

	// Auto-migrate models
	log.Println("🔄 Running database migrations...")
	if err := db.AutoMigrate(
		&user.User{},
		&category.Category{},
		&event.Event{},
		&participation.ParticipationRequest{},
		&compilation.Compilation{},
		&comment.Comment{},
		&auditlog.AuditLog{},
	); err != nil {
		panic(fmt.Sprintf("❌ DB AutoMigrate failed: %v", err))
	}
	log.Println("✅ Database migrations completed")

	// Seed admin account
	auth.SeedAdminUser(db, cfg)

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://127.0.0.1:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Content-Length", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.Setup(router, cfg)

	log.Printf("🚀 %s listening on :%s", cfg.AppName, cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}
