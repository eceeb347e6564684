package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"spurningar/internal/config"
	"spurningar/internal/db"
	"spurningar/internal/jobs"
	"spurningar/internal/router"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, reading env vars from system")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	// Database
	gdb, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Database error: %v", err)
	}

	// Services
	svc := router.Build(gdb, cfg)

	// Background housekeeping
	scheduler := jobs.NewScheduler(svc.Limiter)
	scheduler.Start()
	defer scheduler.Stop()

	// HTTP
	r := gin.Default()

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("spurningar_session", store))

	// The SPA lives on another origin and sends the session cookie along
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
	}))

	router.RegisterRoutes(r, gdb, svc)

	log.Printf("spurningar server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
