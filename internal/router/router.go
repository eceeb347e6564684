package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"spurningar/internal/config"
	"spurningar/internal/handlers"
	"spurningar/internal/middleware"
	"spurningar/internal/services"
)

// Services is the composition root: every state service of the
// application, wired once and injected into the handlers.
type Services struct {
	Identity  *services.IdentityService
	Tracker   *services.ContributionTracker
	Limiter   *services.VoteLimiter
	Questions *services.QuestionService
	Answers   *services.AnswerService
	Publisher *services.Publisher
	Generator *services.Generator
	Speech    *services.SpeechService
}

// Build wires the services against one database handle.
func Build(db *gorm.DB, cfg *config.Config) *Services {
	tracker := services.NewContributionTracker(db)
	limiter := services.NewVoteLimiter(db)
	return &Services{
		Identity:  services.NewIdentityService(db, cfg.AdminEmailSuffix),
		Tracker:   tracker,
		Limiter:   limiter,
		Questions: services.NewQuestionService(db, limiter, tracker),
		Answers:   services.NewAnswerService(db, limiter, tracker),
		Publisher: services.NewPublisher(db, cfg.PublishURL, cfg.PublishTimeout),
		Generator: services.NewGenerator(cfg.LLMBaseURL, cfg.LLMToken, cfg.LLMModel, cfg.LLMTimeout),
		Speech:    services.NewSpeechService(cfg.SpeechURL, cfg.SpeechVoice, cfg.SpeechTimeout),
	}
}

// RegisterRoutes mounts the API on the engine.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, svc *Services) {
	authHandler := handlers.NewAuthHandler(svc.Identity, svc.Limiter)
	questionHandler := handlers.NewQuestionHandler(svc.Questions, svc.Answers)
	adminHandler := handlers.NewAdminHandler(svc.Questions, svc.Identity, svc.Limiter, svc.Publisher)
	collabHandler := handlers.NewCollabHandler(svc.Generator, svc.Speech)

	r.Use(middleware.EnsureInstallID())
	r.Use(middleware.LoadUser(db))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout)
	api.GET("/me", authHandler.Me)
	api.GET("/questions", questionHandler.List)
	api.GET("/questions/:qid", questionHandler.Detail)

	// Routes that need an identity
	authorized := api.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.PUT("/auth/profile", authHandler.UpdateProfile)
		authorized.POST("/questions", questionHandler.Create)
		authorized.POST("/questions/:qid/vote", questionHandler.Vote)
		authorized.POST("/questions/:qid/answers", questionHandler.CreateAnswer)
		authorized.POST("/answers/:aid/vote", questionHandler.VoteAnswer)
		authorized.POST("/generate", collabHandler.Generate)
		authorized.POST("/speech", collabHandler.Speak)

		// Admin-only; the services themselves reject non-admin actors
		authorized.DELETE("/questions/:qid", adminHandler.DeleteQuestion)
		authorized.POST("/questions/:qid/votes", adminHandler.InjectVotes)
		authorized.PUT("/questions/:qid/category", adminHandler.UpdateCategory)
		authorized.POST("/questions/:qid/publish", adminHandler.Publish)
		authorized.POST("/admin/reset-vote-budget", adminHandler.ResetVoteBudget)
		authorized.POST("/admin/users/:id/promote", adminHandler.PromoteUser)
	}
}
