package di

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/nnhurricane156/phygen-portal/internal/api"
	"github.com/nnhurricane156/phygen-portal/internal/authtoken"
	"github.com/nnhurricane156/phygen-portal/internal/client"
	"github.com/nnhurricane156/phygen-portal/internal/config"
	"github.com/nnhurricane156/phygen-portal/internal/google"
	"github.com/nnhurricane156/phygen-portal/internal/handler"
	"github.com/nnhurricane156/phygen-portal/internal/logger"
	"github.com/nnhurricane156/phygen-portal/internal/session"
	"github.com/nnhurricane156/phygen-portal/internal/tokenstore"
)

// Container holds all dependencies for the portal
type Container struct {
	// Infrastructure
	Store      tokenstore.Store
	Inspector  *authtoken.Inspector
	Redirector *session.Redirector
	Client     *client.Client

	// Session lifecycle
	Scheduler  *session.Scheduler
	Provider   *google.Provider
	Controller *session.Controller

	// Backend APIs
	Chapters  *api.ChapterAPI
	Topics    *api.TopicAPI
	Exams     *api.ExamAPI
	Questions *api.QuestionAPI
	Users     *api.UserAPI

	// Handlers
	AuthHandler     *handler.AuthHandler
	CatalogHandler  *handler.CatalogHandler
	ExamHandler     *handler.ExamHandler
	QuestionHandler *handler.QuestionHandler
	UserHandler     *handler.UserHandler
	HealthHandler   *handler.HealthHandler
}

// NewContainer creates a new dependency injection container
func NewContainer(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build token store: %w", err)
	}

	c := &Container{
		Store:      store,
		Inspector:  authtoken.New(),
		Redirector: session.NewRedirector(log),
	}

	c.Client = client.New(&client.Config{
		BaseURL:             cfg.Backend.BaseURL,
		RequestTimeout:      cfg.Backend.RequestTimeout,
		TransferBaseTimeout: cfg.Backend.TransferBaseTimeout,
		TransferPerMB:       cfg.Backend.TransferPerMB,
	}, c.Store, c.Redirector, log)

	c.Scheduler = session.NewScheduler(c.Store, c.Inspector, c.Redirector, log)
	c.Provider = google.NewProvider(cfg.Google.ClientID, log)
	c.Controller = session.NewController(
		c.Store, c.Inspector, c.Scheduler, c.Client, c.Provider, c.Redirector, log,
	)

	// Backend APIs
	c.Chapters = api.NewChapterAPI(c.Client)
	c.Topics = api.NewTopicAPI(c.Client)
	c.Exams = api.NewExamAPI(c.Client, c.Chapters, c.Topics, log)
	c.Questions = api.NewQuestionAPI(c.Client)
	c.Users = api.NewUserAPI(c.Client)

	// Handlers
	c.AuthHandler = handler.NewAuthHandler(c.Controller, c.Redirector)
	c.CatalogHandler = handler.NewCatalogHandler(c.Chapters, c.Topics)
	c.ExamHandler = handler.NewExamHandler(c.Exams)
	c.QuestionHandler = handler.NewQuestionHandler(c.Questions)
	c.UserHandler = handler.NewUserHandler(c.Users)
	c.HealthHandler = handler.NewHealthHandler(c.Controller)

	return c, nil
}

// buildStore picks the token store backend from configuration.
func buildStore(ctx context.Context, cfg *config.Config) (tokenstore.Store, error) {
	switch cfg.Session.StoreBackend {
	case "memory":
		return tokenstore.NewMemory(), nil
	case "redis":
		return tokenstore.NewRedis(ctx, &tokenstore.RedisConfig{
			Addr:         cfg.Redis.Addr(),
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			KeyPrefix:    cfg.Session.RedisKeyPrefix,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
	default:
		return tokenstore.NewFile(cfg.Session.StateDir)
	}
}

// RegisterRoutes mounts the portal's local API on the router.
func (c *Container) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", c.HealthHandler.Health)

	apiGroup := r.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			auth.POST("/login", c.AuthHandler.Login)
			auth.POST("/google-login", c.AuthHandler.GoogleLogin)
			auth.POST("/register", c.AuthHandler.Register)
			auth.POST("/logout", c.AuthHandler.Logout)
			auth.GET("/me", c.AuthHandler.Me)
		}

		apiGroup.GET("/chapters", c.CatalogHandler.ListChapters)
		apiGroup.GET("/chapters/:id", c.CatalogHandler.GetChapter)
		apiGroup.GET("/topics", c.CatalogHandler.ListTopics)
		apiGroup.GET("/topics/:id", c.CatalogHandler.GetTopic)

		exams := apiGroup.Group("/exams")
		{
			exams.POST("/generate-from-selection", c.ExamHandler.GenerateFromSelection)
			exams.POST("/generate-from-prompt", c.ExamHandler.GenerateFromPrompt)
			exams.GET("", c.ExamHandler.ListMine)
			exams.GET("/:id", c.ExamHandler.Get)
			exams.PUT("/:id", c.ExamHandler.Update)
			exams.DELETE("/:id", c.ExamHandler.Delete)
			exams.GET("/:id/download-word", c.ExamHandler.DownloadWord)
		}

		questions := apiGroup.Group("/questions")
		{
			questions.GET("", c.QuestionHandler.List)
			questions.POST("", c.QuestionHandler.Save)
			questions.POST("/process-image", c.QuestionHandler.ProcessImage)
		}

		users := apiGroup.Group("/users")
		{
			users.GET("", c.UserHandler.List)
			users.GET("/by-role/:role", c.UserHandler.ListByRole)
			users.GET("/:id", c.UserHandler.Get)
			users.PUT("/:id", c.UserHandler.Update)
			users.PATCH("/:id/deactivate", c.UserHandler.Deactivate)
		}
	}
}

// Close releases infrastructure owned by the container.
func (c *Container) Close() {
	c.Scheduler.Stop()
	if closer, ok := c.Store.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
}
