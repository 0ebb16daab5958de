package main

import (
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"civicBack/internal/config"
	"civicBack/internal/handlers"
	"civicBack/internal/ratelimit"
	"civicBack/internal/repositories"
	"civicBack/internal/services"
	"civicBack/utils"
)

type application struct {
	errorLog *log.Logger
	infoLog  *log.Logger
	cfg      config.Config

	userRepo      *repositories.UserRepository
	complaintRepo *repositories.ComplaintRepository
	upvoteRepo    *repositories.UpvoteRepository

	userHandler      *handlers.UserHandler
	complaintHandler *handlers.ComplaintHandler
	upvoteHandler    *handlers.UpvoteHandler

	wsManager    *WebSocketManager
	tokenManager *utils.Manager
	db           *sql.DB
}

func initializeApp(db *sql.DB, cfg config.Config, errorLog, infoLog *log.Logger) *application {
	// Repositories
	userRepo := &repositories.UserRepository{DB: db}
	complaintRepo := &repositories.ComplaintRepository{DB: db}
	upvoteRepo := &repositories.UpvoteRepository{DB: db}

	wsManager := NewWebSocketManager()

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
		})
	}
	limiter := ratelimit.New(rdb, cfg.RateLimit.Votes, time.Duration(cfg.RateLimit.Window)*time.Second)

	var classifier *services.ClassifierService
	if cfg.OpenAI.APIKey != "" {
		model := cfg.OpenAI.Model
		if model == "" {
			model = "gpt-4o-mini"
		}
		classifier = &services.ClassifierService{
			Client: services.NewOpenAIClient(&http.Client{Timeout: 30 * time.Second}, cfg.OpenAI.APIKey),
			Model:  model,
		}
	}

	var photoStorage *utils.S3Storage
	if cfg.S3.Bucket != "" {
		photoStorage = utils.NewS3Storage(utils.S3Config{
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			PublicURL: cfg.S3.PublicURL,
		})
	}

	tokenManager, err := utils.NewManager(cfg.Auth.SigningKey)
	if err != nil {
		errorLog.Fatal(err)
	}

	// Services
	userService := &services.UserService{
		UserRepo:     userRepo,
		TokenManager: tokenManager,
		SigningKey:   cfg.Auth.SigningKey,
	}
	complaintService := &services.ComplaintService{
		ComplaintRepo: complaintRepo,
		Classifier:    classifier,
		Events:        wsManager,
	}
	upvoteService := &services.UpvoteService{
		ComplaintRepo: complaintRepo,
		UpvoteRepo:    upvoteRepo,
		Events:        wsManager,
	}

	// Handlers
	return &application{
		errorLog:      errorLog,
		infoLog:       infoLog,
		cfg:           cfg,
		userRepo:      userRepo,
		complaintRepo: complaintRepo,
		upvoteRepo:    upvoteRepo,
		userHandler:   &handlers.UserHandler{Service: userService},
		complaintHandler: &handlers.ComplaintHandler{
			Service: complaintService,
			Storage: photoStorage,
		},
		upvoteHandler: &handlers.UpvoteHandler{
			Service: upvoteService,
			Limiter: limiter,
		},
		wsManager:    wsManager,
		tokenManager: tokenManager,
		db:           db,
	}
}
