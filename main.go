package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"civiclens-be/config"
	"civiclens-be/controllers"
	"civiclens-be/middlewares"
	"civiclens-be/routes"
	"civiclens-be/services"
	"civiclens-be/storage"
	"civiclens-be/store"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	sugar := logger.Sugar()

	cfg, err := config.Load()
	if err != nil {
		sugar.Fatalf("Failed to load config: %v", err)
	}

	db, err := config.ConnectDB(cfg)
	if err != nil {
		sugar.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	sugar.Info("MongoDB connection established")

	rdb, err := config.ConnectRedis(cfg)
	if err != nil {
		sugar.Fatalf("Failed to connect to Redis: %v", err)
	}
	sugar.Info("Redis connection established")

	issueStore := store.NewIssues(db)
	voteStore, err := store.NewVotes(db)
	if err != nil {
		sugar.Fatalf("Failed to ensure vote index: %v", err)
	}
	historyStore := store.NewHistory(db)
	commentStore := store.NewComments(db)
	userStore := store.NewUsers(db)

	issueSvc := services.NewIssueService(issueStore, historyStore, userStore, sugar)
	voteSvc := services.NewVoteService(voteStore, issueStore, sugar)
	commentSvc := services.NewCommentService(commentStore, issueStore, userStore, sugar)
	statsSvc := services.NewStatsService(issueStore, voteStore, sugar)

	bucket := storage.NewBucketClient(cfg.StorageURL, cfg.StorageBucket, cfg.StorageKey)

	r := gin.Default()
	r.Use(middlewares.RequestID(sugar))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           5 * time.Minute,
	}))

	authController := controllers.NewAuthController(userStore, cfg.JWTSecret, cfg.Environment, sugar)
	routes.AuthRoutes(r, authController, cfg.JWTSecret)

	routes.IssueRoutes(r, routes.IssueControllers{
		Issues:    controllers.NewIssueController(issueSvc, statsSvc, issueStore, sugar),
		Lifecycle: controllers.NewLifecycleController(issueSvc, historyStore, sugar),
		Votes:     controllers.NewVoteController(voteSvc, issueSvc, voteStore, sugar),
		Comments:  controllers.NewCommentController(commentSvc, sugar),
		Uploads:   controllers.NewUploadController(issueSvc, bucket, sugar),
	}, rdb, cfg.JWTSecret, cfg.IssueRateLimit)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sugar.Infof("Server listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	sugar.Info("Shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		sugar.Fatalf("Forced shutdown: %v", err)
	}

	sugar.Info("Server stopped")
}
