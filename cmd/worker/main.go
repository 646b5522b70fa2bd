package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gearworks/motorhub/backend/internal/digest"
	"github.com/gearworks/motorhub/backend/internal/repositories"
	"github.com/gearworks/motorhub/backend/internal/worker"
	"github.com/gearworks/motorhub/backend/pkg/config"
	"github.com/gearworks/motorhub/backend/pkg/logger"
	"github.com/gearworks/motorhub/backend/pkg/mailer"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		zlog.Fatal("Failed to initialize databases", zap.Error(err))
	}
	defer db.CloseDB()

	ctx := context.Background()

	ses, err := mailer.NewSESMailer(ctx, cfg.AWSRegion, cfg.MailFrom, cfg.MailFromName, zlog)
	if err != nil {
		zlog.Fatal("Failed to initialize mailer", zap.Error(err))
	}

	// Repositories
	users := repositories.NewMongoUserRepository(db.Mongo)
	vehicles := repositories.NewMongoVehicleRepository(db.Mongo)
	parts := repositories.NewMongoPartRepository(db.Mongo)
	images := repositories.NewMongoImageRepository(db.Mongo)
	posts := repositories.NewMongoPostRepository(db.Mongo)
	notifications := repositories.NewMongoNotificationRepository(db.Mongo)
	connections := repositories.NewPostgresConnectionRepository(db.Postgres)
	entities := repositories.NewMongoEntityRepository(db.Mongo)

	// Digest pipeline
	generator := digest.NewGenerator(nil)
	resolver := digest.NewNotificationResolver(notifications, entities, generator, zlog)
	aggregator := digest.NewAggregator(cfg.BaseURL())
	pipeline := digest.NewPipeline(users, vehicles, parts, images, posts, connections,
		resolver, aggregator, cfg.BaseURL(), zlog)
	runner := digest.NewBatchRunner(users, pipeline, ses, cfg, zlog)

	registry, err := worker.NewRegistry("America/Los_Angeles", zlog)
	if err != nil {
		zlog.Fatal("Failed to initialize scheduler", zap.Error(err))
	}

	// 5am PT on Monday, Tuesday and Wednesday
	err = registry.Register(worker.Job{
		Name: digest.JobName,
		Spec: "0 0 5 * * 1,2,3",
		Run: func() {
			runner.Run(context.Background(), time.Now())
		},
	})
	if err != nil {
		zlog.Fatal("Failed to register digest job", zap.Error(err))
	}

	registry.Start()
	zlog.Info("worker started", zap.String("env", cfg.Env))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	zlog.Info("worker shutting down")
	registry.Stop()
}
