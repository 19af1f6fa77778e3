package main

import (
	"context"
	"log"

	"cinema-showtime/cmd"
	"cinema-showtime/internal/data/repository"
	"cinema-showtime/internal/data/repository/memory"
	"cinema-showtime/internal/notifier"
	"cinema-showtime/internal/wire"
	"cinema-showtime/pkg/database"
	"cinema-showtime/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Select store driver
	var repos *repository.Repository
	if config.Database.Driver == "memory" {
		repos = memory.NewRepository()
		logger.Info("Using in-memory store")
	} else {
		db, err := database.InitDB(config.Database)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		logger.Info("Database connected successfully")
		repos = repository.NewRepository(db, logger)
	}

	// Notification broker is optional; reservations work without it.
	var notify notifier.Notifier = notifier.Noop{}
	if config.AMQP.URL != "" {
		amqpNotifier, err := notifier.NewAMQPNotifier(config.AMQP.URL, config.AMQP.Queue, logger)
		if err != nil {
			logger.Warn("Failed to connect notification broker, notifications disabled", zap.Error(err))
		} else {
			defer amqpNotifier.Close()
			notify = amqpNotifier
		}
	}

	// Wire all dependencies
	app, err := wire.Wiring(repos, config, notify, logger)
	if err != nil {
		logger.Fatal("Failed to wire application", zap.Error(err))
	}

	// Start the lifecycle scheduler, reloading pending showtimes
	if err := app.Scheduler.Start(context.Background()); err != nil {
		logger.Fatal("Failed to start scheduler", zap.Error(err))
	}
	defer app.Scheduler.Stop()

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port)
}
