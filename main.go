package main

import (
	"log"

	"parking-booking/cmd"
	"parking-booking/internal/data/repository"
	"parking-booking/internal/queue"
	"parking-booking/internal/wire"
	"parking-booking/pkg/database"
	"parking-booking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	config, err := utils.LoadConfig(".env")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

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
		zap.String("auth_mode", config.Auth.Mode),
		zap.String("event_broker", config.Broker.Kind),
	)

	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	rdb, err := database.InitRedis(config.Redis)
	if err != nil {
		logger.Warn("Redis unavailable, quote cache and rate limiting disabled", zap.Error(err))
		rdb = nil
	}
	if rdb != nil {
		defer rdb.Close()
	}

	publisher, err := queue.NewPublisher(config.Broker, logger)
	if err != nil {
		logger.Warn("Event broker unavailable, events will not be published", zap.Error(err))
		publisher = queue.NewNoopPublisher()
	}
	defer publisher.Close()

	repos := repository.NewRepository(db, logger)

	app := wire.Wiring(repos, db, rdb, publisher, config, logger)

	if err := cmd.APIServer(app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server stopped", zap.Error(err))
	}
}
