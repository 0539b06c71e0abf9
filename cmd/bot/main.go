package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/duolove/duolove/config"
	"github.com/duolove/duolove/db"
	"github.com/duolove/duolove/internal/bot"
	"github.com/duolove/duolove/internal/memory"
	"github.com/duolove/duolove/internal/repository"
	"github.com/duolove/duolove/internal/server"
	"github.com/duolove/duolove/internal/service"
	"github.com/duolove/duolove/utils"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func main() {
	cfg, err := config.LoadConfig(".env")
	if err != nil {
		utils.InitLogger("debug").Fatal("Failed to load config: ", err)
	}
	logger := utils.InitLogger(cfg.LogLevel)

	// Без DB_URL реестры живут в памяти процесса и забываются на рестарте.
	var repo service.Repository
	if cfg.DB_URL != "" {
		database, err := db.ConnectDb(cfg.DB_URL, logger)
		if err != nil {
			logger.Fatal(err)
		}
		if err := db.Migrate(database, true, logger); err != nil {
			logger.Fatal(err)
		}
		repo = repository.NewRepository(database, logger)
	} else {
		logger.Warn("DB_URL is not set, using in-memory registries")
		repo = memory.NewStore()
	}

	telegramBot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		logger.Fatal("Failed to create bot API: ", err)
	}

	gateway := bot.NewGateway(telegramBot, &cfg, logger)
	svc := service.NewService(repo, gateway, &cfg, logger)
	telegram := bot.NewBot(telegramBot, svc, logger, &cfg)
	api := server.NewServer(svc, telegram, logger)

	go func() {
		if err := api.Run(cfg.HTTPAddr); err != nil {
			logger.Fatal("HTTP server failed: ", err)
		}
	}()
	go telegram.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")
	telegram.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := api.Shutdown(ctx); err != nil {
		logger.Errorf("HTTP shutdown error: %v", err)
	}
}
