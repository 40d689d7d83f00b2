package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/freecyberhawk/hakobot/config"
	"github.com/freecyberhawk/hakobot/internal/api"
	"github.com/freecyberhawk/hakobot/internal/api/handler"
	"github.com/freecyberhawk/hakobot/internal/bot"
	"github.com/freecyberhawk/hakobot/internal/bot/middleware"
	"github.com/freecyberhawk/hakobot/internal/database"
	"github.com/freecyberhawk/hakobot/internal/pkg/cron"
	"github.com/freecyberhawk/hakobot/internal/pkg/logger"
	"github.com/freecyberhawk/hakobot/internal/pkg/review"
	"github.com/freecyberhawk/hakobot/internal/repository"
	"github.com/freecyberhawk/hakobot/internal/schema"
	"github.com/freecyberhawk/hakobot/internal/service"
	"github.com/freecyberhawk/hakobot/internal/session"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zl, err := logger.New(&cfg.Log)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zl.Sync() //nolint:errcheck

	db, err := database.New(&cfg.Database)
	if err != nil {
		zl.Fatal("failed to connect database", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}
	zl.Info("database connected", zap.String("driver", cfg.Database.Driver))

	if _, err := schema.NewMigrator(db, zl).Setup(); err != nil {
		zl.Fatal("failed to set up schema", zap.Error(err))
	}

	var store session.Store = session.NewMemoryStore()
	var reviews review.Ledger = review.NewMemoryLedger(review.DefaultTTL)
	var health *handler.HealthHandler
	if cfg.Redis.Enabled {
		rdb, err := database.NewRedis(&cfg.Redis)
		if err != nil {
			zl.Fatal("failed to connect redis", zap.Error(err))
		}
		defer rdb.Close()
		store = session.NewRedisStore(rdb, cfg.Redis.KeyPrefix)
		reviews = review.NewRedisLedger(rdb, review.DefaultPrefix, review.DefaultTTL)
		health = handler.NewHealthHandler(db, rdb)
		zl.Info("sessions stored in redis", zap.String("prefix", cfg.Redis.KeyPrefix))
	} else {
		health = handler.NewHealthHandler(db, nil)
	}

	adminRepo := repository.NewAdminRepository(db)
	userRepo := repository.NewUserRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	systemRepo := repository.NewSystemRepository(db)

	services := bot.Services{
		Admin:   service.NewAdminService(adminRepo, userRepo, systemRepo, cfg),
		Wallet:  service.NewWalletService(adminRepo, paymentRepo, cfg),
		User:    service.NewUserService(userRepo, cfg),
		Reviews: reviews,
	}

	tg, err := tgbotapi.NewBotAPI(cfg.Bot.Token)
	if err != nil {
		zl.Fatal("failed to reach telegram", zap.Error(err))
	}
	tg.Debug = cfg.Bot.Debug
	zl.Info("authorized on telegram", zap.String("username", tg.Self.UserName))

	var allowlist []int64
	if cfg.Bot.EnforceAllowlist {
		allowlist = cfg.Bot.AuthorizedIDs
	}
	gate := middleware.NewGate(services.Admin, allowlist, zl)
	b := bot.New(tg, gate, store, services, cfg, zl)

	if err := b.SetCommands(); err != nil {
		zl.Warn("failed to register commands", zap.Error(err))
	}

	if cfg.Report.Enabled {
		report := cron.NewService(services.Admin, tg, cfg.Bot.SuperAdminIDs, cfg.Report.Hour, zl)
		report.Start()
		defer report.Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var webhook *handler.WebhookHandler
	if cfg.Bot.UpdateMode == "webhook" {
		webhook = handler.NewWebhookHandler(b)
	}
	engine := api.NewRouter(health, webhook, cfg, zl).Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: engine,
	}
	go func() {
		zl.Info("http server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Error("http server failed", zap.Error(err))
			stop()
		}
	}()

	switch cfg.Bot.UpdateMode {
	case "webhook":
		wh, err := tgbotapi.NewWebhook(api.WebhookLink(&cfg.Bot))
		if err != nil {
			zl.Fatal("invalid webhook url", zap.Error(err))
		}
		if _, err := tg.Request(wh); err != nil {
			zl.Fatal("failed to register webhook", zap.Error(err))
		}
		zl.Info("webhook registered", zap.String("route", api.WebhookRoute(&cfg.Bot)))
		<-ctx.Done()
	default:
		if _, err := tg.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
			zl.Warn("failed to drop webhook", zap.Error(err))
		}
		b.Poll(ctx, tg, cfg.Bot.PollTimeout)
	}

	zl.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Warn("http server shutdown", zap.Error(err))
	}
}
