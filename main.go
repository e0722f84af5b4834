package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"relaychat/server/internal/config"
	"relaychat/server/internal/handlers"
	"relaychat/server/internal/logger"
	"relaychat/server/internal/routes"
	"relaychat/server/internal/service"
	"relaychat/server/internal/store"
	"relaychat/server/internal/utils"
	ws "relaychat/server/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := logger.L()
		l.Fatal().Err(err).Msg("Failed to load config")
	}

	logger.Init(logger.Config{
		Level:       cfg.LogLevel,
		Pretty:      cfg.LogPretty,
		ServiceName: "relaychat",
	})
	log := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open the store
	db, err := store.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("Failed to open store")
	}

	tokens, err := utils.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure tokens")
	}

	// Live channel
	registry := ws.NewRegistry()
	router := ws.NewRouter(registry)
	wsOpts := ws.Options{
		SendBuffer:     cfg.WSSendBuffer,
		MaxMessageSize: cfg.WSMaxMessageSize,
		PingInterval:   cfg.WSPingInterval,
		PongWait:       cfg.WSPongWait,
		WriteWait:      cfg.WSWriteWait,
		Relay:          cfg.DeliveryMode != config.DeliveryServer,
	}

	h := handlers.New(handlers.Deps{
		Chat:         service.NewChatService(db, router, cfg.DeliveryMode),
		Friends:      service.NewFriendGraph(db, cfg.FriendStatusRequireParty),
		Accounts:     service.NewAccounts(db),
		Tokens:       tokens,
		Registry:     registry,
		Router:       router,
		WSOptions:    wsOpts,
		CookieSecure: cfg.CookieSecure,
	})

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:               "Relaychat API",
		ErrorHandler:          handlers.ErrorHandler,
		DisableStartupMessage: true,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.FiberMiddleware(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: true,
	}))

	routes.SetupRoutes(app, h, tokens, routes.Options{RateLimit: cfg.RateLimit})

	go func() {
		<-ctx.Done()
		log.Info().Msg("Shutting down")
		if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
			log.Error().Err(err).Msg("HTTP shutdown incomplete")
		}
	}()

	log.Info().
		Str("addr", cfg.Addr()).
		Str("store", cfg.StoreDriver).
		Str("delivery", cfg.DeliveryMode).
		Msg("Server starting")
	if err := app.Listen(cfg.Addr()); err != nil {
		log.Error().Err(err).Msg("Server stopped")
	}

	if err := registry.Close(); err != nil {
		log.Warn().Err(err).Msg("Closing live connections")
	}
	if err := db.Close(); err != nil {
		log.Error().Err(err).Msg("Closing store")
	}
	log.Info().Msg("Bye")
}
