package main

import (
	"os"

	"houserules/internal/config"
	"houserules/internal/controller"
	"houserules/internal/middleware"
	"houserules/internal/service"

	_ "houserules/internal/rules/builtin"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: true,
	}))

	matchManager := service.NewMatchManager(cfg.ClockTime)
	matchService := service.NewMatchService(matchManager)

	matchController := controller.NewMatchController(matchService)
	wsController := controller.NewWebSocketController(matchService)

	app.Use("/ws/*", middleware.EnsurePlayerID())
	app.Get("/ws/match/:matchId", middleware.WebSocketUpgrade(), websocket.New(func(c *websocket.Conn) {
		wsController.HandleConnection(c)
	}, websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		Origins:         []string{cfg.AllowOrigins},
	}))

	api := app.Group("/api", middleware.EnsurePlayerID())

	api.Get("/rules", matchController.ListRules)

	matchRoutes := api.Group("/match")
	matchRoutes.Post("/matchmaking/join", matchController.JoinMatchmaking)
	matchRoutes.Post("/create", matchController.CreateMatch)
	matchRoutes.Post("/join/:matchId", matchController.JoinMatch)
	matchRoutes.Get("/:matchId", matchController.GetMatchState)
	matchRoutes.Get("/:matchId/moves", matchController.GetMoves)
	matchRoutes.Post("/:matchId/play", matchController.PlayMove)

	log.Info().Str("addr", cfg.Addr).Msg("listening")
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
