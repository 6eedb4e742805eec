package main

import (
	"os"
	"time"

	"github.com/2023371019/CheckMeKit/internal/config"
	"github.com/2023371019/CheckMeKit/internal/database"
	"github.com/2023371019/CheckMeKit/internal/handlers"
	"github.com/2023371019/CheckMeKit/internal/ledger"
	"github.com/2023371019/CheckMeKit/internal/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := database.Open(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to the database")
	}
	logger.Info().Msg("connected to the database")

	guard := session.NewGuard(
		session.NewUserRepository(db),
		session.NewDoctorRepository(db),
		logger,
	)
	led := ledger.New(db, logger)
	h := handlers.New(db, guard, led, database.NewVitalsFeed(db))

	r := gin.Default()
	corsCfg := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	r.Use(cors.New(corsCfg))
	h.Mount(r)

	logger.Info().Str("port", cfg.ListenPort).Msg("server listening")
	if err := r.Run(":" + cfg.ListenPort); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
