package main

import (
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"semillero.org/semillerodigital/internal/config"
	"semillero.org/semillerodigital/internal/entity"
	"semillero.org/semillerodigital/internal/logger"
	"semillero.org/semillerodigital/internal/server"
	"semillero.org/semillerodigital/pkg/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	logger.Init(cfg.LogLevel, cfg.LogFormat)

	db := database.Connect()
	if err := migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	redisClient := connectRedis(cfg.RedisURL)

	srv := server.NewServer(cfg, db, redisClient)

	log.Info().Str("port", cfg.Port).Str("env", cfg.AppEnv).Msg("starting server")
	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited with error")
	}
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Course{},
		&entity.Notification{},
	)
}

// connectRedis is best effort: without REDIS_URL the API runs with rate
// limiting and live notifications disabled.
func connectRedis(redisURL string) *redis.Client {
	if redisURL == "" {
		log.Warn().Msg("REDIS_URL not set, rate limiting and live notifications disabled")
		return nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid REDIS_URL")
	}

	return redis.NewClient(opts)
}
