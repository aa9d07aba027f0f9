package utils

import (
	"context"
	"log"

	redis "github.com/redis/go-redis/v9"

	"github.com/T0nystoyz/ExploreWithMe/config"
)

var (
	RedisClient *redis.Client
	Ctx         = context.Background()
)

// InitRedis connects the shared Redis client used for the view-count cache
// and the rate limiter store
func InitRedis(cfg *config.Config) error {
	RedisClient = redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := RedisClient.Ping(Ctx).Err(); err != nil {
		return err
	}

	log.Println("✅ Redis connected")
	return nil
}
