package cache

import (
	"context"
	"log"

	"wlog/internal/platform/config"

	"github.com/redis/go-redis/v9"
)

var RDB *redis.Client

// Connect opens the redis client used for the exercise-catalog cache.
// An empty REDIS_ADDR leaves caching disabled; RDB stays nil and every
// consumer falls back to the database.
func Connect() {
	if config.AppConfig.RedisAddr == "" {
		log.Println("REDIS_ADDR not set, exercise cache disabled")
		return
	}

	RDB = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisDB,
	})

	if _, err := RDB.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("Could not connect to Redis: %v", err)
	}
	log.Println("Successfully connected to Redis")
}

func Close() {
	if RDB != nil {
		RDB.Close()
		log.Println("Redis connection closed")
	}
}
