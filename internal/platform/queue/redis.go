package queue

import (
	"context"
	"fmt"
	"log"

	"learnex_quiz/internal/platform/config"

	"github.com/redis/go-redis/v9"
)

func ConnectRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("queue.ConnectRedis: %w", err)
	}
	log.Println("Successfully connected to Redis!")
	return rdb, nil
}
