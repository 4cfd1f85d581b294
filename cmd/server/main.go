package main

import (
	"context"
	"log"
	"time"

	"anoa.com/chirp/internal/config"
	"anoa.com/chirp/internal/server"
	"anoa.com/chirp/pkg/store"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	st, err := store.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %v", err)
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			log.Printf("error closing mongodb connection: %v", err)
		}
	}()

	// Redis is optional: without it the server still works, minus websocket
	// push and posting cooldowns.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Printf("redis unreachable, continuing without it: %v", err)
			redisClient = nil
		}
	}

	srv := server.NewServer(cfg, st, redisClient)

	log.Printf("listening on :%s (env=%s)", cfg.Port, cfg.AppEnv)
	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
