// internal/redis/redis.go
package redis

import (
	"context"
	"fleet-orchestrator/internal/config"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// NewRedisClient 공유 상태 저장소 클라이언트 생성 및 연결 확인
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	// 연결 테스트
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s failed: %w", cfg.RedisHost, err)
	}

	return client, nil
}
