package redis

import (
	"Clipper/internal/api/config"
	"Clipper/internal/pkg/logger"
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/redis/go-redis/v9/maintnotifications"
)

// Client 对 go-redis 的轻量封装，由调用方显式注入
type Client struct {
	rdb *redis.Client
}

// NewClient 初始化 Redis 客户端连接
func NewClient(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,

		MaintNotificationsConfig: &maintnotifications.Config{
			Mode: maintnotifications.ModeDisabled,
		},
	})
	rdb.AddHook(logger.NewRedisLogger())

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, err
	}

	return &Client{rdb: rdb}, nil
}

// Wrap 包装已有连接（测试使用）
func Wrap(rdb *redis.Client) *Client {
	return &Client{rdb: rdb}
}

// Raw 获取底层客户端
func (s *Client) Raw() *redis.Client {
	return s.rdb
}

func (s *Client) Close() error {
	return s.rdb.Close()
}
