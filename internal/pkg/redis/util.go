package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// SetWithExpiration 设置键值对并设置过期时间
func (s *Client) SetWithExpiration(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return s.rdb.Set(ctx, key, value, expiration).Err()
}

// GetValue 获取字符串类型的值，不存在时返回空串
func (s *Client) GetValue(ctx context.Context, key string) (string, error) {
	value, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

// TryLock 加锁，retryTimes 为 -1 时一直重试
func (s *Client) TryLock(ctx context.Context, key string, value interface{}, expiration time.Duration, retryTimes int) (bool, error) {
	for i := 0; i < retryTimes || retryTimes == -1; i++ {
		success, err := s.rdb.SetNX(ctx, key, value, expiration).Result()
		if err != nil {
			return false, err
		}
		if success {
			return true, nil
		}
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(200 * time.Millisecond):
		}
	}
	return false, nil
}

var unlockScript = redis.NewScript("if redis.call('get', KEYS[1]) == ARGV[1] then return redis.call('del', KEYS[1]) else return 0 end")

// UnLock 释放锁，只删除自己持有的锁
func (s *Client) UnLock(ctx context.Context, key string, value interface{}) error {
	return unlockScript.Run(ctx, s.rdb, []string{key}, value).Err()
}

// DeleteKey 删除键
func (s *Client) DeleteKey(ctx context.Context, keys ...string) error {
	return s.rdb.Del(ctx, keys...).Err()
}

// Publish 发布消息
func (s *Client) Publish(ctx context.Context, channel string, message interface{}) error {
	return s.rdb.Publish(ctx, channel, message).Err()
}

// Subscribe 订阅频道
func (s *Client) Subscribe(ctx context.Context, channels ...string) *redis.PubSub {
	return s.rdb.Subscribe(ctx, channels...)
}
