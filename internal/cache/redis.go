package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"spectra-server/internal/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultPrefix = "spectra"

// NewRedisClient 连接 Redis；未启用或不可达时返回 nil，调用方应降级为直接计算。
func NewRedisClient(ctx context.Context, cfg config.RedisConfig, log *zap.Logger) *redis.Client {
	if !cfg.Enabled {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		log.Warn("⚠️ Redis 不可用，统计缓存已禁用", zap.String("addr", cfg.Addr), zap.Error(err))
		return nil
	}

	log.Info("✅ Redis 已连接", zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))
	return client
}

// Key 基于前缀拼接 Redis 键名，前缀为空时使用默认值。
func Key(prefix string, parts ...string) string {
	if prefix == "" {
		prefix = defaultPrefix
	}
	if len(parts) == 0 {
		return prefix
	}
	return prefix + ":" + strings.Join(parts, ":")
}

// GetJSON 读取并解码缓存值。未命中返回 (false, nil)。
func GetJSON(ctx context.Context, rdb redis.Cmdable, key string, dst any) (bool, error) {
	raw, err := rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON 编码并写入缓存值。
func SetJSON(ctx context.Context, rdb redis.Cmdable, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, key, raw, ttl).Err()
}
