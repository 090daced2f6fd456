package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"workingtime/backend/config"
)

// Client Redis 客户端封装
// 当前用于今日快照缓存与速率限制；后续可扩展分布式锁等场景
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── 今日快照缓存 ──

const snapshotPrefix = "worklog:snapshot:"

// SnapshotTTL 今日快照缓存时长。merge 结果随"现在"变化，只能短缓存。
const SnapshotTTL = 30 * time.Second

// GetSnapshot 读取缓存的日快照 JSON，未命中返回 ("", nil)
func (c *Client) GetSnapshot(ctx context.Context, dateKey string) (string, error) {
	s, err := c.rdb.Get(ctx, snapshotPrefix+dateKey).Result()
	if err == goredis.Nil {
		return "", nil
	}
	return s, err
}

// SetSnapshot 缓存日快照 JSON
func (c *Client) SetSnapshot(ctx context.Context, dateKey, payload string) error {
	return c.rdb.Set(ctx, snapshotPrefix+dateKey, payload, SnapshotTTL).Err()
}

// InvalidateSnapshot 删除日快照缓存（记录发生变更时调用）
func (c *Client) InvalidateSnapshot(ctx context.Context, dateKey string) error {
	return c.rdb.Del(ctx, snapshotPrefix+dateKey).Err()
}

// ── 速率限制（滑动窗口） ──

// CheckRateLimit 滑动窗口速率检查，超限返回 false
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now().UnixNano()
	windowStart := now - window.Nanoseconds()

	pipe := c.rdb.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", windowStart))
	countCmd := pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, goredis.Z{Score: float64(now), Member: now})
	pipe.Expire(ctx, key, window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	return countCmd.Val() < int64(limit), nil
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
