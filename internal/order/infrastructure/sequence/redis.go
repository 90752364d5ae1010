// Package sequence 基于 Redis 计数器生成当天唯一的订单号
package sequence

import (
	"context"
	"fmt"
	"time"

	"github.com/wyfcoding/pkg/logging"
)

// Counter 原子计数器，Redis INCR 的最小抽象
type Counter interface {
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, expiration time.Duration) error
}

// counterTTL 计数键保留 48 小时，跨日后自然过期
const counterTTL = 48 * time.Hour

// Generator 订单号生成器。
// 订单号形如 #20260901-0001：日期段取当天，序号段从 0001 起按日递增，
// 超过 9999 后位数自动加宽，字典序仍保持单调。
type Generator struct {
	counter Counter
	prefix  string
}

// NewGenerator 创建订单号生成器
func NewGenerator(counter Counter) *Generator {
	return &Generator{counter: counter, prefix: "orderno"}
}

// Next 生成下一个订单号
func (g *Generator) Next(ctx context.Context, t time.Time) (string, error) {
	day := t.Format("20060102")
	key := fmt.Sprintf("%s:%s", g.prefix, day)

	seq, err := g.counter.Incr(ctx, key)
	if err != nil {
		return "", fmt.Errorf("increment order counter: %w", err)
	}

	if seq == 1 {
		if err := g.counter.Expire(ctx, key, counterTTL); err != nil {
			// 过期失败只会让键多活一阵，不影响订单号正确性
			logging.Warn(ctx, "Failed to set order counter TTL", "key", key, "error", err)
		}
	}

	return fmt.Sprintf("#%s-%04d", day, seq), nil
}
