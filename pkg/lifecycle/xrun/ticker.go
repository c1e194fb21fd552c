package xrun

import (
	"context"
	"time"
)

// Ticker 返回周期性执行 fn 的服务函数。
//
// fn 同步执行，上一轮未结束时不会开始下一轮，耗时超过 interval 的轮次
// 会让后续 tick 被合并。interval 必须为正数，否则返回 ErrInvalidInterval。
// immediate 为 true 时启动后立即执行一次。fn 返回错误时停止并返回该错误，
// ctx 取消时返回 ctx.Err()。
//
//	go xrun.Ticker(cfg.HealthCheckInterval, false, pool.RunHealthCheck)(ctx)
func Ticker(interval time.Duration, immediate bool, fn func(ctx context.Context) error) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if interval <= 0 {
			return ErrInvalidInterval
		}
		if fn == nil {
			return ErrNilFunc
		}

		if immediate {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(ctx); err != nil {
				return err
			}
		}

		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				if err := fn(ctx); err != nil {
					return err
				}
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}
