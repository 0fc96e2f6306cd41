// Package preorder 推导当前用户是否已预购（hasPreordered）
//
// 登录后立即查询一次；未支付或出错时每隔 RetryDelay 重试，
// 一轮最多 Attempts 次。之后每 PollInterval 以及窗口重新获得焦点时再查一轮，
// 直到确认已支付。
package preorder

import (
	"context"
	"log"
	"time"

	"github.com/lucifer-ux/4bitsLanding/pkg/config"
	"github.com/lucifer-ux/4bitsLanding/pkg/store"
)

// Reason 触发查询的原因
type Reason int

const (
	ReasonInitial Reason = iota
	ReasonRetry
	ReasonPeriodic
	ReasonFocus
)

func (r Reason) String() string {
	switch r {
	case ReasonInitial:
		return "initial"
	case ReasonRetry:
		return "retry"
	case ReasonPeriodic:
		return "periodic"
	case ReasonFocus:
		return "focus"
	default:
		return "unknown"
	}
}

// Result 一次查询结果
type Result struct {
	AuthUserID string
	Paid       bool
	Reason     Reason
	// Attempt 本轮内的第几次查询，从 1 开始
	Attempt int
	Err     error
}

// Lookup 查询用户行
type Lookup interface {
	ByAuthID(ctx context.Context, authUserID string) (*store.UserRow, error)
}

// Checker 预购状态轮询器
type Checker struct {
	users   Lookup
	cfg     config.PreorderConfig
	results chan Result
	focus   chan struct{}
}

// NewChecker 创建轮询器
func NewChecker(users Lookup, cfg config.PreorderConfig) *Checker {
	return &Checker{
		users:   users,
		cfg:     cfg,
		results: make(chan Result, 8),
		focus:   make(chan struct{}, 1),
	}
}

// Results 结果通道，由 UI 协程在每帧清空
func (c *Checker) Results() <-chan Result {
	return c.results
}

// Focus 通知窗口重新获得焦点，不阻塞
func (c *Checker) Focus() {
	select {
	case c.focus <- struct{}{}:
	default:
	}
}

// Run 为指定用户轮询直到确认已支付或 ctx 取消
// authUserID 为空表示未登录，直接报告未预购
func (c *Checker) Run(ctx context.Context, authUserID string) error {
	if authUserID == "" {
		c.emit(ctx, Result{Reason: ReasonInitial})
		return nil
	}

	paid, err := c.round(ctx, authUserID, ReasonInitial)
	if paid || err != nil {
		return err
	}

	interval := c.cfg.PollInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		var reason Reason
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			reason = ReasonPeriodic
		case <-c.focus:
			reason = ReasonFocus
		}
		paid, err := c.round(ctx, authUserID, reason)
		if paid || err != nil {
			return err
		}
	}
}

// round 一轮查询，返回是否已支付；只有 ctx 取消才返回错误
func (c *Checker) round(ctx context.Context, authUserID string, reason Reason) (bool, error) {
	attempts := c.cfg.Attempts
	if attempts < 1 {
		attempts = 1
	}
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return false, ctx.Err()
			case <-time.After(c.cfg.RetryDelay):
			}
			reason = ReasonRetry
		}

		res := c.check(ctx, authUserID)
		res.Reason = reason
		res.Attempt = attempt
		if err := ctx.Err(); err != nil {
			return false, err
		}
		if !c.emit(ctx, res) {
			return false, ctx.Err()
		}
		if res.Paid {
			log.Printf("[Preorder] 用户 %s 已支付", authUserID)
			return true, nil
		}
		if res.Err != nil {
			log.Printf("[Preorder] 查询失败 (%s, %d/%d): %v", reason, attempt, attempts, res.Err)
		}
	}
	return false, nil
}

func (c *Checker) check(ctx context.Context, authUserID string) Result {
	row, err := c.users.ByAuthID(ctx, authUserID)
	if err != nil {
		return Result{AuthUserID: authUserID, Err: err}
	}
	return Result{AuthUserID: authUserID, Paid: row.Paid}
}

func (c *Checker) emit(ctx context.Context, r Result) bool {
	select {
	case c.results <- r:
		return true
	case <-ctx.Done():
		return false
	}
}
