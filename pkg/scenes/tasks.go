package scenes

import (
	"context"
	"errors"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"
)

// taskQueue 场景的后台任务
//
// work 在独立协程中执行，返回的 apply 回调进入队列，由 Drain 在 UI 协程执行。
// Close 取消全部任务并等待退出，之后提交的任务直接丢弃。
type taskQueue struct {
	ctx    context.Context
	cancel context.CancelFunc
	group  errgroup.Group
	done   chan func()

	mu     sync.Mutex
	closed bool
}

func newTaskQueue(parent context.Context) *taskQueue {
	ctx, cancel := context.WithCancel(parent)
	return &taskQueue{ctx: ctx, cancel: cancel, done: make(chan func(), 32)}
}

// Go 提交一次性任务
func (q *taskQueue) Go(work func(ctx context.Context) (apply func())) {
	q.Run(func(ctx context.Context) error {
		apply := work(ctx)
		if apply == nil {
			return nil
		}
		select {
		case q.done <- apply:
		case <-ctx.Done():
		}
		return nil
	})
}

// Run 提交长时间运行的任务（如轮询），取消以外的错误写入日志
func (q *taskQueue) Run(fn func(ctx context.Context) error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.group.Go(func() error {
		err := fn(q.ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("[Tasks] background task failed: %v", err)
		}
		return nil
	})
}

// Post 从任意协程把回调投递到 UI 协程
func (q *taskQueue) Post(apply func()) {
	select {
	case q.done <- apply:
	case <-q.ctx.Done():
	}
}

// Drain 执行已完成任务的回调（UI 协程）
func (q *taskQueue) Drain() {
	for {
		select {
		case apply := <-q.done:
			apply()
		default:
			return
		}
	}
}

// wait 等待当前任务全部结束再执行回调
func (q *taskQueue) wait() {
	_ = q.group.Wait()
	q.Drain()
}

// Close 取消并等待全部任务
func (q *taskQueue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.mu.Unlock()

	q.cancel()
	_ = q.group.Wait()
}
