package scroll

import (
	"sort"
	"time"
)

// Timer 可取消的一次性定时器
type Timer interface {
	// Stop 取消定时器，返回定时器是否在触发前被取消
	Stop() bool
}

// Scheduler 固定延迟定时器来源
//
// 协调器的所有挂起点（冷却、打字机兜底）都通过 Scheduler 注册，
// 回调必须在 UI 线程上执行，保证步进切换严格串行。
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// FrameScheduler 由游戏循环驱动的定时器
//
// 每帧调用 Tick(dt) 推进时间，到期的回调在 Tick 内同步执行，
// 因此与输入处理共享同一个 goroutine，无需加锁。
type FrameScheduler struct {
	now    time.Duration
	seq    uint64
	timers []*frameTimer
}

type frameTimer struct {
	due     time.Duration
	seq     uint64
	fn      func()
	stopped bool
	fired   bool
}

// Stop 实现 Timer
func (t *frameTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// NewFrameScheduler 创建帧驱动定时器
func NewFrameScheduler() *FrameScheduler {
	return &FrameScheduler{}
}

// AfterFunc 在 d 之后执行 fn
func (s *FrameScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	s.seq++
	t := &frameTimer{due: s.now + d, seq: s.seq, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

// Tick 推进时间并执行到期回调
// 回调按到期时间（同时到期按注册顺序）执行；回调内注册的新定时器最早在下一次 Tick 触发
func (s *FrameScheduler) Tick(dt time.Duration) {
	s.now += dt

	var due, pending []*frameTimer
	for _, t := range s.timers {
		switch {
		case t.stopped:
		case t.due <= s.now:
			due = append(due, t)
		default:
			pending = append(pending, t)
		}
	}
	s.timers = pending

	sort.Slice(due, func(i, j int) bool {
		if due[i].due != due[j].due {
			return due[i].due < due[j].due
		}
		return due[i].seq < due[j].seq
	})
	for _, t := range due {
		// 前面的回调可能取消了后面的定时器
		if t.stopped {
			continue
		}
		t.fired = true
		t.fn()
	}
}

// Now 返回调度器内部时钟
func (s *FrameScheduler) Now() time.Duration {
	return s.now
}

// Pending 返回尚未触发且未取消的定时器数量
func (s *FrameScheduler) Pending() int {
	n := 0
	for _, t := range s.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}
