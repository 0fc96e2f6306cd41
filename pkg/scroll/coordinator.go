// Package scroll 实现滚动同步的动画/状态协调器
//
// 协调器把连续的滚轮/触摸信号量化为离散步进，并派生出：
//   - 当前步进与视差进度 (State)
//   - 3D 视图的缩放/位移/透明度 (Curves)
//   - 叠加文字块的可见度 (Overlays)
//   - 触摸手势路由 (GestureRouter) 与水平旋转 (RotationAccumulator)
//
// 本包的所有类型都不是并发安全的，必须在游戏循环所在的 goroutine 上使用。
package scroll

import (
	"log"
	"math"
	"time"

	"github.com/lucifer-ux/4bitsLanding/pkg/config"
)

// State 滚动状态
//
// 静止时 ParallaxProgress == CurrentStep / (TotalSteps-1)；
// 切换时进度立即更新为目标步进的值，早于视口滚动动画完成。
type State struct {
	CurrentStep      int
	ParallaxProgress float64
	IsTransitioning  bool
}

// Viewport 可滚动视口
type Viewport interface {
	// ScrollTo 滚动到指定偏移，animate 为 false 时立即跳转
	ScrollTo(y float64, animate bool)
	// Height 视口高度（一个步进的距离）
	Height() float64
}

// Coordinator 步进量化器
//
// 一次物理手势最多产生一次步进：提交切换后进入冷却，期间的方向输入全部丢弃。
type Coordinator struct {
	cfg       config.ScrollConfig
	viewport  Viewport
	scheduler Scheduler

	state    State
	cooldown Timer

	listeners map[int]func(State)
	nextID    int
}

// NewCoordinator 创建步进协调器，初始位于第 0 步
func NewCoordinator(cfg config.ScrollConfig, viewport Viewport, scheduler Scheduler) *Coordinator {
	return &Coordinator{
		cfg:       cfg,
		viewport:  viewport,
		scheduler: scheduler,
		listeners: make(map[int]func(State)),
	}
}

// State 返回当前状态快照
func (c *Coordinator) State() State {
	return c.state
}

// TotalSteps 返回步数
func (c *Coordinator) TotalSteps() int {
	return c.cfg.TotalSteps
}

// OnChange 注册状态变化监听，返回取消函数
func (c *Coordinator) OnChange(fn func(State)) (unsubscribe func()) {
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	return func() { delete(c.listeners, id) }
}

// Wheel 处理滚轮输入，只使用 deltaY 的符号
// 返回是否提交了步进切换
func (c *Coordinator) Wheel(deltaY float64) bool {
	switch {
	case deltaY > 0:
		return c.Advance()
	case deltaY < 0:
		return c.Retreat()
	}
	return false
}

// Swipe 处理一次完整的触摸滑动
//
// dx、dy 为触摸结束点相对起点的净位移（向下为正，向下滑动前进一步）。
// 净位移不以垂直方向为主、距离不超过 SwipeMinDistance 或耗时超过
// SwipeMaxDuration 的滑动被忽略。
func (c *Coordinator) Swipe(dx, dy float64, elapsed time.Duration) bool {
	if elapsed > c.cfg.SwipeMaxDuration {
		return false
	}
	if math.Abs(dy) <= math.Abs(dx) {
		return false
	}
	switch {
	case dy > c.cfg.SwipeMinDistance:
		return c.Advance()
	case dy < -c.cfg.SwipeMinDistance:
		return c.Retreat()
	}
	return false
}

// Advance 前进一步；越过最后一步或冷却中时为空操作
func (c *Coordinator) Advance() bool {
	return c.step(1)
}

// Retreat 后退一步；越过第一步或冷却中时为空操作
func (c *Coordinator) Retreat() bool {
	return c.step(-1)
}

func (c *Coordinator) step(dir int) bool {
	if c.state.IsTransitioning {
		return false
	}
	target := c.state.CurrentStep + dir
	if target < 0 || target > c.cfg.TotalSteps-1 {
		return false
	}
	c.commit(target)
	return true
}

// commit 提交步进切换
// 先更新进度（驱动变换与文字淡入淡出），再命令视口滚动，最后武装冷却
func (c *Coordinator) commit(target int) {
	c.state.CurrentStep = target
	c.state.ParallaxProgress = c.progressOf(target)
	c.state.IsTransitioning = true

	c.viewport.ScrollTo(float64(target)*c.viewport.Height(), true)

	// 旧的冷却定时器必须替换而不是叠加
	if c.cooldown != nil {
		c.cooldown.Stop()
	}
	c.cooldown = c.scheduler.AfterFunc(c.cfg.Cooldown, func() {
		c.cooldown = nil
		c.state.IsTransitioning = false
		c.notify()
	})

	log.Printf("[Scroll] step -> %d (progress %.2f)", target, c.state.ParallaxProgress)
	c.notify()
}

func (c *Coordinator) progressOf(step int) float64 {
	return float64(step) / float64(c.cfg.TotalSteps-1)
}

// Resize 视口尺寸变化后把视口重新对齐到当前步进
func (c *Coordinator) Resize() {
	c.viewport.ScrollTo(float64(c.state.CurrentStep)*c.viewport.Height(), false)
}

// Reset 回到第 0 步并立即滚动到顶部（页面挂载时调用）
func (c *Coordinator) Reset() {
	if c.cooldown != nil {
		c.cooldown.Stop()
		c.cooldown = nil
	}
	c.state = State{}
	c.viewport.ScrollTo(0, false)
	c.notify()
}

// Close 释放挂起的定时器与监听（页面卸载时调用）
func (c *Coordinator) Close() {
	if c.cooldown != nil {
		c.cooldown.Stop()
		c.cooldown = nil
	}
	c.state.IsTransitioning = false
	c.listeners = make(map[int]func(State))
}

func (c *Coordinator) notify() {
	for _, fn := range c.listeners {
		fn(c.state)
	}
}
