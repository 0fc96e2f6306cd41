package scroll

import (
	"testing"
	"time"
)

// TestAdvanceClampsAtLastStep 测试从第 0 步连续前进 N 次最终停在最后一步
func TestAdvanceClampsAtLastStep(t *testing.T) {
	c, _, sched := newTestCoordinator()

	for i := 0; i < 10; i++ {
		c.Advance()
		// 每次都等冷却结束，模拟独立的物理手势
		sched.Tick(cooldown)
	}

	st := c.State()
	if st.CurrentStep != 4 {
		t.Errorf("CurrentStep: got %d, want 4", st.CurrentStep)
	}
	if !almostEqual(st.ParallaxProgress, 1.0) {
		t.Errorf("ParallaxProgress: got %v, want 1.0", st.ParallaxProgress)
	}
	if st.IsTransitioning {
		t.Error("IsTransitioning should be cleared after cooldown")
	}
}

// TestRetreatAtFirstStepIsNoop 测试第 0 步后退是空操作且不武装冷却
func TestRetreatAtFirstStepIsNoop(t *testing.T) {
	c, vp, sched := newTestCoordinator()

	if c.Retreat() {
		t.Error("Retreat() at step 0 should not commit")
	}
	if c.State().IsTransitioning {
		t.Error("no-op retreat should not arm the guard")
	}
	if len(vp.calls) != 0 {
		t.Errorf("no-op retreat should not scroll, got %d calls", len(vp.calls))
	}
	if sched.Pending() != 0 {
		t.Errorf("no-op retreat should not schedule timers, got %d", sched.Pending())
	}
}

// TestRapidFireCommitsOnce 测试冷却期内的连续输入只提交一次
func TestRapidFireCommitsOnce(t *testing.T) {
	c, vp, sched := newTestCoordinator()

	committed := 0
	for i := 0; i < 20; i++ {
		if c.Wheel(120) {
			committed++
		}
		sched.Tick(10 * time.Millisecond)
	}

	if committed != 1 {
		t.Errorf("committed: got %d, want 1", committed)
	}
	if c.State().CurrentStep != 1 {
		t.Errorf("CurrentStep: got %d, want 1", c.State().CurrentStep)
	}
	if len(vp.calls) != 1 {
		t.Errorf("viewport scrolls: got %d, want 1", len(vp.calls))
	}
}

// TestEagerProgressAndScroll 测试提交时立即更新进度并命令视口滚动
func TestEagerProgressAndScroll(t *testing.T) {
	c, vp, _ := newTestCoordinator()

	c.Advance()
	st := c.State()

	if !almostEqual(st.ParallaxProgress, 0.25) {
		t.Errorf("ParallaxProgress: got %v, want 0.25", st.ParallaxProgress)
	}
	if !st.IsTransitioning {
		t.Error("IsTransitioning should be set right after commit")
	}
	call := vp.last()
	if call.y != 800 || !call.animate {
		t.Errorf("ScrollTo: got (%v, %v), want (800, true)", call.y, call.animate)
	}
}

// TestCooldownReleasesGuard 测试冷却结束前后的输入
func TestCooldownReleasesGuard(t *testing.T) {
	c, _, sched := newTestCoordinator()

	c.Advance()
	sched.Tick(cooldown - time.Millisecond)
	if c.Advance() {
		t.Error("Advance() inside cooldown should be dropped")
	}

	sched.Tick(time.Millisecond)
	if !c.Advance() {
		t.Error("Advance() after cooldown should commit")
	}
	if c.State().CurrentStep != 2 {
		t.Errorf("CurrentStep: got %d, want 2", c.State().CurrentStep)
	}
}

// TestWheelDirection 测试滚轮方向
func TestWheelDirection(t *testing.T) {
	c, _, sched := newTestCoordinator()

	tests := []struct {
		name   string
		deltaY float64
		want   int
	}{
		{"向下", 100, 1},
		{"再向下", 3, 2},
		{"零位移", 0, 2},
		{"向上", -50, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c.Wheel(tt.deltaY)
			sched.Tick(cooldown)
			if got := c.State().CurrentStep; got != tt.want {
				t.Errorf("after Wheel(%v): step %d, want %d", tt.deltaY, got, tt.want)
			}
		})
	}
}

// TestSwipeThresholds 测试触摸滑动的距离与时长限制
func TestSwipeThresholds(t *testing.T) {
	tests := []struct {
		name    string
		dx, dy  float64
		elapsed time.Duration
		want    bool
	}{
		{"足够长的下滑", 0, 40, 200 * time.Millisecond, true},
		{"稍有横移的下滑", 20, 40, 200 * time.Millisecond, true},
		{"距离不足", 0, 30, 200 * time.Millisecond, false},
		{"耗时过长", 0, 200, 1500 * time.Millisecond, false},
		{"上滑在第 0 步", 0, -80, 200 * time.Millisecond, false},
		{"水平占优", 200, 40, 200 * time.Millisecond, false},
		{"横竖相等", 60, -60, 200 * time.Millisecond, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, _ := newTestCoordinator()
			if got := c.Swipe(tt.dx, tt.dy, tt.elapsed); got != tt.want {
				t.Errorf("Swipe(%v, %v, %v) = %v, want %v", tt.dx, tt.dy, tt.elapsed, got, tt.want)
			}
		})
	}
}

// TestCurrentStepStaysInRange 测试任意输入序列下步进不越界
func TestCurrentStepStaysInRange(t *testing.T) {
	c, _, sched := newTestCoordinator()

	// 固定的伪随机序列
	seq := []int{1, 1, -1, 1, 1, 1, 1, 1, -1, -1, -1, -1, -1, -1, 1, -1, 1, 1}
	for i, dir := range seq {
		c.Wheel(float64(dir))
		if i%3 == 0 {
			sched.Tick(cooldown)
		} else {
			sched.Tick(100 * time.Millisecond)
		}
		st := c.State()
		if st.CurrentStep < 0 || st.CurrentStep > c.TotalSteps()-1 {
			t.Fatalf("step %d out of range after input %d", st.CurrentStep, i)
		}
		if !st.IsTransitioning {
			want := float64(st.CurrentStep) / float64(c.TotalSteps()-1)
			if !almostEqual(st.ParallaxProgress, want) {
				t.Fatalf("at rest progress %v != step fraction %v", st.ParallaxProgress, want)
			}
		}
	}
}

// TestReplaceCooldownTimer 测试新的切换替换旧的冷却定时器
func TestReplaceCooldownTimer(t *testing.T) {
	c, _, sched := newTestCoordinator()

	c.Advance()
	sched.Tick(cooldown)
	c.Advance()

	if got := sched.Pending(); got != 1 {
		t.Errorf("pending timers: got %d, want 1", got)
	}
}

// TestResetAndClose 测试复位与卸载
func TestResetAndClose(t *testing.T) {
	c, vp, sched := newTestCoordinator()

	var seen []State
	unsubscribe := c.OnChange(func(s State) { seen = append(seen, s) })

	c.Advance()
	c.Reset()
	if st := c.State(); st != (State{}) {
		t.Errorf("Reset() state: got %+v", st)
	}
	if call := vp.last(); call.y != 0 || call.animate {
		t.Errorf("Reset() should jump to top, got %+v", call)
	}
	if sched.Pending() != 0 {
		t.Errorf("Reset() should stop cooldown, pending=%d", sched.Pending())
	}
	if len(seen) != 2 {
		t.Errorf("listener calls: got %d, want 2", len(seen))
	}

	unsubscribe()
	c.Advance()
	if len(seen) != 2 {
		t.Error("unsubscribed listener should not be notified")
	}

	c.Close()
	if sched.Pending() != 0 {
		t.Errorf("Close() should stop cooldown, pending=%d", sched.Pending())
	}
	if c.State().IsTransitioning {
		t.Error("Close() should clear the guard")
	}
}

// TestResizeRealigns 测试窗口尺寸变化后重新对齐当前步进
func TestResizeRealigns(t *testing.T) {
	c, vp, sched := newTestCoordinator()

	c.Advance()
	sched.Tick(cooldown)
	c.Advance()

	vp.height = 600
	c.Resize()
	if call := vp.last(); call.y != 1200 || call.animate {
		t.Errorf("Resize(): got %+v, want jump to 1200", call)
	}
}
