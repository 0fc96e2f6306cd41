package input

import (
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/lucifer-ux/4bitsLanding/pkg/config"
	"github.com/lucifer-ux/4bitsLanding/pkg/scroll"
)

func ebitenTouchID(id int) ebiten.TouchID {
	return ebiten.TouchID(id)
}

type testRig struct {
	router    *Router
	coord     *scroll.Coordinator
	rotation  *scroll.RotationAccumulator
	sched     *scroll.FrameScheduler
	forwarded []scroll.Rotation
}

func newRig(allowMouse bool) *testRig {
	cfg := config.Default()
	rig := &testRig{sched: scroll.NewFrameScheduler()}
	vp := scroll.NewSmoothViewport(800, cfg.Scroll.ScrollDuration)
	rig.coord = scroll.NewCoordinator(cfg.Scroll, vp, rig.sched)
	gestures := scroll.NewGestureRouter(cfg.Scroll.GestureThreshold, rig.coord)
	rig.rotation = scroll.NewRotationAccumulator(cfg.Rotation, func(r scroll.Rotation) {
		rig.forwarded = append(rig.forwarded, r)
	})
	rig.router = NewRouter(rig.coord, gestures, rig.rotation, allowMouse)
	return rig
}

// TestWheelSteps 测试垂直滚轮步进（ebiten 向下滚为负）
func TestWheelSteps(t *testing.T) {
	rig := newRig(false)

	rig.router.Update(Snapshot{WheelY: -1}, 0)
	if got := rig.coord.State().CurrentStep; got != 1 {
		t.Fatalf("CurrentStep: got %d, want 1", got)
	}
	if !rig.router.Prevented {
		t.Error("wheel should be prevented")
	}

	// 冷却中的滚轮被丢弃
	rig.router.Update(Snapshot{WheelY: -3}, 16*time.Millisecond)
	if got := rig.coord.State().CurrentStep; got != 1 {
		t.Errorf("CurrentStep during cooldown: got %d, want 1", got)
	}

	rig.sched.Tick(700 * time.Millisecond)
	rig.router.Update(Snapshot{WheelY: 1}, 700*time.Millisecond)
	if got := rig.coord.State().CurrentStep; got != 0 {
		t.Errorf("CurrentStep after upward wheel: got %d, want 0", got)
	}
}

// TestHorizontalWheelRotates 测试水平滚轮只旋转
func TestHorizontalWheelRotates(t *testing.T) {
	rig := newRig(false)
	rig.router.Update(Snapshot{WheelX: 4, WheelY: -1}, 0)

	if got := rig.coord.State().CurrentStep; got != 0 {
		t.Errorf("CurrentStep: got %d, want 0", got)
	}
	if len(rig.forwarded) != 1 || rig.forwarded[0].Lng != 2 {
		t.Errorf("forwarded: %+v", rig.forwarded)
	}
}

// TestVerticalSwipeSteps 测试垂直滑动在抬起时步进
func TestVerticalSwipeSteps(t *testing.T) {
	rig := newRig(false)
	frames := []Snapshot{
		touchAt(1, 100, 100),
		touchAt(1, 102, 120),
		touchAt(1, 103, 160),
		{},
	}
	for i, f := range frames {
		rig.router.Update(f, time.Duration(i)*16*time.Millisecond)
		if i < len(frames)-1 && rig.coord.State().CurrentStep != 0 {
			t.Fatalf("frame %d: stepped before touch end", i)
		}
	}
	if got := rig.coord.State().CurrentStep; got != 1 {
		t.Errorf("CurrentStep: got %d, want 1", got)
	}
	if len(rig.forwarded) != 0 {
		t.Errorf("vertical swipe should not rotate: %+v", rig.forwarded)
	}
}

// TestHorizontalDragRotates 测试水平拖拽驱动旋转且不步进
func TestHorizontalDragRotates(t *testing.T) {
	rig := newRig(true)
	frames := []Snapshot{
		{MouseDown: true, MouseX: 100, MouseY: 100},
		{MouseDown: true, MouseX: 120, MouseY: 101},
		{MouseDown: true, MouseX: 160, MouseY: 102},
		{MouseX: 160, MouseY: 102},
	}
	for i, f := range frames {
		rig.router.Update(f, time.Duration(i)*16*time.Millisecond)
	}
	if got := rig.coord.State().CurrentStep; got != 0 {
		t.Errorf("CurrentStep: got %d, want 0", got)
	}
	if len(rig.forwarded) == 0 {
		t.Fatal("expected rotation updates")
	}
	if lat := rig.rotation.Rotation().Lat; lat != 0 {
		t.Errorf("lat: got %v, want 0", lat)
	}
}

// TestFadedViewIgnoresDrag 测试 3D 视图不可交互时水平拖拽不再旋转
func TestFadedViewIgnoresDrag(t *testing.T) {
	rig := newRig(true)
	rig.router.ViewPointerEvents = false
	frames := []Snapshot{
		{MouseDown: true, MouseX: 100, MouseY: 100},
		{MouseDown: true, MouseX: 120, MouseY: 101},
		{MouseDown: true, MouseX: 160, MouseY: 102},
		{MouseX: 160, MouseY: 102},
	}
	for i, f := range frames {
		rig.router.Update(f, time.Duration(i)*16*time.Millisecond)
	}
	if len(rig.forwarded) != 0 {
		t.Errorf("faded view should not rotate: %+v", rig.forwarded)
	}
	if got := rig.coord.State().CurrentStep; got != 0 {
		t.Errorf("CurrentStep: got %d, want 0", got)
	}

	// 视图恢复可交互后拖拽重新生效
	rig.router.ViewPointerEvents = true
	for i, f := range frames {
		rig.router.Update(f, time.Duration(len(frames)+i)*16*time.Millisecond)
	}
	if len(rig.forwarded) == 0 {
		t.Error("expected rotation updates after view becomes interactive")
	}
}

// TestDisabledRouterCancels 测试禁用时丢弃进行中的手势
func TestDisabledRouterCancels(t *testing.T) {
	rig := newRig(false)
	rig.router.Update(touchAt(1, 100, 100), 0)
	rig.router.Update(touchAt(1, 100, 200), 16*time.Millisecond)

	rig.router.Enabled = false
	rig.router.Update(touchAt(1, 100, 220), 32*time.Millisecond)
	rig.router.Update(Snapshot{WheelY: -1}, 48*time.Millisecond)

	if got := rig.coord.State().CurrentStep; got != 0 {
		t.Errorf("CurrentStep: got %d, want 0", got)
	}
}
