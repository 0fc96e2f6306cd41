package input

import (
	"testing"
)

func touchAt(id, x, y int) Snapshot {
	return Snapshot{Touches: []Touch{{ID: ebitenTouchID(id), X: x, Y: y}}}
}

// TestDragTrackerTouchSequence 测试触摸拖拽的状态流转
func TestDragTrackerTouchSequence(t *testing.T) {
	d := NewDragTracker(false)

	steps := []struct {
		name  string
		snap  Snapshot
		state DragState
		x, y  int
	}{
		{name: "按下", snap: touchAt(1, 10, 20), state: DragStateStarted, x: 10, y: 20},
		{name: "移动", snap: touchAt(1, 15, 60), state: DragStateDragging, x: 15, y: 60},
		{name: "继续移动", snap: touchAt(1, 18, 90), state: DragStateDragging, x: 18, y: 90},
		{name: "抬起", snap: Snapshot{}, state: DragStateEnded, x: 18, y: 90},
		{name: "空闲", snap: Snapshot{}, state: DragStateNone},
	}
	for _, s := range steps {
		d.Update(s.snap)
		info := d.Info()
		if info.State != s.state {
			t.Fatalf("%s: state got %v, want %v", s.name, info.State, s.state)
		}
		if s.state != DragStateNone && (info.CurrentX != s.x || info.CurrentY != s.y) {
			t.Errorf("%s: position got (%d,%d), want (%d,%d)", s.name, info.CurrentX, info.CurrentY, s.x, s.y)
		}
	}
}

// TestDragTrackerHeldTouchDoesNotRestart 测试持续按住的触点不会被当作新的按下
func TestDragTrackerHeldTouchDoesNotRestart(t *testing.T) {
	d := NewDragTracker(false)
	d.Update(touchAt(1, 0, 0))
	d.Update(Snapshot{})
	if !d.JustEnded() {
		t.Fatal("expected ended")
	}
	// 触点 2 在结束帧之后才出现，应开始新的拖拽
	d.Update(touchAt(2, 5, 5))
	if !d.JustStarted() {
		t.Errorf("state: got %v, want started", d.State())
	}
	d.Update(touchAt(2, 5, 5))
	d.Update(touchAt(2, 5, 5))
	if d.State() != DragStateDragging {
		t.Errorf("state: got %v, want dragging", d.State())
	}
}

// TestDragTrackerMouse 测试鼠标拖拽开关
func TestDragTrackerMouse(t *testing.T) {
	down := Snapshot{MouseDown: true, MouseX: 40, MouseY: 50}

	off := NewDragTracker(false)
	off.Update(down)
	if off.State() != DragStateNone {
		t.Errorf("mouse disabled: state got %v", off.State())
	}

	on := NewDragTracker(true)
	on.Update(down)
	if !on.JustStarted() || on.Info().IsTouchInput {
		t.Fatalf("mouse enabled: info %+v", on.Info())
	}
	on.Update(Snapshot{MouseDown: true, MouseX: 40, MouseY: 120})
	if dx, dy := on.Distance(); dx != 0 || dy != 70 {
		t.Errorf("Distance: got (%d,%d), want (0,70)", dx, dy)
	}
	on.Update(Snapshot{MouseX: 40, MouseY: 120})
	if !on.JustEnded() {
		t.Errorf("state: got %v, want ended", on.State())
	}
}

// TestDragTrackerTap 测试点击与拖拽的区分
func TestDragTrackerTap(t *testing.T) {
	tests := []struct {
		name   string
		endX   int
		wantOK bool
	}{
		{name: "原地抬起", endX: 12, wantOK: true},
		{name: "拖动后抬起", endX: 60, wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDragTracker(true)
			d.Update(Snapshot{MouseDown: true, MouseX: 10, MouseY: 10})
			d.Update(Snapshot{MouseDown: true, MouseX: tt.endX, MouseY: 10})
			if _, _, ok := d.Tap(8); ok {
				t.Fatal("tap reported while still pressed")
			}
			d.Update(Snapshot{MouseX: tt.endX, MouseY: 10})
			x, y, ok := d.Tap(8)
			if ok != tt.wantOK {
				t.Fatalf("Tap ok got %v, want %v", ok, tt.wantOK)
			}
			if ok && (x != tt.endX || y != 10) {
				t.Errorf("Tap position got (%d,%d)", x, y)
			}
		})
	}
}
