// Package input 把 ebiten 的滚轮、触摸与鼠标输入转换为落地页的滚动事件
package input

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Touch 一个活动触点
type Touch struct {
	ID   ebiten.TouchID
	X, Y int
}

// Snapshot 一帧的原始输入
// 逻辑层只依赖快照，便于在测试中构造输入序列
type Snapshot struct {
	// WheelX, WheelY 本帧滚轮偏移（ebiten 约定：WheelY 向上滚为正）
	WheelX, WheelY float64
	Touches        []Touch
	MouseDown      bool
	MouseX, MouseY int
}

// ReadSnapshot 读取当前帧输入
func ReadSnapshot() Snapshot {
	var s Snapshot
	s.WheelX, s.WheelY = ebiten.Wheel()
	for _, id := range ebiten.AppendTouchIDs(nil) {
		x, y := ebiten.TouchPosition(id)
		s.Touches = append(s.Touches, Touch{ID: id, X: x, Y: y})
	}
	s.MouseDown = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	s.MouseX, s.MouseY = ebiten.CursorPosition()
	return s
}

func (s Snapshot) touch(id ebiten.TouchID) (Touch, bool) {
	for _, t := range s.Touches {
		if t.ID == id {
			return t, true
		}
	}
	return Touch{}, false
}
