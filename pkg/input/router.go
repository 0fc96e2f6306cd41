package input

import (
	"time"

	"github.com/lucifer-ux/4bitsLanding/pkg/scroll"
)

// Router 把一帧输入分发给步进协调器、手势路由与旋转累加器
//
//	滚轮:  水平占优 -> 旋转累加器；否则 -> 协调器（只看 deltaY 符号）
//	拖拽:  -> 手势路由判定方向；水平判定后的移动 -> 旋转累加器（视图可交互时）
type Router struct {
	coordinator *scroll.Coordinator
	gestures    *scroll.GestureRouter
	rotation    *scroll.RotationAccumulator
	drag        *DragTracker

	// Enabled 为 false 时忽略所有输入（例如弹窗打开时）
	Enabled bool
	// ViewPointerEvents 为 false 时 3D 视图已淡出，拖拽不再驱动旋转
	ViewPointerEvents bool
	// Prevented 本帧是否有输入被接管（等价于 preventDefault）
	Prevented bool

	lastX, lastY int
}

// NewRouter 创建输入路由
// rotation 可以为 nil（没有 3D 视图的变体）
func NewRouter(c *scroll.Coordinator, g *scroll.GestureRouter, r *scroll.RotationAccumulator, allowMouseDrag bool) *Router {
	return &Router{
		coordinator: c,
		gestures:    g,
		rotation:    r,
		drag:        NewDragTracker(allowMouseDrag),
		Enabled:     true,

		ViewPointerEvents: true,
	}
}

// Drag 拖拽跟踪器
func (r *Router) Drag() *DragTracker {
	return r.drag
}

// Update 处理一帧输入；now 为帧时钟时间
func (r *Router) Update(s Snapshot, now time.Duration) {
	r.Prevented = false
	r.drag.Update(s)
	if !r.Enabled {
		if r.drag.State() != DragStateNone {
			r.gestures.Cancel()
			if r.rotation != nil {
				r.rotation.TouchEnd()
			}
			r.drag.Reset()
		}
		return
	}

	r.wheel(s.WheelX, s.WheelY)

	info := r.drag.Info()
	x, y := float64(info.CurrentX), float64(info.CurrentY)
	switch info.State {
	case DragStateStarted:
		r.gestures.TouchStart(x, y, now)
		if r.rotation != nil {
			r.rotation.TouchStart(x, y)
		}
	case DragStateDragging:
		if info.CurrentX == r.lastX && info.CurrentY == r.lastY {
			break
		}
		if r.gestures.TouchMove(x, y) {
			r.Prevented = true
		}
		if r.rotation != nil && r.ViewPointerEvents && r.gestures.PassThrough() {
			r.rotation.TouchMove(x, y)
		}
	case DragStateEnded:
		r.gestures.TouchEnd(x, y, now)
		if r.rotation != nil {
			r.rotation.TouchEnd()
		}
	}
	r.lastX, r.lastY = info.CurrentX, info.CurrentY
}

func (r *Router) wheel(wx, wy float64) {
	if wx == 0 && wy == 0 {
		return
	}
	// ebiten 向上滚为正，页面滚动约定向下为正
	dx, dy := wx, -wy
	r.Prevented = true
	if r.rotation != nil && r.rotation.Wheel(dx, dy) {
		return
	}
	r.coordinator.Wheel(dy)
}
