package scroll

import (
	"math"
	"time"
)

// GestureIntent 单次触摸序列的方向判定
type GestureIntent int

const (
	// IntentUndecided 尚未超过判定阈值
	IntentUndecided GestureIntent = iota
	// IntentVertical 垂直手势：翻页
	IntentVertical
	// IntentHorizontal 水平手势：旋转 3D 视图
	IntentHorizontal
)

// String 返回判定名称（用于日志）
func (i GestureIntent) String() string {
	switch i {
	case IntentVertical:
		return "vertical"
	case IntentHorizontal:
		return "horizontal"
	default:
		return "undecided"
	}
}

// GestureRouter 触摸手势路由
//
// 每个触摸序列只判定一次方向：
//
//	Undecided -> Vertical | Horizontal （直到触摸结束）
//
// 水平方向打开 3D 视图的指针穿透；垂直方向在触摸结束时按净位移交给协调器步进。
type GestureRouter struct {
	threshold   float64
	coordinator *Coordinator

	active      bool
	intent      GestureIntent
	passThrough bool

	startX, startY float64
	startAt        time.Duration
}

// NewGestureRouter 创建手势路由器
// threshold 为锁定方向所需的最小位移（像素）
func NewGestureRouter(threshold float64, coordinator *Coordinator) *GestureRouter {
	return &GestureRouter{
		threshold:   threshold,
		coordinator: coordinator,
	}
}

// TouchStart 开始新的触摸序列
func (g *GestureRouter) TouchStart(x, y float64, at time.Duration) {
	g.active = true
	g.intent = IntentUndecided
	g.passThrough = false
	g.startX, g.startY = x, y
	g.startAt = at
}

// TouchMove 处理触摸移动
// 返回是否应阻止默认的页面滚动
func (g *GestureRouter) TouchMove(x, y float64) (preventDefault bool) {
	if !g.active {
		return false
	}
	if g.intent != IntentUndecided {
		// 两个方向判定后都由我们接管滚动
		return true
	}

	dx := x - g.startX
	dy := y - g.startY
	if math.Abs(dx) < g.threshold && math.Abs(dy) < g.threshold {
		return false
	}

	if math.Abs(dx) > math.Abs(dy) {
		g.intent = IntentHorizontal
		g.passThrough = true
	} else {
		g.intent = IntentVertical
		g.passThrough = false
	}
	return true
}

// TouchEnd 结束触摸序列
// 垂直手势按净位移步进，净位移转为水平占优时不步进；
// 无论哪个分支都会复位并撤销指针穿透。
// 返回是否提交了步进切换
func (g *GestureRouter) TouchEnd(x, y float64, at time.Duration) (stepped bool) {
	if g.active && g.intent == IntentVertical && g.coordinator != nil {
		stepped = g.coordinator.Swipe(x-g.startX, y-g.startY, at-g.startAt)
	}
	g.active = false
	g.intent = IntentUndecided
	g.passThrough = false
	return stepped
}

// Cancel 放弃当前触摸序列，不触发步进
func (g *GestureRouter) Cancel() {
	g.active = false
	g.intent = IntentUndecided
	g.passThrough = false
}

// Intent 返回当前序列的方向判定
func (g *GestureRouter) Intent() GestureIntent {
	return g.intent
}

// PassThrough 返回 3D 视图当前是否接收指针输入
func (g *GestureRouter) PassThrough() bool {
	return g.passThrough
}

// Active 返回是否处于触摸序列中
func (g *GestureRouter) Active() bool {
	return g.active
}
