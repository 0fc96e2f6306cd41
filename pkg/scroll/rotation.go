package scroll

import (
	"math"

	"github.com/lucifer-ux/4bitsLanding/pkg/config"
)

// Rotation 地球仪旋转偏移（度）
type Rotation struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// RotationAccumulator 水平旋转累加器
//
// 把水平滚轮和水平拖拽累加为 {lat, lng}，每次变化都转发给 3D 视图。
// lng 不做限幅，由视图自行取模；lat 目前没有任何输入会修改。
type RotationAccumulator struct {
	cfg      config.RotationConfig
	rotation Rotation
	forward  func(Rotation)

	lastX, lastY float64
	dragging     bool
}

// NewRotationAccumulator 创建旋转累加器
// forward 可为 nil
func NewRotationAccumulator(cfg config.RotationConfig, forward func(Rotation)) *RotationAccumulator {
	return &RotationAccumulator{cfg: cfg, forward: forward}
}

// Rotation 返回当前旋转
func (r *RotationAccumulator) Rotation() Rotation {
	return r.rotation
}

// Wheel 处理滚轮；水平分量占优时累加并返回 true（调用方应阻止默认滚动）
func (r *RotationAccumulator) Wheel(dx, dy float64) bool {
	if math.Abs(dx) <= math.Abs(dy) {
		return false
	}
	r.add(dx * r.cfg.WheelFactor)
	return true
}

// TouchStart 记录拖拽起点
func (r *RotationAccumulator) TouchStart(x, y float64) {
	r.lastX, r.lastY = x, y
	r.dragging = false
}

// TouchMove 处理拖拽；水平占优且超过最小位移时累加
func (r *RotationAccumulator) TouchMove(x, y float64) bool {
	dx := x - r.lastX
	dy := y - r.lastY
	if math.Abs(dx) <= math.Abs(dy) || math.Abs(dx) <= r.cfg.DragMinDelta {
		return false
	}
	r.dragging = true
	r.add(dx * r.cfg.DragFactor)
	r.lastX, r.lastY = x, y
	return true
}

// TouchEnd 结束拖拽
func (r *RotationAccumulator) TouchEnd() {
	r.dragging = false
}

// Dragging 是否正在拖拽旋转
func (r *RotationAccumulator) Dragging() bool {
	return r.dragging
}

func (r *RotationAccumulator) add(deltaLng float64) {
	r.rotation.Lng += deltaLng
	if r.forward != nil {
		r.forward(r.rotation)
	}
}
