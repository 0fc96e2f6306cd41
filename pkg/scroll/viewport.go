package scroll

import (
	"time"

	"github.com/lucifer-ux/4bitsLanding/pkg/utils"
)

// SmoothViewport 带缓动的虚拟滚动视口
//
// ScrollTo 启动一段 EaseInOutCubic 动画，Update(dt) 推进动画。
// 视口偏移只影响页面内容的绘制位置，变换与文字淡入淡出由进度驱动。
type SmoothViewport struct {
	height   float64
	duration time.Duration

	offset      float64
	from, to    float64
	elapsed     time.Duration
	isAnimating bool
}

// NewSmoothViewport 创建视口
func NewSmoothViewport(height float64, duration time.Duration) *SmoothViewport {
	return &SmoothViewport{height: height, duration: duration}
}

// ScrollTo 实现 Viewport
func (v *SmoothViewport) ScrollTo(y float64, animate bool) {
	if !animate || v.duration <= 0 {
		v.offset, v.to = y, y
		v.isAnimating = false
		return
	}
	v.from = v.offset
	v.to = y
	v.elapsed = 0
	v.isAnimating = true
}

// Height 实现 Viewport
func (v *SmoothViewport) Height() float64 {
	return v.height
}

// SetHeight 更新视口高度（窗口尺寸变化）
func (v *SmoothViewport) SetHeight(h float64) {
	v.height = h
}

// Update 推进滚动动画
func (v *SmoothViewport) Update(dt time.Duration) {
	if !v.isAnimating {
		return
	}
	v.elapsed += dt
	t := float64(v.elapsed) / float64(v.duration)
	if t >= 1 {
		v.offset = v.to
		v.isAnimating = false
		return
	}
	v.offset = utils.Lerp(v.from, v.to, utils.EaseInOutCubic(t))
}

// Offset 当前滚动偏移
func (v *SmoothViewport) Offset() float64 {
	return v.offset
}

// Target 动画目标偏移
func (v *SmoothViewport) Target() float64 {
	return v.to
}

// IsAnimating 是否正在滚动
func (v *SmoothViewport) IsAnimating() bool {
	return v.isAnimating
}
