package scroll

import (
	"github.com/lucifer-ux/4bitsLanding/pkg/config"
)

// Window 叠加文字的可见窗口 [Start, End]
type Window struct {
	Start  float64
	End    float64
	Fade   float64
	Sticky bool
}

// Opacity 梯形可见度：窗口外为 0，起点淡入、终点淡出，内部为 1
// 不处理 Sticky 的锁存，锁存由 Overlays 负责
func (w Window) Opacity(p float64) float64 {
	a, d := w.Start, w.End
	b, c := a+w.Fade, d-w.Fade

	if p <= a || p >= d {
		return 0
	}
	if p < b {
		return (p - a) / (b - a)
	}
	if p > c {
		return (d - p) / (d - c)
	}
	return 1
}

// Contains 进度是否落在窗口内部
func (w Window) Contains(p float64) bool {
	return p > w.Start && p < w.End
}

// Overlays 顺序叠加文字的可见度计算
//
// Sticky 窗口一旦进度到达起点就固定为 1，之后即使进度回退也不再降低。
type Overlays struct {
	windows []Window
	latched []bool
}

// NewOverlays 创建叠加文字可见度计算器
func NewOverlays(windows []Window) *Overlays {
	return &Overlays{
		windows: windows,
		latched: make([]bool, len(windows)),
	}
}

// OverlaysFromConfig 从配置创建
func OverlaysFromConfig(cfgs []config.OverlayConfig) *Overlays {
	windows := make([]Window, len(cfgs))
	for i, o := range cfgs {
		windows[i] = Window{Start: o.Start, End: o.End, Fade: o.Fade, Sticky: o.Sticky}
	}
	return NewOverlays(windows)
}

// Len 窗口数量
func (o *Overlays) Len() int {
	return len(o.windows)
}

// Opacities 计算每个窗口在进度 p 下的可见度
func (o *Overlays) Opacities(p float64) []float64 {
	out := make([]float64, len(o.windows))
	for i, w := range o.windows {
		if w.Sticky && p >= w.Start {
			o.latched[i] = true
		}
		if o.latched[i] {
			out[i] = 1
			continue
		}
		out[i] = w.Opacity(p)
	}
	return out
}

// Reset 清除 Sticky 锁存（重新挂载页面时）
func (o *Overlays) Reset() {
	for i := range o.latched {
		o.latched[i] = false
	}
}
