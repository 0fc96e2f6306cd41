package scroll

import (
	"math"

	"github.com/lucifer-ux/4bitsLanding/pkg/config"
)

// Curves 进度到视觉参数的纯函数映射
//
// 缩放与位移共用断点 (peak, plateau)，两条曲线必须在同一进度切换分段，否则画面会跳变。
type Curves struct {
	cfg config.CurvesConfig
}

// NewCurves 创建曲线映射
func NewCurves(cfg config.CurvesConfig) Curves {
	return Curves{cfg: cfg}
}

// Transform 3D 视图的容器变换
type Transform struct {
	Scale      float64
	TranslateY float64
	Opacity    float64
	// PointerEvents 视图是否可接收指针（透明度足够高时）
	PointerEvents bool
	// Hidden 几乎透明时直接隐藏
	Hidden bool
}

// Scale 缩放曲线
//
//	[0, peak]       base -> peakScale
//	[peak, plateau] peakScale -> plateauScale
//	[plateau, 1]    plateauScale
func (c Curves) Scale(p float64) float64 {
	p = clamp01(p)
	cc := c.cfg
	switch {
	case p <= cc.PeakProgress:
		t := p / cc.PeakProgress
		return cc.BaseScale + t*(cc.PeakScale-cc.BaseScale)
	case p < cc.PlateauProgress:
		t := (p - cc.PeakProgress) / (cc.PlateauProgress - cc.PeakProgress)
		return cc.PeakScale - t*(cc.PeakScale-cc.PlateauScale)
	default:
		return cc.PlateauScale
	}
}

// TranslateY 垂直位移曲线（像素，向上为负）
func (c Curves) TranslateY(p, viewportHeight float64) float64 {
	p = clamp01(p)
	cc := c.cfg
	offset := -cc.TranslateFactor * viewportHeight
	switch {
	case p <= cc.PeakProgress:
		return 0
	case p < cc.PlateauProgress:
		t := (p - cc.PeakProgress) / (cc.PlateauProgress - cc.PeakProgress)
		return t * offset
	default:
		return offset
	}
}

// ViewOpacity 由缩放值派生 3D 视图透明度
// 缩放超过阈值后线性淡出，最低保持 MinOpacity
func (c Curves) ViewOpacity(scale float64) float64 {
	cc := c.cfg
	start := cc.FadeScaleThreshold
	end := cc.FadeScaleThreshold + cc.FadeScaleDelta
	switch {
	case scale <= start:
		return 1
	case scale >= end:
		return cc.MinOpacity
	}
	t := (scale - start) / (end - start)
	return 1 - t*(1-cc.MinOpacity)
}

// Transform 计算给定进度下的完整变换
func (c Curves) Transform(p, viewportHeight float64) Transform {
	scale := c.Scale(p)
	opacity := c.ViewOpacity(scale)
	return Transform{
		Scale:         scale,
		TranslateY:    c.TranslateY(p, viewportHeight),
		Opacity:       opacity,
		PointerEvents: opacity > 0.05,
		Hidden:        opacity < 0.01,
	}
}

// HeroOpacity 首屏文字随进度淡出：max(0, 1 - k*p)
func HeroOpacity(p, k float64) float64 {
	return math.Max(0, 1-k*clamp01(p))
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
