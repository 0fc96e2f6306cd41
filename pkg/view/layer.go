package view

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/lucifer-ux/4bitsLanding/pkg/scroll"
)

// Layer 3D 视图的离屏图层
// 视图先绘制到离屏图像，再按容器变换合成到屏幕
type Layer struct {
	image *ebiten.Image
}

// Image 返回尺寸为 w x h 的离屏图像，尺寸变化时重建
func (l *Layer) Image(w, h int) *ebiten.Image {
	if l.image != nil {
		b := l.image.Bounds()
		if b.Dx() == w && b.Dy() == h {
			l.image.Clear()
			return l.image
		}
		l.image.Deallocate()
	}
	l.image = ebiten.NewImage(w, h)
	return l.image
}

// Composite 以图层中心为原点缩放，再整体平移 TranslateY，并乘以透明度
func (l *Layer) Composite(dst *ebiten.Image, t scroll.Transform) {
	if l.image == nil || t.Hidden {
		return
	}
	op := TransformOptions(l.image.Bounds().Dx(), l.image.Bounds().Dy(), t)
	dst.DrawImage(l.image, op)
}

// TransformOptions 计算容器变换的绘制参数
func TransformOptions(w, h int, t scroll.Transform) *ebiten.DrawImageOptions {
	op := &ebiten.DrawImageOptions{}
	hw, hh := float64(w)/2, float64(h)/2
	op.GeoM.Translate(-hw, -hh)
	op.GeoM.Scale(t.Scale, t.Scale)
	op.GeoM.Translate(hw, hh+t.TranslateY)
	op.ColorScale.ScaleAlpha(float32(t.Opacity))
	op.Filter = ebiten.FilterLinear
	return op
}
