package view

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/lucifer-ux/4bitsLanding/pkg/utils"
)

// Pose 产品模型在某一进度下的姿态
// X/Y 为相对视图中心的归一化偏移（单位为视图半宽/半高），RotY 为绕竖轴角度（弧度）
type Pose struct {
	X, Y  float64
	Scale float64
	RotY  float64
}

const productBaseRotY = math.Pi * 1.55

// productKeyframes 各段结束时的姿态；第 0 帧是入场前
var productKeyframes = []Pose{
	{X: 0, Y: 0, Scale: 0, RotY: productBaseRotY},
	{X: 1, Y: 0.2, Scale: 1, RotY: productBaseRotY + 3*math.Pi},
	{X: -1, Y: 0.5, Scale: 0.8, RotY: productBaseRotY - 4*math.Pi},
	{X: -1, Y: 0.5, Scale: 0, RotY: productBaseRotY - 4*math.Pi},
}

// ProductPose 进度 p 对应的产品姿态
// 每段之间使用二次缓入缓出
func ProductPose(p float64) Pose {
	if p <= 0 {
		return productKeyframes[0]
	}
	if p >= 1 {
		return productKeyframes[len(productKeyframes)-1]
	}
	segments := float64(len(productKeyframes) - 1)
	idx := int(p * segments)
	t := utils.EaseInOutQuad(p*segments - float64(idx))
	a, b := productKeyframes[idx], productKeyframes[idx+1]
	return Pose{
		X:     utils.Lerp(a.X, b.X, t),
		Y:     utils.Lerp(a.Y, b.Y, t),
		Scale: utils.Lerp(a.Scale, b.Scale, t),
		RotY:  utils.Lerp(a.RotY, b.RotY, t),
	}
}

// Product 产品剪影渲染
type Product struct {
	colors []color.RGBA
	active int

	// Interacting 用户正在拖拽旋转，暂停悬浮
	Interacting bool
	float       float64
	spin        float64
}

// NewProduct 创建产品渲染
func NewProduct(colors []color.RGBA) *Product {
	if len(colors) == 0 {
		colors = []color.RGBA{{R: 0x1a, G: 0x1a, B: 0x1a, A: 0xff}}
	}
	return &Product{colors: colors}
}

// SelectColor 切换配色，越界时忽略
func (p *Product) SelectColor(i int) {
	if i >= 0 && i < len(p.colors) {
		p.active = i
	}
}

// ColorIndex 当前配色索引
func (p *Product) ColorIndex() int {
	return p.active
}

// Receive 拖拽旋转消息叠加到自转
func (p *Product) Receive(m Message) {
	if m.Type == TypeGlobeRotation {
		p.spin = m.Rotation.Lng * math.Pi / 180
	}
}

// Update 推进悬浮动画
func (p *Product) Update(dt float64) {
	if !p.Interacting {
		p.float += dt * 2
	}
}

// Draw 在 (cx, cy) 处按进度绘制
// size 为 Scale=1 时剪影的高度
func (p *Product) Draw(dst *ebiten.Image, cx, cy, size, progress float64) {
	pose := ProductPose(progress)
	if pose.Scale <= 0.001 {
		return
	}

	w, h := float64(dst.Bounds().Dx()), float64(dst.Bounds().Dy())
	x := cx + pose.X*w/4
	y := cy - pose.Y*h/4 + math.Sin(p.float)*size*0.02

	height := size * pose.Scale
	// 绕竖轴旋转时正面宽度按 |cos| 收缩，保留最小厚度
	width := height * 0.55 * math.Max(0.18, math.Abs(math.Cos(pose.RotY+p.spin)))

	body := p.colors[p.active]
	vector.DrawFilledRect(dst, float32(x-width/2), float32(y-height/2), float32(width), float32(height), body, true)

	edge := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x40}
	vector.StrokeRect(dst, float32(x-width/2), float32(y-height/2), float32(width), float32(height), 1.5, edge, true)

	led := color.RGBA{R: 0x22, G: 0xd3, B: 0xee, A: 0xff}
	vector.DrawFilledCircle(dst, float32(x), float32(y+height*0.38), float32(math.Max(1.5, height*0.015)), led, true)
}
