package scenes

import (
	"image/color"
	"strings"
	"unicode"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/lucifer-ux/4bitsLanding/pkg/input"
	"github.com/lucifer-ux/4bitsLanding/pkg/overlay"
	"github.com/lucifer-ux/4bitsLanding/pkg/style"
)

// tapSlop 点击允许的最大位移（像素）
const tapSlop = 10

// Pointer 本帧指针：悬停位置与点击
type Pointer struct {
	X, Y   float64
	Tapped bool
}

// Rect 轴对齐矩形
type Rect struct {
	X, Y, W, H float64
}

// Contains 点是否在矩形内
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Center 矩形中心
func (r Rect) Center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// centered 以 (cx, cy) 为中心的矩形
func centered(cx, cy, w, h float64) Rect {
	return Rect{X: cx - w/2, Y: cy - h/2, W: w, H: h}
}

// theme 弹窗与按钮共用的字体和配色
type theme struct {
	fonts   *overlay.Fonts
	palette *style.Palette
}

var (
	panelColor = color.RGBA{R: 0x10, G: 0x12, B: 0x16, A: 0xf0}
	fieldColor = color.RGBA{R: 0x1c, G: 0x1f, B: 0x26, A: 0xff}
	errorColor = color.RGBA{R: 0xff, G: 0x6b, B: 0x6b, A: 0xff}
)

func (th *theme) text(dst *ebiten.Image, s string, face *text.GoTextFace, x, y float64, align text.Align, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.PrimaryAlign = align
	op.SecondaryAlign = text.AlignCenter
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(dst, s, face, op)
}

func (th *theme) fill(dst *ebiten.Image, r Rect, clr color.Color) {
	vector.DrawFilledRect(dst, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), clr, false)
}

func (th *theme) stroke(dst *ebiten.Image, r Rect, width float64, clr color.Color) {
	vector.StrokeRect(dst, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), float32(width), clr, false)
}

// dim 弹窗背后的半透明遮罩
func (th *theme) dim(dst *ebiten.Image) {
	b := dst.Bounds()
	th.fill(dst, Rect{W: float64(b.Dx()), H: float64(b.Dy())}, color.RGBA{A: 0xb0})
}

// Button 矩形按钮
type Button struct {
	Label    string
	Bounds   Rect
	Primary  bool
	Disabled bool

	hovered bool
}

// Update 更新悬停状态，返回本帧是否被点击
func (b *Button) Update(p Pointer) bool {
	b.hovered = b.Bounds.Contains(p.X, p.Y)
	return !b.Disabled && p.Tapped && b.hovered
}

// Draw 绘制按钮
func (b *Button) Draw(dst *ebiten.Image, th *theme) {
	fg := th.palette.TextPrimary
	switch {
	case b.Disabled:
		th.fill(dst, b.Bounds, fieldColor)
		fg = th.palette.TextSecondary
	case b.Primary:
		bg := th.palette.TextPrimary
		if b.hovered {
			bg = th.palette.Accent
		}
		th.fill(dst, b.Bounds, bg)
		fg = th.palette.Background
	default:
		if b.hovered {
			th.fill(dst, b.Bounds, fieldColor)
		}
		th.stroke(dst, b.Bounds, 1, style.WithAlpha(th.palette.TextPrimary, 0.6))
	}
	cx, cy := b.Bounds.Center()
	th.text(dst, b.Label, th.fonts.Small, cx, cy, text.AlignCenter, fg)
}

// TextField 单行输入框
type TextField struct {
	Label       string
	Placeholder string
	Value       string
	Masked      bool
	MaxLen      int
	Bounds      Rect

	focused bool
	blink   float64
}

// Focus 设置焦点
func (f *TextField) Focus(v bool) {
	f.focused = v
	f.blink = 0
}

// Focused 是否获得焦点
func (f *TextField) Focused() bool {
	return f.focused
}

// Type 把本帧键盘输入写入输入框（只在获得焦点时调用）
func (f *TextField) Type(k input.Keys) {
	runes := []rune(f.Value)
	for _, r := range k.Chars {
		if unicode.IsControl(r) {
			continue
		}
		if f.MaxLen > 0 && len(runes) >= f.MaxLen {
			break
		}
		runes = append(runes, r)
	}
	if k.Backspace && len(runes) > 0 {
		runes = runes[:len(runes)-1]
	}
	if len(k.Chars) > 0 || k.Backspace {
		f.blink = 0
	}
	f.Value = string(runes)
}

// Display 显示用文本，密码框以圆点代替
func (f *TextField) Display() string {
	if f.Masked {
		return strings.Repeat("•", len([]rune(f.Value)))
	}
	return f.Value
}

// Update 光标闪烁
func (f *TextField) Update(dt float64) {
	f.blink += dt
	if f.blink >= 1 {
		f.blink -= 1
	}
}

// Draw 绘制标签、输入框和光标
func (f *TextField) Draw(dst *ebiten.Image, th *theme) {
	r := f.Bounds
	if f.Label != "" {
		th.text(dst, f.Label, th.fonts.Small, r.X, r.Y-12, text.AlignStart, th.palette.TextSecondary)
	}
	th.fill(dst, r, fieldColor)
	border := style.WithAlpha(th.palette.TextSecondary, 0.5)
	if f.focused {
		border = th.palette.Accent
	}
	th.stroke(dst, r, 1, border)

	pad := 12.0
	cy := r.Y + r.H/2
	s := f.Display()
	if s == "" && !f.focused {
		th.text(dst, f.Placeholder, th.fonts.Small, r.X+pad, cy, text.AlignStart, style.WithAlpha(th.palette.TextSecondary, 0.6))
		return
	}
	th.text(dst, s, th.fonts.Small, r.X+pad, cy, text.AlignStart, th.palette.TextPrimary)
	if f.focused && f.blink < 0.5 {
		w := text.Advance(s, th.fonts.Small)
		x := float32(r.X + pad + w + 1)
		vector.StrokeLine(dst, x, float32(cy-8), x, float32(cy+8), 1, th.palette.TextPrimary, false)
	}
}

// form 一组输入框的焦点与提交键处理
type form struct {
	fields []*TextField
}

// handle 点击切换焦点，Tab 切到下一个，回车返回 submit
func (fm *form) handle(p Pointer, k input.Keys) (submit bool) {
	if p.Tapped {
		for _, f := range fm.fields {
			if f.Bounds.Contains(p.X, p.Y) {
				fm.focus(f)
				break
			}
		}
	}
	if k.Tab && len(fm.fields) > 0 {
		next := (fm.focusedIndex() + 1) % len(fm.fields)
		fm.focus(fm.fields[next])
	}
	if f := fm.focused(); f != nil {
		f.Type(k)
	}
	return k.Enter
}

func (fm *form) focus(target *TextField) {
	for _, f := range fm.fields {
		f.Focus(f == target)
	}
}

func (fm *form) focusedIndex() int {
	for i, f := range fm.fields {
		if f.focused {
			return i
		}
	}
	return -1
}

func (fm *form) focused() *TextField {
	if i := fm.focusedIndex(); i >= 0 {
		return fm.fields[i]
	}
	return nil
}

func (fm *form) update(dt float64) {
	for _, f := range fm.fields {
		f.Update(dt)
	}
}

func (fm *form) draw(dst *ebiten.Image, th *theme) {
	for _, f := range fm.fields {
		f.Draw(dst, th)
	}
}

// modal 覆盖在落地页之上的弹窗
// 打开期间落地页的滚动输入被屏蔽
type modal interface {
	Layout(w, h float64)
	Update(dt float64, p Pointer, k input.Keys)
	Draw(dst *ebiten.Image, th *theme)
	Done() bool
}
