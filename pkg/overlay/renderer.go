package overlay

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/lucifer-ux/4bitsLanding/pkg/config"
	"github.com/lucifer-ux/4bitsLanding/pkg/style"
)

// ReceiptBlockID 以账单面板代替文字绘制的叠加块
const ReceiptBlockID = "receipt"

var alertColor = color.RGBA{R: 0xff, G: 0x66, B: 0x66, A: 0xff}

// Renderer 叠加文字绘制
type Renderer struct {
	fonts   *Fonts
	palette *style.Palette
	blocks  []config.OverlayConfig
	receipt *Receipt
}

// NewRenderer 创建叠加文字绘制器
func NewRenderer(fonts *Fonts, palette *style.Palette, blocks []config.OverlayConfig, receipt *Receipt) *Renderer {
	return &Renderer{fonts: fonts, palette: palette, blocks: blocks, receipt: receipt}
}

// Receipt 返回账单（供输入处理切换币种和年限）
func (r *Renderer) Receipt() *Receipt {
	return r.receipt
}

// Draw 按各块可见度绘制叠加文字；opacities 与 blocks 一一对应
func (r *Renderer) Draw(dst *ebiten.Image, opacities []float64) {
	w := float64(dst.Bounds().Dx())
	h := float64(dst.Bounds().Dy())
	for i, b := range r.blocks {
		if i >= len(opacities) || opacities[i] <= 0 {
			continue
		}
		if b.ID == ReceiptBlockID && r.receipt != nil {
			r.drawReceipt(dst, w/2, h/2, opacities[i])
			continue
		}
		r.drawLines(dst, b.Lines, w/2, h/2, w*0.8, opacities[i])
	}
}

// DrawHero 绘制首屏：背景大字、打字机标题
func (r *Renderer) DrawHero(dst *ebiten.Image, headline string, heroAlpha, wordAlpha float64) {
	w := float64(dst.Bounds().Dx())
	h := float64(dst.Bounds().Dy())

	if wordAlpha > 0 {
		bg := r.palette.TextPrimary
		r.drawText(dst, "4bits", r.fonts.Headline, w/2, h*0.22, style.WithAlpha(bg, 0.15*wordAlpha))
	}
	if heroAlpha > 0 && headline != "" {
		r.drawText(dst, headline, r.fonts.Headline, w/2, h*0.42, style.WithAlpha(r.palette.Accent, heroAlpha))
		r.drawText(dst, "Scroll to begin", r.fonts.Small, w/2, h*0.52, style.WithAlpha(r.palette.TextSecondary, heroAlpha))
	}
}

func (r *Renderer) drawLines(dst *ebiten.Image, lines []string, cx, cy, maxWidth, alpha float64) {
	measure := FaceMeasurer(r.fonts.Body)
	var wrapped []string
	for _, l := range lines {
		wrapped = append(wrapped, Wrap(l, measure, maxWidth)...)
	}
	lineHeight := r.fonts.Body.Size * 1.4
	y := cy - lineHeight*float64(len(wrapped))/2
	for _, l := range wrapped {
		r.drawText(dst, l, r.fonts.Body, cx, y, style.WithAlpha(r.palette.TextPrimary, alpha))
		y += lineHeight
	}
}

func (r *Renderer) drawReceipt(dst *ebiten.Image, cx, cy, alpha float64) {
	rows := r.receipt.Rows()
	face := r.fonts.Mono
	lineHeight := face.Size * 1.8
	width := face.Size * 30
	height := lineHeight * float64(len(rows)+4)
	left := cx - width/2
	top := cy - height/2

	panel := style.WithAlpha(color.RGBA{R: 10, G: 12, B: 20, A: 0xd9}, alpha)
	vector.DrawFilledRect(dst, float32(left), float32(top), float32(width), float32(height), panel, true)
	vector.StrokeRect(dst, float32(left), float32(top), float32(width), float32(height), 1, style.WithAlpha(color.RGBA{R: 255, G: 255, B: 255, A: 0x1a}, alpha), true)

	y := top + lineHeight
	r.drawText(dst, "-- CLOUD STORAGE RECEIPT --", face, cx, y, style.WithAlpha(r.palette.TextPrimary, alpha))
	y += lineHeight * 1.5

	for _, row := range rows {
		clr := r.palette.TextSecondary
		if row.Alert {
			clr = alertColor
		}
		r.drawAligned(dst, row.Label, face, left+face.Size, y, text.AlignStart, style.WithAlpha(r.palette.TextSecondary, alpha))
		r.drawAligned(dst, row.Value, face, left+width-face.Size, y, text.AlignEnd, style.WithAlpha(clr, alpha))
		y += lineHeight
	}
	r.drawText(dst, "Thank you for renting your memories from us", r.fonts.Small, cx, y+lineHeight*0.5, style.WithAlpha(r.palette.TextSecondary, alpha))
}

func (r *Renderer) drawText(dst *ebiten.Image, s string, face *text.GoTextFace, x, y float64, clr color.RGBA) {
	r.drawAligned(dst, s, face, x, y, text.AlignCenter, clr)
}

func (r *Renderer) drawAligned(dst *ebiten.Image, s string, face *text.GoTextFace, x, y float64, align text.Align, clr color.RGBA) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.PrimaryAlign = align
	op.SecondaryAlign = text.AlignCenter
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(dst, s, face, op)
}
