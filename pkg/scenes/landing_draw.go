package scenes

import (
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/lucifer-ux/4bitsLanding/pkg/scroll"
	"github.com/lucifer-ux/4bitsLanding/pkg/style"
)

// 背景网格间距（像素），随视口偏移滚动
const gridSpacing = 80.0

// identity 产品变体不使用容器缩放
var identity = scroll.Transform{Scale: 1, Opacity: 1, PointerEvents: true}

// layoutButtons 按窗口尺寸摆放按钮
func (s *LandingScene) layoutButtons() {
	w, h := float64(s.width), float64(s.height)
	s.preorderBtn.Bounds = Rect{X: w/2 - 228, Y: h - 76, W: 220, H: 48}
	s.waitlistBtn.Bounds = Rect{X: w/2 + 8, Y: h - 76, W: 220, H: 48}
	s.signOutBtn.Bounds = Rect{X: w - 120, Y: 16, W: 104, H: 32}
	s.demoBtn.Bounds = Rect{X: 16, Y: 16, W: 140, H: 32}

	cy := h/2 + 150
	s.currencyBtn.Bounds = Rect{X: w/2 - 130, Y: cy, W: 90, H: 30}
	s.yearsDown.Bounds = Rect{X: w/2 + 10, Y: cy, W: 36, H: 30}
	s.yearsUp.Bounds = Rect{X: w/2 + 94, Y: cy, W: 36, H: 30}

	const d, gap = 28.0, 16.0
	total := float64(len(s.swatches))*(d+gap) - gap
	x := w/2 - total/2
	for i := range s.swatches {
		s.swatches[i].Bounds = Rect{X: x + float64(i)*(d+gap), Y: h - 124, W: d, H: d}
	}
}

// viewTransform 3D 视图容器当前的变换；产品变体恒为 identity
func (s *LandingScene) viewTransform() scroll.Transform {
	if s.globe == nil {
		return identity
	}
	return s.curves.Transform(s.state.ParallaxProgress, float64(s.height))
}

// Draw 实现 game.Scene
func (s *LandingScene) Draw(screen *ebiten.Image) {
	screen.Fill(s.palette.Background)
	p := s.state.ParallaxProgress
	w, h := float64(s.width), float64(s.height)

	s.drawGrid(screen)

	img := s.layer.Image(s.width, s.height)
	t := s.viewTransform()
	if s.globe != nil {
		s.globe.Draw(img, w/2, h/2, math.Min(w, h)*0.3)
	} else {
		s.product.Draw(img, w/2, h/2, h*0.45, p)
	}
	s.layer.Composite(screen, t)

	s.renderer.DrawHero(screen, s.reveal.Text(), scroll.HeroOpacity(p, 3), scroll.HeroOpacity(p, 4))
	s.renderer.Draw(screen, s.overlays.Opacities(p))

	s.drawSteps(screen)
	s.drawControls(screen)
	if s.toast != "" {
		r := centered(w/2, h-120-36, math.Min(w-32, 560), 36)
		if s.product != nil {
			r.Y -= 40
		}
		s.th.fill(screen, r, panelColor)
		cx, cy := r.Center()
		s.th.text(screen, s.toast, s.fonts.Small, cx, cy, text.AlignCenter, s.palette.TextPrimary)
	}
	if s.modal != nil {
		s.modal.Draw(screen, s.th)
	}
}

// drawGrid 背景网格跟随平滑滚动的视口偏移
func (s *LandingScene) drawGrid(dst *ebiten.Image) {
	w, h := float32(s.width), float64(s.height)
	clr := style.WithAlpha(s.palette.TextPrimary, 0.04)
	off := math.Mod(s.viewport.Offset(), gridSpacing)
	for y := -off; y < h; y += gridSpacing {
		vector.StrokeLine(dst, 0, float32(y), w, float32(y), 1, clr, false)
	}
}

// drawSteps 右侧步进指示点
func (s *LandingScene) drawSteps(dst *ebiten.Image) {
	n := s.coord.TotalSteps()
	x := float32(s.width) - 24
	top := float64(s.height)/2 - float64(n-1)*9
	for i := 0; i < n; i++ {
		y := float32(top + float64(i)*18)
		if i == s.state.CurrentStep {
			vector.DrawFilledCircle(dst, x, y, 4, s.palette.Accent, true)
			continue
		}
		vector.StrokeCircle(dst, x, y, 4, 1, style.WithAlpha(s.palette.TextSecondary, 0.6), true)
	}
}

func (s *LandingScene) drawControls(dst *ebiten.Image) {
	s.preorderBtn.Draw(dst, s.th)
	s.waitlistBtn.Draw(dst, s.th)

	if s.session != nil {
		s.signOutBtn.Draw(dst, s.th)
		b := s.signOutBtn.Bounds
		s.th.text(dst, s.session.User.Email, s.fonts.Small, b.X-12, b.Y+b.H/2, text.AlignEnd, s.palette.TextSecondary)
	}

	if s.product != nil {
		s.demoBtn.Draw(dst, s.th)
		colors := s.palette.ProductColors
		for i, sw := range s.swatches {
			if i >= len(colors) {
				break
			}
			cx, cy := sw.Bounds.Center()
			r := float32(sw.Bounds.W / 2)
			vector.DrawFilledCircle(dst, float32(cx), float32(cy), r, colors[i], true)
			ring := style.WithAlpha(s.palette.TextSecondary, 0.4)
			if i == s.product.ColorIndex() {
				ring = s.palette.TextPrimary
			}
			vector.StrokeCircle(dst, float32(cx), float32(cy), r+3, 1.5, ring, true)
		}
		if i := s.product.ColorIndex(); i < len(s.swatches) {
			s.th.text(dst, s.swatches[i].Label, s.fonts.Small, float64(s.width)/2, float64(s.height)-140, text.AlignCenter, s.palette.TextSecondary)
		}
	}

	if s.receiptVisible() {
		r := s.renderer.Receipt()
		s.currencyBtn.Label = string(r.Currency())
		s.currencyBtn.Draw(dst, s.th)
		s.yearsDown.Draw(dst, s.th)
		s.yearsUp.Draw(dst, s.th)
		b := s.yearsDown.Bounds
		s.th.text(dst, fmt.Sprintf("%d yrs", r.Years()), s.fonts.Small, b.X+b.W+(s.yearsUp.Bounds.X-b.X-b.W)/2, b.Y+b.H/2, text.AlignCenter, s.palette.TextPrimary)
	}
}
