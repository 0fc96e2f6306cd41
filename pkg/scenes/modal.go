package scenes

import (
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/lucifer-ux/4bitsLanding/pkg/input"
	"github.com/lucifer-ux/4bitsLanding/pkg/payment"
	"github.com/lucifer-ux/4bitsLanding/pkg/style"
)

// frame 弹窗面板：标题、副标题、右上角关闭按钮、底部状态文字
type frame struct {
	Title    string
	Subtitle string
	Panel    Rect

	vw, vh  float64
	close   Button
	status  string
	isError bool
	done    bool
}

func (fr *frame) layout(w, h, pw, ph float64) {
	fr.vw, fr.vh = w, h
	if pw > w-32 {
		pw = w - 32
	}
	fr.Panel = centered(w/2, h/2, pw, ph)
	fr.close = Button{Label: "×", Bounds: Rect{X: fr.Panel.X + fr.Panel.W - 44, Y: fr.Panel.Y + 12, W: 32, H: 32}}
}

// update 处理关闭按钮和 Esc，返回是否已关闭
func (fr *frame) update(p Pointer, k input.Keys) bool {
	if fr.close.Update(p) || k.Escape {
		fr.done = true
	}
	return fr.done
}

func (fr *frame) setStatus(msg string, isError bool) {
	fr.status = msg
	fr.isError = isError
}

func (fr *frame) draw(dst *ebiten.Image, th *theme) {
	th.dim(dst)
	th.fill(dst, fr.Panel, panelColor)
	th.stroke(dst, fr.Panel, 1, style.WithAlpha(th.palette.TextPrimary, 0.1))
	fr.close.Draw(dst, th)

	cx := fr.Panel.X + fr.Panel.W/2
	th.text(dst, fr.Title, th.fonts.Body, cx, fr.Panel.Y+48, text.AlignCenter, th.palette.TextPrimary)
	if fr.Subtitle != "" {
		th.text(dst, fr.Subtitle, th.fonts.Small, cx, fr.Panel.Y+80, text.AlignCenter, th.palette.TextSecondary)
	}
	if fr.status != "" {
		clr := color.Color(th.palette.Accent)
		if fr.isError {
			clr = errorColor
		}
		th.text(dst, fr.status, th.fonts.Small, cx, fr.Panel.Y+fr.Panel.H-28, text.AlignCenter, clr)
	}
}

// Done 实现 modal
func (fr *frame) Done() bool {
	return fr.done
}

// Status 当前状态文字
func (fr *frame) Status() string {
	return fr.status
}

// qrCache 按内容缓存二维码图像
type qrCache struct {
	content string
	size    int
	img     *ebiten.Image
}

func (q *qrCache) image(content string, size int) *ebiten.Image {
	if content == "" {
		return nil
	}
	if q.img != nil && q.content == content && q.size == size {
		return q.img
	}
	if q.img != nil {
		q.img.Deallocate()
		q.img = nil
	}
	img, err := payment.QRImage(content, size, color.Black, color.White)
	if err != nil {
		log.Printf("[Scenes] Warning: failed to render QR code: %v", err)
		return nil
	}
	q.content, q.size, q.img = content, size, img
	return img
}

func (q *qrCache) draw(dst *ebiten.Image, content string, cx, cy float64, size int) {
	img := q.image(content, size)
	if img == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(cx-float64(size)/2, cy-float64(size)/2)
	dst.DrawImage(img, op)
}

// LinkModal 以二维码展示外部链接（预约演示等）
type LinkModal struct {
	frame
	URL string
	qr  qrCache
}

// NewLinkModal 创建链接弹窗
func NewLinkModal(title, subtitle, url string) *LinkModal {
	return &LinkModal{frame: frame{Title: title, Subtitle: subtitle}, URL: url}
}

// Layout 实现 modal
func (m *LinkModal) Layout(w, h float64) {
	m.layout(w, h, 420, 440)
}

// Update 实现 modal
func (m *LinkModal) Update(dt float64, p Pointer, k input.Keys) {
	m.update(p, k)
}

// Draw 实现 modal
func (m *LinkModal) Draw(dst *ebiten.Image, th *theme) {
	m.draw(dst, th)
	cx, cy := m.Panel.Center()
	m.qr.draw(dst, m.URL, cx, cy+10, 220)
	th.text(dst, m.URL, th.fonts.Small, cx, m.Panel.Y+m.Panel.H-56, text.AlignCenter, th.palette.TextSecondary)
}
