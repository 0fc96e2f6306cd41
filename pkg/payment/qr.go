package payment

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/skip2/go-qrcode"
)

// QRImage 把链接编码为二维码图像
func QRImage(content string, size int, fg, bg color.Color) (*ebiten.Image, error) {
	q, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}
	q.ForegroundColor = fg
	q.BackgroundColor = bg
	return ebiten.NewImageFromImage(q.Image(size)), nil
}

// QRModules 二维码的模块矩阵（含静区），true 为深色
func QRModules(content string) ([][]bool, error) {
	q, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}
	return q.Bitmap(), nil
}
