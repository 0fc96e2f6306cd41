package style

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucifer-ux/4bitsLanding/pkg/config"
)

// Palette 解析后的配色
type Palette struct {
	Background    color.RGBA
	TextPrimary   color.RGBA
	TextSecondary color.RGBA
	Accent        color.RGBA

	ProductNames  []string
	ProductColors []color.RGBA
}

// ParseHex 解析 #rgb / #rrggbb / #rrggbbaa
func ParseHex(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// NewPalette 从配置解析配色
func NewPalette(cfg config.PaletteConfig) (*Palette, error) {
	p := &Palette{}
	fields := []struct {
		name string
		src  string
		dst  *color.RGBA
	}{
		{"background", cfg.Background, &p.Background},
		{"textPrimary", cfg.TextPrimary, &p.TextPrimary},
		{"textSecondary", cfg.TextSecondary, &p.TextSecondary},
		{"accent", cfg.Accent, &p.Accent},
	}
	for _, f := range fields {
		c, err := ParseHex(f.src)
		if err != nil {
			return nil, fmt.Errorf("palette.%s: %w", f.name, err)
		}
		*f.dst = c
	}
	for _, nc := range cfg.ProductColors {
		c, err := ParseHex(nc.Value)
		if err != nil {
			return nil, fmt.Errorf("palette.productColors[%s]: %w", nc.Name, err)
		}
		p.ProductNames = append(p.ProductNames, nc.Name)
		p.ProductColors = append(p.ProductColors, c)
	}
	return p, nil
}

// WithAlpha 返回按 a (0..1) 缩放透明度后的颜色（预乘）
func WithAlpha(c color.RGBA, a float64) color.RGBA {
	if a <= 0 {
		return color.RGBA{}
	}
	if a >= 1 {
		return c
	}
	return color.RGBA{
		R: uint8(float64(c.R) * a),
		G: uint8(float64(c.G) * a),
		B: uint8(float64(c.B) * a),
		A: uint8(float64(c.A) * a),
	}
}
