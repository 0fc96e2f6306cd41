package overlay

import (
	"bytes"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// Fonts 落地页使用的字体
type Fonts struct {
	Headline *text.GoTextFace
	Body     *text.GoTextFace
	Mono     *text.GoTextFace
	Small    *text.GoTextFace
}

// LoadFonts 从内置 Go 字体创建字体
// scale 为界面缩放（窗口高度 / 720）
func LoadFonts(scale float64) (*Fonts, error) {
	bold, err := text.NewGoTextFaceSource(bytes.NewReader(gobold.TTF))
	if err != nil {
		return nil, fmt.Errorf("failed to load bold font: %w", err)
	}
	regular, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("failed to load regular font: %w", err)
	}
	mono, err := text.NewGoTextFaceSource(bytes.NewReader(gomono.TTF))
	if err != nil {
		return nil, fmt.Errorf("failed to load mono font: %w", err)
	}
	if scale <= 0 {
		scale = 1
	}
	return &Fonts{
		Headline: &text.GoTextFace{Source: bold, Size: 44 * scale},
		Body:     &text.GoTextFace{Source: regular, Size: 22 * scale},
		Mono:     &text.GoTextFace{Source: mono, Size: 15 * scale},
		Small:    &text.GoTextFace{Source: regular, Size: 14 * scale},
	}, nil
}
