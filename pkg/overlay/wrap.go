package overlay

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// Measurer 文本宽度测量，便于在测试中替换字体
type Measurer func(s string) float64

// FaceMeasurer 使用字体测量
func FaceMeasurer(face text.Face) Measurer {
	return func(s string) float64 {
		if s == "" || face == nil {
			return 0
		}
		w, _ := text.Measure(s, face, 0)
		return w
	}
}

// Wrap 按最大宽度在单词边界换行
// 单个单词超宽时独占一行，不截断
func Wrap(s string, measure Measurer, maxWidth float64) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}
	if maxWidth <= 0 || measure == nil {
		return []string{strings.Join(words, " ")}
	}

	var lines []string
	current := words[0]
	for _, w := range words[1:] {
		candidate := current + " " + w
		if measure(candidate) > maxWidth {
			lines = append(lines, current)
			current = w
			continue
		}
		current = candidate
	}
	return append(lines, current)
}
