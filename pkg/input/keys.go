package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Keys 本帧的键盘输入（只供获得焦点的输入框使用）
type Keys struct {
	Chars     []rune
	Backspace bool
	Enter     bool
	Tab       bool
	Escape    bool
}

// ReadKeys 读取本帧键盘输入
func ReadKeys() Keys {
	return Keys{
		Chars:     ebiten.AppendInputChars(nil),
		Backspace: repeating(inpututil.KeyPressDuration(ebiten.KeyBackspace)),
		Enter:     inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadEnter),
		Tab:       inpututil.IsKeyJustPressed(ebiten.KeyTab),
		Escape:    inpututil.IsKeyJustPressed(ebiten.KeyEscape),
	}
}

// repeating 按住时第 1 帧立即响应，30 帧后每 3 帧响应一次
func repeating(frames int) bool {
	return frames == 1 || (frames >= 30 && frames%3 == 0)
}
