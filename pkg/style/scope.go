// Package style 页面级样式资源：配色与作用域内的窗口/光标覆盖
//
// 场景挂载时通过 Scope 获取样式资源，卸载时 Release 按相反顺序恢复，
// 不在场景之外留下任何全局修改。
package style

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// Resource 可恢复的样式资源
type Resource interface {
	// Apply 应用样式，返回恢复函数
	Apply() (restore func())
}

// Scope 样式资源作用域
type Scope struct {
	name     string
	restores []func()
	released bool
}

// NewScope 创建作用域，name 仅用于日志
func NewScope(name string) *Scope {
	return &Scope{name: name}
}

// Acquire 应用资源并登记恢复函数；Release 之后调用无效
func (s *Scope) Acquire(r Resource) {
	if s.released {
		log.Printf("[Style] %s: acquire after release ignored", s.name)
		return
	}
	s.restores = append(s.restores, r.Apply())
}

// Release 按获取的相反顺序恢复所有资源，可重复调用
func (s *Scope) Release() {
	if s.released {
		return
	}
	s.released = true
	for i := len(s.restores) - 1; i >= 0; i-- {
		if s.restores[i] != nil {
			s.restores[i]()
		}
	}
	s.restores = nil
	log.Printf("[Style] %s released", s.name)
}

// Held 当前持有的资源数
func (s *Scope) Held() int {
	return len(s.restores)
}

// 便于测试替换的 ebiten 窗口接口
var (
	cursorShape    = ebiten.CursorShape
	setCursorShape = ebiten.SetCursorShape
	cursorMode     = ebiten.CursorMode
	setCursorMode  = ebiten.SetCursorMode
	setWindowTitle = ebiten.SetWindowTitle
)

// CursorShape 覆盖光标形状
type CursorShape ebiten.CursorShapeType

// Apply 实现 Resource
func (c CursorShape) Apply() func() {
	prev := cursorShape()
	setCursorShape(ebiten.CursorShapeType(c))
	return func() { setCursorShape(prev) }
}

// CursorMode 覆盖光标模式（例如拖拽旋转时隐藏）
type CursorMode ebiten.CursorModeType

// Apply 实现 Resource
func (c CursorMode) Apply() func() {
	prev := cursorMode()
	setCursorMode(ebiten.CursorModeType(c))
	return func() { setCursorMode(prev) }
}

// WindowTitle 覆盖窗口标题，恢复为 Previous
type WindowTitle struct {
	Title    string
	Previous string
}

// Apply 实现 Resource
func (w WindowTitle) Apply() func() {
	setWindowTitle(w.Title)
	return func() { setWindowTitle(w.Previous) }
}

// Func 由一对函数构成的资源
type Func struct {
	Set   func()
	Reset func()
}

// Apply 实现 Resource
func (f Func) Apply() func() {
	if f.Set != nil {
		f.Set()
	}
	return f.Reset
}
