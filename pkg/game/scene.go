package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene 一个页面场景（落地页、后台等）
type Scene interface {
	// Update 推进场景逻辑，deltaTime 为距上一帧的秒数
	Update(deltaTime float64)

	// Draw 绘制场景
	Draw(screen *ebiten.Image)
}

// Mountable 可选接口：场景在成为活动场景时挂载、被替换时卸载
//
// 挂载时申请的全局资源（光标、窗口标题、定时器、网络轮询）必须在 Unmount 中释放。
type Mountable interface {
	Mount()
	Unmount()
}

// Resizable 可选接口：窗口逻辑尺寸变化时通知场景
type Resizable interface {
	Resize(width, height int)
}
