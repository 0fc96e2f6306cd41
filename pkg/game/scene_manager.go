package game

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/lucifer-ux/4bitsLanding/pkg/config"
)

// SceneFactory 按落地页变体创建场景，避免循环依赖
type SceneFactory func(variant config.Variant) Scene

// SceneManager 管理当前活动场景
// 任一时刻只有一个场景的 Update 与 Draw 会被调用
type SceneManager struct {
	currentScene Scene
	sceneFactory SceneFactory

	width, height int
}

// NewSceneManager 创建场景管理器，初始没有活动场景
func NewSceneManager() *SceneManager {
	return &SceneManager{}
}

// SetSceneFactory 设置场景工厂函数
func (sm *SceneManager) SetSceneFactory(factory SceneFactory) {
	sm.sceneFactory = factory
}

// SwitchTo 切换活动场景
// 旧场景先卸载，新场景挂载后立即收到当前尺寸
func (sm *SceneManager) SwitchTo(scene Scene) {
	if sm.currentScene == scene {
		return
	}
	if m, ok := sm.currentScene.(Mountable); ok {
		m.Unmount()
	}
	sm.currentScene = scene
	if m, ok := scene.(Mountable); ok {
		m.Mount()
	}
	if r, ok := scene.(Resizable); ok && sm.width > 0 && sm.height > 0 {
		r.Resize(sm.width, sm.height)
	}
}

// GetCurrentScene 返回当前活动场景，没有时返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// LoadVariant 通过工厂创建并切换到指定变体的落地页
func (sm *SceneManager) LoadVariant(variant config.Variant) {
	log.Printf("[SceneManager] 加载落地页变体: %s", variant)

	if sm.sceneFactory == nil {
		log.Printf("[SceneManager] 错误: SceneFactory 未设置")
		return
	}

	newScene := sm.sceneFactory(variant)
	if newScene == nil {
		log.Printf("[SceneManager] 错误: 无法创建场景: %s", variant)
		return
	}
	sm.SwitchTo(newScene)
	log.Printf("[SceneManager] 成功切换到: %s", variant)
}

// Resize 记录逻辑尺寸，变化时通知活动场景
func (sm *SceneManager) Resize(width, height int) {
	if width == sm.width && height == sm.height {
		return
	}
	sm.width, sm.height = width, height
	if r, ok := sm.currentScene.(Resizable); ok {
		r.Resize(width, height)
	}
}

// Close 卸载当前场景（窗口关闭时调用）
func (sm *SceneManager) Close() {
	if m, ok := sm.currentScene.(Mountable); ok {
		m.Unmount()
	}
	sm.currentScene = nil
}

// Update 更新活动场景
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw 绘制活动场景
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}
