package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"github.com/lucifer-ux/4bitsLanding/pkg/overlay"
)

// Preferences 本机偏好设置
type Preferences struct {
	// Fullscreen 启动时是否全屏
	Fullscreen bool `yaml:"fullscreen"`
	// ReceiptCurrency 账单面板的币种
	ReceiptCurrency overlay.Currency `yaml:"receiptCurrency"`
	// ReceiptYears 账单面板的年数
	ReceiptYears int `yaml:"receiptYears"`
	// ProductColor 产品变体选中的颜色序号
	ProductColor int `yaml:"productColor"`
}

// DefaultPreferences 返回默认偏好
func DefaultPreferences() *Preferences {
	return &Preferences{
		ReceiptCurrency: overlay.CurrencyINR,
		ReceiptYears:    overlay.DefaultYears,
	}
}

// SettingsManager 偏好设置的加载、保存与内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager // 可为 nil（降级模式，仅内存）
	settings     *Preferences
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "preferences"
)

// NewSettingsManager 创建设置管理器
// 加载失败不是致命错误，使用默认设置
func NewSettingsManager(gdataManager *gdata.Manager) *SettingsManager {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultPreferences(),
	}
	if err := sm.Load(); err != nil {
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}
	return sm
}

// Load 从 gdata 加载设置
func (sm *SettingsManager) Load() error {
	if sm.gdataManager == nil || !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultPreferences()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultPreferences()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	loaded := DefaultPreferences()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = DefaultPreferences()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	loaded.normalize()
	sm.settings = loaded
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata；降级模式下直接返回 nil
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}
	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *Preferences {
	return sm.settings
}

// SetFullscreen 设置全屏（仅内存，需 Save 持久化）
func (sm *SettingsManager) SetFullscreen(enabled bool) {
	sm.settings.Fullscreen = enabled
}

// SetReceipt 记录账单面板的币种与年数
func (sm *SettingsManager) SetReceipt(currency overlay.Currency, years int) {
	sm.settings.ReceiptCurrency = currency
	sm.settings.ReceiptYears = years
	sm.settings.normalize()
}

// SetProductColor 记录产品颜色序号
func (sm *SettingsManager) SetProductColor(index int) {
	if index < 0 {
		index = 0
	}
	sm.settings.ProductColor = index
}

func (p *Preferences) normalize() {
	if p.ReceiptCurrency != overlay.CurrencyINR && p.ReceiptCurrency != overlay.CurrencyUSD {
		p.ReceiptCurrency = overlay.CurrencyINR
	}
	if p.ReceiptYears < overlay.MinYears {
		p.ReceiptYears = overlay.MinYears
	}
	if p.ReceiptYears > overlay.MaxYears {
		p.ReceiptYears = overlay.MaxYears
	}
	if p.ProductColor < 0 {
		p.ProductColor = 0
	}
}
