package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lucifer-ux/4bitsLanding/pkg/embedded"
)

// DefaultConfigPath 内嵌默认配置文件路径
const DefaultConfigPath = "data/landing.yaml"

// Variant 落地页变体
// 历史上存在多个几乎相同的页面副本，这里统一为一个参数化实现
type Variant string

const (
	// VariantGlobe 地球仪滚动叙事版本（步进滚动 + 叠加文字）
	VariantGlobe Variant = "globe"
	// VariantProduct 产品模型版本（产品悬浮 + 功能介绍 + 预约表单）
	VariantProduct Variant = "product"
)

// LandingConfig 落地页完整配置
//
// 配置文件位置: data/landing.yaml
type LandingConfig struct {
	Window    WindowConfig    `yaml:"window"`
	Variant   Variant         `yaml:"variant"`
	Scroll    ScrollConfig    `yaml:"scroll"`
	Curves    CurvesConfig    `yaml:"curves"`
	Overlays  []OverlayConfig `yaml:"overlays"`
	Reveal    RevealConfig    `yaml:"reveal"`
	Rotation  RotationConfig  `yaml:"rotation"`
	Endpoints EndpointsConfig `yaml:"endpoints"`
	Preorder  PreorderConfig  `yaml:"preorder"`
	Palette   PaletteConfig   `yaml:"palette"`
}

// WindowConfig 窗口配置
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// ScrollConfig 步进滚动配置
type ScrollConfig struct {
	// TotalSteps 步数，每步对应一个视口高度
	TotalSteps int `yaml:"totalSteps"`
	// Cooldown 步进切换后的防重入冷却时间
	Cooldown time.Duration `yaml:"cooldown"`
	// GestureThreshold 手势判定阈值（像素），超过后锁定方向
	GestureThreshold float64 `yaml:"gestureThreshold"`
	// SwipeMinDistance 触摸步进的最小垂直位移（像素）
	SwipeMinDistance float64 `yaml:"swipeMinDistance"`
	// SwipeMaxDuration 触摸步进的最长持续时间
	SwipeMaxDuration time.Duration `yaml:"swipeMaxDuration"`
	// ScrollDuration 视口平滑滚动动画时长
	ScrollDuration time.Duration `yaml:"scrollDuration"`
}

// CurvesConfig 缩放/位移/透明度曲线参数
type CurvesConfig struct {
	PeakProgress    float64 `yaml:"peakProgress"`    // 放大结束点 (0.25)
	PlateauProgress float64 `yaml:"plateauProgress"` // 回落结束点 (0.7)
	BaseScale       float64 `yaml:"baseScale"`
	PeakScale       float64 `yaml:"peakScale"`
	PlateauScale    float64 `yaml:"plateauScale"`
	// TranslateFactor 最终上移距离 = -TranslateFactor * 视口高度
	TranslateFactor float64 `yaml:"translateFactor"`
	// FadeScaleThreshold 缩放超过此值后 3D 视图开始淡出
	FadeScaleThreshold float64 `yaml:"fadeScaleThreshold"`
	// FadeScaleDelta 从开始淡出到最低透明度所需的缩放增量
	FadeScaleDelta float64 `yaml:"fadeScaleDelta"`
	// MinOpacity 3D 视图的最低透明度（不会完全消失）
	MinOpacity float64 `yaml:"minOpacity"`
}

// OverlayConfig 叠加文字块配置
type OverlayConfig struct {
	ID     string   `yaml:"id"`
	Lines  []string `yaml:"lines"`
	Start  float64  `yaml:"start"`
	End    float64  `yaml:"end"`
	Fade   float64  `yaml:"fade"`
	Sticky bool     `yaml:"sticky"`
}

// RevealConfig 打字机标题配置
type RevealConfig struct {
	Text string `yaml:"text"`
	// Start 进度超过此值后开始逐字显示
	Start float64 `yaml:"start"`
	// Fallback 进度停滞多久后直接显示全文
	Fallback time.Duration `yaml:"fallback"`
}

// RotationConfig 水平旋转累加配置
type RotationConfig struct {
	WheelFactor  float64 `yaml:"wheelFactor"`
	DragFactor   float64 `yaml:"dragFactor"`
	DragMinDelta float64 `yaml:"dragMinDelta"`
}

// EndpointsConfig 外部服务地址
// 密钥类字段建议通过环境变量注入，见 ApplyEnv
type EndpointsConfig struct {
	SupabaseURL       string `yaml:"supabaseURL"`
	SupabaseAnonKey   string `yaml:"supabaseAnonKey"`
	LeadsBaseURL      string `yaml:"leadsBaseURL"`
	RazorpayBaseURL   string `yaml:"razorpayBaseURL"`
	RazorpayKeyID     string `yaml:"razorpayKeyID"`
	RazorpayKeySecret string `yaml:"razorpayKeySecret"`
	CalendlyURL       string `yaml:"calendlyURL"`
	OAuthRedirect     string `yaml:"oauthRedirect"`
}

// PreorderConfig 预购与支付状态轮询配置
type PreorderConfig struct {
	Amount       int64         `yaml:"amount"` // 主货币单位，如 4 表示 ₹4
	Currency     string        `yaml:"currency"`
	ProductName  string        `yaml:"productName"`
	Description  string        `yaml:"description"`
	Attempts     int           `yaml:"attempts"`
	RetryDelay   time.Duration `yaml:"retryDelay"`
	PollInterval time.Duration `yaml:"pollInterval"`
}

// PaletteConfig 配色
type PaletteConfig struct {
	Background    string       `yaml:"background"`
	TextPrimary   string       `yaml:"textPrimary"`
	TextSecondary string       `yaml:"textSecondary"`
	Accent        string       `yaml:"accent"`
	ProductColors []NamedColor `yaml:"productColors"`
}

// NamedColor 产品颜色
type NamedColor struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// 环境变量名
const (
	EnvSupabaseURL       = "FOURBITS_SUPABASE_URL"
	EnvSupabaseAnonKey   = "FOURBITS_SUPABASE_ANON_KEY"
	EnvRazorpayKeyID     = "FOURBITS_RAZORPAY_KEY_ID"
	EnvRazorpayKeySecret = "FOURBITS_RAZORPAY_KEY_SECRET"
	EnvLeadsBaseURL      = "FOURBITS_LEADS_URL"
)

// Default 返回内置默认配置
// 数值与线上页面保持一致
func Default() *LandingConfig {
	return &LandingConfig{
		Window: WindowConfig{
			Title:  "4bits - Own Your Storage",
			Width:  960,
			Height: 720,
		},
		Variant: VariantGlobe,
		Scroll: ScrollConfig{
			TotalSteps:       5,
			Cooldown:         600 * time.Millisecond,
			GestureThreshold: 8,
			SwipeMinDistance: 30,
			SwipeMaxDuration: time.Second,
			ScrollDuration:   700 * time.Millisecond,
		},
		Curves: CurvesConfig{
			PeakProgress:       0.25,
			PlateauProgress:    0.7,
			BaseScale:          1.0,
			PeakScale:          3.0,
			PlateauScale:       2.4,
			TranslateFactor:    1.2,
			FadeScaleThreshold: 1.5,
			FadeScaleDelta:     0.35,
			MinOpacity:         0.25,
		},
		Overlays: []OverlayConfig{
			{ID: "terabytes", Lines: []string{"400 million terabytes created today.", "You own none of it."}, Start: 0.2, End: 0.4, Fade: 0.04},
			{ID: "receipt", Lines: []string{"Cloud storage bill", "2 TB plan ........ ₹650 / month", "Price change ..... +20%"}, Start: 0.4, End: 0.6, Fade: 0.04},
			{ID: "delete", Lines: []string{"They can delete your account tomorrow.", "Raise prices next month. Disappear forever."}, Start: 0.6, End: 0.8, Fade: 0.04},
			{ID: "own", Lines: []string{"Own Your Storage", "42 storage owners and counting"}, Start: 0.8, End: 1.0, Fade: 0.04, Sticky: true},
		},
		Reveal: RevealConfig{
			Text:     "Own Your Storage",
			Start:    0.3,
			Fallback: 3 * time.Second,
		},
		Rotation: RotationConfig{
			WheelFactor:  0.5,
			DragFactor:   0.3,
			DragMinDelta: 5,
		},
		Endpoints: EndpointsConfig{
			LeadsBaseURL:    "https://pengu1n-bot.peng1n.workers.dev",
			RazorpayBaseURL: "https://api.razorpay.com",
			CalendlyURL:     "https://calendly.com/contact-4bits/new-meeting",
		},
		Preorder: PreorderConfig{
			Amount:       4,
			Currency:     "INR",
			ProductName:  "4bits",
			Description:  "Preorder - 4bits Storage Device",
			Attempts:     3,
			RetryDelay:   2 * time.Second,
			PollInterval: 30 * time.Second,
		},
		Palette: PaletteConfig{
			Background:    "#000000",
			TextPrimary:   "#ffffff",
			TextSecondary: "#b3b3b3",
			Accent:        "#22d3ee",
			ProductColors: []NamedColor{
				{Name: "Matte Black", Value: "#1a1a1a"},
				{Name: "Titanium Silver", Value: "#e2e2e2"},
				{Name: "Deep Navy", Value: "#172554"},
				{Name: "Crimson", Value: "#9f1239"},
			},
		},
	}
}

// Load 加载落地页配置
//
// path 为空时读取内嵌的 data/landing.yaml，否则读取磁盘文件。
// 读取后依次叠加环境变量并校验。
func Load(path string) (*LandingConfig, error) {
	var (
		data []byte
		err  error
	)
	if path == "" {
		data, err = embedded.ReadFile(DefaultConfigPath)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read landing config: %w", err)
	}

	cfg, err := LoadFromBytes(data)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid landing config: %w", err)
	}
	return cfg, nil
}

// LoadFromBytes 在默认配置之上解析 YAML
// 未出现在 YAML 中的字段保留默认值
func LoadFromBytes(data []byte) (*LandingConfig, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse landing config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv 用环境变量覆盖密钥与地址
func (c *LandingConfig) ApplyEnv(getenv func(string) string) {
	override := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	override(&c.Endpoints.SupabaseURL, EnvSupabaseURL)
	override(&c.Endpoints.SupabaseAnonKey, EnvSupabaseAnonKey)
	override(&c.Endpoints.RazorpayKeyID, EnvRazorpayKeyID)
	override(&c.Endpoints.RazorpayKeySecret, EnvRazorpayKeySecret)
	override(&c.Endpoints.LeadsBaseURL, EnvLeadsBaseURL)
}

// Validate 校验配置有效性
func (c *LandingConfig) Validate() error {
	if c.Variant != VariantGlobe && c.Variant != VariantProduct {
		return fmt.Errorf("unknown variant %q", c.Variant)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if err := c.Scroll.Validate(); err != nil {
		return fmt.Errorf("scroll: %w", err)
	}
	if err := c.Curves.Validate(); err != nil {
		return fmt.Errorf("curves: %w", err)
	}
	if err := ValidateOverlays(c.Overlays); err != nil {
		return fmt.Errorf("overlays: %w", err)
	}
	if c.Reveal.Start < 0 || c.Reveal.Start >= 1 {
		return fmt.Errorf("reveal start must be in [0,1), got %.2f", c.Reveal.Start)
	}
	if c.Preorder.Attempts < 1 {
		return fmt.Errorf("preorder attempts must be >= 1, got %d", c.Preorder.Attempts)
	}
	if c.Preorder.Amount <= 0 {
		return fmt.Errorf("preorder amount must be positive, got %d", c.Preorder.Amount)
	}
	return nil
}

// Validate 校验步进配置
func (s ScrollConfig) Validate() error {
	if s.TotalSteps < 2 {
		return fmt.Errorf("totalSteps must be >= 2, got %d", s.TotalSteps)
	}
	if s.Cooldown <= 0 {
		return fmt.Errorf("cooldown must be positive, got %v", s.Cooldown)
	}
	if s.GestureThreshold <= 0 || s.SwipeMinDistance <= 0 {
		return fmt.Errorf("gesture thresholds must be positive")
	}
	if s.SwipeMaxDuration <= 0 {
		return fmt.Errorf("swipeMaxDuration must be positive, got %v", s.SwipeMaxDuration)
	}
	return nil
}

// Validate 校验曲线断点
// 缩放与位移曲线共用断点，断点必须满足 0 < peak < plateau <= 1
func (cc CurvesConfig) Validate() error {
	if !(cc.PeakProgress > 0 && cc.PeakProgress < cc.PlateauProgress && cc.PlateauProgress <= 1) {
		return fmt.Errorf("breakpoints must satisfy 0 < peak(%.2f) < plateau(%.2f) <= 1",
			cc.PeakProgress, cc.PlateauProgress)
	}
	if cc.PeakScale < cc.BaseScale || cc.PlateauScale > cc.PeakScale {
		return fmt.Errorf("scale curve must rise to peak then settle: base=%.2f peak=%.2f plateau=%.2f",
			cc.BaseScale, cc.PeakScale, cc.PlateauScale)
	}
	if cc.FadeScaleDelta <= 0 {
		return fmt.Errorf("fadeScaleDelta must be positive, got %.2f", cc.FadeScaleDelta)
	}
	if cc.MinOpacity < 0 || cc.MinOpacity > 1 {
		return fmt.Errorf("minOpacity must be in [0,1], got %.2f", cc.MinOpacity)
	}
	return nil
}

// ValidateOverlays 校验叠加文字窗口
// 窗口按顺序排列且互不重叠，保证同一时刻最多只有一个文字块可见
func ValidateOverlays(overlays []OverlayConfig) error {
	for i, o := range overlays {
		if o.Start < 0 || o.End > 1 || o.Start >= o.End {
			return fmt.Errorf("overlay %q window [%.2f, %.2f] invalid", o.ID, o.Start, o.End)
		}
		if o.Fade < 0 || 2*o.Fade > o.End-o.Start {
			return fmt.Errorf("overlay %q fade %.2f too wide for window [%.2f, %.2f]", o.ID, o.Fade, o.Start, o.End)
		}
		if i > 0 && o.Start < overlays[i-1].End {
			return fmt.Errorf("overlay %q [%.2f, %.2f] overlaps %q [%.2f, %.2f]",
				o.ID, o.Start, o.End, overlays[i-1].ID, overlays[i-1].Start, overlays[i-1].End)
		}
	}
	return nil
}
