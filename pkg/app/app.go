// Package app 提供落地页应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"io"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"
	"golang.org/x/sync/errgroup"

	"github.com/lucifer-ux/4bitsLanding/pkg/auth"
	"github.com/lucifer-ux/4bitsLanding/pkg/config"
	"github.com/lucifer-ux/4bitsLanding/pkg/game"
	"github.com/lucifer-ux/4bitsLanding/pkg/leads"
	"github.com/lucifer-ux/4bitsLanding/pkg/payment"
	"github.com/lucifer-ux/4bitsLanding/pkg/scenes"
	"github.com/lucifer-ux/4bitsLanding/pkg/utils"
)

// AppName gdata 存储目录名
const AppName = "fourbits_landing"

// startupTimeout 启动时恢复会话的最长等待
const startupTimeout = 5 * time.Second

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// ConfigPath 配置文件路径，为空时使用内嵌的 data/landing.yaml
	ConfigPath string
	// Variant 覆盖配置中的落地页变体（globe / product），为空则使用配置
	Variant string
	// Watch 监视 ConfigPath，保存后重新加载落地页
	Watch bool
}

// App 是落地页应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	cfg          *config.LandingConfig
	variant      config.Variant
	sceneManager *game.SceneManager
	settings     *game.SettingsManager
	services     scenes.Services
	verbose      bool

	watcher     *config.Watcher
	stopWatcher context.CancelFunc

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化落地页应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	landing, err := config.Load(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("配置加载失败: %w", err)
	}
	variant := landing.Variant
	if cfg.Variant != "" {
		variant = config.Variant(cfg.Variant)
		if variant != config.VariantGlobe && variant != config.VariantProduct {
			return nil, fmt.Errorf("unknown variant %q", cfg.Variant)
		}
	}

	if err := utils.EnsureStorageDir(); err != nil {
		log.Printf("[App] Warning: storage dir: %v", err)
	}
	store, err := gdata.Open(gdata.Config{AppName: AppName})
	if err != nil {
		// 没有本地存储时会话、偏好与暂存箱都只保存在内存中
		log.Printf("[App] Warning: gdata unavailable, running in memory: %v", err)
		store = nil
	}

	a := &App{
		cfg:          landing,
		variant:      variant,
		sceneManager: game.NewSceneManager(),
		verbose:      cfg.Verbose,
	}

	var (
		services scenes.Services
		provider *auth.SupabaseClient
	)
	var g errgroup.Group
	g.Go(func() error {
		a.settings = game.NewSettingsManager(store)
		services.Outbox = leads.NewOutbox(store)
		return nil
	})
	g.Go(func() error {
		var sessions auth.SessionStore = &auth.MemorySessionStore{}
		if store != nil {
			sessions = auth.NewGDataSessionStore(store)
		}
		provider = auth.NewSupabaseClient(landing.Endpoints.SupabaseURL, landing.Endpoints.SupabaseAnonKey, sessions)

		ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
		defer cancel()
		if _, err := provider.Session(ctx); err != nil && !errors.Is(err, auth.ErrNoSession) {
			log.Printf("[App] Warning: failed to restore session: %v", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	services.Auth = provider
	services.Settings = a.settings
	a.services = withEndpoints(services, landing.Endpoints)

	a.sceneManager.SetSceneFactory(func(v config.Variant) game.Scene {
		scene, err := scenes.NewLandingScene(a.cfg, v, a.services, true)
		if err != nil {
			log.Printf("[App] 创建落地页失败: %v", err)
			return nil
		}
		return scene
	})
	a.sceneManager.Resize(landing.Window.Width, landing.Window.Height)
	a.sceneManager.LoadVariant(variant)
	if a.sceneManager.GetCurrentScene() == nil {
		return nil, fmt.Errorf("无法创建落地页: %s", variant)
	}

	if !utils.IsMobile() && a.settings.GetSettings().Fullscreen {
		ebiten.SetFullscreen(true)
	}

	if cfg.Watch && cfg.ConfigPath != "" {
		if err := a.startWatcher(cfg.ConfigPath); err != nil {
			log.Printf("[App] Warning: config watch disabled: %v", err)
		}
	}

	log.Printf("[App] Started (variant=%s)", variant)
	return a, nil
}

func (a *App) startWatcher(path string) error {
	w, err := config.NewWatcher(path, config.DefaultDebounce)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.watcher = w
	a.stopWatcher = cancel
	go func() {
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("[App] config watcher stopped: %v", err)
		}
	}()
	return nil
}

// withEndpoints 按端点配置重建数据源、支付网关与留资客户端
// 认证、设置与暂存箱不随端点变化，原样保留
func withEndpoints(s scenes.Services, ep config.EndpointsConfig) scenes.Services {
	s.Data = scenes.StoreSource(ep.SupabaseURL, ep.SupabaseAnonKey)
	s.Gateway = nil
	if gw, err := payment.NewRazorpayGateway(ep.RazorpayBaseURL, ep.RazorpayKeyID, ep.RazorpayKeySecret); err == nil {
		s.Gateway = gw
	} else {
		log.Printf("[App] Payments disabled: %v", err)
	}
	s.Leads = nil
	if ep.LeadsBaseURL != "" {
		s.Leads = leads.NewClient(ep.LeadsBaseURL)
	}
	return s
}

// pinIdentityEndpoints 把 Supabase 端点固定为启动时的值
//
// 认证客户端与已恢复的会话绑定在启动时的 Supabase 项目上，运行中无法切换。
// 返回 true 表示 next 中的 Supabase 端点被改写为 prev 的值。
func pinIdentityEndpoints(prev, next *config.LandingConfig) bool {
	changed := prev.Endpoints.SupabaseURL != next.Endpoints.SupabaseURL ||
		prev.Endpoints.SupabaseAnonKey != next.Endpoints.SupabaseAnonKey
	next.Endpoints.SupabaseURL = prev.Endpoints.SupabaseURL
	next.Endpoints.SupabaseAnonKey = prev.Endpoints.SupabaseAnonKey
	return changed
}

// applyConfig 热重载后用新配置重建服务与当前变体的场景
func (a *App) applyConfig(cfg *config.LandingConfig) {
	if pinIdentityEndpoints(a.cfg, cfg) {
		log.Printf("[App] Supabase endpoint changed, restart to apply")
	}
	a.cfg = cfg
	a.services = withEndpoints(a.services, cfg.Endpoints)
	ebiten.SetWindowTitle(cfg.Window.Title)
	a.sceneManager.LoadVariant(a.variant)
}

// Update 更新应用逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	if a.watcher != nil {
		select {
		case cfg := <-a.watcher.Updates():
			a.applyConfig(cfg)
		default:
		}
	}

	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(a.cfg.Window.Width, a.cfg.Window.Height)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", a.cfg.Window.Width, a.cfg.Window.Height)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if !utils.IsMobile() && inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		a.toggleFullscreen()
	}

	deltaTime := 1.0 / 60.0
	a.sceneManager.Update(deltaTime)
	return nil
}

func (a *App) toggleFullscreen() {
	fullscreen := !ebiten.IsFullscreen()
	ebiten.SetFullscreen(fullscreen)
	if !fullscreen {
		if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
			ebiten.RestoreWindow()
		}
		// 延迟几帧后设置窗口大小，让窗口管理器有时间处理
		a.pendingWindowSizeReset = true
		a.windowSizeResetCountdown = 3
		log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
	}
	a.settings.SetFullscreen(fullscreen)
	if err := a.settings.Save(); err != nil {
		log.Printf("[App] Warning: %v", err)
	}
}

// Draw 绘制画面
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 全屏时边缘填充黑色，画面使用线性滤波缩放
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 逻辑尺寸跟随窗口尺寸
// 每步对应一个视口高度，窗口变化时协调器重新对齐当前步
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth <= 0 || outsideHeight <= 0 {
		return a.cfg.Window.Width, a.cfg.Window.Height
	}
	a.sceneManager.Resize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

// Close 停止配置监视并卸载场景（窗口关闭时调用）
func (a *App) Close() {
	if a.stopWatcher != nil {
		a.stopWatcher()
		a.watcher.Close()
		a.stopWatcher = nil
	}
	a.sceneManager.Close()
}

// Window 当前配置的窗口标题与尺寸
func (a *App) Window() config.WindowConfig {
	return a.cfg.Window
}

// GetSceneManager 返回场景管理器
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
