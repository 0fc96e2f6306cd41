package scenes

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/lucifer-ux/4bitsLanding/pkg/auth"
	"github.com/lucifer-ux/4bitsLanding/pkg/config"
	"github.com/lucifer-ux/4bitsLanding/pkg/input"
	"github.com/lucifer-ux/4bitsLanding/pkg/overlay"
	"github.com/lucifer-ux/4bitsLanding/pkg/payment"
	"github.com/lucifer-ux/4bitsLanding/pkg/preorder"
	"github.com/lucifer-ux/4bitsLanding/pkg/scroll"
	"github.com/lucifer-ux/4bitsLanding/pkg/store"
	"github.com/lucifer-ux/4bitsLanding/pkg/style"
	"github.com/lucifer-ux/4bitsLanding/pkg/view"
)

// 预购按钮文案
const (
	LabelPreorder    = "preorder"
	LabelAlreadyPaid = "Already Paid"
)

// toastDuration 提示条显示时长（秒）
const toastDuration = 4.0

// LandingScene 落地页场景
//
// 组合步进协调器、手势路由、旋转累加器与曲线映射，驱动 3D 视图和叠加文字；
// 变体 globe 显示粒子地球仪，product 显示产品剪影与配色选择。
type LandingScene struct {
	cfg      *config.LandingConfig
	variant  config.Variant
	services Services

	width, height int

	sched    *scroll.FrameScheduler
	viewport *scroll.SmoothViewport
	coord    *scroll.Coordinator
	gestures *scroll.GestureRouter
	rotation *scroll.RotationAccumulator
	curves   scroll.Curves
	overlays *scroll.Overlays
	reveal   *scroll.Reveal
	state    scroll.State

	channel *view.ChanChannel
	sender  *view.BestEffort
	globe   *view.Globe
	product *view.Product
	layer   view.Layer

	fonts    *overlay.Fonts
	palette  *style.Palette
	renderer *overlay.Renderer
	th       *theme

	router *input.Router
	taps   *input.DragTracker
	scope  *style.Scope
	tasks  *taskQueue

	// readInput 与 isFocused 便于测试替换
	readInput func() (input.Snapshot, input.Keys)
	isFocused func() bool
	// windowStyle 挂载时申请的窗口资源
	windowStyle func() []style.Resource

	unsubscribeState func()
	unsubscribeAuth  func()

	session       *auth.Session
	hasPreordered bool
	checker       *preorder.Checker
	stopChecker   context.CancelFunc
	wasFocused    bool

	modal    modal
	pointer  Pointer
	toast    string
	toastTTL float64

	preorderBtn Button
	waitlistBtn Button
	signOutBtn  Button
	demoBtn     Button
	currencyBtn Button
	yearsDown   Button
	yearsUp     Button
	swatches    []Button
}

// NewLandingScene 创建落地页场景
func NewLandingScene(cfg *config.LandingConfig, variant config.Variant, services Services, allowMouseDrag bool) (*LandingScene, error) {
	palette, err := style.NewPalette(cfg.Palette)
	if err != nil {
		return nil, fmt.Errorf("failed to parse palette: %w", err)
	}
	fonts, err := overlay.LoadFonts(float64(cfg.Window.Height) / 720)
	if err != nil {
		return nil, err
	}

	s := &LandingScene{
		cfg:      cfg,
		variant:  variant,
		services: services,
		width:    cfg.Window.Width,
		height:   cfg.Window.Height,
		sched:    scroll.NewFrameScheduler(),
		curves:   scroll.NewCurves(cfg.Curves),
		overlays: scroll.OverlaysFromConfig(cfg.Overlays),
		channel:  view.NewChanChannel(64),
		fonts:    fonts,
		palette:  palette,
		taps:     input.NewDragTracker(true),
		readInput: func() (input.Snapshot, input.Keys) {
			return input.ReadSnapshot(), input.ReadKeys()
		},
		isFocused: ebiten.IsFocused,
	}
	s.windowStyle = func() []style.Resource {
		return []style.Resource{
			style.WindowTitle{Title: cfg.Window.Title, Previous: cfg.Window.Title},
			style.CursorMode(ebiten.CursorModeVisible),
		}
	}
	s.th = &theme{fonts: fonts, palette: palette}

	s.viewport = scroll.NewSmoothViewport(float64(s.height), cfg.Scroll.ScrollDuration)
	s.coord = scroll.NewCoordinator(cfg.Scroll, s.viewport, s.sched)
	s.gestures = scroll.NewGestureRouter(cfg.Scroll.GestureThreshold, s.coord)
	s.sender = view.NewBestEffort(s.channel)
	s.rotation = scroll.NewRotationAccumulator(cfg.Rotation, view.RotationForwarder(s.sender))
	s.reveal = scroll.NewReveal(cfg.Reveal, s.sched)
	s.router = input.NewRouter(s.coord, s.gestures, s.rotation, allowMouseDrag)
	s.renderer = overlay.NewRenderer(fonts, palette, cfg.Overlays, overlay.NewReceipt())
	s.state = s.coord.State()

	if variant == config.VariantProduct {
		s.product = view.NewProduct(palette.ProductColors)
	} else {
		s.globe = view.NewGlobe(s.channel.Messages(), view.VariantFor(false))
	}

	s.preorderBtn = Button{Label: LabelPreorder, Primary: true}
	s.waitlistBtn = Button{Label: "Join the Waitlist"}
	s.signOutBtn = Button{Label: "Sign out"}
	s.demoBtn = Button{Label: "Book a Demo"}
	s.currencyBtn = Button{}
	s.yearsDown = Button{Label: "-"}
	s.yearsUp = Button{Label: "+"}
	for _, name := range palette.ProductNames {
		s.swatches = append(s.swatches, Button{Label: name})
	}
	s.layoutButtons()
	return s, nil
}

// Mount 实现 game.Mountable
func (s *LandingScene) Mount() {
	s.tasks = newTaskQueue(context.Background())
	s.scope = style.NewScope("landing")
	for _, r := range s.windowStyle() {
		s.scope.Acquire(r)
	}

	s.coord.Reset()
	s.overlays.Reset()
	s.state = s.coord.State()
	s.unsubscribeState = s.coord.OnChange(func(st scroll.State) {
		s.state = st
	})
	s.applySettings()
	s.wasFocused = s.isFocused()

	if s.services.Auth != nil {
		tasks := s.tasks
		s.unsubscribeAuth = s.services.Auth.OnAuthStateChange(func(event auth.Event, session *auth.Session) {
			tasks.Post(func() { s.applyAuthEvent(event, session) })
		})
	}
	s.flushOutbox()
	log.Printf("[LandingScene] mounted (variant=%s)", s.variant)
}

// Unmount 实现 game.Mountable
// 取消订阅、后台任务与定时器，释放窗口资源
func (s *LandingScene) Unmount() {
	if s.unsubscribeAuth != nil {
		s.unsubscribeAuth()
		s.unsubscribeAuth = nil
	}
	if s.unsubscribeState != nil {
		s.unsubscribeState()
		s.unsubscribeState = nil
	}
	s.cancelChecker()
	if s.tasks != nil {
		s.tasks.Close()
	}
	s.coord.Close()
	s.reveal.Close()
	if s.scope != nil {
		s.scope.Release()
	}
	s.modal = nil
	log.Printf("[LandingScene] unmounted (%d view messages not delivered)", s.sender.Dropped())
}

// Resize 实现 game.Resizable
func (s *LandingScene) Resize(width, height int) {
	if width == s.width && height == s.height {
		return
	}
	s.width, s.height = width, height
	s.viewport.SetHeight(float64(height))
	s.coord.Resize()
	s.layoutButtons()
	if s.modal != nil {
		s.modal.Layout(float64(width), float64(height))
	}
}

// State 当前滚动状态
func (s *LandingScene) State() scroll.State {
	return s.state
}

// HasPreordered 当前用户是否已预购
func (s *LandingScene) HasPreordered() bool {
	return s.hasPreordered
}

// Session 当前会话（未登录为 nil）
func (s *LandingScene) Session() *auth.Session {
	return s.session
}

// Update 实现 game.Scene
func (s *LandingScene) Update(deltaTime float64) {
	dt := time.Duration(deltaTime * float64(time.Second))
	if s.tasks != nil {
		s.tasks.Drain()
	}
	s.sched.Tick(dt)
	s.viewport.Update(dt)

	snap, keys := s.readInput()
	s.taps.Update(snap)
	s.pointer = s.readPointer(snap)

	s.router.Enabled = s.modal == nil
	s.router.ViewPointerEvents = s.viewTransform().PointerEvents
	s.router.Update(snap, s.sched.Now())

	if s.modal != nil {
		s.modal.Update(deltaTime, s.pointer, keys)
		if s.modal.Done() {
			s.modal = nil
		}
	} else {
		s.updateButtons()
	}

	s.drainPreorder()
	s.checkFocus()

	p := s.state.ParallaxProgress
	s.reveal.Update(p)
	if s.globe != nil {
		s.globe.Update(deltaTime)
	}
	if s.product != nil {
		s.drainProduct()
		s.product.Interacting = s.rotation.Dragging()
		s.product.Update(deltaTime)
	}
	if s.toastTTL > 0 {
		s.toastTTL -= deltaTime
		if s.toastTTL <= 0 {
			s.toast = ""
		}
	}
}

func (s *LandingScene) readPointer(snap input.Snapshot) Pointer {
	p := Pointer{X: float64(snap.MouseX), Y: float64(snap.MouseY)}
	if len(snap.Touches) > 0 {
		p.X, p.Y = float64(snap.Touches[0].X), float64(snap.Touches[0].Y)
	}
	if x, y, ok := s.taps.Tap(tapSlop); ok {
		p.X, p.Y, p.Tapped = float64(x), float64(y), true
	}
	return p
}

// drainProduct 产品视图没有独立收件箱，由场景转交旋转消息
func (s *LandingScene) drainProduct() {
	for {
		select {
		case m := <-s.channel.Messages():
			s.product.Receive(m)
		default:
			return
		}
	}
}

func (s *LandingScene) updateButtons() {
	p := s.pointer
	if s.preorderBtn.Update(p) {
		s.onPreorder()
	}
	if s.waitlistBtn.Update(p) {
		s.openModal(NewLeadForm(s.tasks, s.services.Leads, s.services.Outbox))
	}
	if s.session != nil && s.signOutBtn.Update(p) {
		s.signOut()
	}
	if s.product != nil {
		if s.demoBtn.Update(p) {
			s.openModal(NewLinkModal("Book a Demo", "Experience storage that remembers.", s.cfg.Endpoints.CalendlyURL))
		}
		for i := range s.swatches {
			if s.swatches[i].Update(p) {
				s.selectColor(i)
			}
		}
	}
	if s.receiptVisible() {
		r := s.renderer.Receipt()
		changed := false
		if s.currencyBtn.Update(p) {
			r.ToggleCurrency()
			changed = true
		}
		if s.yearsDown.Update(p) {
			r.SetYears(r.Years() - 1)
			changed = true
		}
		if s.yearsUp.Update(p) {
			r.SetYears(r.Years() + 1)
			changed = true
		}
		if changed {
			s.saveReceipt()
		}
	}
}

// receiptVisible 账单块是否足够可见以接受输入（与 PointerEvents 阈值一致）
func (s *LandingScene) receiptVisible() bool {
	op := s.overlays.Opacities(s.state.ParallaxProgress)
	for i, b := range s.cfg.Overlays {
		if b.ID == overlay.ReceiptBlockID && i < len(op) {
			return op[i] > 0.05
		}
	}
	return false
}

func (s *LandingScene) openModal(m modal) {
	m.Layout(float64(s.width), float64(s.height))
	s.modal = m
	// 弹窗打开时中断进行中的手势
	s.router.Enabled = false
}

func (s *LandingScene) showToast(msg string) {
	s.toast = msg
	s.toastTTL = toastDuration
}

// onPreorder 已预购时不做任何事；未登录先登录，登录后进入支付
func (s *LandingScene) onPreorder() {
	if s.hasPreordered {
		return
	}
	if s.session == nil {
		s.openModal(NewAuthModal(s.tasks, s.services.Auth, s.cfg.Endpoints.OAuthRedirect, func(sess *auth.Session) {
			s.setSession(sess)
			s.storeUser(sess, true)
		}))
		return
	}
	s.openPayment()
}

func (s *LandingScene) openPayment() {
	if s.session == nil {
		return
	}
	flow := &payment.Flow{Gateway: s.services.Gateway}
	if s.services.Data != nil {
		users, payments := s.services.Data(s.session.AccessToken)
		flow.Users, flow.Payments = users, payments
	} else {
		flow.Gateway = nil
	}
	u := s.session.User
	pc := s.cfg.Preorder
	order := payment.NewOrder(pc.Amount, pc.Currency, payment.Customer{Name: u.Name, Email: u.Email})
	order.ProductName, order.Description = pc.ProductName, pc.Description
	s.openModal(NewPaymentModal(s.tasks, flow, order, u.ID, s.onPaid))
}

func (s *LandingScene) onPaid(out payment.Outcome) {
	s.showToast(out.Message)
	if out.Recorded {
		s.setPreordered(true)
		return
	}
	// 记录失败时以数据库为准重新查询
	if s.checker != nil {
		s.checker.Focus()
	}
}

// storeUser 登录后写入用户资料；失败只记录日志，thenPay 时随后进入支付
func (s *LandingScene) storeUser(sess *auth.Session, thenPay bool) {
	if sess == nil || s.services.Data == nil {
		if thenPay {
			s.openPayment()
		}
		return
	}
	users, _ := s.services.Data(sess.AccessToken)
	row := store.UserRow{
		ID:         sess.User.ID,
		Email:      sess.User.Email,
		Name:       sess.User.Name,
		AuthUserID: sess.User.ID,
	}
	s.tasks.Go(func(ctx context.Context) func() {
		if err := users.Upsert(ctx, row); err != nil {
			log.Printf("[LandingScene] Warning: failed to store user data: %v", err)
		}
		if !thenPay {
			return nil
		}
		return s.openPayment
	})
}

func (s *LandingScene) applyAuthEvent(event auth.Event, session *auth.Session) {
	switch event {
	case auth.EventSignedOut:
		s.clearSession()
	default:
		if session != nil && session.AccessToken != "" {
			s.setSession(session)
		}
	}
}

func (s *LandingScene) setSession(sess *auth.Session) {
	if sess == nil {
		return
	}
	same := s.session != nil && s.session.User.ID == sess.User.ID
	s.session = sess
	if !same {
		log.Printf("[LandingScene] signed in as %s", sess.User.Email)
		s.setPreordered(false)
		s.startChecker()
	}
}

func (s *LandingScene) clearSession() {
	if s.session == nil {
		return
	}
	s.session = nil
	s.cancelChecker()
	s.setPreordered(false)
}

func (s *LandingScene) signOut() {
	provider := s.services.Auth
	s.clearSession()
	s.showToast("Signed out.")
	if provider == nil {
		return
	}
	s.tasks.Go(func(ctx context.Context) func() {
		if err := provider.SignOut(ctx); err != nil {
			log.Printf("[LandingScene] sign out: %v", err)
		}
		return nil
	})
}

// startChecker 为当前用户启动预购状态轮询
func (s *LandingScene) startChecker() {
	s.cancelChecker()
	if s.services.Data == nil || s.session == nil || s.tasks == nil {
		return
	}
	users, _ := s.services.Data(s.session.AccessToken)
	checker := preorder.NewChecker(users, s.cfg.Preorder)
	ctx, cancel := context.WithCancel(s.tasks.ctx)
	s.checker, s.stopChecker = checker, cancel
	uid := s.session.User.ID
	s.tasks.Run(func(context.Context) error {
		return checker.Run(ctx, uid)
	})
}

func (s *LandingScene) cancelChecker() {
	if s.stopChecker != nil {
		s.stopChecker()
	}
	s.checker, s.stopChecker = nil, nil
}

func (s *LandingScene) drainPreorder() {
	if s.checker == nil {
		return
	}
	for {
		select {
		case r := <-s.checker.Results():
			if s.session == nil || r.AuthUserID != s.session.User.ID {
				continue
			}
			if r.Err != nil {
				log.Printf("[LandingScene] preorder check (%s #%d): %v", r.Reason, r.Attempt, r.Err)
				continue
			}
			s.setPreordered(r.Paid)
		default:
			return
		}
	}
}

// checkFocus 窗口重新获得焦点时触发一次预购复查
func (s *LandingScene) checkFocus() {
	focused := s.isFocused()
	if focused && !s.wasFocused && s.checker != nil {
		s.checker.Focus()
	}
	s.wasFocused = focused
}

func (s *LandingScene) setPreordered(v bool) {
	s.hasPreordered = v
	if s.globe != nil {
		s.globe.SetVariant(view.VariantFor(v))
	}
	if v {
		s.preorderBtn.Label = LabelAlreadyPaid
	} else {
		s.preorderBtn.Label = LabelPreorder
	}
	s.preorderBtn.Disabled = v
}

func (s *LandingScene) selectColor(i int) {
	s.product.SelectColor(i)
	if st := s.services.Settings; st != nil {
		st.SetProductColor(i)
		if err := st.Save(); err != nil {
			log.Printf("[LandingScene] Warning: failed to save settings: %v", err)
		}
	}
}

func (s *LandingScene) saveReceipt() {
	st := s.services.Settings
	if st == nil {
		return
	}
	r := s.renderer.Receipt()
	st.SetReceipt(r.Currency(), r.Years())
	if err := st.Save(); err != nil {
		log.Printf("[LandingScene] Warning: failed to save settings: %v", err)
	}
}

// applySettings 恢复账单面板与产品配色偏好
func (s *LandingScene) applySettings() {
	st := s.services.Settings
	if st == nil {
		return
	}
	prefs := st.GetSettings()
	r := s.renderer.Receipt()
	r.SetCurrency(prefs.ReceiptCurrency)
	r.SetYears(prefs.ReceiptYears)
	if s.product != nil {
		s.product.SelectColor(prefs.ProductColor)
	}
}

// flushOutbox 重发上次未能提交的线索
func (s *LandingScene) flushOutbox() {
	outbox, submitter := s.services.Outbox, s.services.Leads
	if outbox == nil || submitter == nil || len(outbox.Pending()) == 0 {
		return
	}
	s.tasks.Go(func(ctx context.Context) func() {
		n, err := outbox.Flush(ctx, submitter)
		if err != nil {
			log.Printf("[LandingScene] outbox flush stopped: %v", err)
		}
		if n == 0 {
			return nil
		}
		return func() { log.Printf("[LandingScene] sent %d queued lead(s)", n) }
	})
}
