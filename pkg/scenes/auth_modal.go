package scenes

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/lucifer-ux/4bitsLanding/pkg/auth"
	"github.com/lucifer-ux/4bitsLanding/pkg/input"
)

// 登录弹窗状态文案
const (
	MessagePasswordMismatch = "Passwords do not match"
	MessagePasswordShort    = "Password must be at least 6 characters"
	MessageVerifyEmail      = "Please check your email to verify your account!"
	MessageAuthFailed       = "Authentication failed. Please try again."
	MessageGoogleFailed     = "Google sign-in failed. Please try again."
	MessageGoogleOpen       = "Scan the code to continue with Google."
)

// minPasswordLength 注册密码最短长度
const minPasswordLength = 6

// AuthMode 登录弹窗模式
type AuthMode int

const (
	ModeSignIn AuthMode = iota
	ModeSignUp
)

// AuthModal 登录 / 注册弹窗
type AuthModal struct {
	frame

	tasks    *taskQueue
	provider auth.Provider
	redirect string
	// onSuccess 登录成功（或注册后已拿到会话）时在 UI 协程回调
	onSuccess func(*auth.Session)

	mode     AuthMode
	name     TextField
	email    TextField
	password TextField
	confirm  TextField
	fields   form

	submit Button
	google Button
	toggle Button
	busy   bool

	oauthURL string
	qr       qrCache
}

// NewAuthModal 创建登录弹窗，默认登录模式
func NewAuthModal(tasks *taskQueue, provider auth.Provider, redirect string, onSuccess func(*auth.Session)) *AuthModal {
	m := &AuthModal{
		tasks:     tasks,
		provider:  provider,
		redirect:  redirect,
		onSuccess: onSuccess,
		name:      TextField{Label: "Full Name", Placeholder: "Your name", MaxLen: 80},
		email:     TextField{Label: "Email", Placeholder: "name@domain.com", MaxLen: 254},
		password:  TextField{Label: "Password", Masked: true, MaxLen: 128},
		confirm:   TextField{Label: "Confirm Password", Masked: true, MaxLen: 128},
		google:    Button{Label: "Continue with Google"},
	}
	m.SetMode(ModeSignIn)
	return m
}

// Mode 当前模式
func (m *AuthModal) Mode() AuthMode {
	return m.mode
}

// SetMode 切换登录 / 注册，清空状态文字
func (m *AuthModal) SetMode(mode AuthMode) {
	m.mode = mode
	m.setStatus("", false)
	m.oauthURL = ""
	if mode == ModeSignUp {
		m.Title, m.Subtitle = "Create Account", "Sign up to place your preorder"
		m.submit = Button{Label: "Create Account", Primary: true}
		m.toggle = Button{Label: "Already have an account? Sign in"}
		m.fields.fields = []*TextField{&m.name, &m.email, &m.password, &m.confirm}
	} else {
		m.Title, m.Subtitle = "Sign In", "Sign in to continue"
		m.submit = Button{Label: "Sign In", Primary: true}
		m.toggle = Button{Label: "Don't have an account? Sign up"}
		m.fields.fields = []*TextField{&m.email, &m.password}
	}
	m.fields.focus(m.fields.fields[0])
}

// Layout 实现 modal
func (m *AuthModal) Layout(w, h float64) {
	ph := 470.0
	if m.mode == ModeSignUp {
		ph = 610
	}
	m.layout(w, h, 440, ph)
	x, wd := m.Panel.X+32, m.Panel.W-64
	y := m.Panel.Y + 112
	m.google.Bounds = Rect{X: x, Y: y, W: wd, H: 40}
	y += 78
	for _, f := range m.fields.fields {
		f.Bounds = Rect{X: x, Y: y, W: wd, H: 40}
		y += 70
	}
	m.submit.Bounds = Rect{X: x, Y: y - 12, W: wd, H: 42}
	m.toggle.Bounds = Rect{X: x, Y: y + 40, W: wd, H: 32}
}

// Update 实现 modal
func (m *AuthModal) Update(dt float64, p Pointer, k input.Keys) {
	m.fields.update(dt)
	if m.update(p, k) {
		return
	}
	if m.busy {
		return
	}
	if m.toggle.Update(p) {
		next := ModeSignUp
		if m.mode == ModeSignUp {
			next = ModeSignIn
		}
		m.SetMode(next)
		m.Layout(m.vw, m.vh)
		return
	}
	if m.google.Update(p) {
		m.startOAuth()
		return
	}
	enter := m.fields.handle(p, k)
	if m.submit.Update(p) || enter {
		m.send()
	}
}

// validate 注册时先校验两次密码一致，再校验长度
func (m *AuthModal) validate() error {
	if m.mode != ModeSignUp {
		return nil
	}
	if m.password.Value != m.confirm.Value {
		return errors.New(MessagePasswordMismatch)
	}
	if len([]rune(m.password.Value)) < minPasswordLength {
		return errors.New(MessagePasswordShort)
	}
	return nil
}

func (m *AuthModal) send() {
	if err := m.validate(); err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	if m.provider == nil {
		m.setStatus(auth.ErrorMessage(auth.ErrNotConfigured), true)
		return
	}

	mode := m.mode
	email := strings.TrimSpace(m.email.Value)
	password, name := m.password.Value, strings.TrimSpace(m.name.Value)
	provider := m.provider
	m.busy = true
	m.setStatus("", false)
	m.tasks.Go(func(ctx context.Context) func() {
		var (
			s   *auth.Session
			err error
		)
		if mode == ModeSignUp {
			s, err = provider.SignUp(ctx, email, password, name)
		} else {
			s, err = provider.SignInWithPassword(ctx, email, password)
		}
		return func() { m.finish(mode, name, s, err) }
	})
}

func (m *AuthModal) finish(mode AuthMode, name string, s *auth.Session, err error) {
	m.busy = false
	if err != nil {
		log.Printf("[AuthModal] %v", err)
		msg := auth.ErrorMessage(err)
		if msg == "" {
			msg = MessageAuthFailed
		}
		m.setStatus(msg, true)
		return
	}
	if s != nil && s.User.Name == "" {
		s.User.Name = name
	}
	if mode == ModeSignUp && (s == nil || s.AccessToken == "") {
		// 需要邮箱确认，暂时没有会话
		m.setStatus(MessageVerifyEmail, false)
		return
	}
	if m.onSuccess != nil {
		m.onSuccess(s)
	}
	m.done = true
}

func (m *AuthModal) startOAuth() {
	if m.provider == nil {
		m.setStatus(auth.ErrorMessage(auth.ErrNotConfigured), true)
		return
	}
	provider, redirect := m.provider, m.redirect
	m.busy = true
	m.tasks.Go(func(ctx context.Context) func() {
		url, err := provider.SignInWithOAuth(ctx, "google", redirect)
		return func() {
			m.busy = false
			if err != nil {
				log.Printf("[AuthModal] oauth: %v", err)
				m.setStatus(MessageGoogleFailed, true)
				return
			}
			m.oauthURL = url
			m.setStatus(MessageGoogleOpen, false)
		}
	})
}

// OAuthURL 浏览器授权地址（未发起时为空）
func (m *AuthModal) OAuthURL() string {
	return m.oauthURL
}

// Draw 实现 modal
func (m *AuthModal) Draw(dst *ebiten.Image, th *theme) {
	m.draw(dst, th)
	if m.oauthURL != "" {
		cx, cy := m.Panel.Center()
		m.qr.draw(dst, m.oauthURL, cx, cy, 240)
		return
	}
	m.google.Draw(dst, th)
	cx := m.Panel.X + m.Panel.W/2
	th.text(dst, "or", th.fonts.Small, cx, m.google.Bounds.Y+m.google.Bounds.H+20, text.AlignCenter, th.palette.TextSecondary)
	m.fields.draw(dst, th)
	m.submit.Draw(dst, th)
	m.toggle.Draw(dst, th)
}
