// Package auth 托管身份服务客户端
//
// 只调用身份服务的公开契约：会话查询、OAuth 跳转、邮箱密码登录/注册、
// 登出以及会话变化订阅。会话的签发与校验都在服务端。
package auth

import (
	"context"
	"errors"
	"time"
)

// 开发用测试账号，直接返回本地会话，不访问服务端
const (
	TestEmail    = "test4bits123@g.com"
	TestPassword = "qwert12345"
	TestUserID   = "test-user-123"
)

// ErrNoSession 没有已登录的会话
var ErrNoSession = errors.New("auth: no session")

// ErrNotConfigured 身份服务地址或密钥未配置
var ErrNotConfigured = errors.New("auth: identity provider not configured")

// User 登录用户
type User struct {
	ID    string `json:"id" yaml:"id"`
	Email string `json:"email" yaml:"email"`
	Name  string `json:"name" yaml:"name"`
}

// Session 登录会话
type Session struct {
	AccessToken  string    `yaml:"accessToken"`
	RefreshToken string    `yaml:"refreshToken"`
	ExpiresAt    time.Time `yaml:"expiresAt"`
	User         User      `yaml:"user"`
}

// Expired 会话在 now 时是否已过期（零值表示不过期）
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Event 会话变化事件
type Event string

const (
	EventInitialSession Event = "INITIAL_SESSION"
	EventSignedIn       Event = "SIGNED_IN"
	EventSignedOut      Event = "SIGNED_OUT"
	EventTokenRefreshed Event = "TOKEN_REFRESHED"
)

// Listener 会话变化回调；session 在 SIGNED_OUT 时为 nil
type Listener func(event Event, session *Session)

// Provider 托管身份服务
type Provider interface {
	// Session 返回当前会话，没有时返回 ErrNoSession
	Session(ctx context.Context) (*Session, error)
	// SignInWithOAuth 返回需要在浏览器打开的授权地址
	SignInWithOAuth(ctx context.Context, provider, redirectTo string) (string, error)
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	// SignUp 注册；服务端要求邮箱确认时返回的 Session 只有 User
	SignUp(ctx context.Context, email, password, name string) (*Session, error)
	SignOut(ctx context.Context) error
	OnAuthStateChange(fn Listener) (unsubscribe func())
}

func isTestCredentials(email, password string) bool {
	return email == TestEmail && password == TestPassword
}

func testSession() *Session {
	return &Session{
		AccessToken: "test-session",
		User:        User{ID: TestUserID, Email: TestEmail, Name: "Test User"},
	}
}
