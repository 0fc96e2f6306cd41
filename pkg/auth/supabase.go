package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/lucifer-ux/4bitsLanding/internal/httpjson"
)

// SupabaseClient GoTrue REST 客户端
//
// 网络调用在后台 goroutine 中执行，会话状态与监听表由互斥锁保护；
// 回调在调用方所在的 goroutine 上同步触发，UI 侧需要自行转发到游戏循环。
type SupabaseClient struct {
	api     *httpjson.Client
	baseURL string
	anonKey string
	store   SessionStore
	now     func() time.Time

	mu        sync.Mutex
	session   *Session
	loaded    bool
	listeners map[int]Listener
	nextID    int
}

// NewSupabaseClient 创建客户端；store 为 nil 时使用进程内缓存
func NewSupabaseClient(baseURL, anonKey string, store SessionStore) *SupabaseClient {
	if store == nil {
		store = &MemorySessionStore{}
	}
	api := httpjson.New(strings.TrimRight(baseURL, "/") + "/auth/v1")
	api.Header.Set("apikey", anonKey)
	return &SupabaseClient{
		api:       api,
		baseURL:   strings.TrimRight(baseURL, "/"),
		anonKey:   anonKey,
		store:     store,
		now:       time.Now,
		listeners: make(map[int]Listener),
	}
}

// SetHTTPClient 替换底层 HTTP 客户端
func (c *SupabaseClient) SetHTTPClient(h *http.Client) {
	c.api.HTTP = h
}

func (c *SupabaseClient) configured() bool {
	return c.baseURL != "" && c.anonKey != ""
}

// tokenResponse GoTrue 会话响应
type tokenResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresIn    int64       `json:"expires_in"`
	ExpiresAt    int64       `json:"expires_at"`
	User         *goTrueUser `json:"user"`

	// 需要邮箱确认时注册接口直接返回用户对象
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	UserMetadata userMetadata `json:"user_metadata"`
}

type goTrueUser struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	UserMetadata userMetadata `json:"user_metadata"`
}

type userMetadata struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
}

func (m userMetadata) displayName() string {
	if m.Name != "" {
		return m.Name
	}
	return m.FullName
}

func (c *SupabaseClient) toSession(r tokenResponse) *Session {
	s := &Session{AccessToken: r.AccessToken, RefreshToken: r.RefreshToken}
	switch {
	case r.ExpiresAt > 0:
		s.ExpiresAt = time.Unix(r.ExpiresAt, 0)
	case r.ExpiresIn > 0:
		s.ExpiresAt = c.now().Add(time.Duration(r.ExpiresIn) * time.Second)
	}
	if r.User != nil {
		s.User = User{ID: r.User.ID, Email: r.User.Email, Name: r.User.UserMetadata.displayName()}
	} else {
		s.User = User{ID: r.ID, Email: r.Email, Name: r.UserMetadata.displayName()}
	}
	return s
}

// Session 实现 Provider
// 首次调用读取缓存；缓存过期且带刷新令牌时尝试刷新
func (c *SupabaseClient) Session(ctx context.Context) (*Session, error) {
	c.mu.Lock()
	if !c.loaded {
		c.loaded = true
		cached, err := c.store.Load()
		if err != nil {
			log.Printf("[Auth] Warning: failed to load cached session: %v", err)
		}
		c.session = cached
	}
	s := c.session
	c.mu.Unlock()

	if s == nil {
		return nil, ErrNoSession
	}
	if !s.Expired(c.now()) {
		return s, nil
	}
	if s.RefreshToken == "" {
		c.setSession(nil, EventSignedOut)
		return nil, ErrNoSession
	}
	refreshed, err := c.refresh(ctx, s.RefreshToken)
	if err != nil {
		if st := httpjson.StatusOf(err); st >= 400 && st < 500 {
			c.setSession(nil, EventSignedOut)
			return nil, ErrNoSession
		}
		return nil, err
	}
	c.setSession(refreshed, EventTokenRefreshed)
	return refreshed, nil
}

func (c *SupabaseClient) refresh(ctx context.Context, token string) (*Session, error) {
	var resp tokenResponse
	_, err := c.api.Do(ctx, httpjson.Request{
		Method: http.MethodPost,
		Path:   "/token?grant_type=refresh_token",
		Body:   map[string]string{"refresh_token": token},
		Out:    &resp,
	})
	if err != nil {
		return nil, fmt.Errorf("refresh session: %w", err)
	}
	return c.toSession(resp), nil
}

// SignInWithOAuth 实现 Provider，只构造授权地址
func (c *SupabaseClient) SignInWithOAuth(ctx context.Context, provider, redirectTo string) (string, error) {
	if !c.configured() {
		return "", ErrNotConfigured
	}
	q := url.Values{}
	q.Set("provider", provider)
	if redirectTo != "" {
		q.Set("redirect_to", redirectTo)
	}
	return c.baseURL + "/auth/v1/authorize?" + q.Encode(), nil
}

// SignInWithPassword 实现 Provider
func (c *SupabaseClient) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	if isTestCredentials(email, password) {
		log.Printf("[Auth] Using test credentials")
		s := testSession()
		c.setSession(s, EventSignedIn)
		return s, nil
	}
	if !c.configured() {
		return nil, ErrNotConfigured
	}

	var resp tokenResponse
	_, err := c.api.Do(ctx, httpjson.Request{
		Method: http.MethodPost,
		Path:   "/token?grant_type=password",
		Body:   map[string]string{"email": email, "password": password},
		Out:    &resp,
	})
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	s := c.toSession(resp)
	c.setSession(s, EventSignedIn)
	return s, nil
}

// SignUp 实现 Provider
func (c *SupabaseClient) SignUp(ctx context.Context, email, password, name string) (*Session, error) {
	if isTestCredentials(email, password) {
		log.Printf("[Auth] Using test credentials")
		s := testSession()
		c.setSession(s, EventSignedIn)
		return s, nil
	}
	if !c.configured() {
		return nil, ErrNotConfigured
	}

	body := map[string]any{
		"email":    email,
		"password": password,
		"data":     map[string]string{"name": name},
	}
	var resp tokenResponse
	_, err := c.api.Do(ctx, httpjson.Request{
		Method: http.MethodPost,
		Path:   "/signup",
		Body:   body,
		Out:    &resp,
	})
	if err != nil {
		return nil, fmt.Errorf("sign up: %w", err)
	}
	s := c.toSession(resp)
	if s.AccessToken != "" {
		c.setSession(s, EventSignedIn)
	}
	return s, nil
}

// SignOut 实现 Provider
// 无论服务端是否成功都清除本地会话
func (c *SupabaseClient) SignOut(ctx context.Context) error {
	c.mu.Lock()
	s := c.session
	c.mu.Unlock()

	var err error
	if s != nil && s.User.ID != TestUserID && c.configured() {
		h := http.Header{}
		h.Set("Authorization", "Bearer "+s.AccessToken)
		_, err = c.api.Do(ctx, httpjson.Request{
			Method: http.MethodPost,
			Path:   "/logout",
			Header: h,
		})
		if err != nil {
			err = fmt.Errorf("sign out: %w", err)
		}
	}
	c.setSession(nil, EventSignedOut)
	return err
}

// OnAuthStateChange 实现 Provider
// 注册时立即以 INITIAL_SESSION 回调一次当前会话
func (c *SupabaseClient) OnAuthStateChange(fn Listener) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	s := c.session
	c.mu.Unlock()

	fn(EventInitialSession, s)
	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

func (c *SupabaseClient) setSession(s *Session, event Event) {
	c.mu.Lock()
	c.session = s
	c.loaded = true
	listeners := make([]Listener, 0, len(c.listeners))
	for _, l := range c.listeners {
		listeners = append(listeners, l)
	}
	c.mu.Unlock()

	if err := c.store.Save(s); err != nil {
		log.Printf("[Auth] Warning: failed to cache session: %v", err)
	}
	log.Printf("[Auth] %s", event)
	for _, l := range listeners {
		l(event, s)
	}
}

// IsInvalidCredentials 登录失败是否为凭据错误
func IsInvalidCredentials(err error) bool {
	st := httpjson.StatusOf(err)
	return st == http.StatusBadRequest || st == http.StatusUnauthorized
}

// ErrorMessage 面向用户的错误说明
func ErrorMessage(err error) string {
	var se *httpjson.StatusError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotConfigured):
		return "Sign-in is not available right now."
	case errors.As(err, &se) && se.Message != "":
		return se.Message
	case errors.Is(err, context.DeadlineExceeded):
		return "The sign-in service timed out. Please try again."
	default:
		return "Could not reach the sign-in service. Check your connection."
	}
}
