// Package leads 预约线索提交与后台导出
package leads

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/lucifer-ux/4bitsLanding/internal/httpjson"
)

// 线索服务路径
const (
	PathSubmit       = "/api/leads"
	PathLogin        = "/login"
	PathLeads        = "/getLeads"
	PathSessionToken = "/sedsessiontoken"
)

var (
	// ErrTokenExpired 登录令牌无效，需要重新生成
	ErrTokenExpired = errors.New("Generate a new token.")
	// ErrNoToken 会话令牌接口返回成功但没有令牌
	ErrNoToken = errors.New("Token endpoint responded, but no token found.")
	// ErrInvalidEmail 邮箱格式不合法
	ErrInvalidEmail = errors.New("invalid email address")
)

// SubmitResult 提交结果
type SubmitResult int

const (
	// ResultNew 新线索
	ResultNew SubmitResult = iota + 1
	// ResultExisting 邮箱已登记
	ResultExisting
)

func (r SubmitResult) String() string {
	switch r {
	case ResultNew:
		return "new"
	case ResultExisting:
		return "existing"
	default:
		return "unknown"
	}
}

// Client 线索服务客户端
type Client struct {
	api *httpjson.Client
}

// NewClient 创建客户端
func NewClient(baseURL string) *Client {
	return &Client{api: httpjson.New(strings.TrimSpace(baseURL))}
}

// SetHTTPClient 替换底层 HTTP 客户端
func (c *Client) SetHTTPClient(h *http.Client) {
	c.api.HTTP = h
}

// ValidEmail 简单的邮箱格式检查
func ValidEmail(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 1 || at == len(email)-1 {
		return false
	}
	return strings.Contains(email[at+1:], ".") && !strings.ContainsAny(email, " \t\n")
}

// Submit 提交预约邮箱
// 200 为新线索，401 表示邮箱已存在，其他状态返回错误
func (c *Client) Submit(ctx context.Context, email string) (SubmitResult, error) {
	email = strings.TrimSpace(email)
	if !ValidEmail(email) {
		return 0, ErrInvalidEmail
	}
	status, err := c.api.Do(ctx, httpjson.Request{
		Method: http.MethodPost,
		Path:   PathSubmit,
		Body:   map[string]string{"email": email},
		Accept: []int{http.StatusUnauthorized},
	})
	if err != nil {
		return 0, fmt.Errorf("submit lead: %w", err)
	}
	switch status {
	case http.StatusOK:
		log.Printf("[Leads] 新线索 %s", email)
		return ResultNew, nil
	case http.StatusUnauthorized:
		return ResultExisting, nil
	default:
		return 0, fmt.Errorf("submit lead: unexpected status %d", status)
	}
}

// Login 用后台令牌登录
func (c *Client) Login(ctx context.Context, token string) error {
	_, err := c.api.Do(ctx, httpjson.Request{
		Method: http.MethodPost,
		Path:   PathLogin,
		Body:   map[string]string{"token": strings.TrimSpace(token)},
	})
	switch httpjson.StatusOf(err) {
	case 0:
		if err != nil {
			return fmt.Errorf("login: %w", err)
		}
		return nil
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusNotFound:
		return ErrTokenExpired
	default:
		return fmt.Errorf("login failed (%d): %w", httpjson.StatusOf(err), err)
	}
}

// SessionToken 生成新的会话令牌
func (c *Client) SessionToken(ctx context.Context) (string, error) {
	var body struct {
		Token        string `json:"token"`
		SessionToken string `json:"sessionToken"`
	}
	if _, err := c.api.Do(ctx, httpjson.Request{
		Method: http.MethodPost,
		Path:   PathSessionToken,
		Out:    &body,
	}); err != nil {
		return "", fmt.Errorf("session token failed: %w", err)
	}
	if body.Token != "" {
		return body.Token, nil
	}
	if body.SessionToken != "" {
		return body.SessionToken, nil
	}
	return "", ErrNoToken
}

// Fetch 拉取全部线索
// 响应可以是数组，也可以是 {"leads": [...]} 或 {"items": [...]}
func (c *Client) Fetch(ctx context.Context) ([]Lead, error) {
	var body Listing
	if _, err := c.api.Do(ctx, httpjson.Request{
		Method: http.MethodGet,
		Path:   PathLeads,
		Out:    &body,
	}); err != nil {
		return nil, fmt.Errorf("failed to fetch leads: %w", err)
	}
	return body.Leads, nil
}
