// Package store 托管数据服务（PostgREST）的最小查询客户端
//
// 只用到两张表：users（是否已支付）与 payment_records（支付记录）。
package store

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lucifer-ux/4bitsLanding/internal/httpjson"
)

// ErrNotFound 没有匹配的行
var ErrNotFound = errors.New("store: row not found")

// UserRow users 表的一行
type UserRow struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	Name       string     `json:"name,omitempty"`
	AuthUserID string     `json:"auth_user_id,omitempty"`
	Paid       bool       `json:"paid"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}

// PaymentRecord payment_records 表的一行
type PaymentRecord struct {
	UserID         string `json:"user_id"`
	OrderID        string `json:"order_id"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	Status         string `json:"status"`
	PaymentGateway string `json:"payment_gateway"`
	PaymentID      string `json:"payment_id"`
	Signature      string `json:"signature,omitempty"`
}

// Client PostgREST 客户端
type Client struct {
	api *httpjson.Client
	now func() time.Time
}

// New 创建客户端；accessToken 为空时使用匿名密钥
func New(baseURL, anonKey, accessToken string) *Client {
	api := httpjson.New(strings.TrimRight(baseURL, "/") + "/rest/v1")
	api.Header.Set("apikey", anonKey)
	bearer := accessToken
	if bearer == "" {
		bearer = anonKey
	}
	api.Header.Set("Authorization", "Bearer "+bearer)
	return &Client{api: api, now: time.Now}
}

// SetHTTPClient 替换底层 HTTP 客户端
func (c *Client) SetHTTPClient(h *http.Client) {
	c.api.HTTP = h
}

// Users users 表
func (c *Client) Users() *Users {
	return &Users{c: c}
}

// Payments payment_records 表
func (c *Client) Payments() *Payments {
	return &Payments{c: c}
}

// Users users 表操作
type Users struct {
	c *Client
}

// ByAuthID 按身份服务的用户 id（auth_user_id 列）查询
func (u *Users) ByAuthID(ctx context.Context, authUserID string) (*UserRow, error) {
	return u.selectOne(ctx, "auth_user_id", authUserID)
}

// ByEmail 按邮箱查询用户
func (u *Users) ByEmail(ctx context.Context, email string) (*UserRow, error) {
	return u.selectOne(ctx, "email", email)
}

func (u *Users) selectOne(ctx context.Context, column, value string) (*UserRow, error) {
	q := url.Values{}
	q.Set("select", "id,email,name,auth_user_id,paid,created_at,updated_at")
	q.Set(column, "eq."+value)
	q.Set("limit", "1")

	var rows []UserRow
	if _, err := u.c.api.Do(ctx, httpjson.Request{
		Method: http.MethodGet,
		Path:   "/users?" + q.Encode(),
		Out:    &rows,
	}); err != nil {
		return nil, fmt.Errorf("select user by %s: %w", column, err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

// Upsert 插入或更新用户（冲突键 id）
func (u *Users) Upsert(ctx context.Context, row UserRow) error {
	if row.CreatedAt == nil {
		now := u.c.now().UTC()
		row.CreatedAt = &now
	}
	h := http.Header{}
	h.Set("Prefer", "resolution=merge-duplicates,return=minimal")
	if _, err := u.c.api.Do(ctx, httpjson.Request{
		Method: http.MethodPost,
		Path:   "/users?on_conflict=id",
		Header: h,
		Body:   []UserRow{row},
	}); err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// MarkPaid 标记用户已支付
func (u *Users) MarkPaid(ctx context.Context, authUserID string) error {
	q := url.Values{}
	q.Set("auth_user_id", "eq."+authUserID)
	h := http.Header{}
	h.Set("Prefer", "return=minimal")
	body := map[string]any{
		"paid":       true,
		"updated_at": u.c.now().UTC().Format(time.RFC3339),
	}
	if _, err := u.c.api.Do(ctx, httpjson.Request{
		Method: http.MethodPatch,
		Path:   "/users?" + q.Encode(),
		Header: h,
		Body:   body,
	}); err != nil {
		return fmt.Errorf("mark user paid: %w", err)
	}
	return nil
}

// Payments payment_records 表操作
type Payments struct {
	c *Client
}

// Insert 写入支付记录
func (p *Payments) Insert(ctx context.Context, rec PaymentRecord) error {
	h := http.Header{}
	h.Set("Prefer", "return=minimal")
	if _, err := p.c.api.Do(ctx, httpjson.Request{
		Method: http.MethodPost,
		Path:   "/payment_records",
		Header: h,
		Body:   []PaymentRecord{rec},
	}); err != nil {
		return fmt.Errorf("insert payment record: %w", err)
	}
	return nil
}
