// Package httpjson 托管服务 REST 调用的公共部分
//
// 所有托管服务（身份、数据、支付、线索）都是 JSON over HTTP，
// 这里统一处理请求编码、状态码与错误体解析。
package httpjson

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout 默认请求超时
const DefaultTimeout = 15 * time.Second

// maxErrorBody 错误响应体最多读取的字节数
const maxErrorBody = 4 << 10

// StatusError 非 2xx 响应
type StatusError struct {
	Method  string
	URL     string
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.Status)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.Status, e.Message)
}

// StatusOf 返回错误中的 HTTP 状态码，非 StatusError 返回 0
func StatusOf(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status
	}
	return 0
}

// Client JSON 请求客户端
type Client struct {
	HTTP    *http.Client
	BaseURL string
	// Header 每个请求都携带的头
	Header http.Header
}

// New 创建客户端
func New(baseURL string) *Client {
	return &Client{
		HTTP:    &http.Client{Timeout: DefaultTimeout},
		BaseURL: strings.TrimRight(baseURL, "/"),
		Header:  make(http.Header),
	}
}

// Request 单次请求
type Request struct {
	Method string
	Path   string
	Header http.Header
	Body   any
	// Out 为 nil 时丢弃响应体
	Out any
	// Accept 额外视为成功的状态码（非 2xx）
	Accept []int
}

// Do 发送请求并解码 JSON 响应，返回状态码
func (c *Client) Do(ctx context.Context, r Request) (int, error) {
	var body io.Reader
	if r.Body != nil {
		data, err := json.Marshal(r.Body)
		if err != nil {
			return 0, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	url := c.BaseURL + r.Path
	req, err := http.NewRequestWithContext(ctx, r.Method, url, body)
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	for k, vs := range c.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	for k, vs := range r.Header {
		req.Header.Del(k)
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if r.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", r.Method, url, err)
	}
	defer resp.Body.Close()

	if !success(resp.StatusCode, r.Accept) {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return resp.StatusCode, &StatusError{
			Method:  r.Method,
			URL:     url,
			Status:  resp.StatusCode,
			Message: ErrorMessage(raw),
		}
	}

	if r.Out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(raw, r.Out); err != nil {
		return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
	}
	return resp.StatusCode, nil
}

func success(status int, accept []int) bool {
	if status >= 200 && status < 300 {
		return true
	}
	for _, a := range accept {
		if a == status {
			return true
		}
	}
	return false
}

// ErrorMessage 从常见错误体中提取可读信息
// 支持 {"error_description"}、{"msg"}、{"message"}、{"error"} 以及纯文本
func ErrorMessage(raw []byte) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err == nil {
		for _, k := range []string{"error_description", "msg", "message", "error"} {
			switch v := body[k].(type) {
			case string:
				if v != "" {
					return v
				}
			case map[string]any:
				if d, ok := v["description"].(string); ok && d != "" {
					return d
				}
			}
		}
		return ""
	}
	s := string(raw)
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
