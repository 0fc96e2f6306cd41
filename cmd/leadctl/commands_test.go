package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lucifer-ux/4bitsLanding/pkg/leads"
)

// fakeDashboard 模拟线索后台
func fakeDashboard(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc(leads.PathLogin, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Token string `json:"token"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		if body.Token != "good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	})
	mux.HandleFunc(leads.PathSessionToken, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"sessionToken":"sess-42"}`))
	})
	mux.HandleFunc(leads.PathLeads, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[{"email":"a@b.co","createdAt":"2026-01-02"},{"email":"c@d.co","source":"landing"}]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, opts *options, args ...string) (string, error) {
	t.Helper()
	root := buildRoot(opts)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// TestLogin 测试令牌登录
func TestLogin(t *testing.T) {
	srv := fakeDashboard(t)
	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"有效令牌", "good", nil},
		{"过期令牌", "stale", leads.ErrTokenExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, &options{now: time.Now}, "login", "--base-url", srv.URL, "--token", tt.token)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && !strings.Contains(out, "Logged in.") {
				t.Errorf("output %q", out)
			}
		})
	}
}

// TestLoginRequiresToken 测试缺少 --token
func TestLoginRequiresToken(t *testing.T) {
	srv := fakeDashboard(t)
	if _, err := run(t, &options{now: time.Now}, "login", "--base-url", srv.URL); err == nil {
		t.Fatal("expected missing flag error")
	}
}

// TestSessionToken 测试会话令牌输出
func TestSessionToken(t *testing.T) {
	srv := fakeDashboard(t)
	out, err := run(t, &options{now: time.Now}, "session-token", "--base-url", srv.URL)
	if err != nil {
		t.Fatalf("session-token: %v", err)
	}
	if strings.TrimSpace(out) != "sess-42" {
		t.Errorf("output %q, want sess-42", out)
	}
}

// TestFetch 测试按原顺序输出 JSON
func TestFetch(t *testing.T) {
	srv := fakeDashboard(t)
	out, err := run(t, &options{now: time.Now}, "fetch", "--base-url", srv.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if !strings.Contains(out, `"email": "a@b.co"`) || !strings.Contains(out, `"source": "landing"`) {
		t.Errorf("unexpected output:\n%s", out)
	}
}

// TestExportDefaultName 测试默认文件名与 CSV 表头
func TestExportDefaultName(t *testing.T) {
	srv := fakeDashboard(t)
	dir := t.TempDir()
	t.Chdir(dir)

	now := func() time.Time { return time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC) }
	out, err := run(t, &options{now: now}, "export", "--base-url", srv.URL)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(out, "Exported 2 leads to leads-2026-03-09.csv") {
		t.Errorf("output %q", out)
	}

	data, err := os.ReadFile(filepath.Join(dir, "leads-2026-03-09.csv"))
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if lines[0] != "email,createdAt,source" {
		t.Errorf("header = %q", lines[0])
	}
	if len(lines) != 3 {
		t.Errorf("got %d lines, want 3", len(lines))
	}
}

// TestExportOut 测试 --out 指定路径
func TestExportOut(t *testing.T) {
	srv := fakeDashboard(t)
	path := filepath.Join(t.TempDir(), "custom.csv")
	if _, err := run(t, &options{now: time.Now}, "export", "--base-url", srv.URL, "--out", path); err != nil {
		t.Fatalf("export: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("export file missing: %v", err)
	}
}

// TestEmptyBaseURL 测试未配置服务地址
func TestEmptyBaseURL(t *testing.T) {
	if _, err := run(t, &options{now: time.Now}, "fetch", "--base-url", ""); err == nil {
		t.Fatal("expected error for empty base URL")
	}
}
