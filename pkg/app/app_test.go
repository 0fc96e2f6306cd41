package app

import (
	"testing"

	"github.com/lucifer-ux/4bitsLanding/pkg/config"
	"github.com/lucifer-ux/4bitsLanding/pkg/leads"
	"github.com/lucifer-ux/4bitsLanding/pkg/scenes"
)

// TestWithEndpoints 测试端点变化后重建支付网关与留资客户端
func TestWithEndpoints(t *testing.T) {
	tests := []struct {
		name        string
		ep          config.EndpointsConfig
		wantGateway bool
		wantLeads   bool
	}{
		{"全部未配置", config.EndpointsConfig{}, false, false},
		{"只配置留资", config.EndpointsConfig{LeadsBaseURL: "http://leads.local"}, false, true},
		{"只有 KeyID", config.EndpointsConfig{RazorpayKeyID: "rzp_test"}, false, false},
		{"支付与留资", config.EndpointsConfig{
			RazorpayBaseURL:   "http://rzp.local",
			RazorpayKeyID:     "rzp_test",
			RazorpayKeySecret: "secret",
			LeadsBaseURL:      "http://leads.local",
		}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outbox := leads.NewOutbox(nil)
			got := withEndpoints(scenes.Services{Outbox: outbox}, tt.ep)
			if (got.Gateway != nil) != tt.wantGateway {
				t.Errorf("Gateway: got %v, want present=%v", got.Gateway, tt.wantGateway)
			}
			if (got.Leads != nil) != tt.wantLeads {
				t.Errorf("Leads: got %v, want present=%v", got.Leads, tt.wantLeads)
			}
			if got.Data == nil {
				t.Error("Data: got nil")
			}
			if got.Outbox != outbox {
				t.Error("Outbox should be kept")
			}
		})
	}
}

// TestWithEndpointsClearsRemoved 测试删除密钥后旧的网关与客户端被清除
func TestWithEndpointsClearsRemoved(t *testing.T) {
	full := withEndpoints(scenes.Services{}, config.EndpointsConfig{
		RazorpayKeyID:     "rzp_test",
		RazorpayKeySecret: "secret",
		LeadsBaseURL:      "http://leads.local",
	})
	if full.Gateway == nil || full.Leads == nil {
		t.Fatalf("setup: gateway=%v leads=%v", full.Gateway, full.Leads)
	}

	got := withEndpoints(full, config.EndpointsConfig{})
	if got.Gateway != nil {
		t.Errorf("Gateway: got %v, want nil", got.Gateway)
	}
	if got.Leads != nil {
		t.Errorf("Leads: got %v, want nil", got.Leads)
	}
}

// TestPinIdentityEndpoints 测试热重载不切换 Supabase 项目
func TestPinIdentityEndpoints(t *testing.T) {
	tests := []struct {
		name        string
		url, key    string
		wantChanged bool
	}{
		{"未改动", "https://a.supabase.co", "anon-a", false},
		{"改了地址", "https://b.supabase.co", "anon-a", true},
		{"改了密钥", "https://a.supabase.co", "anon-b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := config.Default()
			prev.Endpoints.SupabaseURL = "https://a.supabase.co"
			prev.Endpoints.SupabaseAnonKey = "anon-a"

			next := config.Default()
			next.Endpoints.SupabaseURL = tt.url
			next.Endpoints.SupabaseAnonKey = tt.key
			next.Endpoints.LeadsBaseURL = "http://leads.local"

			if got := pinIdentityEndpoints(prev, next); got != tt.wantChanged {
				t.Errorf("changed: got %v, want %v", got, tt.wantChanged)
			}
			if next.Endpoints.SupabaseURL != "https://a.supabase.co" || next.Endpoints.SupabaseAnonKey != "anon-a" {
				t.Errorf("supabase endpoints not pinned: %+v", next.Endpoints)
			}
			if next.Endpoints.LeadsBaseURL != "http://leads.local" {
				t.Errorf("LeadsBaseURL overwritten: %q", next.Endpoints.LeadsBaseURL)
			}
		})
	}
}
