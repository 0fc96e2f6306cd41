package store

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type recorded struct {
	method string
	path   string
	query  string
	prefer string
	auth   string
	body   string
}

func newTestServer(t *testing.T, respond func(w http.ResponseWriter, r *http.Request)) (*Client, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw json.RawMessage
		_ = json.NewDecoder(r.Body).Decode(&raw)
		calls = append(calls, recorded{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.RawQuery,
			prefer: r.Header.Get("Prefer"),
			auth:   r.Header.Get("Authorization"),
			body:   string(raw),
		})
		respond(w, r)
	}))
	t.Cleanup(srv.Close)
	c := New(srv.URL, "anon", "user-jwt")
	c.now = func() time.Time { return time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC) }
	return c, &calls
}

// TestByAuthID 测试查询用户
func TestByAuthID(t *testing.T) {
	c, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"row-7","email":"buyer@4bits.in","auth_user_id":"u-1","paid":true}]`))
	})

	row, err := c.Users().ByAuthID(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("ByAuthID() error: %v", err)
	}
	if !row.Paid || row.Email != "buyer@4bits.in" {
		t.Errorf("row: %+v", row)
	}
	got := (*calls)[0]
	if got.method != http.MethodGet || got.path != "/rest/v1/users" {
		t.Errorf("request: %+v", got)
	}
	if got.auth != "Bearer user-jwt" {
		t.Errorf("Authorization: got %q", got.auth)
	}
	if want := "auth_user_id=eq.u-1"; !strings.Contains(got.query, want) {
		t.Errorf("query %q should contain %q", got.query, want)
	}
}

// TestByAuthIDNotFound 测试空结果
func TestByAuthIDNotFound(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	if _, err := c.Users().ByEmail(context.Background(), "nobody@4bits.in"); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

// TestMarkPaidAndInsert 测试写操作
func TestMarkPaidAndInsert(t *testing.T) {
	c, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	ctx := context.Background()

	if err := c.Users().MarkPaid(ctx, "u-1"); err != nil {
		t.Fatalf("MarkPaid() error: %v", err)
	}
	rec := PaymentRecord{
		UserID: "u-1", OrderID: "order_1", Amount: 400, Currency: "INR",
		Status: "completed", PaymentGateway: "razorpay", PaymentID: "pay_1",
	}
	if err := c.Payments().Insert(ctx, rec); err != nil {
		t.Fatalf("Insert() error: %v", err)
	}
	if err := c.Users().Upsert(ctx, UserRow{ID: "u-1", Email: "buyer@4bits.in"}); err != nil {
		t.Fatalf("Upsert() error: %v", err)
	}

	want := []recorded{
		{
			method: http.MethodPatch, path: "/rest/v1/users", query: "auth_user_id=eq.u-1",
			prefer: "return=minimal", auth: "Bearer user-jwt",
			body: `{"paid":true,"updated_at":"2026-10-14T09:30:00Z"}`,
		},
		{
			method: http.MethodPost, path: "/rest/v1/payment_records",
			prefer: "return=minimal", auth: "Bearer user-jwt",
			body: `[{"user_id":"u-1","order_id":"order_1","amount":400,"currency":"INR","status":"completed","payment_gateway":"razorpay","payment_id":"pay_1"}]`,
		},
		{
			method: http.MethodPost, path: "/rest/v1/users", query: "on_conflict=id",
			prefer: "resolution=merge-duplicates,return=minimal", auth: "Bearer user-jwt",
			body: `[{"id":"u-1","email":"buyer@4bits.in","paid":false,"created_at":"2026-10-14T09:30:00Z"}]`,
		},
	}
	if diff := cmp.Diff(want, *calls, cmp.AllowUnexported(recorded{})); diff != "" {
		t.Errorf("requests mismatch (-want +got):\n%s", diff)
	}
}

// TestAnonymousBearer 测试未登录时使用匿名密钥
func TestAnonymousBearer(t *testing.T) {
	c := New("https://proj.supabase.co", "anon", "")
	if got := c.api.Header.Get("Authorization"); got != "Bearer anon" {
		t.Errorf("Authorization: got %q", got)
	}
}
