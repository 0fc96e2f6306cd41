package scenes

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lucifer-ux/4bitsLanding/pkg/auth"
	"github.com/lucifer-ux/4bitsLanding/pkg/config"
	"github.com/lucifer-ux/4bitsLanding/pkg/input"
	"github.com/lucifer-ux/4bitsLanding/pkg/leads"
	"github.com/lucifer-ux/4bitsLanding/pkg/payment"
	"github.com/lucifer-ux/4bitsLanding/pkg/store"
	"github.com/lucifer-ux/4bitsLanding/pkg/style"
)

var errOffline = errors.New("dial tcp: connection refused")

// fakeProvider 内存身份服务
type fakeProvider struct {
	mu        sync.Mutex
	session   *auth.Session
	listeners map[int]auth.Listener
	nextID    int

	signUpSession *auth.Session
	err           error
	oauthURL      string
	signedOut     bool
}

func newFakeProvider(s *auth.Session) *fakeProvider {
	return &fakeProvider{session: s, listeners: map[int]auth.Listener{}}
}

func (f *fakeProvider) Session(ctx context.Context) (*auth.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.session == nil {
		return nil, auth.ErrNoSession
	}
	return f.session, nil
}

func (f *fakeProvider) SignInWithOAuth(ctx context.Context, provider, redirectTo string) (string, error) {
	return f.oauthURL, f.err
}

func (f *fakeProvider) SignInWithPassword(ctx context.Context, email, password string) (*auth.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	s := &auth.Session{AccessToken: "tok-" + email, User: auth.User{ID: "u-" + email, Email: email}}
	f.set(s, auth.EventSignedIn)
	return s, nil
}

func (f *fakeProvider) SignUp(ctx context.Context, email, password, name string) (*auth.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.signUpSession != nil {
		return f.signUpSession, nil
	}
	return &auth.Session{User: auth.User{ID: "u-" + email, Email: email, Name: name}}, nil
}

func (f *fakeProvider) SignOut(ctx context.Context) error {
	f.mu.Lock()
	f.signedOut = true
	f.mu.Unlock()
	f.set(nil, auth.EventSignedOut)
	return nil
}

func (f *fakeProvider) OnAuthStateChange(fn auth.Listener) func() {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.listeners[id] = fn
	s := f.session
	f.mu.Unlock()
	fn(auth.EventInitialSession, s)
	return func() {
		f.mu.Lock()
		delete(f.listeners, id)
		f.mu.Unlock()
	}
}

func (f *fakeProvider) set(s *auth.Session, e auth.Event) {
	f.mu.Lock()
	f.session = s
	ls := make([]auth.Listener, 0, len(f.listeners))
	for _, l := range f.listeners {
		ls = append(ls, l)
	}
	f.mu.Unlock()
	for _, l := range ls {
		l(e, s)
	}
}

// fakeUsers 内存用户表
type fakeUsers struct {
	mu       sync.Mutex
	paid     map[string]bool
	upserted []store.UserRow
	marked   []string
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{paid: map[string]bool{}}
}

func (f *fakeUsers) ByAuthID(ctx context.Context, id string) (*store.UserRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &store.UserRow{ID: id, AuthUserID: id, Paid: f.paid[id]}, nil
}

func (f *fakeUsers) Upsert(ctx context.Context, row store.UserRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserted = append(f.upserted, row)
	return nil
}

func (f *fakeUsers) MarkPaid(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paid[id] = true
	f.marked = append(f.marked, id)
	return nil
}

func (f *fakeUsers) upserts() []store.UserRow {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]store.UserRow(nil), f.upserted...)
}

type fakePayments struct {
	mu      sync.Mutex
	records []store.PaymentRecord
}

func (f *fakePayments) Insert(ctx context.Context, rec store.PaymentRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, rec)
	return nil
}

// fakeGateway 第一次查询即已支付
type fakeGateway struct {
	status string
	err    error
}

func (g *fakeGateway) Checkout(ctx context.Context, o payment.Order) (*payment.Checkout, error) {
	if g.err != nil {
		return nil, g.err
	}
	return &payment.Checkout{ID: "plink_1", OrderID: o.ID, URL: "https://rzp.io/i/abc", Status: payment.StatusCreated}, nil
}

func (g *fakeGateway) Status(ctx context.Context, id string) (*payment.LinkStatus, error) {
	st := g.status
	if st == "" {
		st = payment.StatusPaid
	}
	return &payment.LinkStatus{Status: st, PaymentID: "pay_1"}, nil
}

// fakeSubmitter 固定结果的线索提交
type fakeSubmitter struct {
	mu     sync.Mutex
	result leads.SubmitResult
	err    error
	emails []string
}

func (f *fakeSubmitter) Submit(ctx context.Context, email string) (leads.SubmitResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.emails = append(f.emails, email)
	return f.result, f.err
}

func (f *fakeSubmitter) sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.emails...)
}

// rig 带脚本输入的落地页场景
type rig struct {
	scene    *LandingScene
	snap     input.Snapshot
	keys     input.Keys
	focused  bool
	users    *fakeUsers
	payments *fakePayments
}

func newRig(t *testing.T, variant config.Variant, services Services) *rig {
	t.Helper()
	r := &rig{users: newFakeUsers(), payments: &fakePayments{}, focused: true}
	if services.Data == nil {
		services.Data = func(string) (UserStore, payment.PaymentTable) { return r.users, r.payments }
	}
	cfg := config.Default()
	s, err := NewLandingScene(cfg, variant, services, false)
	if err != nil {
		t.Fatalf("NewLandingScene() error: %v", err)
	}
	s.readInput = func() (input.Snapshot, input.Keys) {
		snap, keys := r.snap, r.keys
		r.keys = input.Keys{}
		return snap, keys
	}
	s.isFocused = func() bool { return r.focused }
	s.windowStyle = func() []style.Resource { return nil }
	r.scene = s
	t.Cleanup(s.Unmount)
	return r
}

func (r *rig) frame() {
	r.scene.Update(1.0 / 60)
}

// tap 在 (x, y) 按下并抬起
func (r *rig) tap(x, y float64) {
	r.snap = input.Snapshot{MouseDown: true, MouseX: int(x), MouseY: int(y)}
	r.frame()
	r.snap = input.Snapshot{MouseX: int(x), MouseY: int(y)}
	r.frame()
}

func (r *rig) tapButton(b *Button) {
	r.tap(b.Bounds.Center())
}

// waitFor 逐帧推进直到条件满足
func (r *rig) waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(2 * time.Millisecond)
		r.frame()
	}
}
