package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lucifer-ux/4bitsLanding/pkg/store"
)

type fakeUsers struct {
	row       *store.UserRow
	lookupErr error
	markErr   error
	marked    []string
}

func (f *fakeUsers) ByAuthID(ctx context.Context, id string) (*store.UserRow, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	return f.row, nil
}

func (f *fakeUsers) MarkPaid(ctx context.Context, id string) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.marked = append(f.marked, id)
	return nil
}

type fakePayments struct {
	err     error
	records []store.PaymentRecord
}

func (f *fakePayments) Insert(ctx context.Context, rec store.PaymentRecord) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, rec)
	return nil
}

type fakeGateway struct {
	checkoutErr error
	status      LinkStatus
}

func (g *fakeGateway) Checkout(ctx context.Context, o Order) (*Checkout, error) {
	if g.checkoutErr != nil {
		return nil, g.checkoutErr
	}
	return &Checkout{ID: "plink_1", OrderID: o.ID, URL: "https://rzp.io/i/abc"}, nil
}

func (g *fakeGateway) Status(ctx context.Context, id string) (*LinkStatus, error) {
	st := g.status
	return &st, nil
}

// TestCompleteRecordsPayment 测试成功路径写入记录并标记已支付
func TestCompleteRecordsPayment(t *testing.T) {
	users := &fakeUsers{row: &store.UserRow{ID: "row-7", AuthUserID: "auth-1"}}
	payments := &fakePayments{}
	f := &Flow{Users: users, Payments: payments}
	order := Order{ID: "order_1", Amount: 4, Currency: "INR"}

	out := f.Complete(context.Background(), order, "auth-1", Result{PaymentID: "pay_1", Signature: "sig"})
	if !out.Paid || !out.Recorded || out.Message != MessageSuccess {
		t.Fatalf("outcome: %v", out)
	}

	want := []store.PaymentRecord{{
		UserID: "row-7", OrderID: "order_1", Amount: 4, Currency: "INR",
		Status: "success", PaymentGateway: "razorpay", PaymentID: "pay_1", Signature: "sig",
	}}
	if diff := cmp.Diff(want, payments.records); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"auth-1"}, users.marked); diff != "" {
		t.Errorf("marked mismatch (-want +got):\n%s", diff)
	}
}

// TestCompleteFailures 测试各失败步骤的状态文案
func TestCompleteFailures(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name     string
		users    *fakeUsers
		payments *fakePayments
		result   Result
		want     Outcome
	}{
		{
			name:     "缺少支付号",
			users:    &fakeUsers{row: &store.UserRow{ID: "row-7"}},
			payments: &fakePayments{},
			want:     Outcome{Message: MessageVerifyFailed},
		},
		{
			name:     "用户不存在",
			users:    &fakeUsers{lookupErr: store.ErrNotFound},
			payments: &fakePayments{},
			result:   Result{PaymentID: "pay_1"},
			want:     Outcome{Paid: true, Message: MessageUserNotFound},
		},
		{
			name:     "写入记录失败",
			users:    &fakeUsers{row: &store.UserRow{ID: "row-7"}},
			payments: &fakePayments{err: boom},
			result:   Result{PaymentID: "pay_1"},
			want:     Outcome{Paid: true, Message: MessageRecordFailed},
		},
		{
			name:     "标记失败",
			users:    &fakeUsers{row: &store.UserRow{ID: "row-7"}, markErr: boom},
			payments: &fakePayments{},
			result:   Result{PaymentID: "pay_1"},
			want:     Outcome{Paid: true, Message: MessageStatusFailed},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &Flow{Users: tt.users, Payments: tt.payments}
			got := f.Complete(context.Background(), Order{ID: "order_1", Amount: 4, Currency: "INR"}, "auth-1", tt.result)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("outcome mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// TestStartAndPoll 测试收银台创建与轮询
func TestStartAndPoll(t *testing.T) {
	gw := &fakeGateway{status: LinkStatus{Status: StatusCreated}}
	users := &fakeUsers{row: &store.UserRow{ID: "row-7"}}
	f := &Flow{Gateway: gw, Users: users, Payments: &fakePayments{}}
	order := NewOrder(4, "INR", Customer{})
	ctx := context.Background()

	co, out := f.Start(ctx, order)
	if co == nil || out.Message != MessageAwaitingPayment {
		t.Fatalf("Start: %v %v", co, out)
	}

	out, err := f.Poll(ctx, co, order, "auth-1")
	if err != nil || out.Paid {
		t.Fatalf("Poll before payment: %v %v", out, err)
	}

	gw.status = LinkStatus{Status: StatusPaid, PaymentID: "pay_1"}
	out, err = f.Poll(ctx, co, order, "auth-1")
	if err != nil || !out.Recorded {
		t.Fatalf("Poll after payment: %v %v", out, err)
	}

	gw.status = LinkStatus{Status: StatusExpired}
	if out, _ := f.Poll(ctx, co, order, "auth-1"); out.Message != MessageCheckoutCanceled {
		t.Errorf("expired link: got %q", out.Message)
	}
}

// TestStartFailures 测试收银台初始化失败
func TestStartFailures(t *testing.T) {
	f := &Flow{}
	if _, out := f.Start(context.Background(), NewOrder(4, "INR", Customer{})); out.Message != MessageNotConfigured {
		t.Errorf("nil gateway: got %q", out.Message)
	}
	f.Gateway = &fakeGateway{checkoutErr: errors.New("network down")}
	if _, out := f.Start(context.Background(), NewOrder(4, "INR", Customer{})); out.Message != MessageInitFailed {
		t.Errorf("gateway error: got %q", out.Message)
	}
}
