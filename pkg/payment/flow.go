package payment

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/lucifer-ux/4bitsLanding/pkg/store"
)

// 展示给用户的支付状态文案
const (
	MessageSuccess          = "Payment successful! Thank you for your preorder."
	MessageVerifyFailed     = "Payment verification failed. Please contact support."
	MessageUserNotFound     = "Payment successful but user not found. Please contact support."
	MessageRecordFailed     = "Payment successful but error storing record. Please contact support."
	MessageStatusFailed     = "Payment successful but error updating status. Please contact support."
	MessageInitFailed       = "Payment failed to initialize. Please try again."
	MessageNotConfigured    = "Payment is not configured."
	MessageAwaitingPayment  = "Scan the code to complete your preorder."
	MessageCheckoutCanceled = "Payment link was cancelled or expired."
)

// UserTable 用户表
type UserTable interface {
	ByAuthID(ctx context.Context, authUserID string) (*store.UserRow, error)
	MarkPaid(ctx context.Context, authUserID string) error
}

// PaymentTable 支付记录表
type PaymentTable interface {
	Insert(ctx context.Context, rec store.PaymentRecord) error
}

// Outcome 一次支付流程的结果
type Outcome struct {
	// Paid 网关侧已收款
	Paid bool
	// Recorded 记录与已支付标记都已写入
	Recorded bool
	Message  string
}

// Flow 预购支付流程
type Flow struct {
	Gateway  Gateway
	Users    UserTable
	Payments PaymentTable
}

// Start 创建订单并打开收银台
func (f *Flow) Start(ctx context.Context, order Order) (*Checkout, Outcome) {
	if f.Gateway == nil {
		return nil, Outcome{Message: MessageNotConfigured}
	}
	co, err := f.Gateway.Checkout(ctx, order)
	if err != nil {
		log.Printf("[Payment] 收银台初始化失败: %v", err)
		if errors.Is(err, ErrNotConfigured) {
			return nil, Outcome{Message: MessageNotConfigured}
		}
		return nil, Outcome{Message: MessageInitFailed}
	}
	return co, Outcome{Message: MessageAwaitingPayment}
}

// Poll 查询收银台状态，已支付时完成记录
func (f *Flow) Poll(ctx context.Context, co *Checkout, order Order, authUserID string) (Outcome, error) {
	st, err := f.Gateway.Status(ctx, co.ID)
	if err != nil {
		return Outcome{Message: MessageAwaitingPayment}, err
	}
	switch st.Status {
	case StatusPaid:
		return f.Complete(ctx, order, authUserID, Result{PaymentID: st.PaymentID}), nil
	case StatusCancelled, StatusExpired:
		return Outcome{Message: MessageCheckoutCanceled}, nil
	default:
		return Outcome{Message: MessageAwaitingPayment}, nil
	}
}

// Complete 支付成功后写入支付记录并标记用户已支付
// 每一步失败都会转换为对应的状态文案，不返回错误
func (f *Flow) Complete(ctx context.Context, order Order, authUserID string, res Result) Outcome {
	if res.PaymentID == "" {
		return Outcome{Message: MessageVerifyFailed}
	}
	out := Outcome{Paid: true}

	user, err := f.Users.ByAuthID(ctx, authUserID)
	if err != nil {
		log.Printf("[Payment] 查询用户失败: %v", err)
		out.Message = MessageUserNotFound
		return out
	}

	rec := store.PaymentRecord{
		UserID:         user.ID,
		OrderID:        order.ID,
		Amount:         order.Amount,
		Currency:       order.Currency,
		Status:         "success",
		PaymentGateway: GatewayName,
		PaymentID:      res.PaymentID,
		Signature:      res.Signature,
	}
	if err := f.Payments.Insert(ctx, rec); err != nil {
		log.Printf("[Payment] 写入支付记录失败: %v", err)
		out.Message = MessageRecordFailed
		return out
	}
	if err := f.Users.MarkPaid(ctx, authUserID); err != nil {
		log.Printf("[Payment] 标记已支付失败: %v", err)
		out.Message = MessageStatusFailed
		return out
	}

	log.Printf("[Payment] 支付完成 order=%s payment=%s", order.ID, res.PaymentID)
	out.Recorded = true
	out.Message = MessageSuccess
	return out
}

// String 便于日志输出
func (o Outcome) String() string {
	return fmt.Sprintf("paid=%v recorded=%v %q", o.Paid, o.Recorded, o.Message)
}
