// Package payment 预购支付：支付网关、订单与支付完成后的记录流程
package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// GatewayName 写入 payment_records.payment_gateway 的网关名
const GatewayName = "razorpay"

// 订单与支付链接状态
const (
	StatusCreated   = "created"
	StatusPaid      = "paid"
	StatusCancelled = "cancelled"
	StatusExpired   = "expired"
)

// ErrNotConfigured 网关缺少密钥
var ErrNotConfigured = errors.New("payment: gateway key not configured")

// Customer 预填的付款人信息
type Customer struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Order 一次预购订单
type Order struct {
	ID          string
	Amount      int64 // 主货币单位
	Currency    string
	ProductName string
	Description string
	Customer    Customer
}

// NewOrder 创建订单，ID 形如 order_<uuid>
func NewOrder(amount int64, currency string, customer Customer) Order {
	return Order{
		ID:       "order_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
		Amount:   amount,
		Currency: currency,
		Customer: customer,
	}
}

// MinorUnits 金额的最小货币单位（INR 为 paise）
func (o Order) MinorUnits() int64 {
	return o.Amount * 100
}

// Checkout 网关返回的收银台信息
type Checkout struct {
	ID      string
	OrderID string
	URL     string
	Status  string
}

// Result 网关回传的支付结果
type Result struct {
	PaymentID string
	Signature string
}

// Gateway 支付网关
type Gateway interface {
	Checkout(ctx context.Context, order Order) (*Checkout, error)
	Status(ctx context.Context, checkoutID string) (*LinkStatus, error)
}

// LinkStatus 支付链接当前状态
type LinkStatus struct {
	Status    string
	PaymentID string
}

// Paid 是否已支付
func (s *LinkStatus) Paid() bool {
	return s != nil && s.Status == StatusPaid
}

func validateOrder(o Order) error {
	if o.ID == "" {
		return fmt.Errorf("order id is empty")
	}
	if o.Amount <= 0 {
		return fmt.Errorf("order amount must be positive, got %d", o.Amount)
	}
	if o.Currency == "" {
		return fmt.Errorf("order currency is empty")
	}
	return nil
}
