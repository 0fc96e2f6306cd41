package payment

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
	"net/url"

	"github.com/lucifer-ux/4bitsLanding/internal/httpjson"
)

// RazorpayGateway 基于 Razorpay 支付链接的网关
// 应用内无法嵌入收银台脚本，改为创建支付链接并以二维码展示
type RazorpayGateway struct {
	api   *httpjson.Client
	keyID string
}

// NewRazorpayGateway 创建网关
func NewRazorpayGateway(baseURL, keyID, keySecret string) (*RazorpayGateway, error) {
	if keyID == "" || keySecret == "" {
		return nil, ErrNotConfigured
	}
	api := httpjson.New(baseURL)
	token := base64.StdEncoding.EncodeToString([]byte(keyID + ":" + keySecret))
	api.Header.Set("Authorization", "Basic "+token)
	return &RazorpayGateway{api: api, keyID: keyID}, nil
}

// SetHTTPClient 替换底层 HTTP 客户端
func (g *RazorpayGateway) SetHTTPClient(h *http.Client) {
	g.api.HTTP = h
}

type paymentLinkRequest struct {
	Amount      int64    `json:"amount"`
	Currency    string   `json:"currency"`
	Description string   `json:"description,omitempty"`
	ReferenceID string   `json:"reference_id"`
	Customer    Customer `json:"customer"`
	Notes       struct {
		Product string `json:"product,omitempty"`
	} `json:"notes"`
}

type paymentLinkResponse struct {
	ID       string `json:"id"`
	ShortURL string `json:"short_url"`
	Status   string `json:"status"`
	Payments []struct {
		PaymentID string `json:"payment_id"`
		Status    string `json:"status"`
	} `json:"payments"`
}

// Checkout 创建支付链接
func (g *RazorpayGateway) Checkout(ctx context.Context, order Order) (*Checkout, error) {
	if err := validateOrder(order); err != nil {
		return nil, err
	}
	req := paymentLinkRequest{
		Amount:      order.MinorUnits(),
		Currency:    order.Currency,
		Description: order.Description,
		ReferenceID: order.ID,
		Customer:    order.Customer,
	}
	req.Notes.Product = order.ProductName

	var resp paymentLinkResponse
	if _, err := g.api.Do(ctx, httpjson.Request{
		Method: http.MethodPost,
		Path:   "/v1/payment_links",
		Body:   req,
		Out:    &resp,
	}); err != nil {
		return nil, fmt.Errorf("failed to create payment link: %w", err)
	}
	if resp.ShortURL == "" {
		return nil, fmt.Errorf("payment link %q has no url", resp.ID)
	}

	log.Printf("[Payment] 创建支付链接 %s (order=%s, amount=%d %s)", resp.ID, order.ID, req.Amount, order.Currency)
	return &Checkout{
		ID:      resp.ID,
		OrderID: order.ID,
		URL:     resp.ShortURL,
		Status:  resp.Status,
	}, nil
}

// Status 查询支付链接状态
func (g *RazorpayGateway) Status(ctx context.Context, checkoutID string) (*LinkStatus, error) {
	var resp paymentLinkResponse
	if _, err := g.api.Do(ctx, httpjson.Request{
		Method: http.MethodGet,
		Path:   "/v1/payment_links/" + url.PathEscape(checkoutID),
		Out:    &resp,
	}); err != nil {
		return nil, fmt.Errorf("failed to fetch payment link: %w", err)
	}
	st := &LinkStatus{Status: resp.Status}
	for _, p := range resp.Payments {
		if p.Status == "captured" || st.PaymentID == "" {
			st.PaymentID = p.PaymentID
		}
	}
	return st, nil
}
