package scenes

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/lucifer-ux/4bitsLanding/pkg/input"
	"github.com/lucifer-ux/4bitsLanding/pkg/payment"
)

// DefaultPaymentPoll 收银台状态轮询间隔
const DefaultPaymentPoll = 3 * time.Second

// PaymentModal 预购支付弹窗
//
// 打开时创建收银台链接并以二维码展示，之后定时查询链接状态，
// 收款后写入支付记录并回调 onPaid。
type PaymentModal struct {
	frame

	tasks      *taskQueue
	flow       *payment.Flow
	order      payment.Order
	authUserID string
	onPaid     func(payment.Outcome)

	PollEvery time.Duration
	since     time.Duration
	inflight  bool
	checkout  *payment.Checkout
	finished  bool
	qr        qrCache
}

// NewPaymentModal 创建支付弹窗并立即初始化收银台
func NewPaymentModal(tasks *taskQueue, flow *payment.Flow, order payment.Order, authUserID string, onPaid func(payment.Outcome)) *PaymentModal {
	m := &PaymentModal{
		frame: frame{
			Title:    "Preorder " + order.ProductName,
			Subtitle: fmt.Sprintf("%d %s", order.Amount, order.Currency),
		},
		tasks:      tasks,
		flow:       flow,
		order:      order,
		authUserID: authUserID,
		onPaid:     onPaid,
		PollEvery:  DefaultPaymentPoll,
	}
	m.start()
	return m
}

func (m *PaymentModal) start() {
	m.inflight = true
	m.setStatus("Preparing checkout...", false)
	flow, order := m.flow, m.order
	m.tasks.Go(func(ctx context.Context) func() {
		co, out := flow.Start(ctx, order)
		return func() {
			m.inflight = false
			m.checkout = co
			m.setStatus(out.Message, co == nil)
			if co == nil {
				m.finished = true
			}
		}
	})
}

func (m *PaymentModal) poll() {
	m.inflight = true
	flow, co, order, uid := m.flow, m.checkout, m.order, m.authUserID
	m.tasks.Go(func(ctx context.Context) func() {
		out, err := flow.Poll(ctx, co, order, uid)
		return func() { m.apply(out, err) }
	})
}

func (m *PaymentModal) apply(out payment.Outcome, err error) {
	m.inflight = false
	if err != nil {
		// 查询失败下次继续
		log.Printf("[PaymentModal] status check failed: %v", err)
		return
	}
	switch {
	case out.Paid:
		m.finished = true
		m.setStatus(out.Message, !out.Recorded)
		if m.onPaid != nil {
			m.onPaid(out)
		}
	case out.Message == payment.MessageCheckoutCanceled:
		m.finished = true
		m.setStatus(out.Message, true)
	default:
		m.setStatus(out.Message, false)
	}
}

// Checkout 当前收银台（初始化完成前为 nil）
func (m *PaymentModal) Checkout() *payment.Checkout {
	return m.checkout
}

// Finished 是否已结束（支付完成、取消或初始化失败）
func (m *PaymentModal) Finished() bool {
	return m.finished
}

// Layout 实现 modal
func (m *PaymentModal) Layout(w, h float64) {
	m.layout(w, h, 420, 460)
}

// Update 实现 modal
func (m *PaymentModal) Update(dt float64, p Pointer, k input.Keys) {
	if m.update(p, k) || m.finished || m.checkout == nil || m.inflight {
		return
	}
	m.since += time.Duration(dt * float64(time.Second))
	if m.since >= m.PollEvery {
		m.since = 0
		m.poll()
	}
}

// Draw 实现 modal
func (m *PaymentModal) Draw(dst *ebiten.Image, th *theme) {
	m.draw(dst, th)
	if m.checkout == nil || m.finished {
		return
	}
	cx, cy := m.Panel.Center()
	m.qr.draw(dst, m.checkout.URL, cx, cy+6, 240)
	th.text(dst, m.checkout.URL, th.fonts.Small, cx, m.Panel.Y+m.Panel.H-60, text.AlignCenter, th.palette.TextSecondary)
}
