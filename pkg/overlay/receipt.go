// Package overlay 滚动叠加文字与云存储账单的绘制
package overlay

import (
	"fmt"
	"math"
	"strings"
)

// Currency 账单币种
type Currency string

const (
	CurrencyINR Currency = "INR"
	CurrencyUSD Currency = "USD"
)

// 账单年限范围
const (
	MinYears     = 1
	MaxYears     = 50
	DefaultYears = 20
)

// Receipt 云存储长期租用账单
type Receipt struct {
	currency Currency
	years    int
}

// NewReceipt 创建默认账单（INR，20 年）
func NewReceipt() *Receipt {
	return &Receipt{currency: CurrencyINR, years: DefaultYears}
}

// Currency 当前币种
func (r *Receipt) Currency() Currency {
	return r.currency
}

// SetCurrency 切换币种，未知币种忽略
func (r *Receipt) SetCurrency(c Currency) {
	if c == CurrencyINR || c == CurrencyUSD {
		r.currency = c
	}
}

// ToggleCurrency 在 INR 与 USD 之间切换
func (r *Receipt) ToggleCurrency() {
	if r.currency == CurrencyINR {
		r.currency = CurrencyUSD
	} else {
		r.currency = CurrencyINR
	}
}

// Years 当前年限
func (r *Receipt) Years() int {
	return r.years
}

// SetYears 设置年限，限制在 [MinYears, MaxYears]
func (r *Receipt) SetYears(y int) {
	switch {
	case y < MinYears:
		y = MinYears
	case y > MaxYears:
		y = MaxYears
	}
	r.years = y
}

// MonthlyPrice 每月价格
func (r *Receipt) MonthlyPrice() float64 {
	if r.currency == CurrencyUSD {
		return 10
	}
	return 650
}

// Total 总支付额
func (r *Receipt) Total() float64 {
	return r.MonthlyPrice() * 12 * float64(r.years)
}

// Format 按币种格式化金额
func (r *Receipt) Format(v float64) string {
	if r.currency == CurrencyUSD {
		return "$" + groupDigits(v, false)
	}
	return "₹" + groupDigits(v, true)
}

// ReceiptRow 账单的一行
type ReceiptRow struct {
	Label string
	Value string
	// Alert 以警示色绘制
	Alert bool
}

// Rows 账单内容
func (r *Receipt) Rows() []ReceiptRow {
	return []ReceiptRow{
		{Label: "Service Duration:", Value: fmt.Sprintf("%d years", r.years)},
		{Label: "Monthly Payment:", Value: r.Format(r.MonthlyPrice())},
		{Label: "TOTAL PAID:", Value: r.Format(r.Total()), Alert: true},
		{Label: "YOUR OWNERSHIP:", Value: r.Format(0)},
		{Label: "THEIR OWNERSHIP:", Value: "EVERYTHING", Alert: true},
	}
}

// groupDigits 保留两位小数并分组；indian 为 true 时使用 12,34,567 分组
func groupDigits(v float64, indian bool) string {
	cents := int64(math.Round(math.Abs(v) * 100))
	whole := fmt.Sprintf("%d", cents/100)
	frac := fmt.Sprintf("%02d", cents%100)

	var groups []string
	if len(whole) > 3 {
		groups = append(groups, whole[len(whole)-3:])
		whole = whole[:len(whole)-3]
		size := 3
		if indian {
			size = 2
		}
		for len(whole) > size {
			groups = append([]string{whole[len(whole)-size:]}, groups...)
			whole = whole[:len(whole)-size]
		}
	}
	groups = append([]string{whole}, groups...)

	sign := ""
	if v < 0 {
		sign = "-"
	}
	return sign + strings.Join(groups, ",") + "." + frac
}
