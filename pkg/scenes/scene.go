// Package scenes 落地页场景与弹窗
//
// 所有滚动状态只在 UI 协程（ebiten Update）中读写；网络请求在后台任务中执行，
// 结果以回调形式排队，下一帧由 UI 协程应用。
package scenes

import (
	"context"

	"github.com/lucifer-ux/4bitsLanding/pkg/auth"
	"github.com/lucifer-ux/4bitsLanding/pkg/game"
	"github.com/lucifer-ux/4bitsLanding/pkg/leads"
	"github.com/lucifer-ux/4bitsLanding/pkg/payment"
	"github.com/lucifer-ux/4bitsLanding/pkg/store"
)

// Scene 场景接口别名
type Scene = game.Scene

// UserStore 场景使用的用户表操作
type UserStore interface {
	ByAuthID(ctx context.Context, authUserID string) (*store.UserRow, error)
	Upsert(ctx context.Context, row store.UserRow) error
	MarkPaid(ctx context.Context, authUserID string) error
}

// DataSource 以当前会话的访问令牌打开数据表
type DataSource func(accessToken string) (UserStore, payment.PaymentTable)

// StoreSource 基于托管数据库客户端的 DataSource
func StoreSource(baseURL, anonKey string) DataSource {
	return func(accessToken string) (UserStore, payment.PaymentTable) {
		c := store.New(baseURL, anonKey, accessToken)
		return c.Users(), c.Payments()
	}
}

// Services 场景依赖的外部服务
// 任一项为 nil 时对应功能只显示不可用提示
type Services struct {
	Auth     auth.Provider
	Data     DataSource
	Gateway  payment.Gateway
	Leads    leads.Submitter
	Outbox   *leads.Outbox
	Settings *game.SettingsManager
}
