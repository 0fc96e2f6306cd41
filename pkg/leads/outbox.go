package leads

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

const (
	outboxObject = "leads"
	outboxProp   = "outbox"
)

// Submitter 提交线索
type Submitter interface {
	Submit(ctx context.Context, email string) (SubmitResult, error)
}

// Outbox 离线暂存未送达的线索，下次启动或网络恢复时重发
type Outbox struct {
	mu      sync.Mutex
	manager *gdata.Manager
	pending []string
}

type outboxData struct {
	Pending []string `yaml:"pending"`
}

// NewOutbox 创建暂存箱；manager 为 nil 时只保存在内存中
func NewOutbox(manager *gdata.Manager) *Outbox {
	o := &Outbox{manager: manager}
	o.load()
	return o
}

func (o *Outbox) load() {
	if o.manager == nil || !o.manager.ObjectPropExists(outboxObject, outboxProp) {
		return
	}
	data, err := o.manager.LoadObjectProp(outboxObject, outboxProp)
	if err != nil {
		log.Printf("[Leads] 读取暂存箱失败: %v", err)
		return
	}
	var d outboxData
	if err := yaml.Unmarshal(data, &d); err != nil {
		log.Printf("[Leads] 暂存箱数据损坏，已丢弃: %v", err)
		return
	}
	o.pending = d.Pending
}

func (o *Outbox) save() error {
	if o.manager == nil {
		return nil
	}
	data, err := yaml.Marshal(outboxData{Pending: o.pending})
	if err != nil {
		return fmt.Errorf("failed to encode outbox: %w", err)
	}
	if err := o.manager.SaveObjectProp(outboxObject, outboxProp, data); err != nil {
		return fmt.Errorf("failed to save outbox: %w", err)
	}
	return nil
}

// Add 暂存一个邮箱，重复的邮箱只保留一份
func (o *Outbox) Add(email string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, e := range o.pending {
		if e == email {
			return nil
		}
	}
	o.pending = append(o.pending, email)
	return o.save()
}

// Pending 当前暂存的邮箱
func (o *Outbox) Pending() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.pending...)
}

// Flush 逐个重发，成功（新建或已存在）的从暂存箱移除
// 返回成功送达的数量与第一个错误；发送期间不持有锁，新加入的邮箱留到下次
func (o *Outbox) Flush(ctx context.Context, s Submitter) (int, error) {
	batch := o.Pending()

	var (
		done     = make(map[string]bool)
		sent     int
		firstErr error
	)
	for _, email := range batch {
		if ctx.Err() != nil {
			break
		}
		if _, err := s.Submit(ctx, email); err != nil {
			if errors.Is(err, ErrInvalidEmail) {
				done[email] = true
				continue
			}
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		done[email] = true
		sent++
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	kept := o.pending[:0:0]
	for _, email := range o.pending {
		if !done[email] {
			kept = append(kept, email)
		}
	}
	o.pending = kept
	if err := o.save(); err != nil && firstErr == nil {
		firstErr = err
	}
	if sent > 0 {
		log.Printf("[Leads] 暂存箱重发 %d 条，剩余 %d 条", sent, len(kept))
	}
	return sent, firstErr
}
