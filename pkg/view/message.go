// Package view 嵌入式 3D 视图与宿主之间的消息通道，以及视图本身的渲染
//
// 宿主页面只向视图发送单向消息，视图不回复也不确认。
package view

import (
	"errors"
	"log"

	"github.com/lucifer-ux/4bitsLanding/pkg/scroll"
)

// TypeGlobeRotation 旋转消息类型
const TypeGlobeRotation = "GLOBE_ROTATION"

// ErrDropped 通道已满，消息被丢弃
var ErrDropped = errors.New("view: message dropped")

// ErrClosed 通道已关闭
var ErrClosed = errors.New("view: channel closed")

// Message 发送给 3D 视图的消息
//
// 线上格式：{"type":"GLOBE_ROTATION","rotation":{"lat":0,"lng":12.5}}
type Message struct {
	Type     string          `json:"type"`
	Rotation scroll.Rotation `json:"rotation"`
}

// RotationMessage 构造旋转消息
func RotationMessage(r scroll.Rotation) Message {
	return Message{Type: TypeGlobeRotation, Rotation: r}
}

// Channel 单向消息通道
type Channel interface {
	Send(m Message) error
}

// ChanChannel 基于缓冲 Go channel 的进程内通道
// Send 从不阻塞：缓冲区满时返回 ErrDropped
type ChanChannel struct {
	ch     chan Message
	closed bool
}

// NewChanChannel 创建进程内通道
func NewChanChannel(buffer int) *ChanChannel {
	if buffer < 1 {
		buffer = 1
	}
	return &ChanChannel{ch: make(chan Message, buffer)}
}

// Send 实现 Channel
func (c *ChanChannel) Send(m Message) error {
	if c.closed {
		return ErrClosed
	}
	select {
	case c.ch <- m:
		return nil
	default:
		return ErrDropped
	}
}

// Messages 接收端
func (c *ChanChannel) Messages() <-chan Message {
	return c.ch
}

// Close 关闭通道，之后的 Send 返回 ErrClosed
func (c *ChanChannel) Close() {
	if c.closed {
		return
	}
	c.closed = true
	close(c.ch)
}

// BestEffort 吞掉投递错误的通道包装
//
// 视图可能尚未加载或已经卸载，发送失败不能影响滚动协调器。
type BestEffort struct {
	inner   Channel
	dropped int
}

// NewBestEffort 包装通道；inner 可为 nil（视图不存在）
func NewBestEffort(inner Channel) *BestEffort {
	return &BestEffort{inner: inner}
}

// Send 实现 Channel，永远返回 nil
func (b *BestEffort) Send(m Message) error {
	if b.inner == nil {
		b.dropped++
		return nil
	}
	if err := b.inner.Send(m); err != nil {
		b.dropped++
		log.Printf("[View] %s not delivered: %v", m.Type, err)
	}
	return nil
}

// Dropped 返回未送达的消息数
func (b *BestEffort) Dropped() int {
	return b.dropped
}

// RotationForwarder 把旋转累加器的输出转成消息通道上的发送
func RotationForwarder(ch Channel) func(scroll.Rotation) {
	return func(r scroll.Rotation) {
		_ = ch.Send(RotationMessage(r))
	}
}
