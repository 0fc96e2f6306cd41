package scroll

import (
	"math"
	"time"

	"github.com/lucifer-ux/4bitsLanding/pkg/config"
)

// Reveal 打字机标题
//
// 进度越过 Start 后按比例逐字显示；显示内容停滞超过 Fallback 时直接补全。
// 已显示的字符不会因进度回退而消失。
type Reveal struct {
	text      []rune
	start     float64
	fallback  time.Duration
	scheduler Scheduler

	shown int
	timer Timer
}

// NewReveal 创建打字机效果并武装兜底定时器
func NewReveal(cfg config.RevealConfig, scheduler Scheduler) *Reveal {
	r := &Reveal{
		text:      []rune(cfg.Text),
		start:     cfg.Start,
		fallback:  cfg.Fallback,
		scheduler: scheduler,
	}
	r.arm()
	return r
}

// Update 按进度推进显示字符数
func (r *Reveal) Update(p float64) {
	if r.Complete() || p <= r.start {
		return
	}
	n := int(math.Floor((p - r.start) / (1 - r.start) * float64(len(r.text))))
	if n > len(r.text) {
		n = len(r.text)
	}
	if n > r.shown {
		r.shown = n
		// 内容变化后重新计时
		r.arm()
	}
}

// Text 返回当前显示的文字
func (r *Reveal) Text() string {
	return string(r.text[:r.shown])
}

// Complete 是否已全部显示
func (r *Reveal) Complete() bool {
	return r.shown >= len(r.text)
}

// Close 取消兜底定时器
func (r *Reveal) Close() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

func (r *Reveal) arm() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	if r.Complete() || r.scheduler == nil {
		return
	}
	r.timer = r.scheduler.AfterFunc(r.fallback, func() {
		r.timer = nil
		r.shown = len(r.text)
	})
}
