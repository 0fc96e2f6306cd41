package scroll

import (
	"strings"
	"testing"
	"time"

	"github.com/lucifer-ux/4bitsLanding/pkg/config"
)

const headline = "Own Your Storage"

func newTestReveal() (*Reveal, *FrameScheduler) {
	sched := NewFrameScheduler()
	cfg := config.Default().Reveal
	cfg.Text = headline
	return NewReveal(cfg, sched), sched
}

// TestRevealProgress 测试按进度逐字显示
func TestRevealProgress(t *testing.T) {
	r, _ := newTestReveal()

	r.Update(0.2)
	if r.Text() != "" {
		t.Errorf("before start: got %q, want empty", r.Text())
	}

	r.Update(0.5)
	got := r.Text()
	if got == "" || len(got) >= len(headline) {
		t.Errorf("mid progress: got %q", got)
	}
	if !strings.HasPrefix(headline, got) {
		t.Errorf("text %q should be a prefix of %q", got, headline)
	}

	r.Update(1)
	if !r.Complete() || r.Text() != headline {
		t.Errorf("at p=1: got %q, complete=%v", r.Text(), r.Complete())
	}
}

// TestRevealNeverShrinks 测试进度回退时不减少字符
func TestRevealNeverShrinks(t *testing.T) {
	r, _ := newTestReveal()
	r.Update(0.8)
	before := r.Text()
	r.Update(0.4)
	if r.Text() != before {
		t.Errorf("after regression: got %q, want %q", r.Text(), before)
	}
}

// TestRevealFallback 测试兜底定时器补全文字
func TestRevealFallback(t *testing.T) {
	r, sched := newTestReveal()

	sched.Tick(2999 * time.Millisecond)
	if r.Complete() {
		t.Fatal("should not complete before fallback")
	}
	sched.Tick(time.Millisecond)
	if !r.Complete() || r.Text() != headline {
		t.Errorf("after fallback: got %q", r.Text())
	}
	if sched.Pending() != 0 {
		t.Errorf("Pending: got %d, want 0", sched.Pending())
	}
}

// TestRevealFallbackRearm 测试内容变化后兜底定时器重新计时
func TestRevealFallbackRearm(t *testing.T) {
	r, sched := newTestReveal()

	sched.Tick(2 * time.Second)
	r.Update(0.5)
	sched.Tick(2 * time.Second)
	if r.Complete() {
		t.Fatal("fallback should have been re-armed by the update")
	}
	sched.Tick(time.Second)
	if !r.Complete() {
		t.Error("re-armed fallback should complete the text")
	}
}

// TestRevealClose 测试关闭后不再补全
func TestRevealClose(t *testing.T) {
	r, sched := newTestReveal()
	r.Close()
	sched.Tick(10 * time.Second)
	if r.Complete() {
		t.Error("closed reveal must not complete")
	}
}
