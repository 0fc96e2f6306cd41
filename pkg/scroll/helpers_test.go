package scroll

import (
	"math"
	"time"

	"github.com/lucifer-ux/4bitsLanding/pkg/config"
)

// fakeViewport 记录 ScrollTo 调用
type fakeViewport struct {
	height float64
	calls  []scrollCall
}

type scrollCall struct {
	y       float64
	animate bool
}

func (v *fakeViewport) ScrollTo(y float64, animate bool) {
	v.calls = append(v.calls, scrollCall{y: y, animate: animate})
}

func (v *fakeViewport) Height() float64 { return v.height }

func (v *fakeViewport) last() scrollCall {
	if len(v.calls) == 0 {
		return scrollCall{}
	}
	return v.calls[len(v.calls)-1]
}

func newTestCoordinator() (*Coordinator, *fakeViewport, *FrameScheduler) {
	vp := &fakeViewport{height: 800}
	sched := NewFrameScheduler()
	return NewCoordinator(config.Default().Scroll, vp, sched), vp, sched
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

const cooldown = 600 * time.Millisecond

func defaultScroll() config.ScrollConfig {
	return config.Default().Scroll
}
