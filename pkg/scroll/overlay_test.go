package scroll

import (
	"testing"

	"github.com/lucifer-ux/4bitsLanding/pkg/config"
)

// TestWindowOpacity 测试梯形可见度
func TestWindowOpacity(t *testing.T) {
	w := Window{Start: 0.2, End: 0.4, Fade: 0.04}
	tests := []struct {
		name string
		p    float64
		want float64
	}{
		{"窗口前", 0.1, 0},
		{"起点", 0.2, 0},
		{"淡入中", 0.22, 0.5},
		{"完全可见", 0.3, 1},
		{"淡出中", 0.38, 0.5},
		{"终点", 0.4, 0},
		{"窗口后", 0.5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.Opacity(tt.p); !almostEqualLoose(got, tt.want) {
				t.Errorf("Opacity(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

// TestOverlaysExclusive 测试中点处只有一个窗口完全可见
func TestOverlaysExclusive(t *testing.T) {
	o := OverlaysFromConfig(config.Default().Overlays)
	if o.Len() != 4 {
		t.Fatalf("Len: got %d, want 4", o.Len())
	}

	got := o.Opacities(0.5)
	want := []float64{0, 1, 0, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("window %d at p=0.5: got %v, want %v", i, got[i], want[i])
		}
	}

	// 每个窗口的中点只有它自己完全可见
	for i, p := range []float64{0.3, 0.5, 0.7, 0.9} {
		o.Reset()
		ops := o.Opacities(p)
		for j, op := range ops {
			switch {
			case j == i && op != 1:
				t.Errorf("p=%v: window %d should be fully visible, got %v", p, j, op)
			case j != i && op != 0:
				t.Errorf("p=%v: window %d should be hidden, got %v", p, j, op)
			}
		}
	}
}

// TestStickyLatch 测试最后一个窗口到达后保持可见
func TestStickyLatch(t *testing.T) {
	o := OverlaysFromConfig(config.Default().Overlays)

	if ops := o.Opacities(0.79); ops[3] != 0 {
		t.Errorf("sticky window before start: got %v, want 0", ops[3])
	}
	if ops := o.Opacities(0.8); ops[3] != 1 {
		t.Errorf("sticky window at start: got %v, want 1", ops[3])
	}
	// 回退到更早的进度，锁存不释放
	for _, p := range []float64{0.6, 0.3, 0} {
		if ops := o.Opacities(p); ops[3] != 1 {
			t.Errorf("sticky window after regression to %v: got %v, want 1", p, ops[3])
		}
	}
	// 非 sticky 窗口不锁存
	if ops := o.Opacities(0); ops[0] != 0 {
		t.Errorf("non-sticky window should not latch, got %v", ops[0])
	}

	o.Reset()
	if ops := o.Opacities(0.5); ops[3] != 0 {
		t.Errorf("after Reset sticky window: got %v, want 0", ops[3])
	}
}

func almostEqualLoose(a, b float64) bool {
	d := a - b
	return d < 1e-6 && d > -1e-6
}
