package view

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lucifer-ux/4bitsLanding/pkg/config"
	"github.com/lucifer-ux/4bitsLanding/pkg/scroll"
)

// TestMessageWireFormat 测试线上格式
func TestMessageWireFormat(t *testing.T) {
	data, err := json.Marshal(RotationMessage(scroll.Rotation{Lat: 0, Lng: 12.5}))
	if err != nil {
		t.Fatalf("json.Marshal() error: %v", err)
	}
	want := `{"type":"GLOBE_ROTATION","rotation":{"lat":0,"lng":12.5}}`
	if string(data) != want {
		t.Errorf("json.Marshal() = %s, want %s", data, want)
	}

	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	if diff := cmp.Diff(RotationMessage(scroll.Rotation{Lng: 12.5}), m); diff != "" {
		t.Errorf("decoded message mismatch (-want +got):\n%s", diff)
	}
}

// TestChanChannelNonBlocking 测试缓冲满时丢弃而不是阻塞
func TestChanChannelNonBlocking(t *testing.T) {
	ch := NewChanChannel(2)
	for i := 0; i < 2; i++ {
		if err := ch.Send(RotationMessage(scroll.Rotation{Lng: float64(i)})); err != nil {
			t.Fatalf("Send #%d error: %v", i, err)
		}
	}
	if err := ch.Send(RotationMessage(scroll.Rotation{})); !errors.Is(err, ErrDropped) {
		t.Errorf("Send on full channel: got %v, want ErrDropped", err)
	}

	ch.Close()
	if err := ch.Send(RotationMessage(scroll.Rotation{})); !errors.Is(err, ErrClosed) {
		t.Errorf("Send after Close: got %v, want ErrClosed", err)
	}
	ch.Close()

	var got []float64
	for m := range ch.Messages() {
		got = append(got, m.Rotation.Lng)
	}
	if diff := cmp.Diff([]float64{0, 1}, got); diff != "" {
		t.Errorf("received mismatch (-want +got):\n%s", diff)
	}
}

type failingChannel struct{ calls int }

func (f *failingChannel) Send(Message) error {
	f.calls++
	return errors.New("frame not loaded")
}

// TestBestEffortSwallows 测试投递失败不向上传播
func TestBestEffortSwallows(t *testing.T) {
	inner := &failingChannel{}
	b := NewBestEffort(inner)
	if err := b.Send(RotationMessage(scroll.Rotation{Lng: 1})); err != nil {
		t.Errorf("BestEffort.Send returned %v", err)
	}
	if inner.calls != 1 || b.Dropped() != 1 {
		t.Errorf("calls=%d dropped=%d, want 1/1", inner.calls, b.Dropped())
	}

	missing := NewBestEffort(nil)
	if err := missing.Send(RotationMessage(scroll.Rotation{})); err != nil {
		t.Errorf("BestEffort with no view returned %v", err)
	}
}

// TestRotationForwarderDrivesGlobe 测试累加器经通道驱动地球仪
func TestRotationForwarderDrivesGlobe(t *testing.T) {
	ch := NewChanChannel(8)
	globe := NewGlobe(ch.Messages(), VariantSatellites)
	acc := scroll.NewRotationAccumulator(
		config.Default().Rotation,
		RotationForwarder(NewBestEffort(ch)),
	)

	acc.Wheel(20, 0)
	acc.Wheel(20, 0)
	globe.Update(1.0 / 60)

	lat, lng := globe.Rotation()
	if lat != 0 || lng != 20 {
		t.Errorf("globe rotation: got (%v, %v), want (0, 20)", lat, lng)
	}
}

// TestGlobeIgnoresUnknownMessages 测试未知类型被忽略
func TestGlobeIgnoresUnknownMessages(t *testing.T) {
	g := NewGlobe(nil, VariantSatellites)
	g.Receive(Message{Type: "RESIZE", Rotation: scroll.Rotation{Lng: 90}})
	if _, lng := g.Rotation(); lng != 0 {
		t.Errorf("unknown message should be ignored, lng=%v", lng)
	}
}
