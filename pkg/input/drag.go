package input

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// DragState 拖拽状态
type DragState int

const (
	// DragStateNone 无拖拽
	DragStateNone DragState = iota
	// DragStateStarted 拖拽开始（刚按下）
	DragStateStarted
	// DragStateDragging 拖拽中（按住移动）
	DragStateDragging
	// DragStateEnded 拖拽结束（释放），只持续一帧
	DragStateEnded
)

func (s DragState) String() string {
	switch s {
	case DragStateStarted:
		return "started"
	case DragStateDragging:
		return "dragging"
	case DragStateEnded:
		return "ended"
	default:
		return "none"
	}
}

// DragInfo 拖拽信息
type DragInfo struct {
	State DragState
	// StartX, StartY 起始位置（屏幕坐标）
	StartX, StartY int
	// CurrentX, CurrentY 当前位置；结束帧保留最后一次看到的位置
	CurrentX, CurrentY int
	// TouchID 跟踪的触点，鼠标为 -1
	TouchID      ebiten.TouchID
	IsTouchInput bool
}

// DragTracker 跟踪单个指针（第一个触点或鼠标左键）的拖拽
type DragTracker struct {
	info DragInfo

	lastTouchIDs  []ebiten.TouchID
	lastMouseDown bool
	// AllowMouse 是否接受鼠标拖拽（桌面上模拟触摸）
	AllowMouse bool
}

// NewDragTracker 创建拖拽跟踪器
func NewDragTracker(allowMouse bool) *DragTracker {
	return &DragTracker{info: DragInfo{TouchID: -1}, AllowMouse: allowMouse}
}

// Update 用本帧快照推进状态机（每帧调用一次）
func (d *DragTracker) Update(s Snapshot) {
	switch d.info.State {
	case DragStateNone:
		d.checkStart(s)
	case DragStateStarted:
		d.info.State = DragStateDragging
		if d.checkEnd(s) {
			d.info.State = DragStateEnded
		} else {
			d.updatePosition(s)
		}
	case DragStateDragging:
		if d.checkEnd(s) {
			d.info.State = DragStateEnded
		} else {
			d.updatePosition(s)
		}
	case DragStateEnded:
		d.Reset()
		d.checkStart(s)
	}

	d.lastTouchIDs = d.lastTouchIDs[:0]
	for _, t := range s.Touches {
		d.lastTouchIDs = append(d.lastTouchIDs, t.ID)
	}
	d.lastMouseDown = s.MouseDown
}

func (d *DragTracker) justPressedTouch(s Snapshot) (Touch, bool) {
	for _, t := range s.Touches {
		seen := false
		for _, id := range d.lastTouchIDs {
			if id == t.ID {
				seen = true
				break
			}
		}
		if !seen {
			return t, true
		}
	}
	return Touch{}, false
}

func (d *DragTracker) checkStart(s Snapshot) {
	// 触摸优先
	if t, ok := d.justPressedTouch(s); ok {
		d.info = DragInfo{
			State:        DragStateStarted,
			StartX:       t.X,
			StartY:       t.Y,
			CurrentX:     t.X,
			CurrentY:     t.Y,
			TouchID:      t.ID,
			IsTouchInput: true,
		}
		return
	}
	if d.AllowMouse && len(s.Touches) == 0 && s.MouseDown && !d.lastMouseDown {
		d.info = DragInfo{
			State:    DragStateStarted,
			StartX:   s.MouseX,
			StartY:   s.MouseY,
			CurrentX: s.MouseX,
			CurrentY: s.MouseY,
			TouchID:  -1,
		}
	}
}

func (d *DragTracker) checkEnd(s Snapshot) bool {
	if d.info.IsTouchInput {
		_, ok := s.touch(d.info.TouchID)
		return !ok
	}
	return !s.MouseDown
}

func (d *DragTracker) updatePosition(s Snapshot) {
	if d.info.IsTouchInput {
		if t, ok := s.touch(d.info.TouchID); ok {
			d.info.CurrentX, d.info.CurrentY = t.X, t.Y
		}
		return
	}
	d.info.CurrentX, d.info.CurrentY = s.MouseX, s.MouseY
}

// Reset 重置拖拽状态
func (d *DragTracker) Reset() {
	d.info = DragInfo{TouchID: -1}
}

// Info 当前拖拽信息
func (d *DragTracker) Info() DragInfo {
	return d.info
}

// State 当前拖拽状态
func (d *DragTracker) State() DragState {
	return d.info.State
}

// JustStarted 本帧刚开始
func (d *DragTracker) JustStarted() bool {
	return d.info.State == DragStateStarted
}

// JustEnded 本帧刚结束
func (d *DragTracker) JustEnded() bool {
	return d.info.State == DragStateEnded
}

// Distance 从起点到当前位置的位移
func (d *DragTracker) Distance() (dx, dy int) {
	return d.info.CurrentX - d.info.StartX, d.info.CurrentY - d.info.StartY
}

// Tap 本帧结束的拖拽位移不超过 slop 时视为点击，返回点击位置
func (d *DragTracker) Tap(slop int) (x, y int, ok bool) {
	if d.info.State != DragStateEnded {
		return 0, 0, false
	}
	dx, dy := d.Distance()
	if dx*dx+dy*dy > slop*slop {
		return 0, 0, false
	}
	return d.info.CurrentX, d.info.CurrentY, true
}
