// Package input turns raw pointer events into tool, pan and menu actions.
package input

import (
	"time"

	"github.com/apex/log"
	"github.com/san-kum/lifelab/internal/view"
)

// DefaultDragThreshold is how far in pixels the pointer must move from the
// press point before a press becomes a drag.
const DefaultDragThreshold = 3.0

// fastDragSpeed is the px/s above which tool fires are logged.
const fastDragSpeed = 100.0

type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
)

type ActionKind int

const (
	// ActionFire applies the current mode at Pos.
	ActionFire ActionKind = iota
	// ActionPan moves the view by Delta.
	ActionPan
	// ActionMenu opens the context menu at Pos.
	ActionMenu
)

func (k ActionKind) String() string {
	switch k {
	case ActionFire:
		return "fire"
	case ActionPan:
		return "pan"
	case ActionMenu:
		return "menu"
	}
	return "unknown"
}

type Action struct {
	Kind  ActionKind
	Mode  Mode
	Pos   view.Vec
	Delta view.Vec
	// Speed is the drag speed in px/s; zero for clicks.
	Speed float64
	Drag  bool
}

type Config struct {
	DragThreshold float64
	Throttle      ThrottleConfig
}

func DefaultConfig() Config {
	return Config{DragThreshold: DefaultDragThreshold, Throttle: DefaultThrottleConfig()}
}

type press struct {
	down     bool
	dragging bool
	start    view.Vec
}

// Tracker is the pointer state machine. Each event returns at most one
// action for the caller to carry out.
type Tracker struct {
	throttle    *Throttle
	thresholdSq float64
	mode        Mode
	log         log.Interface

	cursor    view.Vec
	hasCursor bool

	// previous pointer sample, for deltas and drag speed
	prev     view.Vec
	prevTime time.Time
	hasPrev  bool

	left, right press
}

func NewTracker(cfg Config, logger log.Interface) *Tracker {
	if logger == nil {
		logger = log.Log
	}
	if cfg.DragThreshold < 0 {
		cfg.DragThreshold = DefaultDragThreshold
	}
	return &Tracker{
		throttle:    NewThrottle(cfg.Throttle),
		thresholdSq: cfg.DragThreshold * cfg.DragThreshold,
		log:         logger,
	}
}

func (t *Tracker) Mode() Mode          { return t.mode }
func (t *Tracker) SetMode(m Mode)      { t.mode = m }
func (t *Tracker) Throttle() *Throttle { return t.throttle }
func (t *Tracker) Dragging() bool      { return t.left.dragging }
func (t *Tracker) Panning() bool       { return t.right.dragging }

// Cursor returns the last pointer position while the pointer is inside the
// surface.
func (t *Tracker) Cursor() (view.Vec, bool) { return t.cursor, t.hasCursor }

// Down starts a press. A left press fires the current mode once, without
// throttling.
func (t *Tracker) Down(b Button, now time.Time) (Action, bool) {
	switch b {
	case ButtonLeft:
		t.left = press{down: true, start: t.cursor}
		t.sample(now)
		if !t.hasCursor {
			return Action{}, false
		}
		return Action{Kind: ActionFire, Mode: t.mode, Pos: t.cursor}, true
	case ButtonRight:
		t.right = press{down: true, start: t.cursor}
		t.sample(now)
	}
	return Action{}, false
}

// Up ends a press. Releasing the right button without having dragged asks
// for the context menu.
func (t *Tracker) Up(b Button, now time.Time) (Action, bool) {
	switch b {
	case ButtonLeft:
		t.left = press{}
	case ButtonRight:
		click := t.right.down && !t.right.dragging && t.hasCursor
		t.right = press{}
		if click {
			t.log.WithField("pos", t.cursor).Debug("context menu")
			return Action{Kind: ActionMenu, Pos: t.cursor}, true
		}
	}
	return Action{}, false
}

// Move records a pointer position. While the right button is held past the
// threshold it pans; while the left is held past the threshold it fires the
// current mode through the throttle.
func (t *Tracker) Move(pos view.Vec, now time.Time) (Action, bool) {
	t.cursor, t.hasCursor = pos, true
	prev, prevTime, hasPrev := t.prev, t.prevTime, t.hasPrev
	t.prev, t.prevTime, t.hasPrev = pos, now, true

	switch {
	case t.right.down:
		if !t.right.dragging && t.beyond(pos, t.right.start) {
			t.right.dragging = true
			t.log.Debug("pan drag started")
		}
		if t.right.dragging && hasPrev {
			return Action{Kind: ActionPan, Delta: pos.Sub(prev), Pos: pos}, true
		}

	case t.left.down:
		if !t.left.dragging && t.beyond(pos, t.left.start) {
			t.left.dragging = true
			t.log.WithField("mode", t.mode).Debug("tool drag started")
		}
		if !t.left.dragging || !hasPrev {
			return Action{}, false
		}

		speed := 0.0
		if dt := now.Sub(prevTime).Seconds(); dt > 0 {
			speed = pos.Sub(prev).Len() / dt
		}
		if !t.throttle.Allow(t.mode, now, speed) {
			return Action{}, false
		}
		if speed > fastDragSpeed {
			t.log.WithFields(log.Fields{
				"speed": speed,
				"mode":  t.mode,
			}).Debug("fast drag")
		}
		return Action{Kind: ActionFire, Mode: t.mode, Pos: pos, Speed: speed, Drag: true}, true
	}
	return Action{}, false
}

// Leave forgets the cursor. Held buttons stay held so a drag can resume
// when the pointer comes back.
func (t *Tracker) Leave() {
	t.hasCursor = false
	t.hasPrev = false
}

func (t *Tracker) sample(now time.Time) {
	if t.hasCursor {
		t.prev, t.prevTime, t.hasPrev = t.cursor, now, true
	}
}

func (t *Tracker) beyond(pos, start view.Vec) bool {
	return pos.Sub(start).LenSq() > t.thresholdSq
}
