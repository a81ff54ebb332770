package gesture

import (
	"math"

	"github.com/klokku/availshare/pkg/calendar"
	log "github.com/sirupsen/logrus"
)

type State int

const (
	Idle State = iota
	// Armed: pointer is down on empty grid space, the gesture is not classified yet.
	Armed
	CommittedDrag
	CommittedScroll
	CommittedResize
)

func (s State) String() string {
	switch s {
	case Armed:
		return "armed"
	case CommittedDrag:
		return "drag"
	case CommittedScroll:
		return "scroll"
	case CommittedResize:
		return "resize"
	default:
		return "idle"
	}
}

type Target int

const (
	TargetGrid Target = iota
	TargetEvent
	TargetHandle
)

type Point struct {
	PointerID int
	X         float64
	Y         float64
}

// Down describes a pointer-down. EventID and Edge are set for TargetHandle.
type Down struct {
	Point
	Target  Target
	EventID string
	Edge    calendar.Edge
}

type Config struct {
	// DragThreshold is the vertical travel in pixels needed before a drag can commit.
	DragThreshold float64
	// VerticalRatio is how much the vertical travel must dominate the horizontal one.
	VerticalRatio float64
}

var DefaultConfig = Config{DragThreshold: 8, VerticalRatio: 1.5}

// Interpreter classifies the pointer stream of one day's grid. It is single-threaded: the
// host calls it from its input loop only.
type Interpreter struct {
	cfg      Config
	dayID    string
	capture  Capture
	geometry Geometry

	state     State
	pointerID int
	origin    Point
	startPos  int
	endPos    int
	eventID   string
	edge      calendar.Edge
	outcome   Outcome
}

func NewInterpreter(dayID string, cfg Config, capture Capture) *Interpreter {
	if capture == nil {
		capture = NoCapture{}
	}
	return &Interpreter{cfg: cfg, dayID: dayID, capture: capture}
}

func (in *Interpreter) DayID() string { return in.dayID }
func (in *Interpreter) State() State  { return in.state }

// Outcome of the last finished gesture.
func (in *Interpreter) Outcome() Outcome { return in.outcome }

// SetGeometry updates the pixel to minute mapping, e.g. after the grid scrolled or the
// visible hour range changed.
func (in *Interpreter) SetGeometry(g Geometry) {
	in.geometry = g
}

func (in *Interpreter) OnPointerDown(d Down) Intent {
	if in.state != Idle {
		log.Tracef("day %s: ignoring pointer %d, gesture in progress", in.dayID, d.PointerID)
		return Intent{}
	}

	switch d.Target {
	case TargetEvent:
		// Existing blocks handle their own taps (label, delete); they never start a creation.
		return Intent{}
	case TargetHandle:
		in.begin(d.Point, CommittedResize)
		in.eventID = d.EventID
		in.edge = d.Edge
		return Intent{Kind: IntentBeginResize, DayID: in.dayID, EventID: d.EventID, Edge: d.Edge, PreventDefault: true}
	default:
		in.begin(d.Point, Armed)
		in.startPos = in.geometry.MinutesAt(d.Y)
		in.endPos = in.startPos
		return Intent{}
	}
}

func (in *Interpreter) OnPointerMove(p Point) Intent {
	if in.state == Idle || p.PointerID != in.pointerID {
		return Intent{}
	}

	switch in.state {
	case Armed:
		dx := math.Abs(p.X - in.origin.X)
		dy := math.Abs(p.Y - in.origin.Y)
		if dy > in.cfg.DragThreshold && dy > dx*in.cfg.VerticalRatio {
			log.Tracef("day %s: drag committed (dx=%.1f dy=%.1f)", in.dayID, dx, dy)
			in.state = CommittedDrag
			return in.updateDrag(p)
		}
		// Ambiguous: leave native scrolling alone.
		return Intent{}
	case CommittedDrag:
		return in.updateDrag(p)
	case CommittedResize:
		return Intent{
			Kind:           IntentResize,
			DayID:          in.dayID,
			EventID:        in.eventID,
			Edge:           in.edge,
			Delta:          in.geometry.SnappedDelta(p.Y - in.origin.Y),
			PreventDefault: true,
		}
	default:
		return Intent{}
	}
}

// OnPointerUp finalizes the gesture with whatever state it has computed so far.
func (in *Interpreter) OnPointerUp(p Point) Intent {
	if in.state == Idle || p.PointerID != in.pointerID {
		return Intent{}
	}
	if in.state == Armed {
		if p.X == in.origin.X && p.Y == in.origin.Y {
			in.outcome = OutcomeTap
		} else {
			in.outcome = OutcomeScroll
		}
		in.finish()
		return Intent{}
	}
	return in.commit()
}

// OnPointerCancel handles the host taking the pointer away (typically to start a native
// scroll). An armed gesture resolves as a scroll; a committed one finalizes as on release.
func (in *Interpreter) OnPointerCancel(pointerID int) Intent {
	if in.state == Idle || pointerID != in.pointerID {
		return Intent{}
	}
	if in.state == Armed {
		in.state = CommittedScroll
		in.outcome = OutcomeScroll
		in.finish()
		return Intent{}
	}
	return in.commit()
}

// Abort ends any gesture in progress without producing an intent, e.g. when the day it
// belongs to goes away. The pointer capture is released.
func (in *Interpreter) Abort() {
	if in.state == Idle {
		return
	}
	in.outcome = OutcomeDiscarded
	in.finish()
}

func (in *Interpreter) commit() Intent {
	defer in.finish()

	if in.state == CommittedResize {
		in.outcome = OutcomeResize
		return Intent{Kind: IntentEndResize, DayID: in.dayID, EventID: in.eventID, Edge: in.edge}
	}

	start, end := in.interval()
	if end-start < calendar.MinDuration {
		in.outcome = OutcomeDiscarded
		return Intent{}
	}
	in.outcome = OutcomeDrag
	return Intent{Kind: IntentCreate, DayID: in.dayID, Start: start, End: end}
}

func (in *Interpreter) begin(p Point, state State) {
	in.state = state
	in.pointerID = p.PointerID
	in.origin = p
	in.outcome = OutcomeNone
	in.capture.Acquire(p.PointerID)
}

func (in *Interpreter) finish() {
	log.Tracef("day %s: gesture finished from %s (%s)", in.dayID, in.state, in.outcome)
	in.capture.Release(in.pointerID)
	in.state = Idle
	in.eventID = ""
	in.edge = ""
	in.startPos, in.endPos = 0, 0
}

func (in *Interpreter) updateDrag(p Point) Intent {
	in.endPos = in.geometry.MinutesAt(p.Y)
	start, end := in.interval()
	return Intent{Kind: IntentPreview, DayID: in.dayID, Start: start, End: end, PreventDefault: true}
}

func (in *Interpreter) interval() (int, int) {
	return min(in.startPos, in.endPos), max(in.startPos, in.endPos)
}
