package gesture

import "github.com/klokku/availshare/pkg/calendar"

type IntentKind int

const (
	IntentNone IntentKind = iota
	// IntentPreview carries the candidate interval of a committed drag.
	IntentPreview
	// IntentCreate asks for a new event covering [Start, End).
	IntentCreate
	IntentBeginResize
	// IntentResize moves Edge of EventID by Delta minutes from where it was when the gesture began.
	IntentResize
	IntentEndResize
)

func (k IntentKind) String() string {
	switch k {
	case IntentPreview:
		return "preview"
	case IntentCreate:
		return "create"
	case IntentBeginResize:
		return "begin-resize"
	case IntentResize:
		return "resize"
	case IntentEndResize:
		return "end-resize"
	default:
		return "none"
	}
}

type Intent struct {
	Kind    IntentKind
	DayID   string
	EventID string
	Edge    calendar.Edge
	Start   int
	End     int
	Delta   int
	// PreventDefault tells the host to suppress native scrolling for this pointer event.
	PreventDefault bool
}

// Outcome classifies a finished gesture.
type Outcome string

const (
	OutcomeNone      Outcome = ""
	OutcomeDrag      Outcome = "drag"
	OutcomeDiscarded Outcome = "discarded"
	OutcomeScroll    Outcome = "scroll"
	OutcomeTap       Outcome = "tap"
	OutcomeResize    Outcome = "resize"
)
