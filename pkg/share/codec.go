package share

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/klokku/availshare/internal/metrics"
	"github.com/klokku/availshare/pkg/calendar"
	"github.com/klokku/availshare/pkg/timeutil"
	log "github.com/sirupsen/logrus"
)

var ErrInvalidToken = errors.New("invalid share token")

// SharedState is the only representation that leaves the editing session.
// Field order is part of the token format.
type SharedState struct {
	Days   []calendar.CalendarDay       `json:"days"`
	Events []calendar.AvailabilityEvent `json:"events"`
	TZ     string                       `json:"tz"`
}

// wireState distinguishes missing fields from empty ones.
type wireState struct {
	Days   *[]calendar.CalendarDay       `json:"days"`
	Events *[]calendar.AvailabilityEvent `json:"events"`
	TZ     *string                       `json:"tz"`
}

// Encode serializes the calendar into a URL-safe token. The same input always yields the
// same token.
func Encode(days []calendar.CalendarDay, events []calendar.AvailabilityEvent, zone string) (string, error) {
	state := SharedState{Days: days, Events: events, TZ: zone}
	if state.Days == nil {
		state.Days = []calendar.CalendarDay{}
	}
	if state.Events == nil {
		state.Events = []calendar.AvailabilityEvent{}
	}

	raw, err := json.Marshal(state)
	if err != nil {
		metrics.ObserveToken("encode", "error")
		return "", fmt.Errorf("failed to marshal shared state: %w", err)
	}
	metrics.ObserveToken("encode", "ok")
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// Decode is the inverse of Encode. It never fails loudly: any malformed, incomplete or
// out-of-range token yields (nil, false). Tokens in the standard base64 alphabet, with or
// without padding, are accepted too.
func Decode(token string) (*SharedState, bool) {
	state, err := decode(token)
	if err != nil {
		log.Debugf("rejecting share token: %v", err)
		metrics.ObserveToken("decode", "invalid")
		return nil, false
	}
	metrics.ObserveToken("decode", "ok")
	return state, true
}

func decode(token string) (*SharedState, error) {
	token = strings.TrimSpace(strings.TrimPrefix(token, "#"))
	if token == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidToken)
	}
	normalized := strings.NewReplacer("-", "+", "_", "/").Replace(strings.TrimRight(token, "="))
	raw, err := base64.RawStdEncoding.DecodeString(normalized)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	var wire wireState
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if wire.Days == nil || wire.Events == nil || wire.TZ == nil || *wire.TZ == "" {
		return nil, fmt.Errorf("%w: missing days, events or tz", ErrInvalidToken)
	}

	state := &SharedState{Days: *wire.Days, Events: *wire.Events, TZ: *wire.TZ}
	if err := validate(state); err != nil {
		return nil, err
	}
	return state, nil
}

// Validate reports why state would not survive a round trip through Decode.
func (s SharedState) Validate() error {
	return validate(&s)
}

func validate(state *SharedState) error {
	for _, d := range state.Days {
		if d.ID == "" {
			return fmt.Errorf("%w: day without id", ErrInvalidToken)
		}
		if _, err := timeutil.ParseDate(d.Date); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
	}
	for _, e := range state.Events {
		if e.ID == "" {
			return fmt.Errorf("%w: event without id", ErrInvalidToken)
		}
		if !utf8.ValidString(e.Label) {
			return fmt.Errorf("%w: event %s has a label that is not valid UTF-8", ErrInvalidToken, e.ID)
		}
		if e.StartMinutes < 0 || e.EndMinutes > timeutil.LastMinute || e.StartMinutes >= e.EndMinutes {
			return fmt.Errorf("%w: event %s has range %d-%d", ErrInvalidToken, e.ID, e.StartMinutes, e.EndMinutes)
		}
	}
	return nil
}
