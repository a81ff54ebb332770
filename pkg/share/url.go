package share

import (
	"strings"

	"github.com/klokku/availshare/pkg/calendar"
)

// BuildShareURL returns origin + path + "#" + token. The state travels in the fragment,
// which browsers never send to a server.
func BuildShareURL(origin, path string, days []calendar.CalendarDay, events []calendar.AvailabilityEvent, zone string) (string, error) {
	token, err := Encode(days, events, zone)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(origin, "/") + ensureLeadingSlash(path) + "#" + token, nil
}

// TokenFromURL extracts the fragment of a share URL, or "" when there is none.
func TokenFromURL(raw string) string {
	_, fragment, found := strings.Cut(raw, "#")
	if !found {
		return ""
	}
	return fragment
}

// IsViewOnly reports whether a fragment carries a decodable shared state.
func IsViewOnly(fragment string) bool {
	_, ok := Decode(fragment)
	return ok
}

func ensureLeadingSlash(path string) string {
	if path == "" || strings.HasPrefix(path, "/") {
		return path
	}
	return "/" + path
}
