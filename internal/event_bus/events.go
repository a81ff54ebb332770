package event_bus

const (
	EventCreatedType EventType = "availability.event.created"
	EventResizedType EventType = "availability.event.resized"
	EventDeletedType EventType = "availability.event.deleted"
	DayRemovedType   EventType = "availability.day.removed"
	SharedType       EventType = "availability.shared"
)

type AvailabilityEventCreated struct {
	EventID      string
	DayID        string
	Date         string
	StartMinutes int
	EndMinutes   int
}

type AvailabilityEventResized struct {
	EventID      string
	Edge         string
	StartMinutes int
	EndMinutes   int
}

type AvailabilityEventDeleted struct {
	EventID string
}

// DayRemoved also reports how many events went with the day.
type DayRemoved struct {
	DayID         string
	Date          string
	RemovedEvents int
}

type AvailabilityShared struct {
	Zone   string
	Days   int
	Events int
	URL    string
}
