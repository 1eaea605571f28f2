package sim

// An Event is a piece of work due at a point of simulated time.
type Event interface {
	Time() VTimeInPs
	Handler() Handler

	// IsSecondary tells if the event waits for every primary event of the
	// same time to be handled first.
	IsSecondary() bool
}

// A Handler owns the events scheduled for it. It must only modify its own
// state while handling an event. A returned error stops the engine.
type Handler interface {
	Handle(e Event) error
}

// EventBase implements Event. Embed it into concrete events.
type EventBase struct {
	time      VTimeInPs
	handler   Handler
	secondary bool
}

// NewEventBase creates a primary event for the handler at time t.
func NewEventBase(t VTimeInPs, handler Handler) *EventBase {
	return &EventBase{time: t, handler: handler}
}

// NewSecondaryEventBase creates an event that runs after the primary events
// of the same time.
func NewSecondaryEventBase(t VTimeInPs, handler Handler) *EventBase {
	return &EventBase{time: t, handler: handler, secondary: true}
}

func (e EventBase) Time() VTimeInPs   { return e.time }
func (e EventBase) Handler() Handler  { return e.handler }
func (e EventBase) IsSecondary() bool { return e.secondary }
