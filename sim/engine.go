package sim

// TimeTeller reports the current simulated time.
type TimeTeller interface {
	CurrentTime() VTimeInPs
}

// EventScheduler accepts events for the future. Scheduling an event before
// the current time panics.
type EventScheduler interface {
	Schedule(e Event)
}

// A SimulationEndHandler runs once the engine is done.
type SimulationEndHandler interface {
	Handle(now VTimeInPs)
}

// An Engine runs a discrete event simulation.
type Engine interface {
	Hookable
	TimeTeller
	EventScheduler

	// Run handles events until none is left, Stop is called, or a handler
	// fails. The first handler error is returned.
	Run() error

	// Pause blocks the engine before its next event until Continue.
	Pause()
	Continue()

	// Stop makes Run return after the event being handled. The remaining
	// events are dropped.
	Stop()
	Stopped() bool

	RegisterSimulationEndHandler(handler SimulationEndHandler)

	// Finished calls the simulation end handlers.
	Finished()
}
