package sim

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// A SerialEngine handles one event at a time on the goroutine that calls
// Run. Other goroutines, such as the monitor, may read the time, pause the
// engine or stop it.
type SerialEngine struct {
	HookableBase

	mu    sync.RWMutex
	now   VTimeInPs
	queue EventQueue

	// gate is held while an event is handled and while paused.
	gate   sync.Mutex
	paused atomic.Bool

	running atomic.Bool
	stopped atomic.Bool
	handled atomic.Uint64

	endHandlers []SimulationEndHandler
}

// NewSerialEngine creates a SerialEngine at time zero.
func NewSerialEngine() *SerialEngine {
	return &SerialEngine{queue: NewEventQueue()}
}

// Schedule queues an event.
func (e *SerialEngine) Schedule(evt Event) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if evt.Time() < e.now {
		panic(fmt.Sprintf("event %T scheduled at %s, before now (%s)",
			evt, evt.Time(), e.now))
	}

	e.queue.Push(evt)
}

// CurrentTime returns the time of the event being handled, or of the last
// handled event.
func (e *SerialEngine) CurrentTime() VTimeInPs {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.now
}

// Run handles the queued events in order.
func (e *SerialEngine) Run() error {
	if !e.running.CompareAndSwap(false, true) {
		panic("engine is already running")
	}
	defer e.running.Store(false)

	for !e.stopped.Load() {
		evt := e.advance()
		if evt == nil {
			return nil
		}

		if err := e.handle(evt); err != nil {
			return err
		}
	}

	return nil
}

// advance pops the next event and moves the clock to it.
func (e *SerialEngine) advance() Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	evt := e.queue.Pop()
	if evt != nil {
		e.now = evt.Time()
	}

	return evt
}

func (e *SerialEngine) handle(evt Event) error {
	e.gate.Lock()
	defer e.gate.Unlock()

	ctx := HookCtx{Domain: e, Pos: HookPosBeforeEvent, Item: evt}
	e.InvokeHook(ctx)

	err := evt.Handler().Handle(evt)
	e.handled.Add(1)

	ctx.Pos = HookPosAfterEvent
	e.InvokeHook(ctx)

	return err
}

// Pause stops the engine from handling more events until Continue.
func (e *SerialEngine) Pause() {
	if e.paused.CompareAndSwap(false, true) {
		e.gate.Lock()
	}
}

// Continue resumes a paused engine.
func (e *SerialEngine) Continue() {
	if e.paused.CompareAndSwap(true, false) {
		e.gate.Unlock()
	}
}

// Stop makes Run return once the current event is handled.
func (e *SerialEngine) Stop() {
	e.stopped.Store(true)
}

// Stopped tells if Stop has been called.
func (e *SerialEngine) Stopped() bool {
	return e.stopped.Load()
}

// HandledEvents returns the number of events handled so far.
func (e *SerialEngine) HandledEvents() uint64 {
	return e.handled.Load()
}

// RegisterSimulationEndHandler adds a handler that Finished calls.
func (e *SerialEngine) RegisterSimulationEndHandler(
	handler SimulationEndHandler,
) {
	e.endHandlers = append(e.endHandlers, handler)
}

// Finished calls the simulation end handlers with the current time.
func (e *SerialEngine) Finished() {
	now := e.CurrentTime()
	for _, h := range e.endHandlers {
		h.Handle(now)
	}
}
