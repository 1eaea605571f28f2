package sim

// A HookPos names a point in the simulation where hooks are invoked.
type HookPos struct {
	Name string
}

// Engine-level hook positions. The item is the event.
var (
	HookPosBeforeEvent = &HookPos{Name: "BeforeEvent"}
	HookPosAfterEvent  = &HookPos{Name: "AfterEvent"}
)

// HookCtx describes one hook invocation. Domain is the object that invokes
// the hook, Item is the object the position is about, and Detail carries
// position-specific extra data.
type HookCtx struct {
	Domain Hookable
	Pos    *HookPos
	Item   any
	Detail any
}

// A Hook observes a Hookable. Hooks must not change the simulated state.
type Hook interface {
	Func(ctx HookCtx)
}

// Hookable is implemented by every object that hooks can observe.
type Hookable interface {
	AcceptHook(hook Hook)
	NumHooks() int
}

// HookableBase keeps the hooks of an object. Embed it to implement Hookable.
type HookableBase struct {
	hooks []Hook
}

// AcceptHook registers a hook. A hook can only be registered once per
// object.
func (h *HookableBase) AcceptHook(hook Hook) {
	for _, registered := range h.hooks {
		if registered == hook {
			panic("hook registered twice")
		}
	}

	h.hooks = append(h.hooks, hook)
}

// NumHooks returns the number of registered hooks. Callers check it before
// building a HookCtx on hot paths.
func (h *HookableBase) NumHooks() int {
	return len(h.hooks)
}

// InvokeHook calls the hooks in registration order.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.hooks {
		hook.Func(ctx)
	}
}
