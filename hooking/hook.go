// Package hooking lets observers attach to the lifecycle of a simulation run
// without the run knowing who is watching.
package hooking

// HookPos names a site in the run lifecycle at which hooks fire.
type HookPos struct {
	Name string
}

// HookCtx describes one hook invocation.
type HookCtx struct {
	// Domain is the object raising the hook.
	Domain Hookable

	// Pos is the lifecycle site the hook fires from.
	Pos *HookPos

	// Item is the record associated with the site, for example a step record
	// or a run result.
	Item any

	// Detail is optional and may be nil.
	Detail any
}

// Hookable is an object that accepts hooks.
type Hookable interface {
	// AcceptHook registers a hook. Hooks are registered before the domain
	// starts running and are never removed.
	AcceptHook(hook Hook)

	// NumHooks returns the number of hooks registered.
	NumHooks() int

	// Hooks returns all the hooks registered.
	Hooks() []Hook

	// InvokeHook triggers the registered hooks in registration order.
	InvokeHook(ctx HookCtx)
}

// Hook is invoked by a Hookable.
type Hook interface {
	Func(ctx HookCtx)
}

// HookFunc adapts a plain function to the Hook interface.
type HookFunc func(ctx HookCtx)

// Func calls f(ctx).
func (f HookFunc) Func(ctx HookCtx) {
	f(ctx)
}

// A HookableBase implements Hookable and is meant to be embedded.
type HookableBase struct {
	hookList []Hook
}

// NewHookableBase creates a HookableBase object.
func NewHookableBase() *HookableBase {
	h := new(HookableBase)
	h.hookList = make([]Hook, 0)

	return h
}

// NumHooks returns the number of hooks registered.
func (h *HookableBase) NumHooks() int {
	return len(h.hookList)
}

// Hooks returns all the hooks registered.
func (h *HookableBase) Hooks() []Hook {
	return h.hookList
}

// AcceptHook registers a hook. Registering the same hook twice panics.
func (h *HookableBase) AcceptHook(hook Hook) {
	h.mustNotHaveDuplicatedHook(hook)
	h.hookList = append(h.hookList, hook)
}

func (h *HookableBase) mustNotHaveDuplicatedHook(hook Hook) {
	if _, isFunc := hook.(HookFunc); isFunc {
		return
	}

	for _, existing := range h.hookList {
		if existing == hook {
			panic("duplicated hook")
		}
	}
}

// InvokeHook triggers the registered hooks.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.hookList {
		hook.Func(ctx)
	}
}

var _ Hookable = (*HookableBase)(nil)
