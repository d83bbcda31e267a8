// Package scripting provides a sandboxed GopherLua execution environment
// for encounter scripts. It has no dependency on game domain packages: the
// simulation driver passes primitive hook arguments in, and scripts talk
// back through the engine.* module (logging, audited dice rolls).
package scripting

import (
	"context"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
)

// DefaultInstructionLimit is the maximum number of Lua opcodes allowed per
// script execution when the configuration does not override it. The limit
// keeps a misbehaving hook from stalling a simulation run.
const DefaultInstructionLimit = 100_000

// countingContext is a context.Context that cancels itself after Done() has
// been called limit times. GopherLua's main loop calls Done() once per
// opcode, making this an exact instruction-count limit.
type countingContext struct {
	context.Context
	cancel    context.CancelFunc
	remaining atomic.Int64
	limit     int64
}

// Done returns the underlying cancellation channel. Each call decrements the
// remaining counter; when it reaches zero the cancel function fires,
// terminating the Lua VM on the next opcode boundary.
func (c *countingContext) Done() <-chan struct{} {
	if c.remaining.Add(-1) <= 0 {
		c.cancel()
	}
	return c.Context.Done()
}

// reset restores the full opcode budget and swaps in a fresh base context so
// the VM can run again even after a previous execution tripped the limit.
// Must not be called while a script is executing on the owning VM.
func (c *countingContext) reset() {
	c.cancel()
	c.Context, c.cancel = context.WithCancel(context.Background())
	c.remaining.Store(c.limit)
}

// stop cancels the current base context, halting any in-flight script on its
// next opcode boundary.
func (c *countingContext) stop() {
	c.cancel()
}

// newCountingContext returns a context that cancels after limit calls to Done().
// Precondition: limit > 0.
func newCountingContext(limit int) *countingContext {
	base, cancel := context.WithCancel(context.Background())
	c := &countingContext{
		Context: base,
		cancel:  cancel,
		limit:   int64(limit),
	}
	c.remaining.Store(int64(limit))
	return c
}

// resetBudget restores L's full opcode budget ahead of a new execution.
// No-op for states that did not come from NewSandboxedState.
func resetBudget(L *lua.LState) {
	if cc, ok := L.Context().(*countingContext); ok {
		cc.reset()
	}
}

// NewSandboxedState creates a GopherLua LState with:
//   - Only safe stdlib loaded: base, table, string, math
//   - Dangerous globals removed: dofile, loadfile, load, collectgarbage, require
//   - Execution limited to at most instLimit Lua opcodes (deterministic);
//     the Manager refreshes the budget before every script execution
//
// Precondition: instLimit >= 0; 0 uses DefaultInstructionLimit.
// Postcondition: Returns a non-nil LState ready for RegisterModules and DoFile.
// The caller owns the LState and must call L.Close() when done.
func NewSandboxedState(instLimit int) (*lua.LState, context.CancelFunc) {
	limit := instLimit
	if limit <= 0 {
		limit = DefaultInstructionLimit
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	// Open only safe standard libraries.
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// Strip dangerous globals left by OpenBase.
	for _, name := range []string{"dofile", "loadfile", "load", "collectgarbage", "require"} {
		L.SetGlobal(name, lua.LNil)
	}

	// countingContext.Done() is consulted on every opcode; the context
	// cancels itself after exactly limit opcodes.
	cc := newCountingContext(limit)
	L.SetContext(cc)

	return L, cc.stop
}
