package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/ironvale/skirmish/internal/game/dice"
)

// globalKey is the reserved key for shared scripts loaded via LoadGlobal.
// CallHook falls back to this VM when an encounter has no VM of its own.
const globalKey = "__global__"

// Hook names the simulation driver dispatches. A script defines any subset
// of these as global functions; undefined hooks are silently skipped.
const (
	HookCombatStart = "on_combat_start"
	HookRoundStart  = "on_round_start"
	HookTurnStart   = "on_turn_start"
	HookCombatEnd   = "on_combat_end"
)

// Manager owns one sandboxed LState per encounter and exposes hook dispatch.
//
// Each LState is single-threaded. After all Load calls complete, CallHook
// may run concurrently as long as no two calls land on the same VM; note
// that encounters without scripts of their own share the global fallback
// VM. The simulation driver steps every encounter synchronously, so this
// never arises in-process.
type Manager struct {
	mu      sync.RWMutex
	states  map[string]*lua.LState
	cancels map[string]func()
	roller  *dice.Roller
	logger  *zap.Logger
}

// NewManager creates a Manager.
//
// Precondition: roller and logger must be non-nil.
// Postcondition: Returns a non-nil Manager with an empty VM map.
func NewManager(roller *dice.Roller, logger *zap.Logger) *Manager {
	return &Manager{
		states:  make(map[string]*lua.LState),
		cancels: make(map[string]func()),
		roller:  roller,
		logger:  logger,
	}
}

// LoadEncounter creates a sandboxed VM for encounterID, registers the
// engine.* modules, then executes every *.lua file in scriptDir in
// lexicographic order.
//
// Precondition: encounterID must be non-empty; scriptDir must be a readable
// directory.
// Postcondition: the encounter VM is registered; returns an error on Lua
// load failure, leaving any previously registered VM in place.
func (m *Manager) LoadEncounter(encounterID, scriptDir string, instLimit int) error {
	return m.loadInto(encounterID, scriptDir, instLimit)
}

// LoadGlobal creates the shared VM used as a CallHook fallback for every
// encounter without scripts of its own.
//
// Precondition: scriptDir must be a readable directory.
// Postcondition: the global VM is registered; returns an error on Lua load
// failure.
func (m *Manager) LoadGlobal(scriptDir string, instLimit int) error {
	return m.loadInto(globalKey, scriptDir, instLimit)
}

func (m *Manager) loadInto(key, scriptDir string, instLimit int) error {
	L, cancel := NewSandboxedState(instLimit)
	m.RegisterModules(L)

	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		cancel()
		L.Close()
		return fmt.Errorf("scripting: reading script dir %q for %q: %w", scriptDir, key, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	for _, path := range luaFiles {
		resetBudget(L)
		if err := L.DoFile(path); err != nil {
			cancel()
			L.Close()
			return fmt.Errorf("scripting: loading %q for %q: %w", path, key, err)
		}
	}

	m.mu.Lock()
	if old, ok := m.states[key]; ok {
		if oldCancel := m.cancels[key]; oldCancel != nil {
			oldCancel()
		}
		old.Close()
	}
	m.states[key] = L
	m.cancels[key] = cancel
	m.mu.Unlock()
	return nil
}

// CallHook calls the named Lua global function in encounterID's VM. If the
// encounter has no VM, the global VM is tried as a fallback. Returns
// (LNil, nil) when the hook is not defined or no VM exists; scripts are
// optional and their absence is not an event. Lua runtime errors are logged
// at Warn level and never propagated, so a broken script cannot halt a
// simulation. Every invocation starts with the VM's full instruction budget.
//
// Precondition: args must be valid lua.LValue instances.
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(encounterID, hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.RLock()
	L, ok := m.states[encounterID]
	if !ok {
		L = m.states[globalKey]
	}
	m.mu.RUnlock()

	if L == nil {
		return lua.LNil, nil
	}

	fn := L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}

	resetBudget(L)
	if err := L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("encounter", encounterID),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}

	ret := L.Get(-1)
	L.Pop(1)
	return ret, nil
}

// Close shuts down every VM. The Manager must not be used afterwards.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, L := range m.states {
		if cancel := m.cancels[key]; cancel != nil {
			cancel()
		}
		L.Close()
		delete(m.states, key)
		delete(m.cancels, key)
	}
}
