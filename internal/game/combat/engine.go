package combat

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ironvale/skirmish/internal/game/dice"
	"github.com/ironvale/skirmish/internal/game/grid"
	"github.com/ironvale/skirmish/internal/game/spell"
	"github.com/ironvale/skirmish/internal/game/weapon"
)

// Engine manages all active encounters, keyed by encounter ID.
// All Engine methods are safe for concurrent use; the States it hands out
// are not, and must each be stepped from a single goroutine.
type Engine struct {
	mu         sync.RWMutex
	encounters map[string]*State
	weapons    *weapon.Registry
	spells     *spell.Registry
	logger     *zap.Logger
}

// NewEngine creates an empty Engine backed by the given content registries.
//
// Precondition: weapons, spells, and logger must be non-nil.
// Postcondition: Returns a non-nil Engine ready for use.
func NewEngine(weapons *weapon.Registry, spells *spell.Registry, logger *zap.Logger) *Engine {
	return &Engine{
		encounters: make(map[string]*State),
		weapons:    weapons,
		spells:     spells,
		logger:     logger,
	}
}

// Create registers a new encounter on battlefield. An empty id is replaced
// with a generated UUID.
//
// Precondition: battlefield and src must be non-nil.
// Postcondition: Returns the new State, or an error if id is already in use.
func (e *Engine) Create(id string, battlefield *grid.Battlefield, src dice.Source) (*State, error) {
	if id == "" {
		id = uuid.NewString()
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.encounters[id]; exists {
		return nil, fmt.Errorf("combat: encounter %q already exists", id)
	}
	st := NewState(id, battlefield, e.weapons, e.spells, src, e.logger)
	e.encounters[id] = st
	return st, nil
}

// Get returns the encounter with the given ID.
//
// Postcondition: Returns (state, true) if found, or (nil, false) otherwise.
func (e *Engine) Get(id string) (*State, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	st, ok := e.encounters[id]
	return st, ok
}

// End removes the encounter record for id.
func (e *Engine) End(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.encounters, id)
}
