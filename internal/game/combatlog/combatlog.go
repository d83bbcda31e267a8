// Package combatlog records the structured event history of an encounter.
// The log is a bounded ring: it grows to a soft cap and is then trimmed to
// the most recent entries, preserving chronological order. Entry formatting
// is for display and debugging only, not a compatibility contract.
package combatlog

import (
	"time"

	"go.uber.org/zap"

	"github.com/ironvale/skirmish/internal/game/grid"
)

// EntryType tags a log entry with the event category it records.
type EntryType string

const (
	EntryCombatStart EntryType = "combat_start"
	EntryCombatEnd   EntryType = "combat_end"
	EntryRoundStart  EntryType = "round_start"
	EntryTurnStart   EntryType = "turn_start"
	EntryMove        EntryType = "move"
	EntryAttack      EntryType = "attack"
	EntrySpell       EntryType = "spell"
	EntryHeal        EntryType = "heal"
	EntryStatus      EntryType = "status"
	EntryDeath       EntryType = "death"
	EntryInfo        EntryType = "info"
)

const (
	// softCap is the entry count above which the log is trimmed.
	softCap = 100
	// trimTo is the number of most-recent entries kept after a trim.
	trimTo = 50
)

// Details carries the optional structured payload of an entry. Which fields
// are meaningful depends on the entry's Type; unused fields stay zero.
type Details struct {
	TargetID   string
	TargetName string
	AttackRoll int
	TargetAC   int
	Damage     int
	Healing    int
	Critical   bool
	Unfueled   bool // spell cast without an available slot
	From       grid.Position
	To         grid.Position
	Round      int
	Turn       int
}

// Entry is one immutable combat log record.
type Entry struct {
	Type      EntryType
	Timestamp time.Time
	ActorID   string
	ActorName string
	Message   string
	Details   Details
}

// Log is the bounded encounter history. Not safe for concurrent use; combat
// is stepped single-threaded.
type Log struct {
	entries []Entry
	logger  *zap.Logger
}

// New creates an empty log that mirrors every entry to logger at debug level.
//
// Precondition: logger must be non-nil (use zap.NewNop() to silence).
func New(logger *zap.Logger) *Log {
	return &Log{logger: logger}
}

// Append records an entry, stamping it with the current time when the caller
// left Timestamp zero, and trims the log when it exceeds the soft cap.
//
// Postcondition: Len() <= softCap+1 before trimming applies, and after any
// trim the retained entries are the most recent ones in original order.
func (l *Log) Append(e Entry) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	l.entries = append(l.entries, e)
	if len(l.entries) > softCap {
		kept := make([]Entry, trimTo)
		copy(kept, l.entries[len(l.entries)-trimTo:])
		l.entries = kept
	}

	l.logger.Debug("combat log",
		zap.String("type", string(e.Type)),
		zap.String("actor", e.ActorName),
		zap.String("message", e.Message),
	)
}

// Entries returns the retained entries in chronological order. The returned
// slice is the log's backing store; callers must not modify it.
func (l *Log) Entries() []Entry {
	return l.entries
}

// Len returns the number of retained entries.
func (l *Log) Len() int {
	return len(l.entries)
}

// Last returns the most recent entry and true, or a zero Entry and false when
// the log is empty.
func (l *Log) Last() (Entry, bool) {
	if len(l.entries) == 0 {
		return Entry{}, false
	}
	return l.entries[len(l.entries)-1], true
}
