package event

import (
	"fmt"
	"strings"
)

// Priority is the dispatch tier of a listener.
// Lower values are dispatched first; listeners within a tier keep registration order.
type Priority int8

const (
	Highest Priority = iota
	High
	Normal
	Low
	Lowest
)

const priorityCount = int(Lowest) + 1

var priorityNames = [priorityCount]string{"HIGHEST", "HIGH", "NORMAL", "LOW", "LOWEST"}

// Priorities returns every tier in dispatch order.
func Priorities() []Priority {
	return []Priority{Highest, High, Normal, Low, Lowest}
}

// Valid reports whether p is one of the known tiers.
func (p Priority) Valid() bool {
	return p >= Highest && p <= Lowest
}

func (p Priority) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Priority(%d)", int(p))
	}
	return priorityNames[p]
}

// Invoke makes a Priority usable as a phase marker inside a listener array.
// It advances the event to this phase.
func (p Priority) Invoke(evt Event) error {
	return evt.SetPhase(p)
}

// ParsePriority parses a tier name such as "high" or "LOWEST".
func ParsePriority(s string) (Priority, error) {
	for i, name := range priorityNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return Priority(i), nil
		}
	}
	return Normal, fmt.Errorf("%w: %q", ErrInvalidPriority, s)
}
