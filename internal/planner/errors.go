package planner

import (
	"fmt"
	"strings"
)

// ConfigurationError reports a malformed or self-contradictory topology:
// duplicate identifiers, a shard group without its primary component, or a
// dependency reference naming a component that does not exist. The planner
// fails fast on these rather than silently dropping the offending edge.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "invalid topology: " + e.Reason
}

// NewConfigurationError builds a ConfigurationError from a format string.
func NewConfigurationError(format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// CycleError reports that the dependency graph is not acyclic. Cycle holds
// one concrete cycle in startup-order direction; every listed node is on it.
type CycleError struct {
	Cycle []string
}

func (e *CycleError) Error() string {
	if len(e.Cycle) == 0 {
		return "dependency cycle detected"
	}
	closed := append(append([]string{}, e.Cycle...), e.Cycle[0])
	return "dependency cycle detected: " + strings.Join(closed, " -> ")
}
