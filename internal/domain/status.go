// Package domain defines the core persistence models for the application.
// This file holds the request status vocabulary and the fixed transition
// table. The table is the single source of truth for which status changes
// are legal; everything else in the codebase asks it instead of comparing
// status strings ad hoc.
package domain

// Request lifecycle statuses. Any value outside this set is a
// data-integrity error and must be rejected, never remapped.
const (
	StatusOpen       = "open"
	StatusClaimed    = "claimed"
	StatusInProgress = "in_progress"
	StatusComplete   = "complete"
	StatusDenied     = "denied"
)

// statusEdges lists the allowed outbound transitions per status. Terminal
// statuses map to an empty set.
var statusEdges = map[string]map[string]struct{}{
	StatusOpen:       {StatusClaimed: {}, StatusDenied: {}},
	StatusClaimed:    {StatusInProgress: {}, StatusDenied: {}},
	StatusInProgress: {StatusComplete: {}, StatusDenied: {}},
	StatusComplete:   {},
	StatusDenied:     {},
}

// ValidStatus reports whether s is one of the five known status values.
func ValidStatus(s string) bool {
	_, ok := statusEdges[s]
	return ok
}

// TerminalStatus reports whether s permits no further transitions.
// Unknown values are not terminal; they are invalid (see ValidStatus).
func TerminalStatus(s string) bool {
	edges, ok := statusEdges[s]
	return ok && len(edges) == 0
}

// CanTransition reports whether the edge from -> to is on the allowed
// table. It fails closed: any unrecognized status on either side yields
// false.
func CanTransition(from, to string) bool {
	edges, ok := statusEdges[from]
	if !ok {
		return false
	}
	_, ok = edges[to]
	return ok
}

// ActiveClaimStatus reports whether s is a status in which a request holds
// an active claim (claimed_by must be set exactly in these states).
func ActiveClaimStatus(s string) bool {
	return s == StatusClaimed || s == StatusInProgress
}
