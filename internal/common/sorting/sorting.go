// Package sorting resolves the requested sort column and direction against a
// report's column configuration. Requested values are untrusted input and are
// silently normalized: an unknown or non-sortable key falls back to the
// configured default, an unknown direction falls back to ascending.
package sorting

import (
	"strings"

	"report-writer/internal/domain/report"
)

// Direction is the SQL sort direction keyword.
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// ParseDirection maps a raw request token to a direction.
// Exactly two case-insensitive tokens are recognized; anything else,
// including the empty string, resolves to Asc.
func ParseDirection(raw string) Direction {
	switch strings.ToLower(raw) {
	case "asc":
		return Asc
	case "desc":
		return Desc
	default:
		return Asc
	}
}

// Toggle returns the opposite direction.
func (d Direction) Toggle() Direction {
	if d == Asc {
		return Desc
	}
	return Asc
}

// State is the resolved sort state for one request.
// Key always names a sortable column of the report: Resolve guarantees it,
// and the default key is validated when the report definition is constructed.
type State struct {
	Key       string
	Direction Direction
}

// Resolve derives the active sort state from raw request input.
// requestedKey must match a sortable column, otherwise defaultKey applies.
// Pure function of its inputs.
func Resolve(requestedKey, requestedDirection string, columns []report.Column, defaultKey string) State {
	state := State{
		Key:       defaultKey,
		Direction: ParseDirection(requestedDirection),
	}
	for _, col := range columns {
		if col.Sortable && col.Key == requestedKey {
			state.Key = requestedKey
			break
		}
	}
	return state
}
