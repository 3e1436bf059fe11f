// Package statemachine validates lifecycle moves against a transition table.
package statemachine

import (
	"fmt"
	"slices"
)

// Table maps a state to the states it may move to. A state absent from the
// table, or mapped to an empty list, is terminal.
type Table[S comparable] map[S][]S

// Allowed reports whether from -> to is listed. Self transitions are only
// allowed when the table lists them explicitly.
func (t Table[S]) Allowed(from, to S) bool {
	return slices.Contains(t[from], to)
}

// Next returns a copy of the successors of from.
func (t Table[S]) Next(from S) []S {
	return slices.Clone(t[from])
}

// Terminal reports whether from has no successors.
func (t Table[S]) Terminal(from S) bool {
	return len(t[from]) == 0
}

// Check returns a *TransitionError when from -> to is not in the table.
func (t Table[S]) Check(from, to S) error {
	if t.Allowed(from, to) {
		return nil
	}
	return &TransitionError[S]{From: from, To: to, Allowed: t.Next(from)}
}

// TransitionError describes a rejected move.
type TransitionError[S comparable] struct {
	From    S
	To      S
	Allowed []S
}

func (e *TransitionError[S]) Error() string {
	return fmt.Sprintf("transition %v -> %v not allowed", e.From, e.To)
}
