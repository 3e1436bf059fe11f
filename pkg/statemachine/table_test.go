package statemachine

import (
	"errors"
	"testing"
)

type light string

const (
	red    light = "red"
	green  light = "green"
	yellow light = "yellow"
	off    light = "off"
)

var lights = Table[light]{
	red:    {green},
	green:  {yellow},
	yellow: {red, off},
}

func TestTableAllowed(t *testing.T) {
	cases := []struct {
		from, to light
		want     bool
	}{
		{red, green, true},
		{green, yellow, true},
		{yellow, off, true},
		{green, red, false},
		{red, red, false},
		{off, red, false},
	}
	for _, tc := range cases {
		if got := lights.Allowed(tc.from, tc.to); got != tc.want {
			t.Fatalf("%s -> %s: expected %v got %v", tc.from, tc.to, tc.want, got)
		}
	}
}

func TestTableTerminal(t *testing.T) {
	if !lights.Terminal(off) {
		t.Fatalf("expected off to be terminal")
	}
	if lights.Terminal(yellow) {
		t.Fatalf("expected yellow to have successors")
	}
}

func TestTableCheckReturnsTransitionError(t *testing.T) {
	err := lights.Check(red, yellow)
	var te *TransitionError[light]
	if !errors.As(err, &te) {
		t.Fatalf("expected TransitionError, got %v", err)
	}
	if te.From != red || te.To != yellow || len(te.Allowed) != 1 || te.Allowed[0] != green {
		t.Fatalf("unexpected error contents %+v", te)
	}
	if err := lights.Check(red, green); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestTableNextIsCopy(t *testing.T) {
	next := lights.Next(yellow)
	next[0] = off
	if lights[yellow][0] != red {
		t.Fatalf("Next must not expose the underlying slice")
	}
}
