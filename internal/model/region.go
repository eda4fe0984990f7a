package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownDirection is returned when a direction string cannot be parsed
var ErrUnknownDirection = errors.New("unknown direction")

// Direction selects which side of a limit a region covers
type Direction int

const (
	AtMost  Direction = iota + 1 // everything <= limit
	AtLeast                      // everything >= limit
)

// String returns the comparison operator for the direction
func (d Direction) String() string {
	switch d {
	case AtMost:
		return "<="
	case AtLeast:
		return ">="
	default:
		return "invalid"
	}
}

// Valid reports whether d is one of the two supported directions
func (d Direction) Valid() bool {
	return d == AtMost || d == AtLeast
}

// ParseDirection parses "<=", ">=" and their word aliases
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "<=", "le", "at-most", "atmost", "at_most":
		return AtMost, nil
	case ">=", "ge", "at-least", "atleast", "at_least":
		return AtLeast, nil
	default:
		return 0, fmt.Errorf("%w: %q (expected <= or >=)", ErrUnknownDirection, s)
	}
}

// MarshalText implements encoding.TextMarshaler
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownDirection, int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Region is a half-line of the real number line
type Region struct {
	Limit     float64   `json:"limit" yaml:"limit"`
	Direction Direction `json:"direction" yaml:"direction"`
}

// Contains reports whether x lies strictly inside the region.
// The boundary point itself is excluded; it has no probability mass.
func (r Region) Contains(x float64) bool {
	if r.Direction == AtMost {
		return x < r.Limit
	}
	return x > r.Limit
}

func (r Region) String() string {
	return fmt.Sprintf("%s %g", r.Direction, r.Limit)
}
