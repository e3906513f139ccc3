package label

import "fmt"

// MissingOutcomeError is returned for a position that appears before any
// Result header.
type MissingOutcomeError struct {
	Line     int
	Position string
}

func (e *MissingOutcomeError) Error() string {
	return fmt.Sprintf("line %d: position %q has no preceding Result header", e.Line, e.Position)
}

// HeaderError is returned for a Result header whose value cannot be read
type HeaderError struct {
	Line   int
	Header string
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("line %d: malformed Result header %q", e.Line, e.Header)
}

// PositionError is returned when FEN validation rejects a position
type PositionError struct {
	Line     int
	Position string
	Err      error
}

func (e *PositionError) Error() string {
	return fmt.Sprintf("line %d: invalid position %q: %v", e.Line, e.Position, e.Err)
}

func (e *PositionError) Unwrap() error {
	return e.Err
}
