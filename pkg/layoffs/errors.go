package layoffs

import (
	"errors"
	"fmt"
)

var (
	// ErrSchema reports raw input that lacks a business field.
	ErrSchema = errors.New("layoffs: raw schema mismatch")
	// ErrDuplicatesRemain means duplicate elimination left two identical
	// rows behind, which points at a grouping-key defect.
	ErrDuplicatesRemain = errors.New("layoffs: duplicates remain after elimination")
	// ErrInvariant means the cleaned table breaks one of its guarantees.
	ErrInvariant = errors.New("layoffs: clean table invariant violated")
)

// StageError identifies which stage failed and which guarantee it could not
// keep. Nothing produced by the failing stage is returned alongside it.
type StageError struct {
	Stage     string
	Invariant string
	Err       error
}

func (e *StageError) Error() string {
	if e.Invariant == "" {
		return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("stage %s: %s: %v", e.Stage, e.Invariant, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
