// Package validate holds read-only checks. A check never changes the frame;
// it returns an error wrapping ErrViolation when the data breaks its rule.
package validate

import "errors"

// ErrViolation is wrapped by every failed check.
var ErrViolation = errors.New("validation failed")
