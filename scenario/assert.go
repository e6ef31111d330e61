package scenario

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAssertion is matched by every *AssertionError.
var ErrAssertion = errors.New("assertion failed")

// AssertionError reports a final state that differs from the expected one.
type AssertionError struct {
	Message  string
	Expected any
	Actual   any
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s: expected %#v, got %#v", e.Message, e.Expected, e.Actual)
}

func (e *AssertionError) Is(target error) bool {
	return target == ErrAssertion
}

// Equal compares final state to a literal.
func Equal[T comparable](message string, expected, actual T) error {
	if expected != actual {
		return &AssertionError{Message: message, Expected: expected, Actual: actual}
	}
	return nil
}

// True asserts a boolean outcome.
func True(message string, actual bool) error {
	return Equal(message, true, actual)
}

// Contains asserts that s contains substr.
func Contains(message, s, substr string) error {
	if !strings.Contains(s, substr) {
		return &AssertionError{Message: message, Expected: "contains " + substr, Actual: s}
	}
	return nil
}

// AtLeast asserts a threshold.
func AtLeast(message string, threshold, actual int) error {
	if actual < threshold {
		return &AssertionError{Message: message, Expected: fmt.Sprintf(">= %d", threshold), Actual: actual}
	}
	return nil
}
