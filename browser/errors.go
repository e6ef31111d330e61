package browser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"
)

// translateErr maps driver errors onto the sentinel errors of this package while keeping the
// original error in the chain.
func translateErr(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrSessionClosed), errors.Is(err, ErrStaleElement):
		return err
	case errors.Is(err, playwright.ErrTargetClosed):
		return fmt.Errorf("%w: %w", ErrSessionClosed, err)
	case strings.Contains(err.Error(), "not attached to the DOM"):
		return fmt.Errorf("%w: %w", ErrStaleElement, err)
	}
	return err
}
