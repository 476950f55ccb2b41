package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/corey/siunit/internal/adapters/bbolt"
)

// isDBLockError returns true if the error chain contains a bbolt lock timeout.
// bbolt returns the string "timeout" when it cannot acquire the file lock
// within the configured deadline.
func isDBLockError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "timeout")
}

// storeError adds actionable guidance to store open failures.
func storeError(path string, err error) error {
	switch {
	case isDBLockError(err):
		return fmt.Errorf("%w\n"+
			"  → another siunit process holds %s (a running 'siunit watch'?)\n"+
			"  → find the process:  ps aux | grep 'siunit'\n"+
			"  → then retry your command", err, path)
	case errors.Is(err, bbolt.ErrRegistryMismatch):
		return fmt.Errorf("%w\n"+
			"  → the store was written with another unit table\n"+
			"  → drop its data and rebind:  siunit store reset --force", err)
	default:
		return err
	}
}
