package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/corey/siunit/internal/adapters/bbolt"
	"github.com/corey/siunit/internal/domain/unit"
)

// OpenStore opens the quantity store at path for reg, creating the parent
// directory. With rebind set, a store written with another unit table is
// emptied and bound to reg instead of rejected.
func OpenStore(path string, reg *unit.Registry, rebind bool) (*bbolt.Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("store dir: %w", err)
	}
	if rebind {
		return bbolt.OpenRebound(path, reg.Fingerprint())
	}
	return bbolt.NewStore(path, reg.Fingerprint())
}
