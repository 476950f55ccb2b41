// Package ports defines the interfaces (contracts) that adapters must implement.
// These are the boundaries of the hexagonal architecture. Domain logic depends
// only on these interfaces, never on concrete implementations.
package ports

import "github.com/corey/siunit/internal/domain/quantity"

// Kind tags the quantity type of a stored entry.
type Kind uint8

const (
	KindScalar Kind = iota + 1
	KindVector
	KindInt
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindVector:
		return "vector"
	case KindInt:
		return "int"
	}
	return "unknown"
}

// Entry describes one stored quantity.
type Entry struct {
	Set  string
	Name string
	Kind Kind
}

// QuantityStore persists named quantities in their binary layout, grouped
// into sets (one namespace per set, e.g. a material or a project).
//
// Stored unit ids are only valid against the unit table they were written
// with. The store records the table fingerprint and refuses to operate
// against a different one until Rebind is called.
//
// Crash safety: every Put and Delete is a single transaction.
type QuantityStore interface {
	// PutScalar stores q under set/q.Name, replacing any entry of that name.
	PutScalar(set string, q quantity.Scalar) error
	PutVector(set string, v quantity.Vector) error
	PutInt(set string, p quantity.IntPara) error

	// GetScalar returns the scalar stored under set/name. A missing entry
	// or an entry of another kind yields ErrNotFound from the adapter.
	GetScalar(set, name string) (quantity.Scalar, error)
	GetVector(set, name string) (quantity.Vector, error)
	GetInt(set, name string) (quantity.IntPara, error)

	// List returns the entries of set sorted by name. An empty set name
	// lists every set.
	List(set string) ([]Entry, error)

	// Delete removes set/name. Idempotent.
	Delete(set, name string) error

	// DeleteSet removes a whole set. Idempotent.
	DeleteSet(set string) error

	// Rebind drops all sets and records fingerprint as the current table.
	Rebind(fingerprint uint64) error

	Close() error
}
