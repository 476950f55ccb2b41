// Package bbolt implements the ports.QuantityStore interface using bbolt (embedded B+ tree).
// A "meta" bucket holds the fingerprint of the unit table the data was written
// with; a "sets" bucket holds one sub-bucket per set, keyed by quantity name.
// Writes are transactional; a crash mid-write cannot corrupt previously
// committed data.
package bbolt

import (
	"encoding"
	"errors"
	"fmt"
	"time"

	"github.com/corey/siunit/internal/domain/quantity"
	"github.com/corey/siunit/internal/ports"
	bolt "go.etcd.io/bbolt"
)

var (
	// ErrNotFound indicates a missing set or entry, or an entry of another kind.
	ErrNotFound = errors.New("quantity not found")
	// ErrRegistryMismatch indicates a store written with a different unit table.
	ErrRegistryMismatch = errors.New("unit table fingerprint mismatch")
)

// Bucket keys
var (
	bucketMeta     = []byte("meta")
	bucketSets     = []byte("sets")
	keyFingerprint = []byte("fingerprint")
)

// Store implements ports.QuantityStore backed by bbolt.
type Store struct {
	db          *bolt.DB
	fingerprint uint64
}

var _ ports.QuantityStore = (*Store)(nil)

// NewStore opens (or creates) a bbolt database at the given path for a
// registry with the given fingerprint. A fresh database records the
// fingerprint; an existing one must match it.
func NewStore(path string, fingerprint uint64) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		meta, err := tx.CreateBucketIfNotExists(bucketMeta)
		if err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists(bucketSets); err != nil {
			return err
		}
		stored := meta.Get(keyFingerprint)
		if stored == nil {
			return meta.Put(keyFingerprint, encodeFingerprint(fingerprint))
		}
		fp, err := decodeFingerprint(stored)
		if err != nil {
			return err
		}
		if fp != fingerprint {
			return fmt.Errorf("%w: store has %016x, registry has %016x", ErrRegistryMismatch, fp, fingerprint)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, fingerprint: fingerprint}, nil
}

// OpenRebound is NewStore that, instead of failing with ErrRegistryMismatch,
// drops every set and rebinds the store to fingerprint.
func OpenRebound(path string, fingerprint uint64) (*Store, error) {
	s, err := NewStore(path, fingerprint)
	if !errors.Is(err, ErrRegistryMismatch) {
		return s, err
	}
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	s = &Store{db: db}
	if err := s.Rebind(fingerprint); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Fingerprint returns the unit table fingerprint the store is bound to.
func (s *Store) Fingerprint() uint64 { return s.fingerprint }

func (s *Store) PutScalar(set string, q quantity.Scalar) error {
	return s.put(set, q.Name, ports.KindScalar, q)
}

func (s *Store) PutVector(set string, v quantity.Vector) error {
	return s.put(set, v.Name, ports.KindVector, v)
}

func (s *Store) PutInt(set string, p quantity.IntPara) error {
	return s.put(set, p.Name, ports.KindInt, p)
}

func (s *Store) put(set, name string, kind ports.Kind, m encoding.BinaryMarshaler) error {
	if set == "" || name == "" {
		return fmt.Errorf("put %s: set and name are required", kind)
	}
	data, err := encodeRecord(kind, m)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		sb, err := tx.Bucket(bucketSets).CreateBucketIfNotExists([]byte(set))
		if err != nil {
			return err
		}
		return sb.Put([]byte(name), data)
	})
}

func (s *Store) GetScalar(set, name string) (quantity.Scalar, error) {
	var q quantity.Scalar
	err := s.get(set, name, ports.KindScalar, &q)
	return q, err
}

func (s *Store) GetVector(set, name string) (quantity.Vector, error) {
	var v quantity.Vector
	err := s.get(set, name, ports.KindVector, &v)
	return v, err
}

func (s *Store) GetInt(set, name string) (quantity.IntPara, error) {
	var p quantity.IntPara
	err := s.get(set, name, ports.KindInt, &p)
	return p, err
}

func (s *Store) get(set, name string, want ports.Kind, u encoding.BinaryUnmarshaler) error {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		sb := tx.Bucket(bucketSets).Bucket([]byte(set))
		if sb == nil {
			return nil
		}
		// Copy bytes out of the transaction (bbolt slices are only valid within tx)
		if v := sb.Get([]byte(name)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if data == nil {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, set, name)
	}

	kind, payload, err := decodeRecord(data)
	if err != nil {
		return fmt.Errorf("%s/%s: %w", set, name, err)
	}
	if kind != want {
		return fmt.Errorf("%w: %s/%s is a %s, not a %s", ErrNotFound, set, name, kind, want)
	}
	if err := u.UnmarshalBinary(payload); err != nil {
		return fmt.Errorf("%s/%s: %w", set, name, err)
	}
	return nil
}

// List returns the entries of set, or of every set when set is empty.
// bbolt iterates keys in byte order, so entries come out sorted.
func (s *Store) List(set string) ([]ports.Entry, error) {
	var out []ports.Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		sets := tx.Bucket(bucketSets)
		if set != "" {
			sb := sets.Bucket([]byte(set))
			if sb == nil {
				return nil
			}
			return appendEntries(&out, set, sb)
		}
		return sets.ForEachBucket(func(k []byte) error {
			return appendEntries(&out, string(k), sets.Bucket(k))
		})
	})
	return out, err
}

func appendEntries(out *[]ports.Entry, set string, sb *bolt.Bucket) error {
	return sb.ForEach(func(k, v []byte) error {
		kind, _, err := decodeRecord(v)
		if err != nil {
			return fmt.Errorf("%s/%s: %w", set, k, err)
		}
		*out = append(*out, ports.Entry{Set: set, Name: string(k), Kind: kind})
		return nil
	})
}

// Delete removes set/name. Idempotent: deleting a nonexistent entry is not an error.
func (s *Store) Delete(set, name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		sb := tx.Bucket(bucketSets).Bucket([]byte(set))
		if sb == nil {
			return nil
		}
		return sb.Delete([]byte(name))
	})
}

// DeleteSet removes all entries of a set.
// Idempotent: deleting a nonexistent set is not an error.
func (s *Store) DeleteSet(set string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucketSets).DeleteBucket([]byte(set)); errors.Is(err, bolt.ErrBucketNotFound) {
			return nil // idempotent
		} else {
			return err
		}
	})
}

// Rebind drops every set and binds the store to a new unit table.
func (s *Store) Rebind(fingerprint uint64) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketSets); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		if _, err := tx.CreateBucket(bucketSets); err != nil {
			return err
		}
		return tx.Bucket(bucketMeta).Put(keyFingerprint, encodeFingerprint(fingerprint))
	})
	if err != nil {
		return fmt.Errorf("rebind: %w", err)
	}
	s.fingerprint = fingerprint
	return nil
}
