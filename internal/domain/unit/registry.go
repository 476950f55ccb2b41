package unit

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog"
)

// DeprecatedAliases maps historic unit spellings to their canonical names.
// Aliases are folded into the name index at build time; they never get ids.
var DeprecatedAliases = map[string]string{
	"l/m2s": "L/m2s",
	"l/m2h": "L/m2h",
	"l/m2d": "L/m2d",
	"l/m3s": "L/m3s",
	"l/m3h": "L/m3h",
}

// Registry is an immutable unit table. Build one with Parse, ParseString,
// ReadDefault or Default.
type Registry struct {
	units       []Descriptor
	byName      map[string]uint32
	aliases     map[string]string
	fingerprint uint64
}

type options struct {
	log     zerolog.Logger
	aliases map[string]string
}

// Option configures registry construction.
type Option func(*options)

// WithLogger routes build warnings to l.
func WithLogger(l zerolog.Logger) Option { return func(o *options) { o.log = l } }

// WithAliases replaces the deprecated alias table used at build time.
func WithAliases(aliases map[string]string) Option {
	return func(o *options) { o.aliases = aliases }
}

// builder accumulates descriptors in declaration order.
type builder struct {
	log     zerolog.Logger
	aliases map[string]string
	units   []Descriptor
	byName  map[string]uint32
}

func newBuilder(opts ...Option) *builder {
	o := options{log: zerolog.Nop(), aliases: DeprecatedAliases}
	for _, fn := range opts {
		fn(&o)
	}
	return &builder{
		log:     o.log,
		aliases: o.aliases,
		byName:  make(map[string]uint32),
	}
}

// add assigns the next id to d. Base units point at themselves.
func (b *builder) add(d Descriptor, base bool) (uint32, error) {
	if _, dup := b.byName[d.Name]; dup {
		return 0, fmt.Errorf("%w: %q", ErrDuplicateUnitDefinition, d.Name)
	}
	d.ID = uint32(len(b.units))
	if base {
		d.BaseID = d.ID
	}
	b.units = append(b.units, d)
	b.byName[d.Name] = d.ID
	return d.ID, nil
}

// build validates the arena and freezes it into a Registry.
func (b *builder) build() (*Registry, error) {
	if len(b.units) == 0 {
		return nil, fmt.Errorf("%w: unit table defines no units", ErrMalformedInput)
	}

	bases := make(map[uint32]int)
	for _, d := range b.units {
		if int(d.BaseID) >= len(b.units) {
			return nil, fmt.Errorf("%w: unit %q references missing base id %d", ErrMalformedInput, d.Name, d.BaseID)
		}
		base := b.units[d.BaseID]
		if !base.IsBase() || base.Op != OpNone || base.Factor != 1 {
			return nil, fmt.Errorf("%w: unit %q references non-base unit %q", ErrMalformedInput, d.Name, base.Name)
		}
		if d.IsBase() {
			bases[d.ID]++
		} else if d.Op == OpNone {
			return nil, fmt.Errorf("%w: derived unit %q has no operation", ErrMalformedInput, d.Name)
		}
	}
	for id, n := range bases {
		if n != 1 {
			return nil, fmt.Errorf("%w: dimension group %q has %d base units", ErrMalformedInput, b.units[id].Name, n)
		}
	}

	aliases := make(map[string]string)
	for alias, canonical := range b.aliases {
		id, ok := b.byName[canonical]
		if !ok {
			continue
		}
		if _, taken := b.byName[alias]; taken {
			continue
		}
		b.byName[alias] = id
		aliases[alias] = canonical
	}

	r := &Registry{
		units:   b.units,
		byName:  b.byName,
		aliases: aliases,
	}
	r.fingerprint = fingerprint(r.units)
	b.log.Debug().Int("units", len(r.units)).Int("dimensions", len(bases)).
		Uint64("fingerprint", r.fingerprint).Msg("unit registry built")
	return r, nil
}

// fingerprint hashes the id-ordered table. Binary quantity data is only
// meaningful against a registry with the same fingerprint.
func fingerprint(units []Descriptor) uint64 {
	h := xxhash.New()
	var buf []byte
	for _, d := range units {
		buf = buf[:0]
		buf = binary.LittleEndian.AppendUint32(buf, d.ID)
		buf = binary.LittleEndian.AppendUint32(buf, d.BaseID)
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(d.Factor))
		buf = append(buf, byte(d.Op))
		buf = append(buf, d.Name...)
		buf = append(buf, 0)
		h.Write(buf)
	}
	return h.Sum64()
}

// ReadFile returns a registry built from the table file at path.
// With overwrite unset, a non-empty receiver is returned unchanged.
func (r *Registry) ReadFile(path string, overwrite bool, opts ...Option) (*Registry, error) {
	if !overwrite && r != nil && r.Len() > 0 {
		return r, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open unit table: %w", err)
	}
	defer f.Close()
	reg, err := Parse(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("unit table %s: %w", path, err)
	}
	return reg, nil
}

// Len returns the number of units, including the undefined sentinel.
func (r *Registry) Len() int { return len(r.units) }

// Fingerprint returns the hash of the id-ordered table.
func (r *Registry) Fingerprint() uint64 { return r.fingerprint }

// Retrieve returns the descriptor with the given id.
func (r *Registry) Retrieve(id uint32) (Descriptor, error) {
	if int(id) >= len(r.units) {
		return Descriptor{}, fmt.Errorf("%w: unit index %d out of range 0..%d", ErrUnitNotFound, id, len(r.units)-1)
	}
	return r.units[id], nil
}

// Lookup returns the descriptor for name, resolving deprecated aliases.
// It reports false instead of failing so callers decide how to react.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	id, ok := r.byName[name]
	if !ok {
		return Descriptor{}, false
	}
	return r.units[id], true
}

// Unit returns the handle for name.
func (r *Registry) Unit(name string) (Unit, error) {
	d, ok := r.Lookup(name)
	if !ok {
		return Undefined, fmt.Errorf("%w: %q", ErrUnitNotFound, name)
	}
	return d.Unit(), nil
}

// MustUnit is Unit that panics on unknown names. Meant for tables and tests.
func (r *Registry) MustUnit(name string) Unit {
	u, err := r.Unit(name)
	if err != nil {
		panic(err)
	}
	return u
}

// Canonical returns the canonical spelling for a deprecated alias.
func (r *Registry) Canonical(name string) (string, bool) {
	c, ok := r.aliases[name]
	return c, ok
}

// Name returns the unit name of u, or "" when u is out of range.
func (r *Registry) Name(u Unit) string {
	if int(u) >= len(r.units) {
		return ""
	}
	return r.units[u].Name
}

// Base returns the base unit of u's dimension group.
func (r *Registry) Base(u Unit) (Unit, error) {
	d, err := r.Retrieve(uint32(u))
	if err != nil {
		return Undefined, err
	}
	return Unit(d.BaseID), nil
}

// Convertible reports whether a and b share a dimension group.
func (r *Registry) Convertible(a, b Unit) bool {
	if int(a) >= len(r.units) || int(b) >= len(r.units) {
		return false
	}
	return r.units[a].BaseID == r.units[b].BaseID
}

// Units returns every unit except the undefined sentinel, in id order.
func (r *Registry) Units() []Unit {
	out := make([]Unit, 0, len(r.units))
	for _, d := range r.units {
		if d.Name == "undefined" {
			continue
		}
		out = append(out, d.Unit())
	}
	return out
}

// BaseUnits returns the base unit of every dimension group, in id order.
func (r *Registry) BaseUnits() []Unit {
	var out []Unit
	for _, d := range r.units {
		if d.IsBase() {
			out = append(out, d.Unit())
		}
	}
	return out
}

// ConvertibleUnits returns all units sharing u's dimension group.
// With excludeSelf set, u itself is left out.
func (r *Registry) ConvertibleUnits(u Unit, excludeSelf bool) ([]Unit, error) {
	src, err := r.Retrieve(uint32(u))
	if err != nil {
		return nil, err
	}
	var out []Unit
	for _, d := range r.units {
		if d.BaseID != src.BaseID {
			continue
		}
		if excludeSelf && d.ID == src.ID {
			continue
		}
		out = append(out, d.Unit())
	}
	return out, nil
}

// Dimension returns the name of u's base unit, which identifies its
// dimension group ("m" for mm, "J/m2s" for W/m2).
func (r *Registry) Dimension(u Unit) (string, error) {
	b, err := r.Base(u)
	if err != nil {
		return "", err
	}
	return r.units[b].Name, nil
}
