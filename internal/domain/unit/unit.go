// Package unit implements the unit registry: a dense, id-indexed table of
// named units grouped by physical dimension, and the conversion algebra
// between units of the same dimension.
//
// Every dimension group has exactly one base unit. All other units of the
// group are defined relative to that base unit by an affine offset
// (OpAdd, OpSub), a scale (OpMul, OpDiv) or a named non-linear transform
// (OpSpecial). A Registry is immutable once built and safe for concurrent use.
package unit

import "fmt"

// Unit is a handle referencing a registry entry by id.
// Handles never cache registry state; names and base units are resolved
// through the Registry that produced them.
type Unit uint32

// Undefined is the sentinel unit (id 0, name "undefined") of every registry.
const Undefined Unit = 0

// ID returns the numeric id of the handle.
func (u Unit) ID() uint32 { return uint32(u) }

// IsUndefined reports whether u is the sentinel unit.
func (u Unit) IsUndefined() bool { return u == Undefined }

// Operation describes how a unit relates to the base unit of its group.
type Operation uint8

const (
	OpNone    Operation = iota // base unit
	OpAdd                      // u = base + factor
	OpSub                      // u = base - factor
	OpMul                      // u = base * factor
	OpDiv                      // u = base / factor
	OpSpecial                  // named non-linear transform
)

// opChars maps the table grammar characters to operations.
var opChars = map[byte]Operation{
	'+': OpAdd,
	'-': OpSub,
	'*': OpMul,
	'/': OpDiv,
	'%': OpSpecial,
}

// Char returns the table grammar character for op, or '|' for OpNone.
func (op Operation) Char() byte {
	for c, o := range opChars {
		if o == op {
			return c
		}
	}
	return '|'
}

func (op Operation) String() string {
	switch op {
	case OpNone:
		return "none"
	case OpAdd:
		return "add"
	case OpSub:
		return "sub"
	case OpMul:
		return "mul"
	case OpDiv:
		return "div"
	case OpSpecial:
		return "special"
	default:
		return fmt.Sprintf("op(%d)", uint8(op))
	}
}

// affine reports whether op is an offset relation.
func (op Operation) affine() bool { return op == OpAdd || op == OpSub }

// scaling reports whether op is a multiplicative relation.
func (op Operation) scaling() bool { return op == OpMul || op == OpDiv }

// Descriptor is a single registry entry.
type Descriptor struct {
	ID      uint32
	Name    string
	BaseID  uint32
	Factor  float64
	Op      Operation
	Special Transform // only set when Op == OpSpecial
}

// Unit returns the handle for d.
func (d Descriptor) Unit() Unit { return Unit(d.ID) }

// IsBase reports whether d is the base unit of its dimension group.
func (d Descriptor) IsBase() bool { return d.ID == d.BaseID }

// Relation is the resolved conversion between two units of one group.
// OpAdd means v + Factor, OpMul means v * Factor, OpNone is the identity
// and OpSpecial requires the per-value transform path.
type Relation struct {
	Factor float64
	Op     Operation
}
