package unit

import (
	"fmt"
	"math"
)

// TransformKind tags the non-linear transform of a special unit.
type TransformKind uint8

const (
	TransformNone TransformKind = iota
	TransformSqrt               // u = sqrt(base / Scale)
	TransformLog10              // u = log10(base * Scale)
)

// Bulk conversions clamp the log family instead of failing.
const (
	logClampBase  = 1e-50
	logClampValue = -50.0
)

// Transform is a special conversion resolved once at registry build time.
type Transform struct {
	Kind  TransformKind
	Scale float64
}

// specialDef binds a special unit name to its transform and the base unit
// name it is defined against.
type specialDef struct {
	base      string
	transform Transform
}

var specialUnits = map[string]specialDef{
	"sqrt(s)":    {"s", Transform{TransformSqrt, 1}},
	"sqrt(h)":    {"s", Transform{TransformSqrt, 3600}},
	"log(kg/m3)": {"kg/m3", Transform{TransformLog10, 1}},
	"log(g/m3)":  {"kg/m3", Transform{TransformLog10, 1e3}},
	"log(mg/m3)": {"kg/m3", Transform{TransformLog10, 1e6}},
	"log(µg/m3)": {"kg/m3", Transform{TransformLog10, 1e9}},
}

// resolveSpecial returns the transform for a special unit declared under
// the base unit baseName.
func resolveSpecial(name, baseName string) (Transform, error) {
	def, ok := specialUnits[name]
	if !ok {
		return Transform{}, fmt.Errorf("%w: unsupported special unit %q", ErrMalformedInput, name)
	}
	if def.base != baseName {
		return Transform{}, fmt.Errorf("%w: special unit %q must be declared under %q, not %q",
			ErrMalformedInput, name, def.base, baseName)
	}
	return def.transform, nil
}

// toBase converts v from the special unit into its base unit.
// With clamp set, log inputs at or below -50 map to 0.
func (t Transform) toBase(v float64, clamp bool) (float64, error) {
	switch t.Kind {
	case TransformSqrt:
		if v < 0 {
			return 0, fmt.Errorf("%w: negative square-root value %g", ErrDomain, v)
		}
		return v * v * t.Scale, nil
	case TransformLog10:
		if clamp && v <= logClampValue {
			return 0, nil
		}
		return math.Pow(10, v) / t.Scale, nil
	}
	return v, nil
}

// fromBase converts the base magnitude b into the special unit.
// With clamp set, log outputs for b at or below 1e-50 map to -50.
func (t Transform) fromBase(b float64, clamp bool) (float64, error) {
	switch t.Kind {
	case TransformSqrt:
		if b < 0 {
			return 0, fmt.Errorf("%w: square root of negative number %g", ErrDomain, b)
		}
		return math.Sqrt(b / t.Scale), nil
	case TransformLog10:
		if clamp && b <= logClampBase {
			return logClampValue, nil
		}
		if b <= 0 {
			return 0, fmt.Errorf("%w: logarithm of non-positive number %g", ErrDomain, b)
		}
		return math.Log10(b * t.Scale), nil
	}
	return b, nil
}
