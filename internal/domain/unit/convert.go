package unit

import "fmt"

// Relate resolves the conversion from src to dst.
//
// Units of different dimension groups fail with ErrIncompatibleUnits.
// Composing an affine unit with a scaled one fails with
// ErrIncompatibleConversionKind, and a zero divisor with ErrDivisionByZero.
// If either side is special the result is {1, OpSpecial} and values must go
// through Convert or ConvertSlice.
func (r *Registry) Relate(src, dst Unit) (Relation, error) {
	s, err := r.Retrieve(uint32(src))
	if err != nil {
		return Relation{}, err
	}
	d, err := r.Retrieve(uint32(dst))
	if err != nil {
		return Relation{}, err
	}
	return relate(s, d)
}

func relate(src, dst Descriptor) (Relation, error) {
	if src.ID == dst.ID {
		return Relation{Factor: 1, Op: OpNone}, nil
	}
	if src.BaseID != dst.BaseID {
		return Relation{}, fmt.Errorf("%w: cannot relate [%s] to [%s]", ErrIncompatibleUnits, src.Name, dst.Name)
	}
	if src.Op == OpSpecial || dst.Op == OpSpecial {
		return Relation{Factor: 1, Op: OpSpecial}, nil
	}

	switch {
	case src.Op == OpNone:
		return fromBase(src, dst)

	case src.Op.affine():
		// back to base: u = b + f  =>  b = u - f
		own := src.Factor
		if src.Op == OpAdd {
			own = -own
		}
		switch dst.Op {
		case OpAdd:
			return Relation{Factor: own + dst.Factor, Op: OpAdd}, nil
		case OpSub:
			return Relation{Factor: own - dst.Factor, Op: OpAdd}, nil
		case OpMul, OpDiv:
			return Relation{}, fmt.Errorf("%w: * and / not allowed with + and - (tried to convert [%s] to [%s])",
				ErrIncompatibleConversionKind, src.Name, dst.Name)
		default:
			return Relation{Factor: own, Op: OpAdd}, nil
		}

	case src.Op.scaling():
		// back to base: u = b * f  =>  b = u / f
		own := src.Factor
		if src.Op == OpMul {
			if own == 0 {
				return Relation{}, fmt.Errorf("%w: tried to convert [%s] to [%s]", ErrDivisionByZero, src.Name, dst.Name)
			}
			own = 1 / own
		}
		switch dst.Op {
		case OpAdd, OpSub:
			return Relation{}, fmt.Errorf("%w: + and - not allowed with * and / (tried to convert [%s] to [%s])",
				ErrIncompatibleConversionKind, src.Name, dst.Name)
		case OpMul:
			return Relation{Factor: own * dst.Factor, Op: OpMul}, nil
		case OpDiv:
			if dst.Factor == 0 {
				return Relation{}, fmt.Errorf("%w: tried to convert [%s] to [%s]", ErrDivisionByZero, src.Name, dst.Name)
			}
			return Relation{Factor: own / dst.Factor, Op: OpMul}, nil
		default:
			return Relation{Factor: own, Op: OpMul}, nil
		}
	}
	return Relation{}, fmt.Errorf("%w: unit [%s] has unknown operation %s", ErrMalformedInput, src.Name, src.Op)
}

// fromBase relates a base unit to one of its derived units.
func fromBase(src, dst Descriptor) (Relation, error) {
	switch dst.Op {
	case OpAdd:
		return Relation{Factor: dst.Factor, Op: OpAdd}, nil
	case OpSub:
		return Relation{Factor: -dst.Factor, Op: OpAdd}, nil
	case OpMul:
		return Relation{Factor: dst.Factor, Op: OpMul}, nil
	case OpDiv:
		if dst.Factor == 0 {
			return Relation{}, fmt.Errorf("%w: tried to convert [%s] to [%s]", ErrDivisionByZero, src.Name, dst.Name)
		}
		return Relation{Factor: 1 / dst.Factor, Op: OpMul}, nil
	default:
		return Relation{Factor: 1, Op: OpNone}, nil
	}
}

// Convert converts v from src to dst.
// Special transforms fail with ErrDomain on out-of-domain input.
func (r *Registry) Convert(src, dst Unit, v float64) (float64, error) {
	s, err := r.Retrieve(uint32(src))
	if err != nil {
		return 0, err
	}
	d, err := r.Retrieve(uint32(dst))
	if err != nil {
		return 0, err
	}
	return r.convert(s, d, v, false)
}

// ConvertSlice converts vals in place from src to dst.
//
// Offset and scale relations are applied as a single pass. Special
// relations go element by element; for the log family, magnitudes at or
// below 1e-50 clamp to -50 (and log values at or below -50 clamp to 0)
// instead of failing. On error vals is left unchanged.
func (r *Registry) ConvertSlice(src, dst Unit, vals []float64) error {
	s, err := r.Retrieve(uint32(src))
	if err != nil {
		return err
	}
	d, err := r.Retrieve(uint32(dst))
	if err != nil {
		return err
	}
	rel, err := relate(s, d)
	if err != nil {
		return err
	}
	switch rel.Op {
	case OpAdd:
		for i := range vals {
			vals[i] += rel.Factor
		}
	case OpMul:
		for i := range vals {
			vals[i] *= rel.Factor
		}
	case OpSpecial:
		toBase, fromBase, err := r.specialLegs(s, d)
		if err != nil {
			return err
		}
		out := make([]float64, len(vals))
		for i, v := range vals {
			var bv float64
			if s.Op == OpSpecial {
				bv, err = s.Special.toBase(v, true)
			} else {
				bv = toBase.apply(v)
			}
			if err == nil {
				if d.Op == OpSpecial {
					out[i], err = d.Special.fromBase(bv, true)
				} else {
					out[i] = fromBase.apply(bv)
				}
			}
			if err != nil {
				return fmt.Errorf("element %d: convert [%s] to [%s]: %w", i, s.Name, d.Name, err)
			}
		}
		copy(vals, out)
	}
	return nil
}

func (r *Registry) convert(s, d Descriptor, v float64, clamp bool) (float64, error) {
	rel, err := relate(s, d)
	if err != nil {
		return 0, err
	}
	switch rel.Op {
	case OpAdd:
		return v + rel.Factor, nil
	case OpMul:
		return v * rel.Factor, nil
	case OpSpecial:
		return r.special(s, d, v, clamp)
	}
	return v, nil
}

// specialLegs resolves the linear relations from s to the group's base unit
// and from the base unit to d. A leg whose unit is special is left as identity.
func (r *Registry) specialLegs(s, d Descriptor) (toBase, fromBase Relation, err error) {
	base := r.units[s.BaseID]
	toBase = Relation{Factor: 1, Op: OpNone}
	fromBase = toBase
	if s.Op != OpSpecial {
		if toBase, err = relate(s, base); err != nil {
			return
		}
	}
	if d.Op != OpSpecial {
		fromBase, err = relate(base, d)
	}
	return
}

// apply evaluates a linear relation for one value.
func (rel Relation) apply(v float64) float64 {
	switch rel.Op {
	case OpAdd:
		return v + rel.Factor
	case OpMul:
		return v * rel.Factor
	}
	return v
}

// special routes a conversion through the base unit of the group.
func (r *Registry) special(s, d Descriptor, v float64, clamp bool) (float64, error) {
	base := r.units[s.BaseID]

	bv := v
	var err error
	if s.Op == OpSpecial {
		bv, err = s.Special.toBase(v, clamp)
	} else {
		bv, err = r.convert(s, base, v, clamp)
	}
	if err != nil {
		return 0, fmt.Errorf("convert [%s] to [%s]: %w", s.Name, d.Name, err)
	}

	if d.Op == OpSpecial {
		out, err := d.Special.fromBase(bv, clamp)
		if err != nil {
			return 0, fmt.Errorf("convert [%s] to [%s]: %w", s.Name, d.Name, err)
		}
		return out, nil
	}
	return r.convert(base, d, bv, clamp)
}
