// Package quantity provides named physical values that keep their magnitude
// in the SI base unit of their dimension and convert on input and output.
//
// Quantities hold only a unit handle. Every operation that needs unit
// names or conversions takes the *unit.Registry the handle belongs to.
// Quantities are not synchronized.
package quantity

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/corey/siunit/internal/domain/unit"
)

// Scalar is a named value with an IO unit. Magnitude is always expressed in
// the base unit of IOUnit's dimension. A Scalar with an empty name is unset.
type Scalar struct {
	Name      string
	Magnitude float64
	IOUnit    unit.Unit
}

// NewScalar returns a Scalar named name holding v given in u.
func NewScalar(reg *unit.Registry, name string, v float64, u unit.Unit) (Scalar, error) {
	s := Scalar{Name: name}
	if err := s.Set(reg, v, u); err != nil {
		return Scalar{}, err
	}
	return s, nil
}

// Set stores v, given in u, and makes u the IO unit. On error s is unchanged.
func (s *Scalar) Set(reg *unit.Registry, v float64, u unit.Unit) error {
	base, err := reg.Base(u)
	if err != nil {
		return s.wrap(err)
	}
	mag, err := reg.Convert(u, base, v)
	if err != nil {
		return s.wrap(err)
	}
	s.Magnitude = mag
	s.IOUnit = u
	return nil
}

// SetNamed is Set that also renames s.
func (s *Scalar) SetNamed(reg *unit.Registry, name string, v float64, u unit.Unit) error {
	next := Scalar{Name: name}
	if err := next.Set(reg, v, u); err != nil {
		return err
	}
	*s = next
	return nil
}

// SetRaw stores v without a unit.
func (s *Scalar) SetRaw(name string, v float64) {
	s.Name = name
	s.Magnitude = v
	s.IOUnit = unit.Undefined
}

// SetString parses text of the form "<value> <unit>".
func (s *Scalar) SetString(reg *unit.Registry, name, text string) error {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return fmt.Errorf("%w: parameter %q: expected \"<value> <unit>\", got %q", unit.ErrMalformedInput, name, text)
	}
	v, u, err := parseValueUnit(reg, fields[0], fields[1])
	if err != nil {
		return fmt.Errorf("parameter %q: %w", name, err)
	}
	return s.SetNamed(reg, name, v, u)
}

// Value returns the magnitude converted to u.
func (s Scalar) Value(reg *unit.Registry, u unit.Unit) (float64, error) {
	base, err := reg.Base(s.IOUnit)
	if err != nil {
		return 0, s.wrap(err)
	}
	v, err := reg.Convert(base, u, s.Magnitude)
	if err != nil {
		return 0, s.wrap(err)
	}
	return v, nil
}

// IOValue returns the magnitude converted to the IO unit.
func (s Scalar) IOValue(reg *unit.Registry) (float64, error) {
	return s.Value(reg, s.IOUnit)
}

// ValueOrDefault is Value, except that an unset s yields fallback.
func (s Scalar) ValueOrDefault(reg *unit.Registry, u unit.Unit, fallback float64) (float64, error) {
	if s.Empty() {
		return fallback, nil
	}
	return s.Value(reg, u)
}

// BaseUnit returns the base unit the magnitude is stored in.
func (s Scalar) BaseUnit(reg *unit.Registry) (unit.Unit, error) {
	return reg.Base(s.IOUnit)
}

// Empty reports whether s is unset.
func (s Scalar) Empty() bool { return s.Name == "" }

// Clear resets s to the unset state.
func (s *Scalar) Clear() { *s = Scalar{} }

// Equal compares name, IO unit and stored magnitude exactly.
func (s Scalar) Equal(o Scalar) bool {
	return s.Name == o.Name && s.IOUnit == o.IOUnit && s.Magnitude == o.Magnitude
}

// EqualTo compares the base magnitudes of two quantities of the same
// dimension with an absolute tolerance of 1e-5.
func (s Scalar) EqualTo(reg *unit.Registry, o Scalar) (bool, error) {
	if !reg.Convertible(s.IOUnit, o.IOUnit) {
		return false, fmt.Errorf("%w: [%s] and [%s]", unit.ErrIncompatibleUnits, reg.Name(s.IOUnit), reg.Name(o.IOUnit))
	}
	return nearlyEqual(s.Magnitude, o.Magnitude, 1e-5), nil
}

// Less orders by name, then base magnitude, then unit id.
func (s Scalar) Less(o Scalar) bool {
	if s.Name != o.Name {
		return s.Name < o.Name
	}
	if s.Magnitude != o.Magnitude {
		return s.Magnitude < o.Magnitude
	}
	return s.IOUnit < o.IOUnit
}

func nearlyEqual(x, y, eps float64) bool {
	return x == y || math.Abs(x-y) <= eps
}

// CheckBelowLimit verifies that s does not exceed limit: s <= limit when
// inclusive, s < limit otherwise. limit must carry the same name and a
// unit of the same dimension.
func (s Scalar) CheckBelowLimit(reg *unit.Registry, limit Scalar, inclusive bool) error {
	if err := s.checkLimit(reg, limit); err != nil {
		return err
	}
	if inclusive {
		return s.test(reg, limit, s.Magnitude <= limit.Magnitude, "<=")
	}
	return s.test(reg, limit, s.Magnitude < limit.Magnitude, "<")
}

// CheckAboveLimit verifies that s is not below limit: s >= limit when
// inclusive, s > limit otherwise.
func (s Scalar) CheckAboveLimit(reg *unit.Registry, limit Scalar, inclusive bool) error {
	if err := s.checkLimit(reg, limit); err != nil {
		return err
	}
	if inclusive {
		return s.test(reg, limit, s.Magnitude >= limit.Magnitude, ">=")
	}
	return s.test(reg, limit, s.Magnitude > limit.Magnitude, ">")
}

func (s Scalar) checkLimit(reg *unit.Registry, limit Scalar) error {
	if s.Empty() || s.Name != limit.Name {
		return fmt.Errorf("%w: %s", ErrRequired, limit.Name)
	}
	if !reg.Convertible(s.IOUnit, limit.IOUnit) {
		return fmt.Errorf("%w: invalid or unrecognized unit in parameter %q (must be convertible into %s)",
			unit.ErrIncompatibleUnits, limit.Name, reg.Name(limit.IOUnit))
	}
	return nil
}

func (s Scalar) test(reg *unit.Registry, limit Scalar, ok bool, op string) error {
	if ok {
		return nil
	}
	bound, err := limit.IOValue(reg)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: parameter %q (must be %s %s %s)",
		ErrOutOfRange, s.Name, op, formatValue(bound), reg.Name(limit.IOUnit))
}

// Format renders s in its IO unit as "<name> = <value> <unit>", or as
// "<value> <unit>" without the name.
func (s Scalar) Format(reg *unit.Registry, withName bool) (string, error) {
	return s.FormatIn(reg, s.IOUnit, withName)
}

// FormatIn is Format in unit u.
func (s Scalar) FormatIn(reg *unit.Registry, u unit.Unit, withName bool) (string, error) {
	v, err := s.Value(reg, u)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if withName {
		b.WriteString(s.Name)
		b.WriteString(" = ")
	}
	b.WriteString(formatValue(v))
	b.WriteByte(' ')
	b.WriteString(reg.Name(u))
	return b.String(), nil
}

// Read parses "<name> = <value> <unit>", or "<value> <unit>" when noName
// is set, in which case the current name is kept. On error s is unchanged.
func (s *Scalar) Read(reg *unit.Registry, text string, noName bool) error {
	fields := strings.Fields(text)
	name := s.Name
	switch {
	case noName && len(fields) == 2:
	case !noName && len(fields) == 4 && fields[1] == "=":
		name = fields[0]
		fields = fields[2:]
	default:
		return fmt.Errorf("%w: error reading parameter from %q", unit.ErrMalformedInput, text)
	}
	v, u, err := parseValueUnit(reg, fields[0], fields[1])
	if err != nil {
		return err
	}
	return s.SetNamed(reg, name, v, u)
}

// Write writes s in its IO unit followed by a newline. The name is padded
// to width and omitted when writeName is unset or s has no name.
func (s Scalar) Write(w io.Writer, reg *unit.Registry, indent, width int, writeName bool) error {
	v, err := s.IOValue(reg)
	if err != nil {
		return err
	}
	line := strings.Repeat(" ", indent)
	if writeName && s.Name != "" {
		line += fmt.Sprintf("%-*s = ", width, s.Name)
	}
	_, err = fmt.Fprintf(w, "%s%s %s\n", line, formatValue(v), reg.Name(s.IOUnit))
	return err
}

// MarshalBinary encodes s in the Scalar binary layout.
func (s Scalar) MarshalBinary() ([]byte, error) {
	if len(s.Name) > math.MaxInt32 {
		return nil, fmt.Errorf("parameter name too long: %d bytes", len(s.Name))
	}
	buf := make([]byte, 0, 4+len(s.Name)+8+4)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(s.Name)))
	buf = append(buf, s.Name...)
	buf = appendFloat64(buf, s.Magnitude)
	buf = binary.LittleEndian.AppendUint32(buf, s.IOUnit.ID())
	return buf, nil
}

// UnmarshalBinary decodes the Scalar binary layout. On error s is unchanged.
func (s *Scalar) UnmarshalBinary(data []byte) error {
	d := decoder{data: data, what: "parameter"}
	name, err := d.string(math.MaxInt32)
	if err != nil {
		return err
	}
	mag, err := d.float64("value")
	if err != nil {
		return err
	}
	id, err := d.uint32("unit id")
	if err != nil {
		return err
	}
	if err := d.done(); err != nil {
		return err
	}
	*s = Scalar{Name: name, Magnitude: mag, IOUnit: unit.Unit(id)}
	return nil
}

func (s Scalar) wrap(err error) error {
	return fmt.Errorf("parameter %q: %w", s.Name, err)
}

func parseValueUnit(reg *unit.Registry, value, unitName string) (float64, unit.Unit, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, unit.Undefined, fmt.Errorf("%w: invalid value %q", unit.ErrMalformedInput, value)
	}
	u, err := reg.Unit(unitName)
	if err != nil {
		return 0, unit.Undefined, err
	}
	return v, u, nil
}

// formatValue renders v with 15 significant digits, which hides the last
// bits of conversion round-off.
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', 15, 64)
}
