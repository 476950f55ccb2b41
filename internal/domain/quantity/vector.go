package quantity

import (
	"encoding/binary"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/corey/siunit/internal/domain/unit"
)

// Vector is the array form of Scalar. Data holds base-unit magnitudes;
// IOUnit is the unit used for text input and output.
type Vector struct {
	Name   string
	IOUnit unit.Unit
	Data   []float64
}

// Read parses whitespace-separated numbers followed by an optional unit
// name, e.g. "100 150 180 cm". With convertToSI the values are converted
// from that unit to its base unit, which becomes the IO unit. Otherwise
// the values are kept as given and the IO unit is undefined.
//
// v is cleared first, so a failed Read leaves it empty.
func (v *Vector) Read(reg *unit.Registry, text string, convertToSI bool) error {
	v.Clear()
	fields := strings.Fields(text)
	data := make([]float64, 0, len(fields))
	rest := fields
	for len(rest) > 0 {
		f, err := strconv.ParseFloat(rest[0], 64)
		if err != nil {
			break
		}
		data = append(data, f)
		rest = rest[1:]
	}
	if len(data) == 0 {
		return fmt.Errorf("%w: vector %q has no values", unit.ErrMalformedInput, text)
	}
	if len(rest) > 1 {
		return fmt.Errorf("%w: vector %q: unexpected %q after unit", unit.ErrMalformedInput, text, rest[1])
	}
	if len(rest) == 0 || !convertToSI {
		v.Data = data
		return nil
	}

	u, err := reg.Unit(rest[0])
	if err != nil {
		return fmt.Errorf("invalid vector unit: %w", err)
	}
	base, err := reg.Base(u)
	if err != nil {
		return err
	}
	if err := reg.ConvertSlice(u, base, data); err != nil {
		return fmt.Errorf("vector %q: %w", v.Name, err)
	}
	v.Data = data
	v.IOUnit = u
	return nil
}

// Convert returns a copy of the data converted from the base unit to target.
func (v Vector) Convert(reg *unit.Registry, target unit.Unit) ([]float64, error) {
	base, err := reg.Base(v.IOUnit)
	if err != nil {
		return nil, err
	}
	out := slices.Clone(v.Data)
	if err := reg.ConvertSlice(base, target, out); err != nil {
		return nil, fmt.Errorf("vector %q: %w", v.Name, err)
	}
	return out, nil
}

// SetIOUnit changes the IO unit to u, which must share the dimension of
// the current IO unit unless v holds no data.
func (v *Vector) SetIOUnit(reg *unit.Registry, u unit.Unit) error {
	if _, err := reg.Retrieve(u.ID()); err != nil {
		return err
	}
	if len(v.Data) > 0 && !reg.Convertible(v.IOUnit, u) {
		return fmt.Errorf("%w: vector %q in [%s] cannot use [%s]",
			unit.ErrIncompatibleUnits, v.Name, reg.Name(v.IOUnit), reg.Name(u))
	}
	v.IOUnit = u
	return nil
}

// Set resizes v to n elements of x, given in u. On error v is unchanged.
func (v *Vector) Set(reg *unit.Registry, n int, x float64, u unit.Unit) error {
	base, err := reg.Base(u)
	if err != nil {
		return err
	}
	b, err := reg.Convert(u, base, x)
	if err != nil {
		return fmt.Errorf("vector %q: %w", v.Name, err)
	}
	data := make([]float64, n)
	for i := range data {
		data[i] = b
	}
	v.Data = data
	v.IOUnit = u
	return nil
}

// Clear drops all data and resets the IO unit. The name is kept.
func (v *Vector) Clear() {
	v.Data = nil
	v.IOUnit = unit.Undefined
}

// Len returns the number of elements.
func (v Vector) Len() int { return len(v.Data) }

// Equal compares IO unit and data exactly. Names are not compared.
func (v Vector) Equal(o Vector) bool {
	return v.IOUnit == o.IOUnit && slices.Equal(v.Data, o.Data)
}

// Write writes the values in the IO unit, each followed by a space, and
// then the unit name if includeUnit is set. v.Data is not modified.
func (v Vector) Write(w io.Writer, reg *unit.Registry, indent int, includeUnit bool) error {
	vals, err := v.Convert(reg, v.IOUnit)
	if err != nil {
		return err
	}
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", indent))
	for _, x := range vals {
		b.WriteString(formatValue(x))
		b.WriteByte(' ')
	}
	if includeUnit {
		b.WriteString(reg.Name(v.IOUnit))
	}
	_, err = io.WriteString(w, b.String())
	return err
}

// Format is Write into a string.
func (v Vector) Format(reg *unit.Registry, includeUnit bool) (string, error) {
	var b strings.Builder
	if err := v.Write(&b, reg, 0, includeUnit); err != nil {
		return "", err
	}
	return b.String(), nil
}

// MarshalBinary encodes v in the Vector binary layout.
func (v Vector) MarshalBinary() ([]byte, error) {
	if len(v.Name) > maxVectorName {
		return nil, fmt.Errorf("vector name too long: %d bytes", len(v.Name))
	}
	buf := make([]byte, 0, 4+len(v.Name)+8+8*len(v.Data)+4)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(v.Name)))
	buf = append(buf, v.Name...)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(v.Data)))
	for _, x := range v.Data {
		buf = appendFloat64(buf, x)
	}
	buf = binary.LittleEndian.AppendUint32(buf, v.IOUnit.ID())
	return buf, nil
}

// UnmarshalBinary decodes the Vector binary layout. On error v is unchanged.
func (v *Vector) UnmarshalBinary(data []byte) error {
	d := decoder{data: data, what: "vector"}
	name, err := d.string(maxVectorName)
	if err != nil {
		return err
	}
	n, err := d.uint64("count")
	if err != nil {
		return err
	}
	if n > uint64(len(data)/8) {
		return fmt.Errorf("%w: vector count %d exceeds data size", unit.ErrMalformedInput, n)
	}
	vals := make([]float64, n)
	for i := range vals {
		if vals[i], err = d.float64("values"); err != nil {
			return err
		}
	}
	id, err := d.uint32("unit id")
	if err != nil {
		return err
	}
	if err := d.done(); err != nil {
		return err
	}
	*v = Vector{Name: name, IOUnit: unit.Unit(id), Data: vals}
	return nil
}
