package quantity

import (
	"bytes"
	"testing"

	"github.com/corey/siunit/internal/domain/unit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVector_ReadConvert(t *testing.T) {
	reg := unit.MustDefault()
	var v Vector
	require.NoError(t, v.Read(reg, "100 150 180 cm", true))
	assert.Equal(t, reg.MustUnit("cm"), v.IOUnit)
	assert.InDeltaSlice(t, []float64{1, 1.5, 1.8}, v.Data, 1e-12)

	m, err := v.Convert(reg, reg.MustUnit("m"))
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 1.5, 1.8}, m, 1e-12)

	mm, err := v.Convert(reg, reg.MustUnit("mm"))
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1000, 1500, 1800}, mm, 1e-9)

	_, err = v.Convert(reg, reg.MustUnit("s"))
	assert.ErrorIs(t, err, unit.ErrIncompatibleUnits)
}

func TestVector_ReadWithoutConversion(t *testing.T) {
	reg := unit.MustDefault()
	var v Vector

	require.NoError(t, v.Read(reg, "1 2 3 cm", false))
	assert.Equal(t, []float64{1, 2, 3}, v.Data)
	assert.Equal(t, unit.Undefined, v.IOUnit)

	require.NoError(t, v.Read(reg, " 4\t5 ", true))
	assert.Equal(t, []float64{4, 5}, v.Data)
	assert.Equal(t, unit.Undefined, v.IOUnit)
}

func TestVector_ReadErrors(t *testing.T) {
	reg := unit.MustDefault()
	v := Vector{Name: "Grid"}
	require.NoError(t, v.Read(reg, "1 2 m", true))

	err := v.Read(reg, "cm", true)
	assert.ErrorIs(t, err, unit.ErrMalformedInput)
	assert.Equal(t, 0, v.Len(), "cleared before parsing")
	assert.Equal(t, "Grid", v.Name)

	assert.ErrorIs(t, v.Read(reg, "", true), unit.ErrMalformedInput)
	assert.ErrorIs(t, v.Read(reg, "1 2 cm 3", true), unit.ErrMalformedInput)
	assert.ErrorIs(t, v.Read(reg, "1 2 furlong", true), unit.ErrUnitNotFound)
}

func TestVector_FormatUsesIOUnit(t *testing.T) {
	reg := unit.MustDefault()
	var v Vector
	require.NoError(t, v.Read(reg, "100 150 180 cm", true))
	stored := append([]float64(nil), v.Data...)

	got, err := v.Format(reg, true)
	require.NoError(t, err)
	assert.Equal(t, "100 150 180 cm", got)
	assert.Equal(t, stored, v.Data, "writing never mutates the data")

	got, err = v.Format(reg, false)
	require.NoError(t, err)
	assert.Equal(t, "100 150 180 ", got)

	var buf bytes.Buffer
	require.NoError(t, v.Write(&buf, reg, 2, true))
	assert.Equal(t, "  100 150 180 cm", buf.String())
}

func TestVector_SetIOUnit(t *testing.T) {
	reg := unit.MustDefault()
	var v Vector
	require.NoError(t, v.Read(reg, "100 150 180 cm", true))

	require.NoError(t, v.SetIOUnit(reg, reg.MustUnit("mm")))
	got, err := v.Format(reg, true)
	require.NoError(t, err)
	assert.Equal(t, "1000 1500 1800 mm", got)

	err = v.SetIOUnit(reg, reg.MustUnit("K"))
	assert.ErrorIs(t, err, unit.ErrIncompatibleUnits)
	assert.Equal(t, reg.MustUnit("mm"), v.IOUnit)

	assert.ErrorIs(t, v.SetIOUnit(reg, unit.Unit(reg.Len())), unit.ErrUnitNotFound)

	var empty Vector
	require.NoError(t, empty.SetIOUnit(reg, reg.MustUnit("K")))
}

func TestVector_Set(t *testing.T) {
	reg := unit.MustDefault()
	var v Vector
	require.NoError(t, v.Set(reg, 3, 20, reg.MustUnit("C")))
	assert.Equal(t, 3, v.Len())
	assert.InDeltaSlice(t, []float64{293.15, 293.15, 293.15}, v.Data, 1e-12)
	assert.Equal(t, reg.MustUnit("C"), v.IOUnit)

	before := v
	err := v.Set(reg, 2, -1, reg.MustUnit("sqrt(s)"))
	assert.ErrorIs(t, err, unit.ErrDomain)
	assert.Equal(t, before, v)

	v.Clear()
	assert.Equal(t, 0, v.Len())
	assert.Equal(t, unit.Undefined, v.IOUnit)
}

func TestVector_LogClamping(t *testing.T) {
	reg := unit.MustDefault()
	var v Vector
	require.NoError(t, v.Read(reg, "0 1 10 kg/m3", true))

	logs, err := v.Convert(reg, reg.MustUnit("log(kg/m3)"))
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{-50, 0, 1}, logs, 1e-12)

	require.NoError(t, v.Read(reg, "-60 0 log(kg/m3)", true))
	assert.InDeltaSlice(t, []float64{0, 1}, v.Data, 1e-12)
}

func TestVector_Equal(t *testing.T) {
	reg := unit.MustDefault()
	var a, b Vector
	require.NoError(t, a.Read(reg, "1 2 m", true))
	require.NoError(t, b.Read(reg, "1 2 m", true))
	b.Name = "other"
	assert.True(t, a.Equal(b))

	require.NoError(t, b.Read(reg, "100 200 cm", true))
	assert.False(t, a.Equal(b), "IO units differ")
}

func TestVector_Binary(t *testing.T) {
	reg := unit.MustDefault()
	v := Vector{Name: "Grid"}
	require.NoError(t, v.Read(reg, "100 150 180 cm", true))

	data, err := v.MarshalBinary()
	require.NoError(t, err)
	assert.Len(t, data, 4+4+8+3*8+4)

	var back Vector
	require.NoError(t, back.UnmarshalBinary(data))
	assert.Equal(t, v, back)

	for _, bad := range [][]byte{data[:6], data[:20], data[:len(data)-2]} {
		assert.ErrorIs(t, back.UnmarshalBinary(bad), unit.ErrMalformedInput)
	}
	assert.Equal(t, v, back, "unchanged after failed decode")

	// a count that cannot fit the payload
	huge := append([]byte{}, data...)
	huge[8] = 0xff
	assert.ErrorIs(t, back.UnmarshalBinary(huge), unit.ErrMalformedInput)
}
