package unit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func convertNamed(t *testing.T, r *Registry, v float64, from, to string) (float64, error) {
	t.Helper()
	return r.Convert(r.MustUnit(from), r.MustUnit(to), v)
}

func TestConvert_Scenarios(t *testing.T) {
	r := MustDefault()
	tests := []struct {
		v        float64
		from, to string
		want     float64
	}{
		{20, "mm", "m", 0.02},
		{0, "C", "K", 273.15},
		{300, "K", "C", 26.85},
		{1000, "kg/m3", "log(g/m3)", 6.0},
		{2, "log(kg/m3)", "g/m3", 100000},
		{2, "h", "min", 120},
		{3600, "s", "sqrt(h)", 1},
		{3, "sqrt(s)", "s", 9},
		{2, "sqrt(h)", "sqrt(s)", 120},
		{1, "kWh", "MJ", 3.6},
		{1, "W/m2", "kW/m2", 0.001},
		{1, "L/m2h", "mm/d", 24},
		{100, "%", "1", 1},
	}
	for _, tt := range tests {
		got, err := convertNamed(t, r, tt.v, tt.from, tt.to)
		require.NoError(t, err, "%g %s -> %s", tt.v, tt.from, tt.to)
		assert.InDelta(t, tt.want, got, 1e-9*math.Max(1, math.Abs(tt.want)), "%g %s -> %s", tt.v, tt.from, tt.to)
	}
}

func TestConvert_Identity(t *testing.T) {
	r := MustDefault()
	for _, u := range r.Units() {
		got, err := r.Convert(u, u, 1.25)
		require.NoError(t, err, r.Name(u))
		assert.Equal(t, 1.25, got, r.Name(u))
	}
}

func TestConvert_RoundTripAllPairs(t *testing.T) {
	r := MustDefault()
	const x = 1.7
	pairs := 0
	for _, u := range r.Units() {
		others, err := r.ConvertibleUnits(u, true)
		require.NoError(t, err)
		for _, v := range others {
			there, err := r.Convert(u, v, x)
			require.NoError(t, err, "%s -> %s", r.Name(u), r.Name(v))
			back, err := r.Convert(v, u, there)
			require.NoError(t, err, "%s -> %s", r.Name(v), r.Name(u))
			assert.InEpsilon(t, x, back, 1e-9, "%s <-> %s", r.Name(u), r.Name(v))
			pairs++
		}
	}
	assert.Greater(t, pairs, 500)
}

func TestRelate_IncompatibleUnits(t *testing.T) {
	r := MustDefault()
	_, err := r.Relate(r.MustUnit("m"), r.MustUnit("s"))
	assert.ErrorIs(t, err, ErrIncompatibleUnits)

	// every cross-group pair between base units
	bases := r.BaseUnits()
	for i := 1; i < len(bases); i++ {
		_, err := r.Relate(bases[i-1], bases[i])
		assert.ErrorIs(t, err, ErrIncompatibleUnits)
	}
}

func TestRelate_Factors(t *testing.T) {
	r := MustDefault()

	rel, err := r.Relate(r.MustUnit("C"), r.MustUnit("K"))
	require.NoError(t, err)
	assert.Equal(t, Relation{Factor: 273.15, Op: OpAdd}, rel)

	rel, err = r.Relate(r.MustUnit("K"), r.MustUnit("C"))
	require.NoError(t, err)
	assert.Equal(t, Relation{Factor: -273.15, Op: OpAdd}, rel)

	rel, err = r.Relate(r.MustUnit("cm"), r.MustUnit("mm"))
	require.NoError(t, err)
	assert.Equal(t, OpMul, rel.Op)
	assert.InDelta(t, 10, rel.Factor, 1e-12)

	rel, err = r.Relate(r.MustUnit("mm"), r.MustUnit("mm"))
	require.NoError(t, err)
	assert.Equal(t, Relation{Factor: 1, Op: OpNone}, rel)

	rel, err = r.Relate(r.MustUnit("s"), r.MustUnit("sqrt(s)"))
	require.NoError(t, err)
	assert.Equal(t, Relation{Factor: 1, Op: OpSpecial}, rel)
}

func TestRelate_AffineOffsets(t *testing.T) {
	r, err := ParseString("K - 273.15 C + 10 X")
	require.NoError(t, err)

	// X = K + 10, C = K - 273.15
	v, err := r.Convert(r.MustUnit("X"), r.MustUnit("K"), 310)
	require.NoError(t, err)
	assert.InDelta(t, 300, v, 1e-12)

	v, err = r.Convert(r.MustUnit("X"), r.MustUnit("C"), 310)
	require.NoError(t, err)
	assert.InDelta(t, 26.85, v, 1e-9)

	v, err = r.Convert(r.MustUnit("C"), r.MustUnit("X"), 26.85)
	require.NoError(t, err)
	assert.InDelta(t, 310, v, 1e-9)
}

func TestRelate_DivisionByZero(t *testing.T) {
	r, err := ParseString("x / 0 y * 0 z * 2 w")
	require.NoError(t, err)

	_, err = r.Relate(r.MustUnit("x"), r.MustUnit("y"))
	assert.ErrorIs(t, err, ErrDivisionByZero)
	_, err = r.Relate(r.MustUnit("z"), r.MustUnit("x"))
	assert.ErrorIs(t, err, ErrDivisionByZero)
	_, err = r.Relate(r.MustUnit("w"), r.MustUnit("y"))
	assert.ErrorIs(t, err, ErrDivisionByZero)

	_, err = r.Convert(r.MustUnit("x"), r.MustUnit("y"), 1)
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestRelate_IncompatibleConversionKind(t *testing.T) {
	r, err := ParseString("K - 273.15 C * 1.8 R")
	require.NoError(t, err)

	_, err = r.Relate(r.MustUnit("C"), r.MustUnit("R"))
	assert.ErrorIs(t, err, ErrIncompatibleConversionKind)
	_, err = r.Relate(r.MustUnit("R"), r.MustUnit("C"))
	assert.ErrorIs(t, err, ErrIncompatibleConversionKind)

	// both still relate to the base
	v, err := r.Convert(r.MustUnit("R"), r.MustUnit("K"), 540)
	require.NoError(t, err)
	assert.InDelta(t, 300, v, 1e-9)
}

func TestConvert_DomainErrors(t *testing.T) {
	r := MustDefault()

	_, err := convertNamed(t, r, -1, "s", "sqrt(s)")
	assert.ErrorIs(t, err, ErrDomain)
	_, err = convertNamed(t, r, -3600, "s", "sqrt(h)")
	assert.ErrorIs(t, err, ErrDomain)
	_, err = convertNamed(t, r, 0, "kg/m3", "log(kg/m3)")
	assert.ErrorIs(t, err, ErrDomain)
	_, err = convertNamed(t, r, -5, "g/m3", "log(µg/m3)")
	assert.ErrorIs(t, err, ErrDomain)
	_, err = convertNamed(t, r, -2, "sqrt(s)", "s")
	assert.ErrorIs(t, err, ErrDomain)
}

func TestConvert_UnknownID(t *testing.T) {
	r := MustDefault()
	_, err := r.Convert(Unit(r.Len()), r.MustUnit("m"), 1)
	assert.ErrorIs(t, err, ErrUnitNotFound)
}

func TestConvertSlice_Linear(t *testing.T) {
	r := MustDefault()
	vals := []float64{100, 150, 180}
	require.NoError(t, r.ConvertSlice(r.MustUnit("cm"), r.MustUnit("m"), vals))
	assert.InDeltaSlice(t, []float64{1, 1.5, 1.8}, vals, 1e-12)

	temps := []float64{0, 100}
	require.NoError(t, r.ConvertSlice(r.MustUnit("C"), r.MustUnit("K"), temps))
	assert.InDeltaSlice(t, []float64{273.15, 373.15}, temps, 1e-12)
}

func TestConvertSlice_LogClamps(t *testing.T) {
	r := MustDefault()

	vals := []float64{0, 1e-60, 1}
	require.NoError(t, r.ConvertSlice(r.MustUnit("kg/m3"), r.MustUnit("log(kg/m3)"), vals))
	assert.Equal(t, []float64{-50, -50, 0}, vals)

	back := []float64{-50, -80, 0}
	require.NoError(t, r.ConvertSlice(r.MustUnit("log(kg/m3)"), r.MustUnit("kg/m3"), back))
	assert.Equal(t, []float64{0, 0, 1}, back)
}

func TestConvertSlice_SqrtStillFails(t *testing.T) {
	r := MustDefault()
	vals := []float64{4, -1}
	err := r.ConvertSlice(r.MustUnit("s"), r.MustUnit("sqrt(s)"), vals)
	assert.ErrorIs(t, err, ErrDomain)
	assert.Equal(t, []float64{4, -1}, vals, "values untouched on error")
}

func TestConvertSlice_SpecialMatchesScalar(t *testing.T) {
	r := MustDefault()
	pairs := [][2]string{
		{"min", "sqrt(h)"},
		{"sqrt(h)", "h"},
		{"sqrt(s)", "sqrt(h)"},
		{"g/m3", "log(mg/m3)"},
		{"log(g/m3)", "µg/m3"},
		{"log(kg/m3)", "log(µg/m3)"},
	}
	for _, p := range pairs {
		t.Run(p[0]+"->"+p[1], func(t *testing.T) {
			in := []float64{1, 2.5, 100}
			vals := append([]float64(nil), in...)
			require.NoError(t, r.ConvertSlice(r.MustUnit(p[0]), r.MustUnit(p[1]), vals))
			for i, v := range in {
				want, err := convertNamed(t, r, v, p[0], p[1])
				require.NoError(t, err)
				assert.Equal(t, want, vals[i], "element %d", i)
			}
		})
	}
}
