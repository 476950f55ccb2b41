package app

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/corey/siunit/internal/domain/quantity"
	"github.com/corey/siunit/internal/domain/unit"
	"github.com/corey/siunit/internal/ports"
	"github.com/montanaflynn/stats"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Service is the conversion facade used by the CLI. Every call resolves
// names and converts against a single registry snapshot.
type Service struct {
	holder    *RegistryHolder
	metrics   ports.Metrics
	logger    zerolog.Logger
	precision int
}

// NewService creates a Service. precision is the number of decimal places
// used by FormatValue; -1 prints 15 significant digits.
func NewService(h *RegistryHolder, m ports.Metrics, logger zerolog.Logger, precision int) *Service {
	if m == nil {
		m = ports.NopMetrics{}
	}
	return &Service{holder: h, metrics: m, logger: logger, precision: precision}
}

// Registry returns the current registry snapshot.
func (s *Service) Registry() *unit.Registry { return s.holder.Get() }

// Convert converts v from the unit named from to the unit named to.
func (s *Service) Convert(v float64, from, to string) (float64, error) {
	reg := s.holder.Get()
	src, dst, err := resolvePair(reg, from, to)
	if err != nil {
		return 0, s.fail(err)
	}
	rel, err := reg.Relate(src, dst)
	if err != nil {
		return 0, s.fail(err)
	}
	out, err := reg.Convert(src, dst, v)
	if err != nil {
		return 0, s.fail(err)
	}
	s.metrics.Conversion(rel.Op.String(), 1)
	s.logger.Debug().Float64("value", v).Str("from", from).Str("to", to).Float64("result", out).Msg("convert")
	return out, nil
}

// ConvertVector reads a vector from text ("v1 v2 ... unit") and returns it
// together with its values in the unit named to. An empty to keeps the
// input unit.
func (s *Service) ConvertVector(text, to string) (quantity.Vector, []float64, error) {
	reg := s.holder.Get()
	var vec quantity.Vector
	if err := vec.Read(reg, text, true); err != nil {
		return quantity.Vector{}, nil, s.fail(err)
	}
	target := vec.IOUnit
	if to != "" {
		u, err := reg.Unit(to)
		if err != nil {
			return quantity.Vector{}, nil, s.fail(err)
		}
		target = u
	}
	base, err := reg.Base(vec.IOUnit)
	if err != nil {
		return quantity.Vector{}, nil, s.fail(err)
	}
	rel, err := reg.Relate(base, target)
	if err != nil {
		return quantity.Vector{}, nil, s.fail(err)
	}
	vals, err := vec.Convert(reg, target)
	if err != nil {
		return quantity.Vector{}, nil, s.fail(err)
	}
	s.metrics.Conversion(rel.Op.String(), len(vals))
	return vec, vals, nil
}

// Integral returns the name of the integral unit of the unit named name.
func (s *Service) Integral(name string, space, time bool) (string, error) {
	reg := s.holder.Get()
	u, err := reg.Unit(name)
	if err != nil {
		return "", s.fail(err)
	}
	iu, err := reg.IntegralUnit(u, space, time)
	if err != nil {
		return "", s.fail(err)
	}
	return reg.Name(iu), nil
}

// IntegralLabel replaces the bracketed unit of a label such as
// "Heat flux [W/m2]" with its time integral.
func (s *Service) IntegralLabel(label string) (string, error) {
	out, err := s.holder.Get().ReplaceUnitWithIntegralUnit(label)
	if err != nil {
		return "", s.fail(err)
	}
	return out, nil
}

// Check reads value and limit as "name = value unit" and tests value
// against limit. above selects a lower bound (value must reach limit),
// otherwise limit is an upper bound.
func (s *Service) Check(value, limit string, above, inclusive bool) error {
	reg := s.holder.Get()
	var q, l quantity.Scalar
	if err := q.Read(reg, value, false); err != nil {
		return fmt.Errorf("value: %w", err)
	}
	if err := l.Read(reg, limit, false); err != nil {
		return fmt.Errorf("limit: %w", err)
	}
	if above {
		return q.CheckAboveLimit(reg, l, inclusive)
	}
	return q.CheckBelowLimit(reg, l, inclusive)
}

// FormatValue formats v with the configured precision.
func (s *Service) FormatValue(v float64) string {
	return FormatValue(v, s.precision)
}

// FormatValues formats vals space separated, followed by unitName if set.
func (s *Service) FormatValues(vals []float64, unitName string) string {
	var sb strings.Builder
	for i, v := range vals {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(s.FormatValue(v))
	}
	if unitName != "" {
		sb.WriteByte(' ')
		sb.WriteString(unitName)
	}
	return sb.String()
}

func (s *Service) fail(err error) error {
	s.metrics.ConversionError(ErrorClass(err))
	return err
}

// FormatValue formats v with precision decimal places, rounding half away
// from zero. A negative precision, NaN and infinities print with 15
// significant digits.
func FormatValue(v float64, precision int) string {
	if precision < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'g', 15, 64)
	}
	return decimal.NewFromFloat(v).StringFixed(int32(precision))
}

// ErrorClass maps a conversion error to a short label for metrics.
func ErrorClass(err error) string {
	switch {
	case errors.Is(err, unit.ErrUnitNotFound):
		return "unit_not_found"
	case errors.Is(err, unit.ErrIncompatibleUnits):
		return "incompatible_units"
	case errors.Is(err, unit.ErrIncompatibleConversionKind):
		return "conversion_kind"
	case errors.Is(err, unit.ErrDivisionByZero):
		return "division_by_zero"
	case errors.Is(err, unit.ErrDomain):
		return "domain"
	case errors.Is(err, unit.ErrMalformedInput):
		return "malformed_input"
	default:
		return "other"
	}
}

func resolvePair(reg *unit.Registry, from, to string) (unit.Unit, unit.Unit, error) {
	src, err := reg.Unit(from)
	if err != nil {
		return unit.Undefined, unit.Undefined, err
	}
	dst, err := reg.Unit(to)
	if err != nil {
		return unit.Undefined, unit.Undefined, err
	}
	return src, dst, nil
}

// Summary holds summary statistics of a vector in one unit.
type Summary struct {
	Count  int
	Min    float64
	Max    float64
	Mean   float64
	Median float64
	StdDev float64 // population standard deviation
	Unit   string
}

// Summarize computes summary statistics of vals, which are in unitName.
func Summarize(vals []float64, unitName string) (Summary, error) {
	if len(vals) == 0 {
		return Summary{}, fmt.Errorf("summary: %w: no values", unit.ErrMalformedInput)
	}
	data := stats.Float64Data(vals)
	sum := Summary{Count: len(vals), Unit: unitName}
	var err error
	if sum.Min, err = data.Min(); err != nil {
		return Summary{}, fmt.Errorf("summary min: %w", err)
	}
	if sum.Max, err = data.Max(); err != nil {
		return Summary{}, fmt.Errorf("summary max: %w", err)
	}
	if sum.Mean, err = data.Mean(); err != nil {
		return Summary{}, fmt.Errorf("summary mean: %w", err)
	}
	if sum.Median, err = data.Median(); err != nil {
		return Summary{}, fmt.Errorf("summary median: %w", err)
	}
	if sum.StdDev, err = data.StandardDeviation(); err != nil {
		return Summary{}, fmt.Errorf("summary stddev: %w", err)
	}
	return sum, nil
}
