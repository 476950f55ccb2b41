package metrics

import (
	"bytes"
	"testing"

	"github.com/corey/siunit/internal/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.Metrics = (*Collector)(nil)

func TestCollector_Conversions(t *testing.T) {
	// Use a new registry to avoid conflicts with other tests
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	m.Conversion("mul", 3)
	m.Conversion("mul", 1)
	m.Conversion("special", 10)
	m.ConversionError("incompatible_units")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ConversionsTotal.WithLabelValues("mul")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ConversionsTotal.WithLabelValues("special")))
	assert.Equal(t, 14.0, testutil.ToFloat64(m.ValuesConverted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ConversionErrors.WithLabelValues("incompatible_units")))
}

func TestCollector_RegistryReload(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	m.RegistryReload(true, 120)
	m.RegistryReload(false, 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RegistryReloads.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RegistryReloads.WithLabelValues("error")))
	assert.Equal(t, 120.0, testutil.ToFloat64(m.RegistryUnits), "failed reload keeps the gauge")
	assert.Greater(t, testutil.ToFloat64(m.RegistryLastReload), 0.0)
}

func TestWriteText(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)
	m.Conversion("add", 2)

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, reg))
	out := buf.String()
	assert.Contains(t, out, "# TYPE siunit_conversions_total counter")
	assert.Contains(t, out, `siunit_conversions_total{op="add"} 1`)
	assert.Contains(t, out, "siunit_values_converted_total 2")
}
