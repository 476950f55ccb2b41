// Package metrics provides Prometheus metrics collection for unit conversions
// and registry reloads. It implements ports.Metrics.
package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

const namespace = "siunit"

// Collector holds all Prometheus metrics for siunit.
type Collector struct {
	// Conversion metrics
	ConversionsTotal *prometheus.CounterVec
	ValuesConverted  prometheus.Counter
	ConversionErrors *prometheus.CounterVec

	// Registry metrics
	RegistryReloads    *prometheus.CounterVec
	RegistryUnits      prometheus.Gauge
	RegistryLastReload prometheus.Gauge
}

// NewWithRegistry creates a new metrics collector registered on reg.
// The CLI and tests pass their own registry to avoid global state.
func NewWithRegistry(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		ConversionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "conversions_total",
				Help:      "Total number of conversion requests by resolved relation",
			},
			[]string{"op"},
		),
		ValuesConverted: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "values_converted_total",
				Help:      "Total number of individual values converted",
			},
		),
		ConversionErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "conversion_errors_total",
				Help:      "Total number of failed conversions by error class",
			},
			[]string{"class"},
		),
		RegistryReloads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "registry_reloads_total",
				Help:      "Total number of unit table reload attempts",
			},
			[]string{"result"},
		),
		RegistryUnits: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "registry_units",
				Help:      "Number of units in the active registry",
			},
		),
		RegistryLastReload: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "registry_last_reload_timestamp_seconds",
				Help:      "Unix timestamp of the last successful registry reload",
			},
		),
	}
}

// Conversion implements ports.Metrics.
func (c *Collector) Conversion(op string, n int) {
	c.ConversionsTotal.WithLabelValues(op).Inc()
	c.ValuesConverted.Add(float64(n))
}

// ConversionError implements ports.Metrics.
func (c *Collector) ConversionError(class string) {
	c.ConversionErrors.WithLabelValues(class).Inc()
}

// RegistryReload implements ports.Metrics.
func (c *Collector) RegistryReload(ok bool, units int) {
	if !ok {
		c.RegistryReloads.WithLabelValues("error").Inc()
		return
	}
	c.RegistryReloads.WithLabelValues("ok").Inc()
	c.RegistryUnits.Set(float64(units))
	c.RegistryLastReload.SetToCurrentTime()
}

// WriteText gathers g and writes every metric family in the Prometheus
// text exposition format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
