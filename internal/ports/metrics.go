package ports

// Metrics records conversion and registry activity. Implementations must be
// safe for concurrent use. A nil Metrics is never passed around; use a no-op
// implementation instead.
type Metrics interface {
	// Conversion counts one conversion request. op is the resolved relation
	// ("add", "mul", "special", "none"), n the number of values converted.
	Conversion(op string, n int)

	// ConversionError counts a failed conversion by error class.
	ConversionError(class string)

	// RegistryReload records a reload attempt and, on success, the new
	// number of units.
	RegistryReload(ok bool, units int)
}

// NopMetrics discards everything.
type NopMetrics struct{}

func (NopMetrics) Conversion(string, int)   {}
func (NopMetrics) ConversionError(string)   {}
func (NopMetrics) RegistryReload(bool, int) {}
