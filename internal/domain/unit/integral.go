package unit

import (
	"fmt"
	"strings"
)

type suffixRule struct {
	suffix  string
	replace string
}

// Rules are tried in order; the first matching suffix of the base unit
// name is replaced.
var (
	spaceTimeRules = []suffixRule{{"/m3s", ""}, {"/m2s", ""}, {"/ms", ""}}
	spaceRules     = []suffixRule{{"/m3s", "/s"}, {"/m2s", "/s"}, {"/ms", "/s"}, {"/m3", ""}, {"/m2", ""}}
	timeRules      = []suffixRule{{"/m2s", "/m2"}, {"/m3s", "/m3"}, {"/ms", "/m"}, {"/s", ""}}
)

// IntegralUnit returns the unit obtained by integrating a quantity in u
// over space, time or both. It works on the name of u's base unit, so
// IntegralUnit(W/m2, false, true) yields J/m2.
func (r *Registry) IntegralUnit(u Unit, space, time bool) (Unit, error) {
	if !space && !time {
		return u, nil
	}
	base, err := r.Base(u)
	if err != nil {
		return Undefined, err
	}
	name := r.Name(base)

	rules := timeRules
	switch {
	case space && time:
		rules = spaceTimeRules
	case space:
		rules = spaceRules
	}

	integral, ok := applySuffix(name, rules)
	if !ok {
		return Undefined, fmt.Errorf("%w: cannot obtain integral unit for base unit %q", ErrUnitNotFound, name)
	}
	iu, err := r.Unit(integral)
	if err != nil {
		return Undefined, fmt.Errorf("integral of base unit %q: %w", name, err)
	}
	return iu, nil
}

func applySuffix(name string, rules []suffixRule) (string, bool) {
	for _, rule := range rules {
		// the suffix alone is not a unit name
		if len(name) > len(rule.suffix) && strings.HasSuffix(name, rule.suffix) {
			return strings.TrimSuffix(name, rule.suffix) + rule.replace, true
		}
	}
	return "", false
}

// ReplaceUnitWithIntegralUnit rewrites the bracketed unit in a label such
// as "Heat flux [W/m2]" to its time-integral unit ("Heat flux [J/m2]").
func (r *Registry) ReplaceUnitWithIntegralUnit(label string) (string, error) {
	open := strings.IndexByte(label, '[')
	closing := strings.IndexByte(label, ']')
	if open < 0 || closing < 0 || open > closing {
		return "", fmt.Errorf("%w: expected [<unit>] within %q", ErrMalformedInput, label)
	}
	u, err := r.Unit(label[open+1 : closing])
	if err != nil {
		return "", fmt.Errorf("unit in %q: %w", label, err)
	}
	iu, err := r.IntegralUnit(u, false, true)
	if err != nil {
		return "", fmt.Errorf("time integral for %q: %w", label, err)
	}
	return label[:open+1] + r.Name(iu) + label[closing:], nil
}
