package domain

import (
	"sort"

	"github.com/sistemascrenat/liquidaciones-sub000/internal/tariff"
)

// TypeSet is the patient-type allow-set of the profitability view. It can
// never be emptied: a toggle that would remove the last enabled type is a
// no-op, so the dashboard always shows something.
type TypeSet struct {
	enabled map[string]bool
}

// AllTypes returns a set with every canonical patient type enabled.
func AllTypes() TypeSet {
	return TypeSet{enabled: map[string]bool{
		tariff.PatientFonasa:           true,
		tariff.PatientMLE:              true,
		tariff.PatientParticularIsapre: true,
	}}
}

// TypesFrom builds a set from an explicit list of canonical types. Unknown
// names are ignored; an effectively empty list yields the full set.
func TypesFrom(types []string) TypeSet {
	set := TypeSet{enabled: map[string]bool{}}
	for _, pt := range types {
		if canonical := tariff.NormalizePatientType(pt); canonical != "" {
			set.enabled[canonical] = true
		}
	}
	if len(set.enabled) == 0 {
		return AllTypes()
	}
	return set
}

// Toggle flips one patient type and returns the resulting set. Disabling
// the last enabled type is refused.
func (s TypeSet) Toggle(pt string) TypeSet {
	canonical := tariff.NormalizePatientType(pt)
	if canonical == "" {
		return s
	}
	next := TypeSet{enabled: make(map[string]bool, len(s.enabled))}
	for k, v := range s.enabled {
		next.enabled[k] = v
	}
	if next.enabled[canonical] {
		if len(next.Enabled()) == 1 {
			return s
		}
		delete(next.enabled, canonical)
	} else {
		next.enabled[canonical] = true
	}
	return next
}

// Allows reports whether the raw patient type passes the filter. Facts
// without a recognizable type are always kept; the filter narrows known
// categories, it does not hide dirty data.
func (s TypeSet) Allows(raw string) bool {
	canonical := tariff.NormalizePatientType(raw)
	if canonical == "" {
		return true
	}
	return s.enabled[canonical]
}

// Enabled lists the enabled types in stable order.
func (s TypeSet) Enabled() []string {
	types := make([]string, 0, len(s.enabled))
	for pt, on := range s.enabled {
		if on {
			types = append(types, pt)
		}
	}
	sort.Strings(types)
	return types
}

// Filters narrows the fact set before aggregation. Date bounds are
// inclusive ISO strings; empty bounds are open.
type Filters struct {
	FromISO string
	ToISO   string
	Types   TypeSet
	Query   string
}
