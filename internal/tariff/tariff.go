// Package tariff holds the nested per-clinic/per-patient-type pricing
// structure owned by each procedure, and the honorarium lookup over it.
package tariff

import (
	"fmt"
	"strings"

	"github.com/sistemascrenat/liquidaciones-sub000/pkg/textnorm"
)

// Canonical patient types. Private insurance and self-pay share one tariff
// category; the merge is applied on lookup, not on stored data.
const (
	PatientFonasa           = "fonasa"
	PatientMLE              = "mle"
	PatientParticularIsapre = "particular_isapre"
)

// Entry prices one procedure at one clinic for one patient type.
// Amounts are integer CLP. A zero value means "not configured": the source
// system never distinguished a waived fee from an unpriced one, and neither
// do we.
type Entry struct {
	Price       int64            `json:"precio"`
	PavilionFee int64            `json:"derechoPabellon"`
	SuppliesFee int64            `json:"insumos"`
	Honoraria   map[string]int64 `json:"honorarios"`
}

// ClinicTariff groups the per-patient-type entries of a single clinic.
type ClinicTariff struct {
	Patients map[string]Entry `json:"pacientes"`
}

// Table maps clinic id to that clinic's tariff entries. An absent clinic or
// patient type means "no tariff defined", which is distinct from an entry
// whose amounts are zero.
type Table map[string]ClinicTariff

// Result is the outcome of an honorarium lookup. Reason is set exactly when
// Found is false and names the navigation layer that failed.
type Result struct {
	Found  bool
	Amount int64
	Reason string
}

func notFound(reason string) Result {
	return Result{Reason: reason}
}

// NormalizePatientType maps free-text billing categories onto the canonical
// set. Unknown input maps to "". Idempotent over its own outputs.
func NormalizePatientType(raw string) string {
	v := textnorm.Normalize(raw)
	if v == "" {
		return ""
	}
	switch {
	case strings.Contains(v, "isapre"), strings.Contains(v, "particular"):
		return PatientParticularIsapre
	case strings.Contains(v, "fona"):
		return PatientFonasa
	case strings.Contains(v, "mle"):
		return PatientMLE
	default:
		return ""
	}
}

// LookupHonorarium resolves the fee owed to roleID for the given clinic and
// patient type. Every navigation failure yields a specific reason; a zero or
// missing honorarium is "not found", never silently zero pay.
func LookupHonorarium(t Table, clinicID, patientType, roleID string) Result {
	if len(t) == 0 {
		return notFound("procedimiento sin tarifario")
	}
	clinic, ok := t[clinicID]
	if !ok {
		return notFound(fmt.Sprintf("sin tarifa para clinica %s", clinicID))
	}
	pt := NormalizePatientType(patientType)
	entry, ok := clinic.Patients[pt]
	if !ok {
		return notFound(fmt.Sprintf("sin tarifa para tipo de paciente %s", patientType))
	}
	if len(entry.Honoraria) == 0 {
		return notFound("tarifa sin honorarios definidos")
	}
	amount := entry.Honoraria[roleID]
	if amount <= 0 {
		return notFound(fmt.Sprintf("honorario cero o ausente para rol %s", roleID))
	}
	return Result{Found: true, Amount: amount}
}

// FindEntry returns the tariff entry for a clinic/patient-type pair, if any.
func FindEntry(t Table, clinicID, patientType string) (Entry, bool) {
	clinic, ok := t[clinicID]
	if !ok {
		return Entry{}, false
	}
	entry, ok := clinic.Patients[NormalizePatientType(patientType)]
	return entry, ok
}

// EntryCost sums every cost component of an entry: all honoraria present in
// the map regardless of which roles the procedure officially recognizes,
// plus pavilion rights and supplies. The unfiltered honoraria sum is an
// intentional simplification carried over from the source system.
func EntryCost(e Entry) int64 {
	var cost int64
	for _, h := range e.Honoraria {
		cost += h
	}
	return cost + e.PavilionFee + e.SuppliesFee
}
