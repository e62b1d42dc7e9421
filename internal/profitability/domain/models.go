package domain

import "errors"

// Fact is one production case enriched with its tariff economics. Amounts
// are integer CLP; Margin is a percentage and stays nil when there is no
// revenue to divide by, never a coerced zero.
type Fact struct {
	RecordID         string   `json:"recordId"`
	DateISO          string   `json:"fecha"`
	ClinicID         string   `json:"clinicaId,omitempty"`
	ClinicName       string   `json:"clinica"`
	ProcedureID      string   `json:"procedimientoId,omitempty"`
	ProcedureName    string   `json:"procedimiento"`
	PatientType      string   `json:"tipoPaciente,omitempty"`
	Revenue          int64    `json:"ingreso"`
	Cost             int64    `json:"costo"`
	Profit           int64    `json:"utilidad"`
	Margin           *float64 `json:"margen,omitempty"`
	TariffIncomplete bool     `json:"tarifaIncompleta"`
}

// KPIs are the headline totals of a filtered period.
type KPIs struct {
	Casos            int      `json:"casos"`
	Revenue          int64    `json:"ingreso"`
	Cost             int64    `json:"costo"`
	Profit           int64    `json:"utilidad"`
	Margin           *float64 `json:"margen,omitempty"`
	TariffIncomplete int      `json:"tarifasIncompletas"`
}

// RankingRow is one procedure or clinic rollup. Margin is recomputed from
// the summed totals, not averaged across facts.
type RankingRow struct {
	Name    string   `json:"nombre"`
	Casos   int      `json:"casos"`
	Revenue int64    `json:"ingreso"`
	Cost    int64    `json:"costo"`
	Profit  int64    `json:"utilidad"`
	Margin  *float64 `json:"margen,omitempty"`
}

// MixRow is the patient-type distribution of the filtered facts.
type MixRow struct {
	PatientType string `json:"tipoPaciente"`
	Casos       int    `json:"casos"`
	Revenue     int64  `json:"ingreso"`
}

// Report is the full profitability view of a filtered period.
type Report struct {
	Year             int          `json:"anio"`
	Month            int          `json:"mes"`
	KPIs             KPIs         `json:"kpis"`
	ProcedureRanking []RankingRow `json:"rankingProcedimientos"`
	ClinicRanking    []RankingRow `json:"rankingClinicas"`
	PatientTypeMix   []MixRow     `json:"mixPacientes"`
	Facts            []Fact       `json:"casosDetalle,omitempty"`
}

var ErrInvalidPeriod = errors.New("invalid_period")
