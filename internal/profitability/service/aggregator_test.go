package service

import (
	"testing"

	catalogdomain "github.com/sistemascrenat/liquidaciones-sub000/internal/catalog/domain"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/production/normalizer"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/profitability/domain"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/tariff"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func testSnapshot(t *testing.T) *catalogdomain.Snapshot {
	t.Helper()

	table := tariff.Table{
		"CL1": {Patients: map[string]tariff.Entry{
			"fonasa": {
				Price:       400000,
				PavilionFee: 120000,
				SuppliesFee: 30000,
				Honoraria:   map[string]int64{"cirujano": 50000, "anestesista": 30000},
			},
			"particular_isapre": {
				// Costed but never priced.
				PavilionFee: 90000,
				Honoraria:   map[string]int64{"cirujano": 60000},
			},
		}},
	}

	snap, collisions := catalogdomain.NewSnapshot(
		nil,
		[]*catalogdomain.Clinic{{ID: "CL1", Name: "Clínica Alemana"}},
		nil,
		[]*catalogdomain.Procedure{
			{ID: "PR1", Name: "Apendicectomía", Tariffs: datatypes.NewJSONType(table)},
		},
	)
	assert.Empty(t, collisions)
	return snap
}

func TestBuildFactsComputesEconomics(t *testing.T) {
	snap := testSnapshot(t)

	items := []normalizer.Item{
		{RecordID: "r1", DateISO: "2025-03-10", ClinicID: "CL1", ProcedureID: "PR1", PatientType: "Fonasa"},
		{RecordID: "r2", DateISO: "2025-03-11", ClinicID: "CL1", ProcedureID: "PR1", PatientType: "Isapre"},
		{RecordID: "r3", DateISO: "2025-03-12", ClinicName: "Otra Parte", ProcedureName: "Otra Cosa"},
		{RecordID: "r4", Voided: true, ClinicID: "CL1", ProcedureID: "PR1", PatientType: "fonasa"},
	}

	facts := BuildFacts(items, snap)
	assert.Len(t, facts, 3)

	priced := facts[0]
	assert.Equal(t, int64(400000), priced.Revenue)
	// Cost sums every honorarium in the map plus pavilion and supplies.
	assert.Equal(t, int64(230000), priced.Cost)
	assert.Equal(t, int64(170000), priced.Profit)
	assert.NotNil(t, priced.Margin)
	assert.InDelta(t, 42.5, *priced.Margin, 0.001)
	assert.False(t, priced.TariffIncomplete)

	unpriced := facts[1]
	assert.Equal(t, int64(0), unpriced.Revenue)
	assert.Equal(t, int64(150000), unpriced.Cost)
	assert.Equal(t, int64(-150000), unpriced.Profit)
	// No revenue means no margin, never a computed zero.
	assert.Nil(t, unpriced.Margin)
	assert.False(t, unpriced.TariffIncomplete)

	unmapped := facts[2]
	assert.Equal(t, int64(0), unmapped.Revenue)
	assert.Equal(t, int64(0), unmapped.Cost)
	assert.Nil(t, unmapped.Margin)
	assert.True(t, unmapped.TariffIncomplete)
}

func TestFilterBoundsTypesAndQuery(t *testing.T) {
	facts := []domain.Fact{
		{RecordID: "r1", DateISO: "2025-03-05", ClinicName: "Clínica Alemana", ProcedureName: "Apendicectomía", PatientType: "fonasa"},
		{RecordID: "r2", DateISO: "2025-03-15", ClinicName: "Clínica Alemana", ProcedureName: "Colecistectomía", PatientType: "particular_isapre"},
		{RecordID: "r3", DateISO: "2025-03-25", ClinicName: "Clínica del Sur", ProcedureName: "Apendicectomía", PatientType: "mle"},
	}

	kept := Filter(facts, domain.Filters{FromISO: "2025-03-10", ToISO: "2025-03-20", Types: domain.AllTypes()})
	assert.Len(t, kept, 1)
	assert.Equal(t, "r2", kept[0].RecordID)

	kept = Filter(facts, domain.Filters{Types: domain.TypesFrom([]string{"fonasa", "mle"})})
	assert.Len(t, kept, 2)

	kept = Filter(facts, domain.Filters{Types: domain.AllTypes(), Query: "apendice, alemana-sur"})
	assert.Len(t, kept, 2)
	assert.Equal(t, "r1", kept[0].RecordID)
	assert.Equal(t, "r3", kept[1].RecordID)
}

func TestSummarizeRankingsFromTotals(t *testing.T) {
	facts := []domain.Fact{
		{ProcedureName: "Apendicectomía", ClinicName: "Alemana", PatientType: "fonasa", Revenue: 400000, Cost: 230000, Profit: 170000},
		{ProcedureName: "Apendicectomía", ClinicName: "Alemana", PatientType: "fonasa", Revenue: 400000, Cost: 280000, Profit: 120000},
		{ProcedureName: "Colecistectomía", ClinicName: "Del Sur", PatientType: "mle", Revenue: 600000, Cost: 200000, Profit: 400000},
		{ProcedureName: "", ClinicName: "", TariffIncomplete: true},
	}

	kpis, procedures, clinics, patientMix := Summarize(facts)

	assert.Equal(t, 4, kpis.Casos)
	assert.Equal(t, int64(1400000), kpis.Revenue)
	assert.Equal(t, int64(690000), kpis.Profit)
	assert.Equal(t, 1, kpis.TariffIncomplete)
	assert.NotNil(t, kpis.Margin)

	assert.Equal(t, "Colecistectomía", procedures[0].Name)
	assert.Equal(t, "Apendicectomía", procedures[1].Name)
	assert.Equal(t, "(sin mapear)", procedures[2].Name)

	apendice := procedures[1]
	assert.Equal(t, 2, apendice.Casos)
	assert.Equal(t, int64(800000), apendice.Revenue)
	assert.Equal(t, int64(290000), apendice.Profit)
	// 290000/800000, recomputed from sums rather than averaging 42.5 and 30.
	assert.InDelta(t, 36.25, *apendice.Margin, 0.001)

	unmapped := procedures[2]
	assert.Nil(t, unmapped.Margin)

	assert.Equal(t, "Del Sur", clinics[0].Name)

	assert.Equal(t, "fonasa", patientMix[0].PatientType)
	assert.Equal(t, 2, patientMix[0].Casos)
	assert.Len(t, patientMix, 3)
}
