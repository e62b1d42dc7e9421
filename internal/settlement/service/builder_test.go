package service

import (
	"testing"

	catalogdomain "github.com/sistemascrenat/liquidaciones-sub000/internal/catalog/domain"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/production/normalizer"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/settlement/domain"
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
				Honoraria: map[string]int64{
					"cirujano":    50000,
					"anestesista": 30000,
				},
			},
		}},
	}

	snap, collisions := catalogdomain.NewSnapshot(
		[]*catalogdomain.Role{
			{ID: "cirujano", Name: "Cirujano"},
			{ID: "anestesista", Name: "Anestesista"},
		},
		[]*catalogdomain.Clinic{
			{ID: "CL1", Name: "Clínica Alemana"},
			{ID: "C001", Name: "Clínica del Sur"},
		},
		[]*catalogdomain.Professional{
			{ID: "P1", Name: "Juan Pérez"},
			{ID: "P2", Name: "María Soto"},
		},
		[]*catalogdomain.Procedure{
			{ID: "PR1", Code: "18.02.045", Name: "Apendicectomía", Tariffs: datatypes.NewJSONType(table)},
		},
	)
	assert.Empty(t, collisions)
	return snap
}

func item(recordID string, occ ...normalizer.Occupant) normalizer.Item {
	return normalizer.Item{
		RecordID:    recordID,
		DateISO:     "2025-03-12",
		ClinicID:    "CL1",
		ProcedureID: "PR1",
		PatientType: "Fonasa",
		Occupants:   occ,
	}
}

func TestBuildSkipsVoidedAndEmptyItems(t *testing.T) {
	snap := testSnapshot(t)

	voided := item("r1", normalizer.Occupant{RoleID: "cirujano", ProfessionalID: "P1"})
	voided.Voided = true
	empty := item("r2")

	lines := Build([]normalizer.Item{voided, empty}, snap)
	assert.Empty(t, lines)
}

func TestBuildResolvesAndPrices(t *testing.T) {
	snap := testSnapshot(t)

	it := item("r1",
		normalizer.Occupant{RoleID: "cirujano", ProfessionalID: "P1"},
		normalizer.Occupant{RoleID: "anestesista", Name: "María Soto"},
	)
	// Name-only references resolve through the normalized name index.
	it.ClinicID = ""
	it.ClinicName = "clinica alemana"

	lines := Build([]normalizer.Item{it}, snap)
	assert.Len(t, lines, 2)

	surgeon := lines[0]
	assert.Equal(t, "CL1", surgeon.ClinicID)
	assert.Equal(t, "Clínica Alemana", surgeon.ClinicName)
	assert.Equal(t, "Apendicectomía", surgeon.ProcedureName)
	assert.Equal(t, tariff.PatientFonasa, surgeon.PatientType)
	assert.Equal(t, "P1", surgeon.Key)
	assert.Equal(t, int64(50000), surgeon.Amount)
	assert.False(t, surgeon.Pending)
	assert.Empty(t, surgeon.PendingReasons)

	anesthetist := lines[1]
	assert.Equal(t, "P2", anesthetist.Key)
	assert.Equal(t, int64(30000), anesthetist.Amount)
	assert.False(t, anesthetist.Pending)
}

func TestBuildUnmappedReferences(t *testing.T) {
	snap := testSnapshot(t)

	it := normalizer.Item{
		RecordID:      "r1",
		DateISO:       "2025-03-12",
		ClinicName:    "Clinica Fantasma",
		ProcedureName: "Lobotomía",
		Occupants:     []normalizer.Occupant{{RoleID: "cirujano", ProfessionalID: "P1"}},
	}

	lines := Build([]normalizer.Item{it}, snap)
	assert.Len(t, lines, 1)

	line := lines[0]
	assert.True(t, line.Pending)
	assert.Equal(t, int64(0), line.Amount)
	assert.Equal(t, []string{
		"clinica no mapeada: Clinica Fantasma",
		"procedimiento no mapeado: Lobotomía",
		"tipo de paciente vacio",
	}, line.PendingReasons)
	// Identity still resolved even when the case itself cannot be priced.
	assert.Equal(t, "P1", line.Key)
}

func TestBuildClinicWithoutTariff(t *testing.T) {
	snap := testSnapshot(t)

	it := item("r1", normalizer.Occupant{RoleID: "cirujano", ProfessionalID: "P1"})
	it.ClinicID = "C001"

	lines := Build([]normalizer.Item{it}, snap)
	assert.Len(t, lines, 1)

	line := lines[0]
	assert.True(t, line.Pending)
	assert.Equal(t, int64(0), line.Amount)
	assert.Len(t, line.PendingReasons, 1)
	assert.Contains(t, line.PendingReasons[0], "C001")
}

func TestBuildUnknownProfessionalKeyedByNormalizedName(t *testing.T) {
	snap := testSnapshot(t)

	it := item("r1", normalizer.Occupant{RoleID: "cirujano", Name: "Dr. Zóilo Pinto"})

	lines := Build([]normalizer.Item{it}, snap)
	assert.Len(t, lines, 1)

	line := lines[0]
	assert.Equal(t, "dr. zoilo pinto", line.Key)
	assert.Equal(t, "Dr. Zóilo Pinto", line.ProfessionalName)
	// The honorarium was priced; only the identity is pending.
	assert.Equal(t, int64(50000), line.Amount)
	assert.True(t, line.Pending)
	assert.Contains(t, line.PendingReasons[0], "Dr. Zóilo Pinto")
}

func TestAggregateSumsAndOrders(t *testing.T) {
	lines := []domain.Line{
		{Key: "P1", ProfessionalID: "P1", ProfessionalName: "Juan Pérez", Amount: 50000},
		{Key: "P3", ProfessionalID: "P3", ProfessionalName: "Sin Tarifa", Amount: 0, Pending: true, PendingReasons: []string{"sin tarifa para clinica C001"}},
		{Key: "P1", ProfessionalID: "P1", ProfessionalName: "Juan Pérez", Amount: 75000},
		{Key: "P2", ProfessionalID: "P2", ProfessionalName: "María Soto", Amount: 30000},
	}

	aggregates := Aggregate(lines)
	assert.Len(t, aggregates, 3)

	// ok aggregates first, ordered by total descending; pending ones last.
	assert.Equal(t, "P1", aggregates[0].Key)
	assert.Equal(t, 2, aggregates[0].Casos)
	assert.Equal(t, int64(125000), aggregates[0].Total)
	assert.Equal(t, domain.StatusOK, aggregates[0].Status)
	assert.Equal(t, 0, aggregates[0].PendientesCount)

	assert.Equal(t, "P2", aggregates[1].Key)
	assert.Equal(t, domain.StatusOK, aggregates[1].Status)

	assert.Equal(t, "P3", aggregates[2].Key)
	assert.Equal(t, domain.StatusPending, aggregates[2].Status)
	assert.Equal(t, 1, aggregates[2].PendientesCount)
}

func TestAggregateStatusFollowsLines(t *testing.T) {
	lines := []domain.Line{
		{Key: "P1", Amount: 50000},
		{Key: "P1", Amount: 0, Pending: true, PendingReasons: []string{"tipo de paciente vacio"}},
	}

	aggregates := Aggregate(lines)
	assert.Len(t, aggregates, 1)
	assert.Equal(t, domain.StatusPending, aggregates[0].Status)
	assert.Equal(t, 1, aggregates[0].PendientesCount)
	assert.Equal(t, int64(50000), aggregates[0].Total)
}
