package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeFieldSynonyms(t *testing.T) {
	rules := DefaultRules()

	item := rules.Normalize("r1", map[string]any{
		"fechaISO":      "2025-03-15",
		"clinicaId":     "C001",
		"procedimiento": "Apendicectomía",
		"tipoPaciente":  "fonasa",
	})
	assert.Equal(t, "r1", item.RecordID)
	assert.Equal(t, "2025-03-15", item.DateISO)
	assert.Equal(t, "C001", item.ClinicID)
	assert.Equal(t, "Apendicectomía", item.ProcedureName)
	assert.Equal(t, "fonasa", item.PatientType)
	assert.False(t, item.Voided)
}

func TestNormalizeLegacyDateAndFields(t *testing.T) {
	rules := DefaultRules()

	item := rules.Normalize("r2", map[string]any{
		"fecha":     "15/03/2025",
		"clinica":   "Clínica Alemana",
		"cirugia":   "Hernia inguinal",
		"prevision": "Isapre",
		"anulada":   true,
	})
	assert.Equal(t, "2025-03-15", item.DateISO)
	assert.Equal(t, "Clínica Alemana", item.ClinicName)
	assert.Empty(t, item.ClinicID)
	assert.Equal(t, "Hernia inguinal", item.ProcedureName)
	assert.Equal(t, "Isapre", item.PatientType)
	assert.True(t, item.Voided)
}

func TestNormalizeSynonymOrder(t *testing.T) {
	rules := DefaultRules()

	// fechaISO outranks fecha; procedimiento outranks cirugia.
	item := rules.Normalize("r3", map[string]any{
		"fechaISO":      "2025-01-02",
		"fecha":         "31/12/2024",
		"procedimiento": "Colecistectomía",
		"cirugia":       "otra",
	})
	assert.Equal(t, "2025-01-02", item.DateISO)
	assert.Equal(t, "Colecistectomía", item.ProcedureName)
}

func TestNormalizeUnparseableDate(t *testing.T) {
	item := DefaultRules().Normalize("r4", map[string]any{"fecha": "marzo 15"})
	assert.Empty(t, item.DateISO)
}

func TestExtractOccupantsNestedMap(t *testing.T) {
	item := DefaultRules().Normalize("r5", map[string]any{
		"cirujano": map[string]any{"id": "P10", "nombre": "Dr. Pérez"},
		"anestesista": map[string]any{"nombre": "Dra. Soto"},
	})
	assert.Len(t, item.Occupants, 2)
	assert.Equal(t, Occupant{RoleID: "cirujano", ProfessionalID: "P10", Name: "Dr. Pérez"}, item.Occupants[0])
	assert.Equal(t, Occupant{RoleID: "anestesista", Name: "Dra. Soto"}, item.Occupants[1])
}

func TestExtractOccupantsParallelIDAndLegacyFlat(t *testing.T) {
	item := DefaultRules().Normalize("r6", map[string]any{
		"cirujanoId": "P20",
		"arsenalera": "María López",
	})
	assert.Len(t, item.Occupants, 2)
	assert.Equal(t, Occupant{RoleID: "cirujano", ProfessionalID: "P20"}, item.Occupants[0])
	assert.Equal(t, Occupant{RoleID: "arsenalera", Name: "María López"}, item.Occupants[1])
}

func TestExtractOccupantsAbsentSlotsEmitNothing(t *testing.T) {
	item := DefaultRules().Normalize("r7", map[string]any{
		"fechaISO": "2025-03-01",
	})
	assert.Empty(t, item.Occupants)
}

func TestOccupantSlotOrderIsFixed(t *testing.T) {
	item := DefaultRules().Normalize("r8", map[string]any{
		"arsenalera":  "A",
		"cirujano":    "B",
		"anestesista": "C",
	})
	roles := []string{}
	for _, o := range item.Occupants {
		roles = append(roles, o.RoleID)
	}
	assert.Equal(t, []string{"cirujano", "anestesista", "arsenalera"}, roles)
}

func TestAsInt64Coercion(t *testing.T) {
	assert.Equal(t, int64(45000), AsInt64(float64(45000)))
	assert.Equal(t, int64(45000), AsInt64("45000"))
	assert.Equal(t, int64(45000), AsInt64("45.000"))
	assert.Equal(t, int64(0), AsInt64("no es numero"))
	assert.Equal(t, int64(0), AsInt64(nil))
}
