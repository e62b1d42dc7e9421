package tariff

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleTable() Table {
	return Table{
		"CL01": ClinicTariff{
			Patients: map[string]Entry{
				PatientFonasa: {
					Price:       450000,
					PavilionFee: 120000,
					SuppliesFee: 30000,
					Honoraria: map[string]int64{
						"cirujano":    150000,
						"anestesista": 80000,
						"arsenalera":  0,
					},
				},
				PatientParticularIsapre: {
					Price:     900000,
					Honoraria: map[string]int64{"cirujano": 300000},
				},
			},
		},
		"CL02": ClinicTariff{},
	}
}

func TestNormalizePatientType(t *testing.T) {
	cases := map[string]string{
		"Fonasa":            PatientFonasa,
		"FONASA nivel 3":    PatientFonasa,
		"Isapre":            PatientParticularIsapre,
		"Particular":        PatientParticularIsapre,
		"particular_isapre": PatientParticularIsapre,
		"MLE":               PatientMLE,
		"Pago MLE":          PatientMLE,
		"":                  "",
		"desconocido":       "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizePatientType(in), "input %q", in)
	}
}

func TestNormalizePatientTypeIdempotent(t *testing.T) {
	inputs := []string{"Fonasa", "Isapre", "Particular", "MLE", "", "otro"}
	for _, in := range inputs {
		once := NormalizePatientType(in)
		assert.Equal(t, once, NormalizePatientType(once), "input %q", in)
	}
}

func TestLookupHonorariumFound(t *testing.T) {
	res := LookupHonorarium(sampleTable(), "CL01", "fonasa", "cirujano")
	assert.True(t, res.Found)
	assert.Equal(t, int64(150000), res.Amount)
	assert.Empty(t, res.Reason)
}

func TestLookupHonorariumMergesParticularIsapre(t *testing.T) {
	res := LookupHonorarium(sampleTable(), "CL01", "Isapre", "cirujano")
	assert.True(t, res.Found)
	assert.Equal(t, int64(300000), res.Amount)

	res = LookupHonorarium(sampleTable(), "CL01", "Particular", "cirujano")
	assert.True(t, res.Found)
	assert.Equal(t, int64(300000), res.Amount)
}

func TestLookupHonorariumFailureReasons(t *testing.T) {
	table := sampleTable()

	res := LookupHonorarium(nil, "CL01", "fonasa", "cirujano")
	assert.False(t, res.Found)
	assert.Equal(t, "procedimiento sin tarifario", res.Reason)

	// Clinic absent from the table: reason must name the clinic id.
	res = LookupHonorarium(table, "C001", "fonasa", "cirujano")
	assert.False(t, res.Found)
	assert.Contains(t, res.Reason, "C001")

	res = LookupHonorarium(table, "CL02", "fonasa", "cirujano")
	assert.False(t, res.Found)
	assert.Contains(t, res.Reason, "tipo de paciente")

	res = LookupHonorarium(table, "CL01", "mle", "cirujano")
	assert.False(t, res.Found)
	assert.Contains(t, res.Reason, "tipo de paciente")
}

func TestLookupHonorariumZeroIsNotFound(t *testing.T) {
	res := LookupHonorarium(sampleTable(), "CL01", "fonasa", "arsenalera")
	assert.False(t, res.Found)
	assert.Zero(t, res.Amount)
	assert.Contains(t, res.Reason, "arsenalera")

	res = LookupHonorarium(sampleTable(), "CL01", "fonasa", "ayudante1")
	assert.False(t, res.Found)
	assert.Contains(t, res.Reason, "ayudante1")
}

func TestEntryCostSumsAllHonoraria(t *testing.T) {
	entry, ok := FindEntry(sampleTable(), "CL01", "fonasa")
	assert.True(t, ok)
	// 150000 + 80000 + 0 honoraria, 120000 pavilion, 30000 supplies.
	assert.Equal(t, int64(380000), EntryCost(entry))

	_, ok = FindEntry(sampleTable(), "C001", "fonasa")
	assert.False(t, ok)
}
