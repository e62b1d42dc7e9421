package export

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"testing"

	"github.com/sistemascrenat/liquidaciones-sub000/internal/settlement/domain"
	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"
)

func testResult() *domain.Result {
	lines := []domain.Line{
		{DateISO: "2025-03-12", ClinicName: "Clínica Alemana", ProcedureName: "Apendicectomía", PatientType: "fonasa", RoleID: "cirujano", ProfessionalName: "Juan Pérez", Key: "P1", Amount: 50000},
		{DateISO: "2025-03-18", ClinicName: "Clínica Alemana", ProcedureName: "Colecistectomía", PatientType: "fonasa", RoleID: "cirujano", ProfessionalName: "Juan Pérez", Key: "P1", Amount: 75000},
		{DateISO: "2025-03-20", ClinicName: "Clínica, \"La Esperanza\"", RoleID: "anestesista", ProfessionalName: "María Soto", Key: "P2", Pending: true, PendingReasons: []string{"procedimiento no mapeado: Lobotomía", "tipo de paciente vacio"}},
	}
	return &domain.Result{
		Year:  2025,
		Month: 3,
		Lines: lines,
		Aggregates: []domain.Aggregate{
			{Key: "P1", ProfessionalName: "Juan Pérez", Casos: 2, Total: 125000, Status: domain.StatusOK, Lines: lines[:2]},
			{Key: "P2", ProfessionalName: "María Soto", Casos: 1, Total: 0, PendientesCount: 1, Status: domain.StatusPending, Lines: lines[2:]},
		},
		Total:      125000,
		Pendientes: 1,
	}
}

func TestSummaryCSVRoundTrip(t *testing.T) {
	result := testResult()

	data, err := SummaryCSV(result)
	assert.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	assert.NoError(t, err)
	assert.Len(t, records, 3)
	assert.Equal(t, SummaryHeaders, records[0])

	// String-formatted amounts parse back to the same integers.
	for i, agg := range result.Aggregates {
		row := records[i+1]
		assert.Equal(t, agg.ProfessionalName, row[0])
		total, err := strconv.ParseInt(row[2], 10, 64)
		assert.NoError(t, err)
		assert.Equal(t, agg.Total, total)
		assert.Equal(t, agg.Status, row[4])
	}
}

func TestDetailCSVEscapesAndJoinsReasons(t *testing.T) {
	result := testResult()

	data, err := DetailCSV(result)
	assert.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	assert.NoError(t, err)
	assert.Len(t, records, 4)

	pendingRow := records[3]
	// Embedded comma and quotes in the clinic name survive the round trip.
	assert.Equal(t, "Clínica, \"La Esperanza\"", pendingRow[1])
	assert.Equal(t, "pending", pendingRow[7])
	assert.Equal(t, "procedimiento no mapeado: Lobotomía; tipo de paciente vacio", pendingRow[8])
}

func TestWorkbookSheets(t *testing.T) {
	result := testResult()

	data, err := Workbook(result)
	assert.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	assert.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Resumen", "Detalle"}, f.GetSheetList())

	name, err := f.GetCellValue("Resumen", "A2")
	assert.NoError(t, err)
	assert.Equal(t, "Juan Pérez", name)

	total, err := f.GetCellValue("Resumen", "C2")
	assert.NoError(t, err)
	assert.Equal(t, "125000", total)

	rows, err := f.GetRows("Detalle")
	assert.NoError(t, err)
	assert.Len(t, rows, 4)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "liquidacion-2025-03.csv", Filename("Liquidación", 2025, 3, "csv"))
	assert.Equal(t, "rentabilidad-2024-12.xlsx", Filename("rentabilidad", 2024, 12, "xlsx"))
}
