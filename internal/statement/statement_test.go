package statement

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/sistemascrenat/liquidaciones-sub000/internal/settlement/domain"
	"github.com/stretchr/testify/assert"
)

func TestFormatCLP(t *testing.T) {
	assert.Equal(t, "$ 0", FormatCLP(0))
	assert.Equal(t, "$ 999", FormatCLP(999))
	assert.Equal(t, "$ 50.000", FormatCLP(50000))
	assert.Equal(t, "$ 1.250.000", FormatCLP(1250000))
	assert.Equal(t, "$ -125.000", FormatCLP(-125000))
}

func TestBuildMapsAggregate(t *testing.T) {
	agg := domain.Aggregate{
		Key:              "P1",
		ProfessionalName: "Juan Pérez",
		Casos:            2,
		Total:            125000,
		PendientesCount:  1,
		Status:           domain.StatusPending,
		Lines: []domain.Line{
			{DateISO: "2025-03-12", ClinicName: "Clínica Alemana", ProcedureName: "Apendicectomía", RoleID: "cirujano", Amount: 125000},
			{DateISO: "2025-03-20", RoleID: "cirujano", Pending: true, PendingReasons: []string{"clinica no mapeada: X"}},
		},
	}

	data := Build("2025-03", "2025-04-01", agg)
	assert.Equal(t, "Juan Pérez", data.ProfessionalName)
	assert.Equal(t, "$ 125.000", data.Total)
	assert.Equal(t, 1, data.Pendientes)
	assert.Len(t, data.Lines, 2)
	assert.Equal(t, "clinica no mapeada: X", data.Lines[1].Reasons)
}

func TestGenerateStatementProducesPDF(t *testing.T) {
	agg := domain.Aggregate{
		Key:              "P1",
		ProfessionalName: "Juan Pérez",
		Casos:            1,
		Total:            50000,
		Status:           domain.StatusOK,
		Lines: []domain.Line{
			{DateISO: "2025-03-12", ClinicName: "Clínica Alemana", ProcedureName: "Apendicectomía", RoleID: "cirujano", Amount: 50000},
		},
	}

	reader, err := New().GenerateStatement(context.Background(), Build("2025-03", "2025-04-01", agg))
	assert.NoError(t, err)

	doc, err := io.ReadAll(reader)
	assert.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
}
