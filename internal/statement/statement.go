// Package statement renders the per-professional settlement statement PDF
// handed to each professional at payout time.
package statement

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/settlement/domain"
)

type Data struct {
	Period           string
	GeneratedAt      string
	ProfessionalName string
	Casos            int
	Total            string
	Pendientes       int
	Status           string
	Paid             bool

	Lines []Line
}

type Line struct {
	Date        string
	Clinic      string
	Procedure   string
	PatientType string
	Role        string
	Amount      string
	Reasons     string
}

type Provider interface {
	GenerateStatement(ctx context.Context, data Data) (io.Reader, error)
}

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

// Build maps one settlement aggregate onto the statement layout.
func Build(period, generatedAt string, agg domain.Aggregate) Data {
	data := Data{
		Period:           period,
		GeneratedAt:      generatedAt,
		ProfessionalName: agg.ProfessionalName,
		Casos:            agg.Casos,
		Total:            FormatCLP(agg.Total),
		Pendientes:       agg.PendientesCount,
		Status:           agg.Status,
		Paid:             agg.Paid,
	}
	for _, line := range agg.Lines {
		data.Lines = append(data.Lines, Line{
			Date:        line.DateISO,
			Clinic:      line.ClinicName,
			Procedure:   line.ProcedureName,
			PatientType: line.PatientType,
			Role:        line.RoleID,
			Amount:      FormatCLP(line.Amount),
			Reasons:     strings.Join(line.PendingReasons, "; "),
		})
	}
	return data
}

func (p *PDFProvider) GenerateStatement(ctx context.Context, data Data) (io.Reader, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Página {current} de {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(12, "Liquidación de honorarios", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(20,
		col.New(6).Add(
			text.New("Profesional: "+data.ProfessionalName, props.Text{Top: 0, Style: fontstyle.Bold}),
			text.New("Período: "+data.Period, props.Text{Top: 5}),
			text.New("Generado: "+data.GeneratedAt, props.Text{Top: 10}),
		),
		col.New(6).Add(
			text.New(fmt.Sprintf("Casos: %d", data.Casos), props.Text{Top: 0, Align: align.Right}),
			text.New("Total: "+data.Total, props.Text{Top: 5, Align: align.Right, Style: fontstyle.Bold}),
			text.New(paymentLabel(data), props.Text{Top: 10, Align: align.Right}),
		),
	)

	if data.Pendientes > 0 {
		m.AddRow(8,
			text.NewCol(12, fmt.Sprintf("Atención: %d línea(s) pendientes de resolución manual.", data.Pendientes), props.Text{
				Size:  9,
				Style: fontstyle.Bold,
			}),
		)
	}

	m.AddRow(8,
		text.NewCol(2, "Fecha", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Clínica", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(3, "Procedimiento", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Rol", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(3, "Monto", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	for _, line := range data.Lines {
		m.AddRow(10,
			text.NewCol(2, line.Date, props.Text{Size: 9}),
			text.NewCol(2, line.Clinic, props.Text{Size: 9}),
			text.NewCol(3, line.Procedure, props.Text{Size: 9}),
			text.NewCol(2, line.Role, props.Text{Size: 9}),
			text.NewCol(3, line.Amount, props.Text{Size: 9, Align: align.Right}),
		)
		if line.Reasons != "" {
			m.AddRow(6,
				col.New(2),
				text.NewCol(10, "Pendiente: "+line.Reasons, props.Text{Size: 8}),
			)
		}
	}

	m.AddRow(12,
		col.New(7),
		text.NewCol(2, "Total", props.Text{Style: fontstyle.Bold, Size: 10}),
		text.NewCol(3, data.Total, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}

func paymentLabel(data Data) string {
	if data.Paid {
		return "Estado: pagado"
	}
	return "Estado: " + data.Status
}

// FormatCLP renders an integer peso amount with dot thousands separators.
func FormatCLP(amount int64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}
	digits := fmt.Sprintf("%d", amount)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	if negative {
		return "$ -" + b.String()
	}
	return "$ " + b.String()
}
