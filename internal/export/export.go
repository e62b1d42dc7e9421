// Package export serializes settlement results for download: CSV for
// spreadsheet-bound reconciliation and XLSX with summary and detail sheets.
// Amounts are written as plain integers so they survive a re-import intact.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/gosimple/slug"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/settlement/domain"
	"github.com/xuri/excelize/v2"
)

// SummaryHeaders is the stable column contract of the per-professional
// summary. Order matters to downstream spreadsheets.
var SummaryHeaders = []string{"profesional", "casos", "total", "pendientes", "estado"}

// DetailHeaders is the stable column contract of the per-line detail.
var DetailHeaders = []string{"fecha", "clinica", "procedimiento", "tipoPaciente", "rol", "profesional", "monto", "estado", "motivos"}

// SummaryCSV renders one row per aggregate.
func SummaryCSV(result *domain.Result) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(SummaryHeaders); err != nil {
		return nil, err
	}
	for _, agg := range result.Aggregates {
		row := []string{
			agg.ProfessionalName,
			strconv.Itoa(agg.Casos),
			strconv.FormatInt(agg.Total, 10),
			strconv.Itoa(agg.PendientesCount),
			agg.Status,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// DetailCSV renders one row per settlement line, pending reasons joined.
func DetailCSV(result *domain.Result) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(DetailHeaders); err != nil {
		return nil, err
	}
	for _, line := range result.Lines {
		if err := w.Write(detailRow(line)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func detailRow(line domain.Line) []string {
	status := domain.StatusOK
	if line.Pending {
		status = domain.StatusPending
	}
	return []string{
		line.DateISO,
		line.ClinicName,
		line.ProcedureName,
		line.PatientType,
		line.RoleID,
		line.ProfessionalName,
		strconv.FormatInt(line.Amount, 10),
		status,
		strings.Join(line.PendingReasons, "; "),
	}
}

// Workbook renders the result as an XLSX file with a Resumen sheet of
// aggregates and a Detalle sheet of lines.
func Workbook(result *domain.Result) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const summarySheet = "Resumen"
	const detailSheet = "Detalle"

	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(detailSheet); err != nil {
		return nil, err
	}

	if err := writeRow(f, summarySheet, 1, SummaryHeaders); err != nil {
		return nil, err
	}
	for i, agg := range result.Aggregates {
		row := []interface{}{agg.ProfessionalName, agg.Casos, agg.Total, agg.PendientesCount, agg.Status}
		if err := writeRow(f, summarySheet, i+2, row); err != nil {
			return nil, err
		}
	}

	if err := writeRow(f, detailSheet, 1, DetailHeaders); err != nil {
		return nil, err
	}
	for i, line := range result.Lines {
		status := domain.StatusOK
		if line.Pending {
			status = domain.StatusPending
		}
		row := []interface{}{
			line.DateISO,
			line.ClinicName,
			line.ProcedureName,
			line.PatientType,
			line.RoleID,
			line.ProfessionalName,
			line.Amount,
			status,
			strings.Join(line.PendingReasons, "; "),
		}
		if err := writeRow(f, detailSheet, i+2, row); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeRow[T any](f *excelize.File, sheet string, row int, values []T) error {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return err
		}
	}
	return nil
}

// Filename builds a download name like "liquidacion-2025-03.csv".
func Filename(prefix string, year, month int, ext string) string {
	return fmt.Sprintf("%s-%s.%s", slug.Make(prefix), domain.PeriodKey(year, month), ext)
}
