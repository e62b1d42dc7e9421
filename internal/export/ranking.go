package export

import (
	"bytes"
	"encoding/csv"
	"strconv"

	profitabilitydomain "github.com/sistemascrenat/liquidaciones-sub000/internal/profitability/domain"
)

// RankingHeaders is the column contract shared by the procedure and clinic
// profitability rankings.
var RankingHeaders = []string{"nombre", "casos", "ingreso", "costo", "utilidad", "margen"}

// RankingCSV renders a profitability ranking. A nil margin is written as an
// empty cell rather than a misleading zero.
func RankingCSV(rows []profitabilitydomain.RankingRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(RankingHeaders); err != nil {
		return nil, err
	}
	for _, row := range rows {
		margin := ""
		if row.Margin != nil {
			margin = strconv.FormatFloat(*row.Margin, 'f', 2, 64)
		}
		record := []string{
			row.Name,
			strconv.Itoa(row.Casos),
			strconv.FormatInt(row.Revenue, 10),
			strconv.FormatInt(row.Cost, 10),
			strconv.FormatInt(row.Profit, 10),
			margin,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
