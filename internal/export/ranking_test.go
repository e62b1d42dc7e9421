package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	profitabilitydomain "github.com/sistemascrenat/liquidaciones-sub000/internal/profitability/domain"

	"github.com/stretchr/testify/assert"
)

func TestRankingCSVNilMarginIsEmptyCell(t *testing.T) {
	margin := 42.5
	rows := []profitabilitydomain.RankingRow{
		{Name: "Apendicectomía", Casos: 2, Revenue: 800000, Cost: 460000, Profit: 340000, Margin: &margin},
		{Name: "(sin mapear)", Casos: 1, Revenue: 0, Cost: 150000, Profit: -150000, Margin: nil},
	}

	payload, err := RankingCSV(rows)
	assert.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(payload)).ReadAll()
	assert.NoError(t, err)
	assert.Len(t, records, 3)
	assert.Equal(t, RankingHeaders, records[0])
	assert.Equal(t, []string{"Apendicectomía", "2", "800000", "460000", "340000", "42.50"}, records[1])
	assert.Equal(t, "", records[2][5])
	assert.Equal(t, "-150000", records[2][4])
}
