package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/export"
	profitabilitydomain "github.com/sistemascrenat/liquidaciones-sub000/internal/profitability/domain"
)

type profitabilityQuery struct {
	From  string `form:"desde"`
	To    string `form:"hasta"`
	Types string `form:"tipos"`
	Query string `form:"q"`
}

func bindProfitabilityFilters(c *gin.Context) (profitabilitydomain.Filters, error) {
	var query profitabilityQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		return profitabilitydomain.Filters{}, invalidRequestError()
	}

	var types []string
	if trimmed := strings.TrimSpace(query.Types); trimmed != "" {
		for _, pt := range strings.Split(trimmed, ",") {
			if pt = strings.TrimSpace(pt); pt != "" {
				types = append(types, pt)
			}
		}
	}

	return profitabilitydomain.Filters{
		FromISO: strings.TrimSpace(query.From),
		ToISO:   strings.TrimSpace(query.To),
		Types:   profitabilitydomain.TypesFrom(types),
		Query:   strings.TrimSpace(query.Query),
	}, nil
}

func (s *Server) GetProfitability(c *gin.Context) {
	year, month, err := parsePeriodParams(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	filters, err := bindProfitabilityFilters(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.profitabilitySvc.Report(c.Request.Context(), year, month, filters)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ExportProfitability(c *gin.Context) {
	year, month, err := parsePeriodParams(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	filters, err := bindProfitabilityFilters(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	report, err := s.profitabilitySvc.Report(c.Request.Context(), year, month, filters)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var (
		rows    []profitabilitydomain.RankingRow
		prefix  string
		payload []byte
	)
	switch view := strings.TrimSpace(c.DefaultQuery("vista", "procedimientos")); view {
	case "procedimientos":
		rows = report.ProcedureRanking
		prefix = "rentabilidad-procedimientos"
	case "clinicas":
		rows = report.ClinicRanking
		prefix = "rentabilidad-clinicas"
	default:
		AbortWithError(c, newValidationError("vista", "invalid_vista", "invalid vista"))
		return
	}

	payload, err = export.RankingCSV(rows)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.obsMetrics != nil {
		s.obsMetrics.RecordExport(c.Request.Context(), "csv")
	}
	filename := export.Filename(prefix, year, month, "csv")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv", payload)
}
