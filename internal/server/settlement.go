package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/export"
	settlementdomain "github.com/sistemascrenat/liquidaciones-sub000/internal/settlement/domain"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/statement"
)

func (s *Server) RecalculateSettlement(c *gin.Context) {
	year, month, err := parsePeriodParams(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.settlementSvc.Recalculate(c.Request.Context(), year, month)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "settlement.recalculate", "period", settlementdomain.PeriodKey(year, month), map[string]any{
		"registros": resp.Records,
		"total":     resp.Total,
	})
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetSettlement(c *gin.Context) {
	year, month, err := parsePeriodParams(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	query := strings.TrimSpace(c.Query("q"))
	if query != "" {
		aggregates, err := s.settlementSvc.Search(c.Request.Context(), year, month, query)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": aggregates})
		return
	}

	resp, err := s.settlementSvc.Current(c.Request.Context(), year, month)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ExportSettlement(c *gin.Context) {
	year, month, err := parsePeriodParams(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	result, err := s.settlementSvc.Current(c.Request.Context(), year, month)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	format := strings.TrimSpace(c.DefaultQuery("formato", "csv"))
	view := strings.TrimSpace(c.DefaultQuery("vista", "resumen"))

	var (
		payload     []byte
		contentType string
		filename    string
	)
	switch format {
	case "csv":
		contentType = "text/csv"
		filename = export.Filename("liquidacion", year, month, "csv")
		switch view {
		case "resumen":
			payload, err = export.SummaryCSV(result)
		case "detalle":
			payload, err = export.DetailCSV(result)
		default:
			AbortWithError(c, newValidationError("vista", "invalid_vista", "invalid vista"))
			return
		}
	case "xlsx":
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		filename = export.Filename("liquidacion", year, month, "xlsx")
		payload, err = export.Workbook(result)
	default:
		AbortWithError(c, newValidationError("formato", "invalid_formato", "invalid formato"))
		return
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.obsMetrics != nil {
		s.obsMetrics.RecordExport(c.Request.Context(), format)
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, payload)
}

func (s *Server) RenderStatement(c *gin.Context) {
	year, month, err := parsePeriodParams(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	key := strings.TrimSpace(c.Param("clave"))
	result, err := s.settlementSvc.Current(c.Request.Context(), year, month)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var target *settlementdomain.Aggregate
	for i := range result.Aggregates {
		if result.Aggregates[i].Key == key {
			target = &result.Aggregates[i]
			break
		}
	}
	if target == nil {
		AbortWithError(c, settlementdomain.ErrAggregateNotFound)
		return
	}

	data := statement.Build(
		settlementdomain.PeriodKey(year, month),
		result.GeneratedAt.Format("2006-01-02"),
		*target,
	)
	reader, err := s.statements.GenerateStatement(c.Request.Context(), data)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	payload, err := io.ReadAll(reader)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.obsMetrics != nil {
		s.obsMetrics.RecordExport(c.Request.Context(), "pdf")
	}
	filename := export.Filename("boleta-"+key, year, month, "pdf")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", payload)
}

type paymentStatusRequest struct {
	Paid bool `json:"pagado"`
}

func (s *Server) SetPaymentStatus(c *gin.Context) {
	year, month, err := parsePeriodParams(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req paymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	key := strings.TrimSpace(c.Param("clave"))
	resp, err := s.settlementSvc.MarkPaid(c.Request.Context(), year, month, key, req.Paid)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "settlement.payment", "aggregate", key, map[string]any{
		"periodo": settlementdomain.PeriodKey(year, month),
		"pagado":  req.Paid,
	})
	c.JSON(http.StatusOK, gin.H{"data": resp})
}
