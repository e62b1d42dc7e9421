package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	productiondomain "github.com/sistemascrenat/liquidaciones-sub000/internal/production/domain"
)

type importProductionRequest struct {
	Year   int              `json:"anio"`
	Month  int              `json:"mes"`
	Source string           `json:"origen"`
	Rows   []map[string]any `json:"filas"`
}

func (s *Server) ImportProduction(c *gin.Context) {
	var req importProductionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.productionSvc.Import(c.Request.Context(), productiondomain.ImportRequest{
		Year:        req.Year,
		Month:       req.Month,
		SourceBatch: strings.TrimSpace(req.Source),
		Rows:        req.Rows,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.obsMetrics != nil {
		s.obsMetrics.RecordImport(c.Request.Context(), resp.Batch, resp.Imported)
	}
	s.audit(c, "production.import", "batch", resp.Batch, map[string]any{
		"anio":     req.Year,
		"mes":      req.Month,
		"imported": resp.Imported,
	})
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListProduction(c *gin.Context) {
	year, month, err := parsePeriodParams(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	confirmedOnly, err := parseOptionalBool(c.Query("confirmed_only"))
	if err != nil {
		AbortWithError(c, newValidationError("confirmed_only", "invalid_confirmed_only", "invalid confirmed_only"))
		return
	}

	req := productiondomain.ListRequest{Year: year, Month: month}
	if confirmedOnly != nil {
		req.ConfirmedOnly = *confirmedOnly
	}

	resp, err := s.productionSvc.ListPeriod(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ConfirmProduction(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.productionSvc.Confirm(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "production.confirm", "record", resp.ID, periodMetadata(resp.Year, resp.Month))
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) VoidProduction(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.productionSvc.Void(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "production.void", "record", resp.ID, periodMetadata(resp.Year, resp.Month))
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func periodMetadata(year, month int) map[string]any {
	return map[string]any{
		"anio": strconv.Itoa(year),
		"mes":  strconv.Itoa(month),
	}
}
