package server

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

func parseOptionalBool(value string) (*bool, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseBool(trimmed)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func parseOptionalTime(value string) (*time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, trimmed)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// parsePeriodParams reads the :anio/:mes path segments. Range validation
// belongs to the services; this only rejects non-numeric input.
func parsePeriodParams(c *gin.Context) (year, month int, err error) {
	year, err = strconv.Atoi(strings.TrimSpace(c.Param("anio")))
	if err != nil {
		return 0, 0, newValidationError("anio", "invalid_anio", "invalid year")
	}
	month, err = strconv.Atoi(strings.TrimSpace(c.Param("mes")))
	if err != nil {
		return 0, 0, newValidationError("mes", "invalid_mes", "invalid month")
	}
	return year, month, nil
}
