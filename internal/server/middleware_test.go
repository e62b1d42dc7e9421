package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/operatorctx"
)

func TestOperatorContextPropagatesHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)

	srv := &Server{}
	router := gin.New()
	router.Use(srv.OperatorContext())

	var seen string
	router.GET("/ping", func(c *gin.Context) {
		seen = operatorctx.OperatorFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderOperator, "dra.soto")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if seen != "dra.soto" {
		t.Fatalf("expected operator dra.soto in context, got %q", seen)
	}
}
