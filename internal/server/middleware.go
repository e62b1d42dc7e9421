package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/operatorctx"
)

const HeaderOperator = "X-Operator-Id"

// OperatorContext moves the operator header into the request context so
// services and the audit trail can attribute mutations. The back office
// runs behind the clinic network; there is no credential check here.
func (s *Server) OperatorContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		operator := strings.TrimSpace(c.GetHeader(HeaderOperator))
		if operator != "" {
			ctx := operatorctx.WithOperator(c.Request.Context(), operator)
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}
