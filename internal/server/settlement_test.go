package server

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	auditdomain "github.com/sistemascrenat/liquidaciones-sub000/internal/audit/domain"
	settlementdomain "github.com/sistemascrenat/liquidaciones-sub000/internal/settlement/domain"

	"github.com/gin-gonic/gin"
)

type fakeSettlementService struct {
	result        *settlementdomain.Result
	recalcErr     error
	markPaidCalls int
	lastKey       string
	lastPaid      bool
}

func (f *fakeSettlementService) Recalculate(ctx context.Context, year, month int) (*settlementdomain.Result, error) {
	_ = ctx
	if f.recalcErr != nil {
		return nil, f.recalcErr
	}
	return f.result, nil
}

func (f *fakeSettlementService) Current(ctx context.Context, year, month int) (*settlementdomain.Result, error) {
	_ = ctx
	if f.result == nil {
		return nil, settlementdomain.ErrNoResult
	}
	return f.result, nil
}

func (f *fakeSettlementService) Search(ctx context.Context, year, month int, query string) ([]settlementdomain.Aggregate, error) {
	_ = ctx
	_ = query
	if f.result == nil {
		return nil, settlementdomain.ErrNoResult
	}
	return f.result.Aggregates, nil
}

func (f *fakeSettlementService) MarkPaid(ctx context.Context, year, month int, key string, paid bool) (*settlementdomain.Aggregate, error) {
	_ = ctx
	f.markPaidCalls++
	f.lastKey = key
	f.lastPaid = paid
	for i := range f.result.Aggregates {
		if f.result.Aggregates[i].Key == key {
			f.result.Aggregates[i].Paid = paid
			return &f.result.Aggregates[i], nil
		}
	}
	return nil, settlementdomain.ErrAggregateNotFound
}

type fakeAuditService struct {
	actions []string
}

func (f *fakeAuditService) Record(ctx context.Context, action, targetType string, targetID *string, metadata map[string]any) error {
	_ = ctx
	_ = targetType
	_ = targetID
	_ = metadata
	f.actions = append(f.actions, action)
	return nil
}

func (f *fakeAuditService) List(ctx context.Context, req auditdomain.ListAuditLogRequest) (auditdomain.ListAuditLogResponse, error) {
	_ = ctx
	_ = req
	return auditdomain.ListAuditLogResponse{}, nil
}

func newSettlementRouter(svc *fakeSettlementService, audit *fakeAuditService) *gin.Engine {
	gin.SetMode(gin.TestMode)

	srv := &Server{
		settlementSvc: svc,
		auditSvc:      audit,
	}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.POST("/api/v1/liquidaciones/:anio/:mes/recalcular", srv.RecalculateSettlement)
	router.GET("/api/v1/liquidaciones/:anio/:mes", srv.GetSettlement)
	router.PUT("/api/v1/liquidaciones/:anio/:mes/:clave/estado-pago", srv.SetPaymentStatus)
	return router
}

func TestGetSettlementWithoutResultReturns404(t *testing.T) {
	router := newSettlementRouter(&fakeSettlementService{}, &fakeAuditService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/liquidaciones/2025/3", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

func TestRecalculateConflictReturns409(t *testing.T) {
	svc := &fakeSettlementService{recalcErr: settlementdomain.ErrRecalcInProgress}
	router := newSettlementRouter(svc, &fakeAuditService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/liquidaciones/2025/3/recalcular", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", resp.Code)
	}
}

func TestRecalculateInvalidPeriodParamReturns400(t *testing.T) {
	router := newSettlementRouter(&fakeSettlementService{}, &fakeAuditService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/liquidaciones/abc/3/recalcular", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestSetPaymentStatusTogglesAndAudits(t *testing.T) {
	svc := &fakeSettlementService{
		result: &settlementdomain.Result{
			Year:  2025,
			Month: 3,
			Aggregates: []settlementdomain.Aggregate{
				{Key: "P1", ProfessionalName: "Juan Pérez"},
			},
		},
	}
	audit := &fakeAuditService{}
	router := newSettlementRouter(svc, audit)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/liquidaciones/2025/3/P1/estado-pago", bytes.NewBufferString(`{"pagado":true}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.markPaidCalls != 1 || svc.lastKey != "P1" || !svc.lastPaid {
		t.Fatalf("unexpected mark paid call: calls=%d key=%q paid=%v", svc.markPaidCalls, svc.lastKey, svc.lastPaid)
	}
	if len(audit.actions) != 1 || audit.actions[0] != "settlement.payment" {
		t.Fatalf("expected one settlement.payment audit entry, got %v", audit.actions)
	}
}

func TestSetPaymentStatusUnknownKeyReturns404(t *testing.T) {
	svc := &fakeSettlementService{result: &settlementdomain.Result{Year: 2025, Month: 3}}
	router := newSettlementRouter(svc, &fakeAuditService{})

	req := httptest.NewRequest(http.MethodPut, "/api/v1/liquidaciones/2025/3/missing/estado-pago", bytes.NewBufferString(`{"pagado":true}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}
