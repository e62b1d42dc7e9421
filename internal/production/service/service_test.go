package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/clock"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/operatorctx"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/production/domain"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/production/repository"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) domain.Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&domain.Record{}))

	node, err := snowflake.NewNode(1)
	assert.NoError(t, err)

	return New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		Repo:  repository.Provide(),
		GenID: node,
		Clock: clock.NewFakeClock(time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)),
	})
}

func TestImportRejectsInvalidPeriod(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Import(context.Background(), domain.ImportRequest{
		Year: 2025, Month: 13,
		Rows: []map[string]any{{"paciente": "x"}},
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidPeriod))
}

func TestImportRejectsEmptyBatch(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Import(context.Background(), domain.ImportRequest{Year: 2025, Month: 4})
	assert.True(t, errors.Is(err, domain.ErrEmptyImport))
}

func TestImportAssignsBatchAndIDs(t *testing.T) {
	svc := newTestService(t)
	ctx := operatorctx.WithOperator(context.Background(), "secretaria")

	res, err := svc.Import(ctx, domain.ImportRequest{
		Year: 2025, Month: 4,
		Rows: []map[string]any{
			{"paciente": "uno"},
			{"paciente": "dos"},
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	assert.NotEmpty(t, res.Batch)

	records, err := svc.ListPeriod(ctx, domain.ListRequest{Year: 2025, Month: 4})
	assert.NoError(t, err)
	assert.Len(t, records, 2)
	for _, r := range records {
		assert.NotEmpty(t, r.ID)
		assert.Equal(t, res.Batch, r.SourceBatch)
		assert.Equal(t, "secretaria", r.CreatedBy)
	}
}

func TestReimportWithRowIDMergesInsteadOfDuplicating(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Import(ctx, domain.ImportRequest{
		Year: 2025, Month: 4,
		Rows: []map[string]any{{"id": "row-1", "paciente": "uno"}},
	})
	assert.NoError(t, err)

	_, err = svc.Import(ctx, domain.ImportRequest{
		Year: 2025, Month: 4,
		Rows: []map[string]any{{"id": "row-1", "paciente": "uno corregido"}},
	})
	assert.NoError(t, err)

	records, err := svc.ListPeriod(ctx, domain.ListRequest{Year: 2025, Month: 4})
	assert.NoError(t, err)
	if assert.Len(t, records, 1) {
		assert.Equal(t, "row-1", records[0].ID)
		assert.Equal(t, "uno corregido", records[0].Payload["paciente"])
	}
}

func TestReimportPreservesOperatorFlags(t *testing.T) {
	svc := newTestService(t)
	ctx := operatorctx.WithOperator(context.Background(), "dra.soto")

	_, err := svc.Import(ctx, domain.ImportRequest{
		Year: 2025, Month: 4,
		Rows: []map[string]any{{"id": "row-1", "paciente": "uno"}},
	})
	assert.NoError(t, err)

	_, err = svc.Confirm(ctx, "row-1")
	assert.NoError(t, err)

	// A corrected re-import replaces the data but not the confirm decision.
	_, err = svc.Import(ctx, domain.ImportRequest{
		Year: 2025, Month: 4,
		Rows: []map[string]any{{"id": "row-1", "paciente": "uno corregido"}},
	})
	assert.NoError(t, err)

	records, err := svc.ListPeriod(ctx, domain.ListRequest{Year: 2025, Month: 4, ConfirmedOnly: true})
	assert.NoError(t, err)
	if assert.Len(t, records, 1) {
		assert.True(t, records[0].Confirmed)
		assert.Equal(t, "uno corregido", records[0].Payload["paciente"])
	}
}

func TestConfirmAndVoidFlags(t *testing.T) {
	svc := newTestService(t)
	ctx := operatorctx.WithOperator(context.Background(), "dra.soto")

	_, err := svc.Import(ctx, domain.ImportRequest{
		Year: 2025, Month: 4,
		Rows: []map[string]any{
			{"id": "row-1", "paciente": "uno"},
			{"id": "row-2", "paciente": "dos"},
		},
	})
	assert.NoError(t, err)

	confirmed, err := svc.Confirm(ctx, "row-1")
	assert.NoError(t, err)
	assert.True(t, confirmed.Confirmed)
	assert.Equal(t, "dra.soto", confirmed.UpdatedBy)

	voided, err := svc.Void(ctx, "row-2")
	assert.NoError(t, err)
	assert.True(t, voided.Voided)

	only, err := svc.ListPeriod(ctx, domain.ListRequest{Year: 2025, Month: 4, ConfirmedOnly: true})
	assert.NoError(t, err)
	if assert.Len(t, only, 1) {
		assert.Equal(t, "row-1", only[0].ID)
	}
}

func TestConfirmUnknownRecord(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Confirm(context.Background(), "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
