package domain

import "context"

type Service interface {
	Import(ctx context.Context, req ImportRequest) (*ImportResult, error)
	ListPeriod(ctx context.Context, req ListRequest) ([]*Record, error)
	Confirm(ctx context.Context, id string) (*Record, error)
	Void(ctx context.Context, id string) (*Record, error)
}
