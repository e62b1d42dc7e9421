package domain

import "context"

type Service interface {
	// Report computes the profitability view for a period with the given
	// filters applied before aggregation.
	Report(ctx context.Context, year, month int, filters Filters) (*Report, error)
}
