package domain

import "context"

type Service interface {
	// Recalculate rebuilds the period's settlement from scratch. Returns
	// ErrRecalcInProgress while another recalculation holds the guard; a
	// failed run keeps the previous result visible.
	Recalculate(ctx context.Context, year, month int) (*Result, error)
	// Current returns the last computed result for the period.
	Current(ctx context.Context, year, month int) (*Result, error)
	// Search filters the current result's aggregates with the shared
	// AND/OR token grammar over professional, clinic, procedure and role
	// fields of their lines.
	Search(ctx context.Context, year, month int, query string) ([]Aggregate, error)
	// MarkPaid toggles the payout flag of one aggregate.
	MarkPaid(ctx context.Context, year, month int, key string, paid bool) (*Aggregate, error)
}
