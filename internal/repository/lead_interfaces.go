package repository

import (
	"context"
	"errors"

	"github.com/rpattn/leadsathi/internal/domain"
)

// ErrStoreUnavailable is returned when a backend has not been initialised.
var ErrStoreUnavailable = errors.New("lead store not initialized")

// LeadRepository is the append-only Record Store for captured leads.
type LeadRepository interface {
	// Append adds one lead after the last data row. Appends are atomic per row.
	Append(ctx context.Context, lead domain.Lead) error
	// List returns every data row in append order, header excluded. A missing
	// or empty table yields an empty slice and no error.
	List(ctx context.Context) ([]domain.Lead, error)
}
