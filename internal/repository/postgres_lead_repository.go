package repository

import (
	"context"
	"fmt"

	"github.com/rpattn/leadsathi/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresLeadRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresLeadRepository wires a repository backed by pgxpool. Row order is
// the bigserial sequence, so concurrent appends never interleave within a row.
func NewPostgresLeadRepository(pool *pgxpool.Pool) LeadRepository {
	return &postgresLeadRepository{pool: pool}
}

func (r *postgresLeadRepository) Append(ctx context.Context, lead domain.Lead) error {
	if r.pool == nil {
		return ErrStoreUnavailable
	}

	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO leads (id, captured_at, name, mobile, business_type, lead_source, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.New(),
		lead.Timestamp,
		lead.Name,
		lead.Mobile,
		lead.BusinessType,
		lead.LeadSource,
		lead.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to append lead: %w", err)
	}

	return nil
}

func (r *postgresLeadRepository) List(ctx context.Context) ([]domain.Lead, error) {
	if r.pool == nil {
		return nil, ErrStoreUnavailable
	}

	rows, err := r.pool.Query(
		ctx,
		`SELECT captured_at, name, mobile, business_type, lead_source, notes
		 FROM leads
		 ORDER BY seq ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	defer rows.Close()

	leads := []domain.Lead{}
	for rows.Next() {
		var lead domain.Lead
		if scanErr := rows.Scan(
			&lead.Timestamp,
			&lead.Name,
			&lead.Mobile,
			&lead.BusinessType,
			&lead.LeadSource,
			&lead.Notes,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan lead: %w", scanErr)
		}
		leads = append(leads, lead)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate leads: %w", rowsErr)
	}

	return leads, nil
}
