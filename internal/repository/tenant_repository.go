package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"chathub/internal/database"
	"chathub/internal/domain/tenant"
	apperrors "chathub/pkg/errors"
)

type tenantRepository struct {
	db *sql.DB
}

func NewTenantRepository(db *sql.DB) TenantRepository {
	return &tenantRepository{db: db}
}

// Create inserts a tenant. A unique-constraint rejection on the slug is
// surfaced as ErrAlreadyExists so the handler can map it to a conflict.
func (r *tenantRepository) Create(ctx context.Context, t *tenant.Tenant) error {
	querier := database.GetTx(ctx, r.db)
	_, err := querier.ExecContext(ctx, `
        INSERT INTO tenants (id, name, slug, plan, trial_days, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
    `, t.ID, t.Name, t.Slug, t.Plan, t.TrialDays, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return apperrors.ErrAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create tenant")
	}
	return nil
}

func (r *tenantRepository) GetByID(ctx context.Context, id uuid.UUID) (tenant.Tenant, error) {
	return r.getBy(ctx, "id = $1", id)
}

func (r *tenantRepository) GetBySlug(ctx context.Context, slug string) (tenant.Tenant, error) {
	return r.getBy(ctx, "slug = $1", slug)
}

func (r *tenantRepository) getBy(ctx context.Context, where string, arg any) (tenant.Tenant, error) {
	querier := database.GetTx(ctx, r.db)
	var t tenant.Tenant
	err := querier.QueryRowContext(ctx, `
        SELECT id, name, slug, plan, trial_days, created_at, updated_at
        FROM tenants
        WHERE `+where, arg).Scan(
		&t.ID,
		&t.Name,
		&t.Slug,
		&t.Plan,
		&t.TrialDays,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return tenant.Tenant{}, apperrors.ErrNotFound
		}
		return tenant.Tenant{}, apperrors.Wrap(err, "failed to get tenant")
	}
	return t, nil
}
