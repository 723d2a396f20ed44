package services

import (
	"context"
	"errors"
	"time"

	"chathub/internal/commands"
	"chathub/internal/database"
	"chathub/internal/domain/tenant"
	"chathub/internal/queries"
	"chathub/internal/repository"
	"chathub/internal/result"
	apperrors "chathub/pkg/errors"
)

// TenantView is the response shape for tenant commands and queries.
type TenantView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Plan      string    `json:"plan"`
	TrialDays int       `json:"trial_days"`
	CreatedAt time.Time `json:"created_at"`
}

type TenantService struct {
	repo repository.TenantRepository
}

func NewTenantService(repo repository.TenantRepository) *TenantService {
	return &TenantService{repo: repo}
}

// CreateTenant handles tenant.create. The slug pre-check gives a clean
// conflict for the common case; the unique constraint on tenants.slug
// closes the concurrent-create race and maps to the same conflict.
func (s *TenantService) CreateTenant(ctx context.Context, req any) result.Result[any] {
	cmd := req.(commands.CreateTenant)

	_, err := s.repo.GetBySlug(ctx, cmd.Slug)
	if err == nil {
		return result.Fail[any](apperrors.Conflict("CONFLICT", "slug already in use"))
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return result.Fail[any](apperrors.Internal("TENANT_LOOKUP_FAILED", err.Error()))
	}

	t := tenant.New(cmd.Name, cmd.Slug, cmd.Plan, cmd.TrialDays)
	if err := s.repo.Create(ctx, t); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			return result.Fail[any](apperrors.Conflict("CONFLICT", "slug already in use"))
		}
		return result.Fail[any](apperrors.Internal("TENANT_CREATE_FAILED", err.Error()))
	}
	database.Track(ctx, t)

	return result.Ok[any](tenantView(*t))
}

// GetTenant handles tenant.get.
func (s *TenantService) GetTenant(ctx context.Context, req any) result.Result[any] {
	q := req.(queries.GetTenant)

	t, err := s.repo.GetByID(ctx, q.TenantID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return result.Fail[any](apperrors.NotFound("TENANT_NOT_FOUND", "tenant not found"))
		}
		return result.Fail[any](apperrors.Internal("TENANT_LOOKUP_FAILED", err.Error()))
	}
	return result.Ok[any](tenantView(t))
}

func tenantView(t tenant.Tenant) TenantView {
	return TenantView{
		ID:        t.ID.String(),
		Name:      t.Name,
		Slug:      t.Slug,
		Plan:      t.Plan,
		TrialDays: t.TrialDays,
		CreatedAt: t.CreatedAt,
	}
}
