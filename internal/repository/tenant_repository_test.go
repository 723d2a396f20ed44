package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chathub/internal/domain/tenant"
	apperrors "chathub/pkg/errors"
)

func newMockTenantRepo(t *testing.T) (TenantRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewTenantRepository(db), mock
}

func TestTenantRepository_Create(t *testing.T) {
	repo, mock := newMockTenantRepo(t)
	created := tenant.New("Acme", "acme-inc", "free", 30)

	mock.ExpectExec("INSERT INTO tenants").
		WithArgs(created.ID, "Acme", "acme-inc", "free", 30, created.CreatedAt, created.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), created))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantRepository_Create_DuplicateSlug(t *testing.T) {
	repo, mock := newMockTenantRepo(t)
	mock.ExpectExec("INSERT INTO tenants").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "ux_tenants_slug"})

	err := repo.Create(context.Background(), tenant.New("Acme", "acme-inc", "free", 30))

	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantRepository_GetBySlug(t *testing.T) {
	repo, mock := newMockTenantRepo(t)
	id := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT (.+) FROM tenants").
		WithArgs("acme-inc").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "plan", "trial_days", "created_at", "updated_at"}).
			AddRow(id, "Acme", "acme-inc", "free", 30, now, now))

	got, err := repo.GetBySlug(context.Background(), "acme-inc")

	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "acme-inc", got.Slug)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newMockTenantRepo(t)
	mock.ExpectQuery("SELECT (.+) FROM tenants").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
