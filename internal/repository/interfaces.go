package repository

import (
	"context"

	"github.com/google/uuid"

	"chathub/internal/domain/message"
	"chathub/internal/domain/tenant"
)

type TenantRepository interface {
	Create(ctx context.Context, t *tenant.Tenant) error
	GetByID(ctx context.Context, id uuid.UUID) (tenant.Tenant, error)
	GetBySlug(ctx context.Context, slug string) (tenant.Tenant, error)
}

type MessageRepository interface {
	Create(ctx context.Context, m *message.Message) error
	GetByID(ctx context.Context, id uuid.UUID) (message.Message, error)
}
