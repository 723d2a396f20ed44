package tenant

import (
	"time"

	"github.com/google/uuid"

	"chathub/internal/domain"
)

const AggregateType = "tenant"

const (
	EventTypeTenantCreated = "tenant.created"
	EventTypeTenantUpdated = "tenant.updated"
)

// Tenant is the isolation boundary for a customer organization's data.
type Tenant struct {
	domain.Entity

	ID        uuid.UUID
	Name      string
	Slug      string
	Plan      string
	TrialDays int
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CreatedPayload struct {
	TenantID  string `json:"tenant_id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Plan      string `json:"plan"`
	TrialDays int    `json:"trial_days"`
}

// New creates a tenant and raises tenant.created.
func New(name, slug, plan string, trialDays int) *Tenant {
	now := time.Now().UTC()
	t := &Tenant{
		ID:        uuid.New(),
		Name:      name,
		Slug:      slug,
		Plan:      plan,
		TrialDays: trialDays,
		CreatedAt: now,
		UpdatedAt: now,
	}
	t.Raise(EventTypeTenantCreated, AggregateType, t.ID, CreatedPayload{
		TenantID:  t.ID.String(),
		Name:      name,
		Slug:      slug,
		Plan:      plan,
		TrialDays: trialDays,
	})
	return t
}
