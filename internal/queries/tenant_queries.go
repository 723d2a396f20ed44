package queries

import (
	"github.com/google/uuid"
	"github.com/jellydator/validation"

	"chathub/internal/auth"
	apperrors "chathub/pkg/errors"
)

// GetTenant reads one tenant by id.
type GetTenant struct {
	TenantID uuid.UUID `json:"tenant_id"`
}

func (GetTenant) QueryType() string { return "tenant.get" }

func (q GetTenant) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.TenantID, validation.By(requiredUUID)),
	)
}

// Authorize allows admins and members of the requested tenant.
func (q GetTenant) Authorize(p auth.Principal) error {
	if p.Role == auth.RoleAdmin {
		return nil
	}
	if p.TenantID != q.TenantID {
		return apperrors.ErrForbidden
	}
	return nil
}
