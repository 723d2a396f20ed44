package commands

import (
	"regexp"

	"github.com/jellydator/validation"

	"chathub/internal/auth"
	apperrors "chathub/pkg/errors"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// CreateTenant provisions a new tenant organization.
type CreateTenant struct {
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Plan      string `json:"plan"`
	TrialDays int    `json:"trial_days"`
}

func (CreateTenant) CommandType() string { return "tenant.create" }

func (c CreateTenant) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&c.Slug, validation.Required, validation.Match(slugPattern)),
		validation.Field(&c.Plan, validation.Required, validation.In("free", "pro", "enterprise")),
		validation.Field(&c.TrialDays, validation.Min(0), validation.Max(90)),
	)
}

// Authorize restricts tenant provisioning to admins.
func (CreateTenant) Authorize(p auth.Principal) error {
	if p.Role != auth.RoleAdmin {
		return apperrors.ErrForbidden
	}
	return nil
}
