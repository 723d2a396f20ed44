package commands

import (
	"errors"

	"github.com/google/uuid"
)

// requiredUUID rejects the nil UUID. validation.Required cannot tell a
// nil uuid.UUID apart from a set one (fixed-size array, never "empty").
func requiredUUID(value interface{}) error {
	id, ok := value.(uuid.UUID)
	if !ok || id == uuid.Nil {
		return errors.New("must not be blank")
	}
	return nil
}
