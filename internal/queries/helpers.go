package queries

import (
	"errors"

	"github.com/google/uuid"
)

func requiredUUID(value interface{}) error {
	id, ok := value.(uuid.UUID)
	if !ok || id == uuid.Nil {
		return errors.New("must not be blank")
	}
	return nil
}
