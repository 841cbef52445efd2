package identity

import (
	"errors"

	"github.com/shopadmin/backend/internal/domain/shared"
)

func isNotFound(err error) bool {
	return errors.Is(err, shared.ErrNotFound)
}

func isAlreadyExists(err error) bool {
	return errors.Is(err, shared.ErrAlreadyExists)
}
