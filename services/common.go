package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/cloudvorkala/SPEED/models"
	"github.com/cloudvorkala/SPEED/policy"
)

// authorize rejects a missing identity as unauthorized and an identity
// lacking every required capability as forbidden.
func authorize(identity *policy.Identity, required ...string) error {
	if identity == nil {
		return models.Unauthorized("authentication required")
	}
	if !policy.Allows(identity, required...) {
		return models.Forbidden("insufficient permissions")
	}
	return nil
}

// notFound maps gorm.ErrRecordNotFound onto ErrorNotFound and passes any
// other error through unchanged.
func notFound(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NotFound(format, args...)
	}
	return err
}

// conflict maps a unique-index violation onto ErrorConflict. It covers the
// window between a uniqueness pre-check and the insert.
func conflict(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.Conflict(format, args...)
	}
	return err
}
