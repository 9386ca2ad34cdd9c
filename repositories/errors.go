package repositories

import (
	"errors"

	"blog-cms/models"

	"gorm.io/gorm"
)

// translate turns gorm lookup errors into domain errors the HTTP layer understands.
func translate(err error, entity string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.ErrorNotFound{Message: entity + " not found"}
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return models.ErrorConflict{Message: entity + " already exists"}
	default:
		return err
	}
}
