package database

import "linkrelay/models"

func StoreResolution(
	resolution *models.Resolution,
) error {
	if !Enabled() {
		return ErrDisabled
	}
	return DB.Create(resolution).Error
}
