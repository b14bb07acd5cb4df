package database

import (
	"linkrelay/models"

	"go.uber.org/zap"
)

func GetUser(
	userID int64,
) (*models.User, error) {
	if !Enabled() {
		return nil, ErrDisabled
	}
	var user models.User
	err := DB.
		Where(&models.User{
			UserID: userID,
		}).
		FirstOrCreate(&user).
		Error
	if err != nil {
		return nil, err
	}
	go func() {
		if err := UpdateUserStatus(userID); err != nil {
			zap.S().Warnf("failed to update user %d: %v", userID, err)
		}
	}()
	return &user, nil
}

func UpdateUserStatus(
	userID int64,
) error {
	return DB.
		Model(&models.User{}).
		Where(&models.User{
			UserID: userID,
		}).
		Updates(&models.User{
			LastUsed: DB.NowFunc(),
		}).
		Error
}
