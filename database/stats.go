package database

import "linkrelay/models"

type ExtractorCount struct {
	ExtractorCodeName string
	Count             int64
}

func GetResolutionsCount() (int64, error) {
	if !Enabled() {
		return 0, ErrDisabled
	}
	var count int64
	err := DB.
		Model(&models.Resolution{}).
		Count(&count).
		Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func GetDailyResolutionsCount() (int64, error) {
	if !Enabled() {
		return 0, ErrDisabled
	}
	var count int64
	err := DB.
		Model(&models.Resolution{}).
		Where("DATE(created_at) = DATE(NOW())").
		Count(&count).
		Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func GetUsersCount() (int64, error) {
	if !Enabled() {
		return 0, ErrDisabled
	}
	var count int64
	err := DB.
		Model(&models.User{}).
		Count(&count).
		Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func GetDailyUserCount() (int64, error) {
	if !Enabled() {
		return 0, ErrDisabled
	}
	var count int64
	err := DB.
		Model(&models.User{}).
		Where("DATE(last_used) = DATE(NOW())").
		Count(&count).
		Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func GetResolutionsByExtractor() ([]ExtractorCount, error) {
	if !Enabled() {
		return nil, ErrDisabled
	}
	var counts []ExtractorCount
	err := DB.
		Model(&models.Resolution{}).
		Select("extractor_code_name, COUNT(*) AS count").
		Group("extractor_code_name").
		Order("count DESC").
		Scan(&counts).
		Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}
