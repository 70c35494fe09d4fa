package repository

import (
	"lms_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type ActivityRepository struct {
	DB *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{DB: db}
}

func (r *ActivityRepository) Create(activity *model.Activity) error {
	return r.DB.Create(activity).Error
}

func (r *ActivityRepository) FindByID(id uint) (*model.Activity, error) {
	var activity model.Activity
	err := r.DB.First(&activity, id).Error
	if err != nil {
		return nil, err
	}
	return &activity, nil
}

// Close 关闭会话。WHERE end_time IS NULL 保证同一会话只有一次关闭生效，
// 重复关闭返回 RowsAffected 0 而不是二次写入。
func (r *ActivityRepository) Close(id uint, endTime time.Time) (bool, error) {
	result := r.DB.Model(&model.Activity{}).
		Where("id = ? AND end_time IS NULL", id).
		Update("end_time", endTime)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// SumClosedSeconds 统计用户所有已关闭会话的总秒数。
// 进行中的会话（end_time IS NULL）不计入。
func (r *ActivityRepository) SumClosedSeconds(userID uint) (int, error) {
	var activities []model.Activity
	err := r.DB.Where("user_id = ? AND end_time IS NOT NULL", userID).
		Find(&activities).Error
	if err != nil {
		return 0, err
	}

	total := 0
	for _, a := range activities {
		total += a.TimeSpent()
	}
	return total, nil
}
