package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// AccumulateWatchTime 按 (user_id, lesson_id) 原子累加观看时长。
// 并发关闭多个会话落到同一行时必须走存储层的 increment-on-conflict，
// 读改写会丢更新。completed 覆盖为最近一次信号，不做 sticky-true。
func (r *ProgressRepository) AccumulateWatchTime(userID, lessonID uint, seconds int, completed bool) error {
	progress := &model.Progress{
		UserID:    userID,
		LessonID:  lessonID,
		WatchTime: seconds,
		Completed: completed,
	}
	return r.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"watch_time": gorm.Expr("watch_time + ?", seconds),
			"completed":  completed,
		}),
	}).Create(progress).Error
}

// SetCompleted 显式完成信号的 upsert，不触碰 watch_time
func (r *ProgressRepository) SetCompleted(userID, lessonID uint, completed bool) (*model.Progress, error) {
	progress := &model.Progress{
		UserID:    userID,
		LessonID:  lessonID,
		Completed: completed,
	}
	err := r.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"completed": completed,
		}),
	}).Create(progress).Error
	if err != nil {
		return nil, err
	}
	return r.FindByUserAndLesson(userID, lessonID)
}

func (r *ProgressRepository) FindByUserAndLesson(userID, lessonID uint) (*model.Progress, error) {
	var progress model.Progress
	err := r.DB.Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *ProgressRepository) FindByUser(userID uint) ([]model.Progress, error) {
	var progresses []model.Progress
	err := r.DB.Where("user_id = ?", userID).
		Preload("Lesson").
		Find(&progresses).Error
	return progresses, err
}

func (r *ProgressRepository) FindByUserAndLessons(userID uint, lessonIDs []uint) ([]model.Progress, error) {
	var progresses []model.Progress
	if len(lessonIDs) == 0 {
		return progresses, nil
	}
	err := r.DB.Where("user_id = ? AND lesson_id IN ?", userID, lessonIDs).
		Find(&progresses).Error
	return progresses, err
}
