package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

func (r *EnrollmentRepository) Create(enrollment *model.Enrollment) error {
	return r.DB.Create(enrollment).Error
}

func (r *EnrollmentRepository) FindByUserAndCourse(userID, courseID uint) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *EnrollmentRepository) FindByUser(userID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	// 测验只带本人成绩，不带题目：答案键不进聚合视图
	err := r.DB.Where("user_id = ?", userID).
		Preload("Course.Disciplines.Lessons").
		Preload("Course.Quizzes.Results", "user_id = ?", userID).
		Find(&enrollments).Error
	return enrollments, err
}

// IncrementCompletedTime 原子累加课程累计时长；
// 选课记录不存在时 RowsAffected 为 0，由调用方决定是否忽略
func (r *EnrollmentRepository) IncrementCompletedTime(userID, courseID uint, seconds int) (bool, error) {
	result := r.DB.Model(&model.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Update("completed_time", gorm.Expr("completed_time + ?", seconds))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *EnrollmentRepository) Delete(userID, courseID uint) error {
	return r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).
		Delete(&model.Enrollment{}).Error
}
