package service

import (
	"context"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CourseResolver 解析课时归属的课程。
// 聚合器只依赖这个接口，外键遍历逻辑不内嵌在请求处理里。
type CourseResolver interface {
	OwningCourseID(lessonID uint) (uint, error)
}

// ProgressService 把已关闭的 LESSON 会话时长折算进 Progress 与 Enrollment
type ProgressService struct {
	ProgressRepo   *repository.ProgressRepository
	EnrollmentRepo *repository.EnrollmentRepository
	Resolver       CourseResolver
	Cache          *DashboardCache
}

func NewProgressService(
	progressRepo *repository.ProgressRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	resolver CourseResolver,
	cache *DashboardCache,
) *ProgressService {
	return &ProgressService{
		ProgressRepo:   progressRepo,
		EnrollmentRepo: enrollmentRepo,
		Resolver:       resolver,
		Cache:          cache,
	}
}

// RecordLessonTime 活动关闭时的聚合入口。
// Progress 的写入失败会向上传播；课程链路解析失败或选课缺失
// 属于孤儿数据，跳过计时并记日志，不让活动关闭调用失败。
func (s *ProgressService) RecordLessonTime(userID, lessonID uint, seconds int, completed bool) error {
	if err := s.ProgressRepo.AccumulateWatchTime(userID, lessonID, seconds, completed); err != nil {
		return err
	}

	courseID, err := s.Resolver.OwningCourseID(lessonID)
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Log.Warn("course resolution failed, skipping enrollment time",
				zap.Uint("lessonId", lessonID), zap.Error(err))
		}
		s.Cache.Invalidate(context.Background(), userID)
		return nil
	}

	updated, err := s.EnrollmentRepo.IncrementCompletedTime(userID, courseID, seconds)
	if err != nil {
		logger.Log.Warn("enrollment time increment failed",
			zap.Uint("userId", userID), zap.Uint("courseId", courseID), zap.Error(err))
	} else if !updated {
		logger.Log.Debug("no enrollment for lesson time, skipped",
			zap.Uint("userId", userID), zap.Uint("courseId", courseID))
	}

	s.Cache.Invalidate(context.Background(), userID)
	return nil
}

// UpdateCompletion 显式完成信号，独立于会话计时，不触碰 watchTime
func (s *ProgressService) UpdateCompletion(userID, lessonID uint, completed bool) (*model.Progress, error) {
	progress, err := s.ProgressRepo.SetCompleted(userID, lessonID, completed)
	if err != nil {
		return nil, err
	}
	s.Cache.Invalidate(context.Background(), userID)
	return progress, nil
}

// GetUserProgress 用户全部进度，带课时归属信息
func (s *ProgressService) GetUserProgress(userID uint) ([]model.Progress, error) {
	var progresses []model.Progress
	err := s.ProgressRepo.DB.
		Where("user_id = ?", userID).
		Preload("Lesson.Discipline.Course").
		Find(&progresses).Error
	return progresses, err
}
