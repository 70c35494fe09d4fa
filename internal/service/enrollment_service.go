package service

import (
	"context"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

type EnrollmentService struct {
	EnrollmentRepo *repository.EnrollmentRepository
	CourseRepo     *repository.CourseRepository
	UserRepo       *repository.UserRepository
	Cache          *DashboardCache
}

func NewEnrollmentService(
	enrollmentRepo *repository.EnrollmentRepository,
	courseRepo *repository.CourseRepository,
	userRepo *repository.UserRepository,
	cache *DashboardCache,
) *EnrollmentService {
	return &EnrollmentService{
		EnrollmentRepo: enrollmentRepo,
		CourseRepo:     courseRepo,
		UserRepo:       userRepo,
		Cache:          cache,
	}
}

func (s *EnrollmentService) Enroll(userID, courseID uint) (*model.Enrollment, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	if _, err := s.EnrollmentRepo.FindByUserAndCourse(userID, courseID); err == nil {
		return nil, util.ErrAlreadyEnrolled
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	enrollment := &model.Enrollment{
		UserID:   userID,
		CourseID: courseID,
	}
	if err := s.EnrollmentRepo.Create(enrollment); err != nil {
		return nil, err
	}

	// 选课立刻反映到面板，不等缓存过期
	s.Cache.Invalidate(context.Background(), userID)
	return enrollment, nil
}

func (s *EnrollmentService) Unenroll(userID, courseID uint) error {
	if _, err := s.EnrollmentRepo.FindByUserAndCourse(userID, courseID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrNotEnrolled
		}
		return err
	}
	if err := s.EnrollmentRepo.Delete(userID, courseID); err != nil {
		return err
	}

	s.Cache.Invalidate(context.Background(), userID)
	return nil
}

func (s *EnrollmentService) ListStudents() ([]model.User, error) {
	return s.UserRepo.ListByRole(model.Student)
}

func (s *EnrollmentService) DeleteStudent(userID uint) error {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrUserNotFound
		}
		return err
	}
	if user.Role != model.Student {
		return util.ErrPermissionDenied
	}
	return s.UserRepo.Delete(userID)
}
