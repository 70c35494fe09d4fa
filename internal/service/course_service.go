package service

import (
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

type CourseService struct {
	CourseRepo     *repository.CourseRepository
	DisciplineRepo *repository.DisciplineRepository
}

func NewCourseService(courseRepo *repository.CourseRepository, disciplineRepo *repository.DisciplineRepository) *CourseService {
	return &CourseService{CourseRepo: courseRepo, DisciplineRepo: disciplineRepo}
}

func (s *CourseService) CreateCourse(code, title, description string) (*model.Course, error) {
	if _, err := s.CourseRepo.FindByCode(code); err == nil {
		return nil, util.ErrCourseCodeTaken
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	course := &model.Course{
		Code:        code,
		Title:       title,
		Description: description,
	}
	if err := s.CourseRepo.Create(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) GetCourse(id uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

func (s *CourseService) ListCourses() ([]model.Course, error) {
	return s.CourseRepo.FindAll()
}

func (s *CourseService) ListPublicCourses() ([]model.Course, error) {
	return s.CourseRepo.FindAllPublic()
}

func (s *CourseService) UpdateCourse(id uint, code, title, description string) (*model.Course, error) {
	course, err := s.GetCourse(id)
	if err != nil {
		return nil, err
	}

	if course.Code != code {
		if _, err := s.CourseRepo.FindByCode(code); err == nil {
			return nil, util.ErrCourseCodeTaken
		} else if err != gorm.ErrRecordNotFound {
			return nil, err
		}
	}

	course.Code = code
	course.Title = title
	course.Description = description
	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) DeleteCourse(id uint) error {
	if _, err := s.GetCourse(id); err != nil {
		return err
	}
	return s.CourseRepo.Delete(id)
}

// CreateDiscipline 新学科排在课程末尾（order = max+1）
func (s *CourseService) CreateDiscipline(courseID uint, title, description string) (*model.Discipline, error) {
	if _, err := s.GetCourse(courseID); err != nil {
		return nil, err
	}

	order, err := s.DisciplineRepo.NextOrder(courseID)
	if err != nil {
		return nil, err
	}

	discipline := &model.Discipline{
		Title:       title,
		Description: description,
		Order:       order,
		CourseID:    courseID,
	}
	if err := s.DisciplineRepo.Create(discipline); err != nil {
		return nil, err
	}
	return discipline, nil
}

func (s *CourseService) UpdateDiscipline(id uint, title, description string) (*model.Discipline, error) {
	discipline, err := s.DisciplineRepo.FindByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrDisciplineNotFound
		}
		return nil, err
	}

	discipline.Title = title
	discipline.Description = description
	if err := s.DisciplineRepo.Update(discipline); err != nil {
		return nil, err
	}
	return discipline, nil
}

func (s *CourseService) DeleteDiscipline(id uint) error {
	if _, err := s.DisciplineRepo.FindByID(id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrDisciplineNotFound
		}
		return err
	}
	return s.DisciplineRepo.Delete(id)
}
