package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type LessonRepository struct {
	DB *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: db}
}

func (r *LessonRepository) Create(lesson *model.Lesson) error {
	return r.DB.Create(lesson).Error
}

func (r *LessonRepository) FindByID(id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.Preload("Content").First(&lesson, id).Error
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *LessonRepository) FindByIDInDiscipline(id, disciplineID uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.Preload("Content").
		Where("id = ? AND discipline_id = ?", id, disciplineID).
		First(&lesson).Error
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *LessonRepository) FindByDiscipline(disciplineID uint) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.DB.Preload("Content").
		Where("discipline_id = ?", disciplineID).
		Order("sort_order asc").
		Find(&lessons).Error
	return lessons, err
}

func (r *LessonRepository) Update(lesson *model.Lesson) error {
	return r.DB.Save(lesson).Error
}

func (r *LessonRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Lesson{}, id).Error
}

func (r *LessonRepository) CreateContent(content *model.Content) error {
	return r.DB.Create(content).Error
}

func (r *LessonRepository) UpdateContent(content *model.Content) error {
	return r.DB.Save(content).Error
}

func (r *LessonRepository) DeleteContent(id uint) error {
	return r.DB.Delete(&model.Content{}, id).Error
}

// ClearContent 解除课时与内容的绑定
func (r *LessonRepository) ClearContent(lessonID uint) error {
	return r.DB.Model(&model.Lesson{}).
		Where("id = ?", lessonID).
		Update("content_id", nil).Error
}

// OwningCourseID 解析 Lesson→Discipline→Course 链，返回所属课程 ID。
// 链路断裂（孤儿数据）返回 gorm.ErrRecordNotFound。
func (r *LessonRepository) OwningCourseID(lessonID uint) (uint, error) {
	var discipline model.Discipline
	err := r.DB.
		Joins("JOIN lessons ON lessons.discipline_id = disciplines.id").
		Where("lessons.id = ?", lessonID).
		First(&discipline).Error
	if err != nil {
		return 0, err
	}
	return discipline.CourseID, nil
}
