package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type DisciplineRepository struct {
	DB *gorm.DB
}

func NewDisciplineRepository(db *gorm.DB) *DisciplineRepository {
	return &DisciplineRepository{DB: db}
}

func (r *DisciplineRepository) Create(discipline *model.Discipline) error {
	return r.DB.Create(discipline).Error
}

func (r *DisciplineRepository) FindByID(id uint) (*model.Discipline, error) {
	var discipline model.Discipline
	err := r.DB.First(&discipline, id).Error
	if err != nil {
		return nil, err
	}
	return &discipline, nil
}

// NextOrder 返回课程内下一个排序号（max+1，空课程从 0 起）
func (r *DisciplineRepository) NextOrder(courseID uint) (int, error) {
	var last model.Discipline
	err := r.DB.Where("course_id = ?", courseID).
		Order("sort_order desc").
		First(&last).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, nil
		}
		return 0, err
	}
	return last.Order + 1, nil
}

func (r *DisciplineRepository) Update(discipline *model.Discipline) error {
	return r.DB.Save(discipline).Error
}

func (r *DisciplineRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Discipline{}, id).Error
}
