package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) Create(quiz *model.Quiz) error {
	return r.DB.Create(quiz).Error
}

func (r *QuizRepository) FindByID(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.Preload("Questions").First(&quiz, id).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *QuizRepository) FindByIDInCourse(id, courseID uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.Preload("Questions").
		Where("id = ? AND course_id = ?", id, courseID).
		First(&quiz).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *QuizRepository) FindByCourse(courseID uint) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.DB.Preload("Questions").
		Where("course_id = ?", courseID).
		Order("code asc").
		Find(&quizzes).Error
	return quizzes, err
}

// FindByCode 查重用，excludeID 排除自身（更新场景传自身 ID）
func (r *QuizRepository) FindByCode(code string, excludeID uint) (*model.Quiz, error) {
	var quiz model.Quiz
	query := r.DB.Where("code = ?", code)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.First(&quiz).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *QuizRepository) Update(quiz *model.Quiz) error {
	return r.DB.Save(quiz).Error
}

// ReplaceQuestions 整体替换题目（更新测验时旧题全删重建）
func (r *QuizRepository) ReplaceQuestions(quizID uint, questions []model.Question) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("quiz_id = ?", quizID).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		for i := range questions {
			questions[i].QuizID = quizID
		}
		if len(questions) == 0 {
			return nil
		}
		return tx.Create(&questions).Error
	})
}

func (r *QuizRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Quiz{}, id).Error
}

func (r *QuizRepository) SaveResult(result *model.QuizResult) error {
	return r.DB.Create(result).Error
}

// BestResult 返回 (user, quiz) 的历史最高分记录；无记录返回 ErrRecordNotFound
func (r *QuizRepository) BestResult(userID, quizID uint) (*model.QuizResult, error) {
	var result model.QuizResult
	err := r.DB.Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Order("score desc").
		First(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *QuizRepository) ResultsByQuiz(quizID uint) ([]model.QuizResult, error) {
	var results []model.QuizResult
	err := r.DB.Where("quiz_id = ?", quizID).
		Order("created_at desc").
		Find(&results).Error
	return results, err
}

func (r *QuizRepository) ResultsByUser(userID uint) ([]model.QuizResult, error) {
	var results []model.QuizResult
	err := r.DB.Where("user_id = ?", userID).
		Preload("Quiz.Course").
		Order("created_at desc").
		Find(&results).Error
	return results, err
}
