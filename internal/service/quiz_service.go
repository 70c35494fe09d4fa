package service

import (
	"context"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/monitoring"

	"gorm.io/gorm"
)

// ResultPolicy 决定一次评分结果如何落库。
// 两个策略来自产品侧两条并存的提交通路，不做静默统一：
// 课程内提交只保留最高分，学生直连通路全量留痕。
type ResultPolicy interface {
	Name() string
	Persist(repo *repository.QuizRepository, result *model.QuizResult) (*model.QuizResult, bool, error)
}

// BestAttemptPolicy 只有严格高于历史最高分才写入新记录，
// 否则原样返回历史最高分
type BestAttemptPolicy struct{}

func (BestAttemptPolicy) Name() string { return "best_attempt" }

func (BestAttemptPolicy) Persist(repo *repository.QuizRepository, result *model.QuizResult) (*model.QuizResult, bool, error) {
	best, err := repo.BestResult(result.UserID, result.QuizID)
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			return nil, false, err
		}
		best = nil
	}

	if best != nil && result.Score <= best.Score {
		return best, false, nil
	}

	if err := repo.SaveResult(result); err != nil {
		return nil, false, err
	}
	return result, true, nil
}

// AppendOnlyPolicy 无条件追加新记录
type AppendOnlyPolicy struct{}

func (AppendOnlyPolicy) Name() string { return "append_only" }

func (AppendOnlyPolicy) Persist(repo *repository.QuizRepository, result *model.QuizResult) (*model.QuizResult, bool, error) {
	if err := repo.SaveResult(result); err != nil {
		return nil, false, err
	}
	return result, true, nil
}

type QuizService struct {
	QuizRepo *repository.QuizRepository
	Cache    *DashboardCache
}

func NewQuizService(quizRepo *repository.QuizRepository, cache *DashboardCache) *QuizService {
	return &QuizService{QuizRepo: quizRepo, Cache: cache}
}

// Grade 按位置比对答案下标。
// answers 短于题目数时缺失位置按答错计；零题测验得 0 分，不除零。
func Grade(questions []model.Question, answers []int) float64 {
	total := len(questions)
	if total == 0 {
		return 0
	}

	correct := 0
	for i, question := range questions {
		if i < len(answers) && answers[i] == question.Answer {
			correct++
		}
	}

	return float64(correct) / float64(total) * 100
}

// Submit 评分并按策略落库。返回对外生效的结果记录，
// 以及本次是否产生了新的最高分写入。
func (s *QuizService) Submit(userID, quizID uint, answers []int, timeSpent int, policy ResultPolicy) (*model.QuizResult, bool, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, false, util.ErrQuizNotFound
		}
		return nil, false, err
	}

	return s.SubmitForQuiz(userID, quiz, answers, timeSpent, policy)
}

// SubmitInCourse 校验测验归属课程后提交
func (s *QuizService) SubmitInCourse(userID, courseID, quizID uint, answers []int, timeSpent int, policy ResultPolicy) (*model.QuizResult, bool, error) {
	quiz, err := s.QuizRepo.FindByIDInCourse(quizID, courseID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, false, util.ErrQuizNotFound
		}
		return nil, false, err
	}

	return s.SubmitForQuiz(userID, quiz, answers, timeSpent, policy)
}

func (s *QuizService) SubmitForQuiz(userID uint, quiz *model.Quiz, answers []int, timeSpent int, policy ResultPolicy) (*model.QuizResult, bool, error) {
	result := &model.QuizResult{
		UserID:    userID,
		QuizID:    quiz.ID,
		Score:     Grade(quiz.Questions, answers),
		Answers:   model.IntList(answers),
		TimeSpent: timeSpent,
	}

	persisted, isNew, err := policy.Persist(s.QuizRepo, result)
	if err != nil {
		return nil, false, err
	}

	monitoring.QuizSubmissionCounter.WithLabelValues(policy.Name()).Inc()
	s.Cache.Invalidate(context.Background(), userID)
	return persisted, isNew, nil
}

func (s *QuizService) GetQuiz(quizID uint) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) ResultsForUser(userID uint) ([]model.QuizResult, error) {
	return s.QuizRepo.ResultsByUser(userID)
}

func (s *QuizService) ListByCourse(courseID uint) ([]model.Quiz, error) {
	return s.QuizRepo.FindByCourse(courseID)
}

// QuestionInput 创建/更新测验时的题目载荷
type QuestionInput struct {
	Text    string   `json:"text" binding:"required"`
	Options []string `json:"options" binding:"required"`
	Answer  int      `json:"answer"`
}

func buildQuestions(inputs []QuestionInput) []model.Question {
	questions := make([]model.Question, 0, len(inputs))
	for _, in := range inputs {
		questions = append(questions, model.Question{
			Text:    in.Text,
			Options: model.StringList(in.Options),
			Answer:  in.Answer,
		})
	}
	return questions
}

func (s *QuizService) CreateQuiz(courseID uint, code, title, description string, questions []QuestionInput) (*model.Quiz, error) {
	if _, err := s.QuizRepo.FindByCode(code, 0); err == nil {
		return nil, util.ErrQuizCodeTaken
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	quiz := &model.Quiz{
		Code:        code,
		Title:       title,
		Description: description,
		CourseID:    courseID,
		Questions:   buildQuestions(questions),
	}
	if err := s.QuizRepo.Create(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

// UpdateQuiz 更新基础字段并整体重建题目
func (s *QuizService) UpdateQuiz(courseID, quizID uint, code, title, description string, questions []QuestionInput) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindByIDInCourse(quizID, courseID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}

	if _, err := s.QuizRepo.FindByCode(code, quizID); err == nil {
		return nil, util.ErrQuizCodeTaken
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	quiz.Code = code
	quiz.Title = title
	quiz.Description = description
	quiz.Questions = nil
	if err := s.QuizRepo.Update(quiz); err != nil {
		return nil, err
	}
	if err := s.QuizRepo.ReplaceQuestions(quizID, buildQuestions(questions)); err != nil {
		return nil, err
	}

	return s.QuizRepo.FindByID(quizID)
}

func (s *QuizService) DeleteQuiz(courseID, quizID uint) error {
	if _, err := s.QuizRepo.FindByIDInCourse(quizID, courseID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrQuizNotFound
		}
		return err
	}
	return s.QuizRepo.Delete(quizID)
}

func (s *QuizService) ResultsForQuiz(courseID, quizID uint) ([]model.QuizResult, error) {
	if _, err := s.QuizRepo.FindByIDInCourse(quizID, courseID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	return s.QuizRepo.ResultsByQuiz(quizID)
}
