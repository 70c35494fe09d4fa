package service

import (
	"errors"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"testing"

	"gorm.io/gorm"
)

func TestGrade(t *testing.T) {
	questions := []model.Question{
		{Text: "q1", Options: model.StringList{"a", "b", "c", "d"}, Answer: 0},
		{Text: "q2", Options: model.StringList{"a", "b", "c", "d"}, Answer: 2},
		{Text: "q3", Options: model.StringList{"a", "b", "c", "d"}, Answer: 1},
		{Text: "q4", Options: model.StringList{"a", "b", "c", "d"}, Answer: 3},
	}

	tests := []struct {
		name    string
		answers []int
		want    float64
	}{
		{"all correct", []int{0, 2, 1, 3}, 100},
		{"all wrong", []int{1, 3, 0, 2}, 0},
		{"half correct", []int{0, 2, 0, 0}, 50},
		{"short answers count as wrong", []int{0, 2}, 50},
		{"empty answers", []int{}, 0},
		{"extra answers ignored", []int{0, 2, 1, 3, 1, 1}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Grade(questions, tt.answers); got != tt.want {
				t.Errorf("Grade() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGradeNoQuestions(t *testing.T) {
	if got := Grade(nil, []int{1, 2, 3}); got != 0 {
		t.Errorf("Grade(no questions) = %v, want 0", got)
	}
}

func newQuizFixture(t *testing.T) (*QuizService, *gorm.DB, uint, uint) {
	t.Helper()
	db := newTestDB(t)

	course := &model.Course{Code: "GO101", Title: "Go 入门"}
	if err := db.Create(course).Error; err != nil {
		t.Fatalf("seed course: %v", err)
	}
	quiz := &model.Quiz{
		Code:     "QZ1",
		Title:    "语法小测",
		CourseID: course.ID,
		Questions: []model.Question{
			{Text: "q1", Options: model.StringList{"a", "b"}, Answer: 0},
			{Text: "q2", Options: model.StringList{"a", "b"}, Answer: 1},
		},
	}
	if err := db.Create(quiz).Error; err != nil {
		t.Fatalf("seed quiz: %v", err)
	}

	svc := NewQuizService(repository.NewQuizRepository(db), NewDashboardCache(nil))
	return svc, db, course.ID, quiz.ID
}

func TestBestAttemptKeepsOnlyImprovements(t *testing.T) {
	svc, db, courseID, quizID := newQuizFixture(t)
	const userID = 1

	submit := func(answers []int) (*model.QuizResult, bool) {
		t.Helper()
		result, persisted, err := svc.SubmitInCourse(userID, courseID, quizID, answers, 60, BestAttemptPolicy{})
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		return result, persisted
	}

	// 50 分：首次提交必然落库
	result, persisted := submit([]int{0, 0})
	if !persisted || result.Score != 50 {
		t.Fatalf("first attempt: persisted=%v score=%v, want true/50", persisted, result.Score)
	}

	// 0 分：低于历史最佳，不落库，返回历史最佳
	result, persisted = submit([]int{1, 0})
	if persisted {
		t.Fatal("worse attempt was persisted")
	}
	if result.Score != 50 {
		t.Errorf("returned score = %v, want best of 50", result.Score)
	}

	// 50 分：持平也不落库
	_, persisted = submit([]int{0, 0})
	if persisted {
		t.Fatal("equal attempt was persisted")
	}

	// 100 分：新高落库
	result, persisted = submit([]int{0, 1})
	if !persisted || result.Score != 100 {
		t.Fatalf("improved attempt: persisted=%v score=%v, want true/100", persisted, result.Score)
	}

	var count int64
	db.Model(&model.QuizResult{}).Where("user_id = ?", userID).Count(&count)
	if count != 2 {
		t.Errorf("stored results = %d, want 2", count)
	}
}

func TestAppendOnlyKeepsEveryAttempt(t *testing.T) {
	svc, db, _, quizID := newQuizFixture(t)
	const userID = 1

	for _, answers := range [][]int{{0, 0}, {1, 0}, {0, 1}} {
		if _, persisted, err := svc.Submit(userID, quizID, answers, 30, AppendOnlyPolicy{}); err != nil || !persisted {
			t.Fatalf("submit: persisted=%v err=%v", persisted, err)
		}
	}

	var count int64
	db.Model(&model.QuizResult{}).Where("user_id = ?", userID).Count(&count)
	if count != 3 {
		t.Errorf("stored results = %d, want 3", count)
	}
}

func TestSubmitInCourseChecksOwnership(t *testing.T) {
	svc, db, _, quizID := newQuizFixture(t)

	other := &model.Course{Code: "PY101", Title: "Python 入门"}
	if err := db.Create(other).Error; err != nil {
		t.Fatalf("seed course: %v", err)
	}

	_, _, err := svc.SubmitInCourse(1, other.ID, quizID, []int{0, 1}, 10, BestAttemptPolicy{})
	if !errors.Is(err, util.ErrQuizNotFound) {
		t.Fatalf("err = %v, want ErrQuizNotFound", err)
	}
}

func TestSubmitUnknownQuiz(t *testing.T) {
	svc, _, _, _ := newQuizFixture(t)

	_, _, err := svc.Submit(1, 9999, []int{0}, 10, AppendOnlyPolicy{})
	if !errors.Is(err, util.ErrQuizNotFound) {
		t.Fatalf("err = %v, want ErrQuizNotFound", err)
	}
}

func TestSubmitStoresAnswers(t *testing.T) {
	svc, db, _, quizID := newQuizFixture(t)

	if _, _, err := svc.Submit(1, quizID, []int{0, 1}, 45, AppendOnlyPolicy{}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	var stored model.QuizResult
	if err := db.Where("user_id = ? AND quiz_id = ?", 1, quizID).First(&stored).Error; err != nil {
		t.Fatalf("load result: %v", err)
	}
	if len(stored.Answers) != 2 || stored.Answers[0] != 0 || stored.Answers[1] != 1 {
		t.Errorf("answers = %v, want [0 1]", stored.Answers)
	}
	if stored.TimeSpent != 45 {
		t.Errorf("timeSpent = %d, want 45", stored.TimeSpent)
	}
}

func TestCreateQuizRejectsDuplicateCode(t *testing.T) {
	svc, _, courseID, _ := newQuizFixture(t)

	_, err := svc.CreateQuiz(courseID, "QZ1", "重复编码", "", nil)
	if !errors.Is(err, util.ErrQuizCodeTaken) {
		t.Fatalf("err = %v, want ErrQuizCodeTaken", err)
	}
}

func TestUpdateQuizReplacesQuestions(t *testing.T) {
	svc, db, courseID, quizID := newQuizFixture(t)

	updated, err := svc.UpdateQuiz(courseID, quizID, "QZ1", "语法小测 v2", "", []QuestionInput{
		{Text: "new q1", Options: []string{"x", "y", "z"}, Answer: 2},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(updated.Questions) != 1 || updated.Questions[0].Text != "new q1" {
		t.Fatalf("questions not replaced: %+v", updated.Questions)
	}

	var count int64
	db.Model(&model.Question{}).Where("quiz_id = ?", quizID).Count(&count)
	if count != 1 {
		t.Errorf("question rows = %d, want 1", count)
	}
}
