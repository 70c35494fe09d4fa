package service

import (
	"context"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"testing"

	"gorm.io/gorm"
)

func newDashboardFixture(t *testing.T) (*DashboardService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := NewDashboardService(
		repository.NewEnrollmentRepository(db),
		repository.NewProgressRepository(db),
		repository.NewQuizRepository(db),
		NewDashboardCache(nil),
	)
	return svc, db
}

func TestDashboardCompletionPercent(t *testing.T) {
	svc, db := newDashboardFixture(t)
	courseID, _, lesson1ID, lesson2ID := seedCourseTree(t, db)
	const userID = 1

	seedEnrollment(t, db, userID, courseID)
	if err := db.Model(&model.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Update("completed_time", 300).Error; err != nil {
		t.Fatalf("set completed_time: %v", err)
	}

	// 课时 1 已完成，课时 2 只看了一半
	if err := db.Create(&model.Progress{UserID: userID, LessonID: lesson1ID, WatchTime: 120, Completed: true}).Error; err != nil {
		t.Fatalf("seed progress: %v", err)
	}
	if err := db.Create(&model.Progress{UserID: userID, LessonID: lesson2ID, WatchTime: 40, Completed: false}).Error; err != nil {
		t.Fatalf("seed progress: %v", err)
	}

	dashboard, err := svc.GetDashboard(context.Background(), userID)
	if err != nil {
		t.Fatalf("get dashboard: %v", err)
	}
	if len(dashboard.Courses) != 1 {
		t.Fatalf("courses = %d, want 1", len(dashboard.Courses))
	}

	course := dashboard.Courses[0]
	if course.CompletionPercent != 50 {
		t.Errorf("course completion = %v, want 50", course.CompletionPercent)
	}
	if course.CompletedTime != 300 {
		t.Errorf("completedTime = %d, want 300", course.CompletedTime)
	}
	if len(course.Disciplines) != 1 {
		t.Fatalf("disciplines = %d, want 1", len(course.Disciplines))
	}
	discipline := course.Disciplines[0]
	if discipline.CompletionPercent != 50 {
		t.Errorf("discipline completion = %v, want 50", discipline.CompletionPercent)
	}
	if len(discipline.Lessons) != 2 {
		t.Fatalf("lessons = %d, want 2", len(discipline.Lessons))
	}

	for _, lesson := range discipline.Lessons {
		switch lesson.ID {
		case lesson1ID:
			if lesson.Progress == nil || !lesson.Progress.Completed || lesson.Progress.WatchTime != 120 {
				t.Errorf("lesson1 progress = %+v, want completed with 120s", lesson.Progress)
			}
		case lesson2ID:
			if lesson.Progress == nil || lesson.Progress.Completed || lesson.Progress.WatchTime != 40 {
				t.Errorf("lesson2 progress = %+v, want incomplete with 40s", lesson.Progress)
			}
		}
	}
}

func TestDashboardEmptyCourse(t *testing.T) {
	svc, db := newDashboardFixture(t)

	course := &model.Course{Code: "EMPTY", Title: "空课程"}
	if err := db.Create(course).Error; err != nil {
		t.Fatalf("seed course: %v", err)
	}
	seedEnrollment(t, db, 1, course.ID)

	dashboard, err := svc.GetDashboard(context.Background(), 1)
	if err != nil {
		t.Fatalf("get dashboard: %v", err)
	}
	if len(dashboard.Courses) != 1 {
		t.Fatalf("courses = %d, want 1", len(dashboard.Courses))
	}
	if got := dashboard.Courses[0].CompletionPercent; got != 0 {
		t.Errorf("empty course completion = %v, want 0", got)
	}
}

func TestDashboardIgnoresOtherUsersProgress(t *testing.T) {
	svc, db := newDashboardFixture(t)
	courseID, _, lesson1ID, lesson2ID := seedCourseTree(t, db)

	seedEnrollment(t, db, 1, courseID)
	// 另一个学生全部完成，不应影响用户 1 的视图
	for _, lessonID := range []uint{lesson1ID, lesson2ID} {
		if err := db.Create(&model.Progress{UserID: 2, LessonID: lessonID, WatchTime: 60, Completed: true}).Error; err != nil {
			t.Fatalf("seed progress: %v", err)
		}
	}

	dashboard, err := svc.GetDashboard(context.Background(), 1)
	if err != nil {
		t.Fatalf("get dashboard: %v", err)
	}
	if got := dashboard.Courses[0].CompletionPercent; got != 0 {
		t.Errorf("completion = %v, want 0", got)
	}
	for _, lesson := range dashboard.Courses[0].Disciplines[0].Lessons {
		if lesson.Progress != nil {
			t.Errorf("lesson %d carries another user's progress", lesson.ID)
		}
	}
}

func TestDashboardQuizResults(t *testing.T) {
	svc, db := newDashboardFixture(t)
	courseID, _, _, _ := seedCourseTree(t, db)
	seedEnrollment(t, db, 1, courseID)

	quiz := &model.Quiz{
		Code:     "QZ1",
		Title:    "语法小测",
		CourseID: courseID,
		Questions: []model.Question{
			{Text: "q1", Options: model.StringList{"a", "b"}, Answer: 1},
		},
	}
	if err := db.Create(quiz).Error; err != nil {
		t.Fatalf("seed quiz: %v", err)
	}
	if err := db.Create(&model.QuizResult{UserID: 1, QuizID: quiz.ID, Score: 80, TimeSpent: 90}).Error; err != nil {
		t.Fatalf("seed result: %v", err)
	}
	// 别人的成绩不应出现在本人视图里
	if err := db.Create(&model.QuizResult{UserID: 2, QuizID: quiz.ID, Score: 100}).Error; err != nil {
		t.Fatalf("seed result: %v", err)
	}

	dashboard, err := svc.GetDashboard(context.Background(), 1)
	if err != nil {
		t.Fatalf("get dashboard: %v", err)
	}
	if len(dashboard.QuizResults) != 1 {
		t.Fatalf("quiz results = %d, want 1", len(dashboard.QuizResults))
	}

	view := dashboard.QuizResults[0]
	if view.Score != 80 || view.TimeSpent != 90 {
		t.Errorf("result view = %+v, want score 80 / 90s", view)
	}
	if view.Quiz.Title != "语法小测" {
		t.Errorf("quiz title = %q", view.Quiz.Title)
	}
	if view.Quiz.Course.Title != "Go 入门" {
		t.Errorf("course title = %q", view.Quiz.Course.Title)
	}

	if len(dashboard.Courses[0].Quizzes) != 1 {
		t.Fatalf("course quizzes = %d, want 1", len(dashboard.Courses[0].Quizzes))
	}
	courseQuiz := dashboard.Courses[0].Quizzes[0]
	if len(courseQuiz.Questions) != 0 {
		t.Errorf("dashboard quiz carries %d questions, answer key must not ship", len(courseQuiz.Questions))
	}
	if len(courseQuiz.Results) != 1 || courseQuiz.Results[0].UserID != 1 {
		t.Errorf("dashboard quiz results = %+v, want only own result", courseQuiz.Results)
	}
}

func TestDashboardNoEnrollments(t *testing.T) {
	svc, db := newDashboardFixture(t)
	seedCourseTree(t, db)

	dashboard, err := svc.GetDashboard(context.Background(), 1)
	if err != nil {
		t.Fatalf("get dashboard: %v", err)
	}
	if dashboard.Courses == nil || len(dashboard.Courses) != 0 {
		t.Errorf("courses = %v, want empty slice", dashboard.Courses)
	}
	if dashboard.QuizResults == nil || len(dashboard.QuizResults) != 0 {
		t.Errorf("quizResults = %v, want empty slice", dashboard.QuizResults)
	}
}
