package controller

import (
	"bytes"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/service"
	"lms_backend/internal/util"
	"lms_backend/pkg/database"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newQuizRouter 起一套带假登录态的测验路由，返回路由和底层库
func newQuizRouter(t *testing.T) (*gin.Engine, *gorm.DB, uint, uint) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

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

	svc := service.NewQuizService(repository.NewQuizRepository(db), service.NewDashboardCache(nil))
	ctrl := NewQuizController(svc)

	router := gin.New()
	router.Use(func(ctx *gin.Context) {
		ctx.Set("user", &util.Claims{UserID: 1, Role: model.Student})
	})
	router.POST("/api/quizzes/:id/submit", ctrl.Submit)
	router.POST("/api/courses/:courseId/quizzes/:quizId/submit", ctrl.SubmitInCourse)

	return router, db, course.ID, quiz.ID
}

func submitAnswers(t *testing.T, router *gin.Engine, path string, answers string) int {
	t.Helper()
	body := bytes.NewBufferString(`{"answers":` + answers + `}`)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder.Code
}

func countResults(t *testing.T, db *gorm.DB, userID uint) int64 {
	t.Helper()
	var count int64
	db.Model(&model.QuizResult{}).Where("user_id = ?", userID).Count(&count)
	return count
}

// 课程内通路只保留最佳成绩：满分后交白卷不追加新记录
func TestCourseSubmitKeepsOnlyBest(t *testing.T) {
	router, db, courseID, quizID := newQuizRouter(t)
	path := "/api/courses/" + itoa(courseID) + "/quizzes/" + itoa(quizID) + "/submit"

	if code := submitAnswers(t, router, path, "[0,1]"); code != http.StatusOK {
		t.Fatalf("first submit status = %d", code)
	}
	if code := submitAnswers(t, router, path, "[1,0]"); code != http.StatusOK {
		t.Fatalf("second submit status = %d", code)
	}

	if got := countResults(t, db, 1); got != 1 {
		t.Errorf("stored results = %d, want 1 (worse attempt must not persist)", got)
	}

	var best model.QuizResult
	if err := db.Where("user_id = ?", 1).First(&best).Error; err != nil {
		t.Fatalf("load result: %v", err)
	}
	if best.Score != 100 {
		t.Errorf("kept score = %v, want 100", best.Score)
	}
}

// 学生直连通路全量留痕：成绩变差也照样追加
func TestDirectSubmitKeepsEveryAttempt(t *testing.T) {
	router, db, _, quizID := newQuizRouter(t)
	path := "/api/quizzes/" + itoa(quizID) + "/submit"

	for _, answers := range []string{"[0,1]", "[1,0]", "[0,0]"} {
		if code := submitAnswers(t, router, path, answers); code != http.StatusOK {
			t.Fatalf("submit %s status = %d", answers, code)
		}
	}

	if got := countResults(t, db, 1); got != 3 {
		t.Errorf("stored results = %d, want 3 (every attempt retained)", got)
	}
}

func itoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
