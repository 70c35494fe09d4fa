package service

import (
	"lms_backend/internal/model"
	"lms_backend/pkg/database"
	"lms_backend/pkg/logger"
	"testing"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	logger.Log = zap.NewNop()
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// 内存库每个连接一份，锁住单连接避免表丢失
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// seedCourseTree 建一门课：一个学科，两节课时，返回各自 ID
func seedCourseTree(t *testing.T, db *gorm.DB) (courseID, disciplineID, lesson1ID, lesson2ID uint) {
	t.Helper()

	course := &model.Course{Code: "GO101", Title: "Go 入门"}
	if err := db.Create(course).Error; err != nil {
		t.Fatalf("seed course: %v", err)
	}
	discipline := &model.Discipline{Title: "基础语法", CourseID: course.ID, Order: 0}
	if err := db.Create(discipline).Error; err != nil {
		t.Fatalf("seed discipline: %v", err)
	}
	lesson1 := &model.Lesson{Title: "变量与类型", DisciplineID: discipline.ID, Order: 1}
	lesson2 := &model.Lesson{Title: "流程控制", DisciplineID: discipline.ID, Order: 2}
	if err := db.Create(lesson1).Error; err != nil {
		t.Fatalf("seed lesson: %v", err)
	}
	if err := db.Create(lesson2).Error; err != nil {
		t.Fatalf("seed lesson: %v", err)
	}
	return course.ID, discipline.ID, lesson1.ID, lesson2.ID
}

func seedEnrollment(t *testing.T, db *gorm.DB, userID, courseID uint) {
	t.Helper()
	if err := db.Create(&model.Enrollment{UserID: userID, CourseID: courseID}).Error; err != nil {
		t.Fatalf("seed enrollment: %v", err)
	}
}
