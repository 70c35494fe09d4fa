package service

import (
	"context"
	"errors"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"testing"

	"gorm.io/gorm"
)

func newEnrollmentFixture(t *testing.T) (*EnrollmentService, *DashboardService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	cache := NewDashboardCache(nil)
	enrollment := NewEnrollmentService(
		repository.NewEnrollmentRepository(db),
		repository.NewCourseRepository(db),
		repository.NewUserRepository(db),
		cache,
	)
	dashboard := NewDashboardService(
		repository.NewEnrollmentRepository(db),
		repository.NewProgressRepository(db),
		repository.NewQuizRepository(db),
		cache,
	)
	return enrollment, dashboard, db
}

// 选课后面板立即可见新课程，退课后立即消失
func TestEnrollmentReflectsInDashboard(t *testing.T) {
	enrollment, dashboard, db := newEnrollmentFixture(t)
	courseID, _, _, _ := seedCourseTree(t, db)
	const userID = 1

	if _, err := enrollment.Enroll(userID, courseID); err != nil {
		t.Fatalf("enroll: %v", err)
	}
	view, err := dashboard.GetDashboard(context.Background(), userID)
	if err != nil {
		t.Fatalf("get dashboard: %v", err)
	}
	if len(view.Courses) != 1 || view.Courses[0].ID != courseID {
		t.Fatalf("dashboard after enroll = %+v, want the enrolled course", view.Courses)
	}

	if err := enrollment.Unenroll(userID, courseID); err != nil {
		t.Fatalf("unenroll: %v", err)
	}
	view, err = dashboard.GetDashboard(context.Background(), userID)
	if err != nil {
		t.Fatalf("get dashboard: %v", err)
	}
	if len(view.Courses) != 0 {
		t.Errorf("dashboard after unenroll still shows %d courses", len(view.Courses))
	}
}

func TestEnrollDuplicate(t *testing.T) {
	enrollment, _, db := newEnrollmentFixture(t)
	courseID, _, _, _ := seedCourseTree(t, db)

	if _, err := enrollment.Enroll(1, courseID); err != nil {
		t.Fatalf("enroll: %v", err)
	}
	if _, err := enrollment.Enroll(1, courseID); !errors.Is(err, util.ErrAlreadyEnrolled) {
		t.Fatalf("err = %v, want ErrAlreadyEnrolled", err)
	}
}

func TestEnrollUnknownCourse(t *testing.T) {
	enrollment, _, _ := newEnrollmentFixture(t)

	if _, err := enrollment.Enroll(1, 9999); !errors.Is(err, util.ErrCourseNotFound) {
		t.Fatalf("err = %v, want ErrCourseNotFound", err)
	}
}

func TestUnenrollNotEnrolled(t *testing.T) {
	enrollment, _, db := newEnrollmentFixture(t)
	courseID, _, _, _ := seedCourseTree(t, db)

	if err := enrollment.Unenroll(1, courseID); !errors.Is(err, util.ErrNotEnrolled) {
		t.Fatalf("err = %v, want ErrNotEnrolled", err)
	}
}

func TestDeleteStudentRejectsAdmin(t *testing.T) {
	enrollment, _, db := newEnrollmentFixture(t)

	admin := &model.User{Email: "admin@example.com", Password: "x", FullName: "Admin", Role: model.Admin}
	if err := db.Create(admin).Error; err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	if err := enrollment.DeleteStudent(admin.ID); !errors.Is(err, util.ErrPermissionDenied) {
		t.Fatalf("err = %v, want ErrPermissionDenied", err)
	}
}
