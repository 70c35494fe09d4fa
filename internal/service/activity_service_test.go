package service

import (
	"errors"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"testing"
	"time"

	"gorm.io/gorm"
)

func newActivityFixture(t *testing.T) (*ActivityService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)

	progressRepo := repository.NewProgressRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	lessonRepo := repository.NewLessonRepository(db)
	cache := NewDashboardCache(nil)

	aggregator := NewProgressService(progressRepo, enrollmentRepo, lessonRepo, cache)
	return NewActivityService(repository.NewActivityRepository(db), aggregator, nil), db
}

// backdate 把会话开始时间拨回 seconds 秒前，模拟已经进行了一段时间的会话
func backdate(t *testing.T, db *gorm.DB, activityID uint, seconds int) {
	t.Helper()
	err := db.Model(&model.Activity{}).
		Where("id = ?", activityID).
		Update("start_time", time.Now().Add(-time.Duration(seconds)*time.Second)).Error
	if err != nil {
		t.Fatalf("backdate activity: %v", err)
	}
}

func TestEndActivityAccumulatesWatchTime(t *testing.T) {
	svc, db := newActivityFixture(t)
	courseID, _, lessonID, _ := seedCourseTree(t, db)

	const userID = 1
	seedEnrollment(t, db, userID, courseID)

	for _, seconds := range []int{5, 3, 10} {
		activity, err := svc.StartActivity(userID, model.ActivityLesson, lessonID)
		if err != nil {
			t.Fatalf("start: %v", err)
		}
		backdate(t, db, activity.ID, seconds)

		closed, err := svc.EndActivity(userID, activity.ID, "")
		if err != nil {
			t.Fatalf("end: %v", err)
		}
		if closed.TimeSpent() != seconds {
			t.Errorf("timeSpent = %d, want %d", closed.TimeSpent(), seconds)
		}
	}

	var progress model.Progress
	if err := db.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&progress).Error; err != nil {
		t.Fatalf("load progress: %v", err)
	}
	if progress.WatchTime != 18 {
		t.Errorf("watchTime = %d, want 18", progress.WatchTime)
	}

	var enrollment model.Enrollment
	if err := db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error; err != nil {
		t.Fatalf("load enrollment: %v", err)
	}
	if enrollment.CompletedTime != 18 {
		t.Errorf("enrollment completedTime = %d, want 18", enrollment.CompletedTime)
	}
}

func TestEndActivityTwice(t *testing.T) {
	svc, db := newActivityFixture(t)
	courseID, _, lessonID, _ := seedCourseTree(t, db)

	const userID = 1
	seedEnrollment(t, db, userID, courseID)

	activity, err := svc.StartActivity(userID, model.ActivityLesson, lessonID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	backdate(t, db, activity.ID, 7)

	if _, err := svc.EndActivity(userID, activity.ID, ""); err != nil {
		t.Fatalf("first end: %v", err)
	}
	if _, err := svc.EndActivity(userID, activity.ID, ""); !errors.Is(err, util.ErrActivityNotFound) {
		t.Fatalf("second end err = %v, want ErrActivityNotFound", err)
	}

	// 时长只累计一次
	var progress model.Progress
	if err := db.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&progress).Error; err != nil {
		t.Fatalf("load progress: %v", err)
	}
	if progress.WatchTime != 7 {
		t.Errorf("watchTime = %d, want 7", progress.WatchTime)
	}
}

func TestEndActivityWrongUser(t *testing.T) {
	svc, db := newActivityFixture(t)
	_, _, lessonID, _ := seedCourseTree(t, db)

	activity, err := svc.StartActivity(1, model.ActivityLesson, lessonID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	if _, err := svc.EndActivity(2, activity.ID, ""); !errors.Is(err, util.ErrPermissionDenied) {
		t.Fatalf("end by other user err = %v, want ErrPermissionDenied", err)
	}

	// 拒绝不产生状态变更，属主仍可正常关闭
	var reloaded model.Activity
	if err := db.First(&reloaded, activity.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.EndTime != nil {
		t.Fatal("activity was closed by a non-owner")
	}
	if _, err := svc.EndActivity(1, activity.ID, ""); err != nil {
		t.Fatalf("owner end after denial: %v", err)
	}
}

func TestEndActivityNotFound(t *testing.T) {
	svc, _ := newActivityFixture(t)

	if _, err := svc.EndActivity(1, 9999, ""); !errors.Is(err, util.ErrActivityNotFound) {
		t.Fatalf("err = %v, want ErrActivityNotFound", err)
	}
}

func TestCompletionFollowsLatestSignal(t *testing.T) {
	svc, db := newActivityFixture(t)
	courseID, _, lessonID, _ := seedCourseTree(t, db)

	const userID = 1
	seedEnrollment(t, db, userID, courseID)

	end := func(status string) {
		t.Helper()
		activity, err := svc.StartActivity(userID, model.ActivityLesson, lessonID)
		if err != nil {
			t.Fatalf("start: %v", err)
		}
		backdate(t, db, activity.ID, 2)
		if _, err := svc.EndActivity(userID, activity.ID, status); err != nil {
			t.Fatalf("end: %v", err)
		}
	}

	end(CompletionCompleted)
	var progress model.Progress
	db.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&progress)
	if !progress.Completed {
		t.Fatal("completed = false after completed signal")
	}

	// 后到的未完成信号覆盖之前的完成标记
	end("in_progress")
	db.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&progress)
	if progress.Completed {
		t.Fatal("completed = true, want latest signal to win")
	}
	if progress.WatchTime != 4 {
		t.Errorf("watchTime = %d, want 4", progress.WatchTime)
	}
}

func TestEndActivityOrphanedLesson(t *testing.T) {
	svc, db := newActivityFixture(t)

	// 课时不存在：归属解析失败，但会话关闭与进度记录照常
	const userID, ghostLesson = 1, 404
	activity, err := svc.StartActivity(userID, model.ActivityLesson, ghostLesson)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	backdate(t, db, activity.ID, 6)

	if _, err := svc.EndActivity(userID, activity.ID, ""); err != nil {
		t.Fatalf("end orphaned: %v", err)
	}

	var progress model.Progress
	if err := db.Where("user_id = ? AND lesson_id = ?", userID, ghostLesson).First(&progress).Error; err != nil {
		t.Fatalf("load progress: %v", err)
	}
	if progress.WatchTime != 6 {
		t.Errorf("watchTime = %d, want 6", progress.WatchTime)
	}

	var count int64
	db.Model(&model.Enrollment{}).Count(&count)
	if count != 0 {
		t.Errorf("enrollments = %d, want 0", count)
	}
}

func TestEndActivityNotEnrolled(t *testing.T) {
	svc, db := newActivityFixture(t)
	_, _, lessonID, _ := seedCourseTree(t, db)

	// 没有选课记录：课程能解析出来，但不为不存在的选课补时长
	const userID = 1
	activity, err := svc.StartActivity(userID, model.ActivityLesson, lessonID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	backdate(t, db, activity.ID, 9)

	if _, err := svc.EndActivity(userID, activity.ID, ""); err != nil {
		t.Fatalf("end: %v", err)
	}

	var progress model.Progress
	if err := db.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&progress).Error; err != nil {
		t.Fatalf("load progress: %v", err)
	}
	if progress.WatchTime != 9 {
		t.Errorf("watchTime = %d, want 9", progress.WatchTime)
	}
}

func TestQuizActivitySkipsAggregation(t *testing.T) {
	svc, db := newActivityFixture(t)

	const userID = 1
	activity, err := svc.StartActivity(userID, model.ActivityQuiz, 42)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	backdate(t, db, activity.ID, 30)

	if _, err := svc.EndActivity(userID, activity.ID, ""); err != nil {
		t.Fatalf("end: %v", err)
	}

	var count int64
	db.Model(&model.Progress{}).Count(&count)
	if count != 0 {
		t.Errorf("progress rows = %d, want 0 for QUIZ activity", count)
	}
}

func TestTotalTimeCountsOnlyClosed(t *testing.T) {
	svc, db := newActivityFixture(t)

	const userID = 1
	a1, _ := svc.StartActivity(userID, model.ActivityQuiz, 1)
	backdate(t, db, a1.ID, 20)
	if _, err := svc.EndActivity(userID, a1.ID, ""); err != nil {
		t.Fatalf("end: %v", err)
	}

	a2, _ := svc.StartActivity(userID, model.ActivityQuiz, 2)
	backdate(t, db, a2.ID, 100) // 仍处于打开状态，不计入

	total, err := svc.TotalTime(userID)
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	if total != 20 {
		t.Errorf("total = %d, want 20", total)
	}
}
