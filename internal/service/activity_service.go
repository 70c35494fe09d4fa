package service

import (
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/monitoring"
	"time"

	"gorm.io/gorm"
)

const CompletionCompleted = "completed"

// ActivityService 管理计时会话的打开与关闭。
// 打开是宽松的：不校验 resourceId 是否存在，由聚合器在解析时兜底。
// 同一 (user, resource) 允许并发多个会话，服务端不去重。
type ActivityService struct {
	ActivityRepo *repository.ActivityRepository
	Aggregator   *ProgressService
	Feed         *ProgressHub
}

func NewActivityService(activityRepo *repository.ActivityRepository, aggregator *ProgressService, feed *ProgressHub) *ActivityService {
	return &ActivityService{
		ActivityRepo: activityRepo,
		Aggregator:   aggregator,
		Feed:         feed,
	}
}

func (s *ActivityService) StartActivity(userID uint, activityType model.ActivityType, resourceID uint) (*model.Activity, error) {
	activity := &model.Activity{
		UserID:     userID,
		Type:       activityType,
		ResourceID: resourceID,
		StartTime:  time.Now(),
	}
	if err := s.ActivityRepo.Create(activity); err != nil {
		return nil, err
	}
	return activity, nil
}

// EndActivity 关闭会话并同步触发聚合。
// 状态机：OPEN --close--> CLOSED，CLOSED 终态；
// 属主不符拒绝且不产生任何状态变更；重复关闭等同未找到。
func (s *ActivityService) EndActivity(userID, activityID uint, completionStatus string) (*model.Activity, error) {
	activity, err := s.ActivityRepo.FindByID(activityID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrActivityNotFound
		}
		return nil, err
	}

	if activity.UserID != userID {
		return nil, util.ErrPermissionDenied
	}

	endTime := time.Now()
	closed, err := s.ActivityRepo.Close(activityID, endTime)
	if err != nil {
		return nil, err
	}
	if !closed {
		// 已被并发或先前的请求关闭，不能再次累计
		return nil, util.ErrActivityNotFound
	}

	activity.EndTime = &endTime
	timeSpent := activity.TimeSpent()
	monitoring.ActivityClosedCounter.WithLabelValues(string(activity.Type)).Inc()

	// 只有 LESSON 会话参与时长聚合；QUIZ 的成绩走独立的提交通路
	if activity.Type == model.ActivityLesson {
		completed := completionStatus == CompletionCompleted
		if err := s.Aggregator.RecordLessonTime(userID, activity.ResourceID, timeSpent, completed); err != nil {
			return nil, err
		}
		s.Feed.NotifyProgress(userID, ProgressEvent{
			LessonID:  activity.ResourceID,
			TimeSpent: timeSpent,
			Completed: completed,
		})
	}

	return activity, nil
}

// TotalTime 用户已关闭会话的总秒数
func (s *ActivityService) TotalTime(userID uint) (int, error) {
	return s.ActivityRepo.SumClosedSeconds(userID)
}
