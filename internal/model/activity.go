package model

import "time"

type ActivityType string

const (
	ActivityLesson ActivityType = "LESSON"
	ActivityQuiz   ActivityType = "QUIZ"
)

// Activity 一次计时会话。endTime 为空表示进行中，不计入聚合；
// 关闭是唯一的状态转换，关闭后不可变。
// swagger:model Activity
type Activity struct {
	BaseModel
	UserID     uint         `gorm:"index;not null" json:"userId"`
	Type       ActivityType `gorm:"size:20;not null" json:"type"`
	ResourceID uint         `gorm:"index;not null" json:"resourceId"`
	StartTime  time.Time    `gorm:"not null" json:"startTime"`
	EndTime    *time.Time   `json:"endTime"`
}

func (Activity) TableName() string {
	return "activities"
}

// TimeSpent 关闭后的持续秒数（向下取整）；未关闭返回 0
func (a *Activity) TimeSpent() int {
	if a.EndTime == nil {
		return 0
	}
	return int(a.EndTime.Sub(a.StartTime).Seconds())
}
