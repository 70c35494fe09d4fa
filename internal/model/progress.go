package model

// Progress 按 (user, lesson) 唯一的累计观看记录。
// watchTime 只增不减；completed 始终反映最近一次显式信号。
// swagger:model Progress
type Progress struct {
	BaseModel
	UserID    uint `gorm:"uniqueIndex:idx_user_lesson;not null" json:"userId"`
	LessonID  uint `gorm:"uniqueIndex:idx_user_lesson;not null" json:"lessonId"`
	WatchTime int  `gorm:"default:0" json:"watchTime"`
	Completed bool `gorm:"default:false" json:"completed"`

	Lesson *Lesson `json:"lesson,omitempty"`
}

func (Progress) TableName() string {
	return "progresses"
}
