package model

// Course 课程，包含学科与测验
// swagger:model Course
type Course struct {
	BaseModel
	Code        string `gorm:"size:50;unique;not null" json:"code"`
	Title       string `gorm:"size:200;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`

	Disciplines []Discipline `gorm:"constraint:OnDelete:CASCADE" json:"disciplines,omitempty"`
	Quizzes     []Quiz       `gorm:"constraint:OnDelete:CASCADE" json:"quizzes,omitempty"`
	Enrollments []Enrollment `gorm:"constraint:OnDelete:CASCADE" json:"enrollments,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// Discipline 学科，按 order 排序，归属单个课程
// swagger:model Discipline
type Discipline struct {
	BaseModel
	Title       string `gorm:"size:200;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Order       int    `gorm:"column:sort_order;not null;default:0" json:"order"`
	CourseID    uint   `gorm:"index;not null" json:"courseId"`

	Course  *Course  `json:"-"`
	Lessons []Lesson `gorm:"constraint:OnDelete:CASCADE" json:"lessons,omitempty"`
}

func (Discipline) TableName() string {
	return "disciplines"
}

// Enrollment 选课记录，completedTime 累计该课程下已关闭 LESSON 活动的秒数
// swagger:model Enrollment
type Enrollment struct {
	BaseModel
	UserID        uint `gorm:"uniqueIndex:idx_user_course;not null" json:"userId"`
	CourseID      uint `gorm:"uniqueIndex:idx_user_course;not null" json:"courseId"`
	CompletedTime int  `gorm:"default:0" json:"completedTime"`

	Course *Course `json:"course,omitempty"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
