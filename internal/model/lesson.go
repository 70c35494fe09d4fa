package model

type ContentType string

const (
	ContentVideo ContentType = "VIDEO"
	ContentPDF   ContentType = "PDF"
	ContentImage ContentType = "IMAGE"
)

// Lesson 课时，最多绑定一个 Content（替换式，不累积）
// swagger:model Lesson
type Lesson struct {
	BaseModel
	Title        string `gorm:"size:200;not null" json:"title"`
	Description  string `gorm:"type:text" json:"description"`
	Order        int    `gorm:"column:sort_order;not null;default:1" json:"order"`
	DisciplineID uint   `gorm:"index;not null" json:"disciplineId"`
	ContentID    *uint  `gorm:"index" json:"contentId,omitempty"`

	Content    *Content    `json:"content,omitempty"`
	Discipline *Discipline `json:"discipline,omitempty"`
}

func (Lesson) TableName() string {
	return "lessons"
}

// Content 课时媒体元数据，创建后只在显式替换/删除时变更
// swagger:model Content
type Content struct {
	BaseModel
	Type     ContentType `gorm:"size:20;not null" json:"type"`
	URL      string      `gorm:"size:500;not null" json:"url"`
	Filename string      `gorm:"size:255;not null" json:"filename"`
	MimeType string      `gorm:"size:100" json:"mimeType"`
	Size     int64       `gorm:"default:0" json:"size"`
	Duration float64     `gorm:"default:0" json:"duration"` // 视频时长（秒），非视频为 0
}

func (Content) TableName() string {
	return "contents"
}
