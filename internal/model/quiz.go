package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// StringList 有序字符串列表，存储时序列化为 JSON。
// 序列化只发生在存储边界，业务逻辑始终使用切片。
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *StringList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

// IntList 有序整数列表（提交的选项下标）
type IntList []int

func (l IntList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *IntList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

func scanJSON(value interface{}, dest interface{}) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return errors.New("unsupported column type for JSON list")
	}
}

// Quiz 测验，归属课程，code 全局唯一
// swagger:model Quiz
type Quiz struct {
	BaseModel
	Code        string `gorm:"size:50;unique;not null" json:"code"`
	Title       string `gorm:"size:200;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	CourseID    uint   `gorm:"index;not null" json:"courseId"`

	Course    *Course      `json:"course,omitempty"`
	Questions []Question   `gorm:"constraint:OnDelete:CASCADE" json:"questions,omitempty"`
	Results   []QuizResult `gorm:"constraint:OnDelete:CASCADE" json:"results,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// Question 题目。Answer 是 Options 中正确选项的下标
// swagger:model Question
type Question struct {
	BaseModel
	QuizID  uint       `gorm:"index;not null" json:"quizId"`
	Text    string     `gorm:"type:text;not null" json:"text"`
	Options StringList `gorm:"type:text;not null" json:"options"`
	Answer  int        `gorm:"not null" json:"answer"`
}

func (Question) TableName() string {
	return "questions"
}

// QuizResult 一次测验成绩。同一 (user, quiz) 可有多条历史记录，
// 对外展示的当前成绩取最高分。
// swagger:model QuizResult
type QuizResult struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"userId"`
	QuizID    uint      `gorm:"index;not null" json:"quizId"`
	Score     float64   `gorm:"not null" json:"score"`
	Answers   IntList   `gorm:"type:text" json:"answers"`
	TimeSpent int       `gorm:"default:0" json:"timeSpent"`
	CreatedAt time.Time `json:"createdAt"`

	Quiz *Quiz `json:"quiz,omitempty"`
}

func (QuizResult) TableName() string {
	return "quiz_results"
}
