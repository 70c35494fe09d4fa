package model

import "time"

type UserRole string

const (
	Student UserRole = "STUDENT"
	Admin   UserRole = "ADMIN"
)

// swagger:model User
type User struct {
	BaseModel
	Email     string    `gorm:"size:100;unique;not null" json:"email"`
	Password  string    `gorm:"size:100;not null" json:"-"`
	FullName  string    `gorm:"size:100;not null" json:"fullName"`
	Whatsapp  string    `gorm:"size:30" json:"whatsapp"`
	Role      UserRole  `gorm:"size:20;default:'STUDENT'" json:"role"`
	LastLogin time.Time `json:"lastLogin"`

	Enrollments []Enrollment `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (User) TableName() string {
	return "users"
}
