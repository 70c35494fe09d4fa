package util

import "errors"

var (
	ErrUserNotFound       = errors.New("用户不存在")
	ErrEmailRegistered    = errors.New("该邮箱已被注册")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrActivityNotFound   = errors.New("activity not found or already closed")
	ErrCourseNotFound     = errors.New("course not found")
	ErrCourseCodeTaken    = errors.New("course code already in use")
	ErrDisciplineNotFound = errors.New("discipline not found")
	ErrLessonNotFound     = errors.New("lesson not found")
	ErrQuizNotFound       = errors.New("quiz not found")
	ErrQuizCodeTaken      = errors.New("quiz code already in use")
	ErrNotEnrolled        = errors.New("user not enrolled in course")
	ErrAlreadyEnrolled    = errors.New("user already enrolled in course")
)
