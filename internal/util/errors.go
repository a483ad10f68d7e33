package util

import "errors"

var (
	ErrUserNotFound     = errors.New("用户不存在")
	ErrEmailRegistered  = errors.New("该邮箱已被注册")
	ErrCourseNotFound   = errors.New("course not found")
	ErrChapterNotFound  = errors.New("chapter not found")
	ErrProgressNotFound = errors.New("no progress recorded")
	ErrQuizSourceShort  = errors.New("chapter content too short for quiz generation")
	ErrAIUnavailable    = errors.New("AI provider is not configured")
)
