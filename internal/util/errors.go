package util

import "errors"

var (
	ErrUserNotFound     = errors.New("用户不存在")
	ErrEmailRegistered  = errors.New("该邮箱已被注册")
	ErrPermissionDenied = errors.New("permission denied")
	ErrMajorNotFound    = errors.New("major not found")
	ErrRoadmapNotFound  = errors.New("roadmap not found")
	ErrSessionNotFound  = errors.New("chat session not found")
)
