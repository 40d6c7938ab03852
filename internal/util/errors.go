package util

import "errors"

var (
	ErrUserNotFound        = errors.New("用户不存在")
	ErrEmailRegistered     = errors.New("该邮箱已被注册")
	ErrInvalidRole         = errors.New("invalid role")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrQuestNotFound       = errors.New("quest not found")
	ErrQuestNotPublished   = errors.New("quest not published")
	ErrAttemptNotFound     = errors.New("attempt not found")
	ErrAttemptLimitReached = errors.New("attempt limit reached")
	ErrAttemptSubmitted    = errors.New("attempt already submitted")
	ErrClassNotFound       = errors.New("class not found")
	ErrReportNotFound      = errors.New("report not found")
	ErrStoreUnavailable    = errors.New("data store unavailable")
)
