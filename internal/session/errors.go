package session

import "github.com/betbot/mt5gate/internal/terminal"

// NotConnectedError 会话处于未连接状态：直接用存量诊断短路，完全不碰终端
type NotConnectedError struct {
	Diag *terminal.Error
}

func (e *NotConnectedError) Error() string {
	if e.Diag != nil {
		return e.Diag.Error()
	}
	return "terminal is not connected"
}

// ValidationError 调用方提供的标识没有唯一命中领域实体（命中 0 个或多个）
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
