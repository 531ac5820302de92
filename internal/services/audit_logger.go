package services

import (
	"context"
	"log"

	"github.com/you/passwordless/domain"
)

// LogAuditLogger implements domain.AuditLogger on the standard logger.
// It records the real cause of token rejections, which the API surface
// deliberately hides behind a single generic failure message.
type LogAuditLogger struct {
	logger *log.Logger
}

// NewAuditLogger creates an audit logger writing to the default log output
func NewAuditLogger() domain.AuditLogger {
	return &LogAuditLogger{logger: log.Default()}
}

// LogEvent implements domain.AuditLogger
func (l *LogAuditLogger) LogEvent(_ context.Context, event *domain.AuditEvent) {
	if event == nil {
		return
	}
	if event.ErrorMsg != "" {
		l.logger.Printf("audit: %s user=%d token=%s alias=%s success=%t err=%q",
			event.EventType, event.UserID, event.TokenID, event.Alias, event.Success, event.ErrorMsg)
		return
	}
	l.logger.Printf("audit: %s user=%d token=%s alias=%s success=%t",
		event.EventType, event.UserID, event.TokenID, event.Alias, event.Success)
}
