package domain

import (
	"context"
	"time"
)

// AuditEventType defines the type of audit event
type AuditEventType string

const (
	// Token lifecycle events
	TokenIssuedEvent     AuditEventType = "TOKEN_ISSUED"
	TokenSupersededEvent AuditEventType = "TOKEN_SUPERSEDED"
	TokenConsumedEvent   AuditEventType = "TOKEN_CONSUMED"
	TokenExpiredEvent    AuditEventType = "TOKEN_EXPIRED"
	TokenRejectedEvent   AuditEventType = "TOKEN_REJECTED"

	// Alias events
	AliasVerifiedEvent AuditEventType = "ALIAS_VERIFIED"
	AliasChangedEvent  AuditEventType = "ALIAS_CHANGED"

	// Delivery events
	TokenDeliveredEvent      AuditEventType = "TOKEN_DELIVERED"
	TokenDeliveryFailedEvent AuditEventType = "TOKEN_DELIVERY_FAILED"

	// Authentication events
	UserLoginEvent  AuditEventType = "USER_LOGIN"
	UserLogoutEvent AuditEventType = "USER_LOGOUT"
)

// AuditEvent represents a business event that occurred in the system.
// It carries the real failure cause for events whose caller-facing outcome
// is deliberately generic.
type AuditEvent struct {
	EventType AuditEventType `json:"event_type"`
	UserID    uint           `json:"user_id,omitempty"`
	TokenID   string         `json:"token_id,omitempty"`
	AliasType AliasType      `json:"alias_type,omitempty"`
	Alias     string         `json:"alias,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	ErrorMsg  string         `json:"error_msg,omitempty"`
	Success   bool           `json:"success"`
}

// AuditLogger defines operations for audit logging
type AuditLogger interface {
	LogEvent(ctx context.Context, event *AuditEvent)
}

// NewAuditEvent creates a new audit event with common fields populated
func NewAuditEvent(eventType AuditEventType) *AuditEvent {
	return &AuditEvent{
		EventType: eventType,
		Timestamp: time.Now().UTC(),
		Success:   true,
	}
}

// WithUser sets the user field
func (e *AuditEvent) WithUser(userID uint) *AuditEvent {
	e.UserID = userID
	return e
}

// WithToken sets the token field
func (e *AuditEvent) WithToken(token *CallbackToken) *AuditEvent {
	if token != nil {
		e.TokenID = token.ID
		e.UserID = token.UserID
		e.AliasType = token.ToAliasType
		e.Alias = token.ToAlias
	}
	return e
}

// WithAlias sets the alias fields
func (e *AuditEvent) WithAlias(aliasType AliasType, alias string) *AuditEvent {
	e.AliasType = aliasType
	e.Alias = alias
	return e
}

// WithError sets error information on the audit event
func (e *AuditEvent) WithError(err error) *AuditEvent {
	e.Success = false
	if err != nil {
		e.ErrorMsg = err.Error()
	}
	return e
}
