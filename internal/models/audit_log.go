package models

import (
	"encoding/json"
	"time"
)

// AuditAction is the kind of change an audit entry records.
type AuditAction string

const (
	AuditCreate  AuditAction = "CREATE"
	AuditUpdate  AuditAction = "UPDATE"
	AuditDelete  AuditAction = "DELETE"
	AuditRestore AuditAction = "RESTORE"
	AuditLogin   AuditAction = "LOGIN"
	AuditLogout  AuditAction = "LOGOUT"
)

// AuditLog is an immutable record of a change made through the API.
type AuditLog struct {
	ID         string          `json:"id"`
	UserID     string          `json:"userId,omitempty"`
	UserType   UserType        `json:"userType,omitempty"`
	Action     AuditAction     `json:"action"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityId,omitempty"`
	OldValues  json.RawMessage `json:"oldValues,omitempty"`
	NewValues  json.RawMessage `json:"newValues,omitempty"`
	IPAddress  string          `json:"ipAddress,omitempty"`
	UserAgent  string          `json:"userAgent,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

func (AuditLog) Header() []string {
	return []string{"ID", "TIME", "USER", "ACTION", "ENTITY", "ENTITY ID"}
}

func (a AuditLog) Row() []string {
	return []string{a.ID, formatTime(a.CreatedAt), a.UserID, string(a.Action), a.EntityType, a.EntityID}
}

// AuditLogFilters narrows GET /audit-logs.
type AuditLogFilters struct {
	ListParams
	UserID     string      `query:"userId"`
	Action     AuditAction `query:"action"`
	EntityType string      `query:"entityType"`
	EntityID   string      `query:"entityId"`
	From       *time.Time  `query:"from"`
	To         *time.Time  `query:"to"`
}
