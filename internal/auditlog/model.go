package auditlog

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog represents the audit_logs table. Every admin or owner mutation on
// events, requests, users and categories leaves a row here.
type AuditLog struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *uint          `gorm:"index" json:"user_id"` // nullable (e.g. failed login)
	EventID   *uint          `gorm:"index" json:"event_id"`
	Action    string         `gorm:"size:100;not null;index" json:"action"`
	Details   datatypes.JSON `gorm:"type:jsonb" json:"details"`
	IPAddress string         `gorm:"size:45" json:"ip_address"`
	Status    string         `gorm:"size:20;not null;index" json:"status"` // success/failure
	CreatedAt time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
}

// TableName overrides table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}

// AuditLogFilter represents filters for querying audit logs
type AuditLogFilter struct {
	UserID   *uint      `json:"user_id"`
	EventID  *uint      `json:"event_id"`
	Action   string     `json:"action"`
	Status   string     `json:"status"`
	FromDate *time.Time `json:"from_date"`
	ToDate   *time.Time `json:"to_date"`
	Page     int        `json:"page"`
	Limit    int        `json:"limit"`
}

// PaginatedAuditLogs represents paginated audit log response
type PaginatedAuditLogs struct {
	Data       []AuditLog `json:"data"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int        `json:"total_pages"`
}
