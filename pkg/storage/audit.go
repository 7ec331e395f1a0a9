package storage

import (
	"context"

	"github.com/chris/settlement-console/pkg/models"
)

// AuditFilter selects the audit entries of one target.
type AuditFilter struct {
	TargetType string
	TargetID   string
	Limit      int32
	Cursor     string
}

// PageSize returns the effective limit of the filter.
func (f AuditFilter) PageSize() int32 {
	return clampLimit(f.Limit)
}

// AuditPage is one page of audit entries, oldest first.
type AuditPage struct {
	Items      []models.AuditLogEntry `json:"items"`
	NextCursor string                 `json:"next_cursor,omitempty"`
}

// AuditReader is the only reader of the audit log.
type AuditReader interface {
	ListAudit(ctx context.Context, filter AuditFilter) (*AuditPage, error)
}
