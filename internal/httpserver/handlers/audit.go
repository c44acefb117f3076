package handlers

import (
	"context"

	"go.uber.org/zap"

	"qcreports/internal/auth"
	"qcreports/internal/models"
	"qcreports/internal/store"
)

// recordAudit appends to the activity trail. A failed write is logged and
// does not fail the request.
func recordAudit(ctx context.Context, audit store.Audit, lg *zap.SugaredLogger, action, source, reportID string, meta map[string]any) {
	entry := models.AuditLog{Action: action, Source: source}
	if sub := auth.Subject(ctx); sub != "" {
		entry.UserID = &sub
	}
	if reportID != "" {
		entry.ReportID = &reportID
	}
	if len(meta) > 0 {
		if b, err := models.EncodeJSON(meta); err == nil {
			entry.Metadata = b
		}
	}
	if err := audit.Record(ctx, &entry); err != nil {
		lg.Warnw("audit write failed", "action", action, "error", err)
	}
}
