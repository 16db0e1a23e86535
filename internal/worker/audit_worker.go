package worker

import (
	"context"
	"fmt"
	"log/slog"

	"spese/internal/amqp"
	"spese/internal/store"
)

// AuditWorker records category and expense change messages in the audit log
type AuditWorker struct {
	recorder store.AuditRecorder
}

func NewAuditWorker(recorder store.AuditRecorder) *AuditWorker {
	return &AuditWorker{recorder: recorder}
}

// HandleChange processes a single change message from AMQP.
// Redelivered messages are ignored by the recorder through their event id.
func (w *AuditWorker) HandleChange(ctx context.Context, msg *amqp.ChangeMessage) error {
	slog.InfoContext(ctx, "Processing change message",
		"event_id", msg.EventID,
		"entity", msg.Entity,
		"action", msg.Action,
		"id", msg.ID)

	entry := store.AuditEntry{
		EventID:    msg.EventID,
		Entity:     msg.Entity,
		Action:     msg.Action,
		EntityID:   msg.ID,
		OccurredAt: msg.Timestamp,
	}
	if err := w.recorder.RecordAudit(ctx, entry); err != nil {
		return fmt.Errorf("record audit entry: %w", err)
	}
	return nil
}
