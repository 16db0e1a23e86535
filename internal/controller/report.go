package controller

import (
	"context"
	"log/slog"

	applog "spese/internal/log"
)

// Notice levels, matching the show-notification event.
const (
	LevelError   = "error"
	LevelWarning = "warning"
)

// Notice is a non-blocking message for the user.
type Notice struct {
	Level   string
	Message string
}

// Failure classifies a failed user action for the reporting policy.
type Failure int

const (
	// LoadFailure keeps the prior rendered state and is logged only.
	LoadFailure Failure = iota
	// SaveFailure covers add and edit; logged only.
	SaveFailure
	// DeleteFailure is logged and shown to the user.
	DeleteFailure
	// InputFailure is shown to the user before any request is made.
	InputFailure
)

// Reporter is the single error-reporting policy for both controllers.
type Reporter struct {
	logger *applog.Logger
}

func NewReporter(logger *applog.Logger) *Reporter {
	if logger == nil {
		logger = applog.Wrap(slog.Default(), applog.ComponentController)
	}
	return &Reporter{logger: logger}
}

// Report logs the failure and returns the notice to show, if any.
// message is the user-facing text for failures that surface one.
func (r *Reporter) Report(ctx context.Context, kind Failure, op string, err error, message string) *Notice {
	l := r.logger
	if ctxLogger := applog.FromContext(ctx); ctxLogger.Component() != "unknown" {
		l = ctxLogger
	}
	fields := applog.NewFields().WithOperation(op).WithError(err).ToSlice()

	switch kind {
	case InputFailure:
		l.InfoContext(ctx, "Action rejected before request", append(fields, "reason", message)...)
		return &Notice{Level: LevelWarning, Message: message}
	case DeleteFailure:
		l.ErrorContext(ctx, "Delete failed", fields...)
		return &Notice{Level: LevelError, Message: message}
	case SaveFailure:
		l.ErrorContext(ctx, "Save failed", fields...)
	default:
		l.ErrorContext(ctx, "Load failed", fields...)
	}
	return nil
}
