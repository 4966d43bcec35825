package monitoring

import (
	"context"
	"time"
)

type Repository interface {
	CreateAlert(ctx context.Context, a Alert) error
	GetAlertByID(ctx context.Context, id string) (Alert, error)
	UpdateAlert(ctx context.Context, a Alert) error
	ListAlertsByProfile(ctx context.Context, profileID string, f AlertFilter) ([]Alert, error)

	CreateLogEntry(ctx context.Context, e LogEntry) error
	ListLogsByProfile(ctx context.Context, profileID string, f LogFilter) ([]LogEntry, error)
}

type AlertFilter struct {
	Status AlertStatus
	Limit  int
}

type LogFilter struct {
	Kind LogKind
	// From acota la ventana visible (inclusive). Nil = sin límite.
	From  *time.Time
	Limit int
}
