package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"care-access/internal/domain/monitoring"
)

type monitoringRepo struct {
	mu       sync.RWMutex
	alerts   map[string]monitoring.Alert
	logsByID map[string]monitoring.LogEntry
}

func NewMonitoringRepo() monitoring.Repository {
	return &monitoringRepo{
		alerts:   make(map[string]monitoring.Alert),
		logsByID: make(map[string]monitoring.LogEntry),
	}
}

func (r *monitoringRepo) CreateAlert(ctx context.Context, a monitoring.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a.ID == "" {
		return errors.New("alert id required")
	}
	if _, exists := r.alerts[a.ID]; exists {
		return errors.New("alert already exists")
	}
	r.alerts[a.ID] = a
	return nil
}

func (r *monitoringRepo) GetAlertByID(ctx context.Context, id string) (monitoring.Alert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.alerts[id]
	if !ok {
		return monitoring.Alert{}, ErrNotFound
	}
	return a, nil
}

func (r *monitoringRepo) UpdateAlert(ctx context.Context, a monitoring.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.alerts[a.ID]; !exists {
		return ErrNotFound
	}
	r.alerts[a.ID] = a
	return nil
}

func (r *monitoringRepo) ListAlertsByProfile(ctx context.Context, profileID string, f monitoring.AlertFilter) ([]monitoring.Alert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]monitoring.Alert, 0)
	for _, a := range r.alerts {
		if a.ProfileID != profileID {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		out = append(out, a)
	}

	// Más recientes primero, igual que el adapter de postgres.
	sort.Slice(out, func(i, j int) bool {
		return out[i].RaisedAt.After(out[j].RaisedAt)
	})

	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *monitoringRepo) CreateLogEntry(ctx context.Context, e monitoring.LogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e.ID == "" {
		return errors.New("log entry id required")
	}
	if _, exists := r.logsByID[e.ID]; exists {
		return errors.New("log entry already exists")
	}
	r.logsByID[e.ID] = e
	return nil
}

func (r *monitoringRepo) ListLogsByProfile(ctx context.Context, profileID string, f monitoring.LogFilter) ([]monitoring.LogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]monitoring.LogEntry, 0)
	for _, e := range r.logsByID {
		if e.ProfileID != profileID {
			continue
		}
		if f.Kind != "" && e.Kind != f.Kind {
			continue
		}
		if f.From != nil && e.RecordedAt.Before(*f.From) {
			continue
		}
		out = append(out, e)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].RecordedAt.After(out[j].RecordedAt)
	})

	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}
