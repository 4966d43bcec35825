package monitoring

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

const streamTicketTTL = 5 * time.Minute

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type RaiseAlertInput struct {
	Kind     AlertKind
	Severity Severity
	Message  string
	Source   Source
}

func (s *Service) RaiseAlert(ctx context.Context, profileID string, in RaiseAlertInput) (Alert, error) {
	profileID = strings.TrimSpace(profileID)
	if profileID == "" || in.Kind == "" {
		return Alert{}, ErrInvalidInput
	}

	severity := in.Severity
	if severity == "" {
		severity = SeverityWarning
	}
	src := in.Source
	if src == "" {
		src = SourceDevice
	}

	a := Alert{
		ID:        uuid.NewString(),
		ProfileID: profileID,
		Kind:      in.Kind,
		Severity:  severity,
		Message:   strings.TrimSpace(in.Message),
		Source:    src,
		RaisedAt:  s.now(),
		Status:    AlertStatusActive,
	}

	if err := s.repo.CreateAlert(ctx, a); err != nil {
		return Alert{}, err
	}
	return a, nil
}

func (s *Service) ListAlerts(ctx context.Context, profileID string, f AlertFilter) ([]Alert, error) {
	profileID = strings.TrimSpace(profileID)
	if profileID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListAlertsByProfile(ctx, profileID, f)
}

// Acknowledge marca la alerta como reconocida. Idempotente: reconocer una
// alerta ya reconocida devuelve el estado actual sin error.
func (s *Service) Acknowledge(ctx context.Context, alertID, by string) (Alert, error) {
	alertID = strings.TrimSpace(alertID)
	by = strings.TrimSpace(by)
	if alertID == "" || by == "" {
		return Alert{}, ErrInvalidInput
	}

	a, err := s.repo.GetAlertByID(ctx, alertID)
	if err != nil {
		return Alert{}, ErrNotFound
	}

	if a.Status == AlertStatusAcknowledged {
		return a, nil
	}

	now := s.now()
	a.Status = AlertStatusAcknowledged
	a.AckedBy = by
	a.AckedAt = &now

	if err := s.repo.UpdateAlert(ctx, a); err != nil {
		return Alert{}, err
	}
	return a, nil
}

type RecordLogInput struct {
	Kind  LogKind
	Title string
	Body  string
}

func (s *Service) RecordLog(ctx context.Context, profileID, recordedBy string, in RecordLogInput) (LogEntry, error) {
	profileID = strings.TrimSpace(profileID)
	if profileID == "" || strings.TrimSpace(in.Title) == "" {
		return LogEntry{}, ErrInvalidInput
	}
	if in.Kind != LogKindDaily && in.Kind != LogKindReport {
		return LogEntry{}, ErrInvalidInput
	}

	e := LogEntry{
		ID:        uuid.NewString(),
		ProfileID: profileID,
		Kind:      in.Kind,
		Title:     strings.TrimSpace(in.Title),
		Body:      strings.TrimSpace(in.Body),

		RecordedAt: s.now(),
		RecordedBy: strings.TrimSpace(recordedBy),
	}

	if err := s.repo.CreateLogEntry(ctx, e); err != nil {
		return LogEntry{}, err
	}
	return e, nil
}

func (s *Service) ListLogs(ctx context.Context, profileID string, f LogFilter) ([]LogEntry, error) {
	profileID = strings.TrimSpace(profileID)
	if profileID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListLogsByProfile(ctx, profileID, f)
}

// WindowFrom calcula el inicio de la ventana visible para un acceso acotado
// por días. days <= 0 significa sin acceso; el handler corta antes de llegar acá.
func (s *Service) WindowFrom(days int) time.Time {
	return s.now().AddDate(0, 0, -days)
}

// IssueStreamTicket emite un descriptor efímero de sesión de stream.
func (s *Service) IssueStreamTicket(ctx context.Context, profileID string) (StreamTicket, error) {
	profileID = strings.TrimSpace(profileID)
	if profileID == "" {
		return StreamTicket{}, ErrInvalidInput
	}

	now := s.now()
	return StreamTicket{
		SessionID: uuid.NewString(),
		ProfileID: profileID,
		IssuedAt:  now,
		ExpiresAt: now.Add(streamTicketTTL),
	}, nil
}
