package postgres

import (
	"context"
	"database/sql"
	"strings"

	"care-access/internal/domain/monitoring"
)

type MonitoringRepo struct {
	db *sql.DB
}

func NewMonitoringRepo(db *sql.DB) *MonitoringRepo {
	return &MonitoringRepo{db: db}
}

func (r *MonitoringRepo) CreateAlert(ctx context.Context, a monitoring.Alert) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO alerts (
			id, profile_id,
			kind, severity, message, source,
			raised_at, status, acked_by, acked_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		a.ID,
		a.ProfileID,
		string(a.Kind),
		string(a.Severity),
		a.Message,
		string(a.Source),
		a.RaisedAt,
		string(a.Status),
		a.AckedBy,
		toNullTime(a.AckedAt),
	)
	return err
}

func (r *MonitoringRepo) GetAlertByID(ctx context.Context, id string) (monitoring.Alert, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return monitoring.Alert{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, profile_id,
			kind, severity, message, source,
			raised_at, status, acked_by, acked_at
		FROM alerts
		WHERE id = $1
	`, id)

	return scanAlert(row)
}

func (r *MonitoringRepo) UpdateAlert(ctx context.Context, a monitoring.Alert) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE alerts
		SET
			status = $2,
			acked_by = $3,
			acked_at = $4
		WHERE id = $1
	`,
		a.ID,
		string(a.Status),
		a.AckedBy,
		toNullTime(a.AckedAt),
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MonitoringRepo) ListAlertsByProfile(ctx context.Context, profileID string, f monitoring.AlertFilter) ([]monitoring.Alert, error) {
	profileID = strings.TrimSpace(profileID)
	if profileID == "" {
		return nil, nil
	}

	query := `
		SELECT
			id, profile_id,
			kind, severity, message, source,
			raised_at, status, acked_by, acked_at
		FROM alerts
		WHERE profile_id = $1
	`
	args := []any{profileID}

	if f.Status != "" {
		args = append(args, string(f.Status))
		query += ` AND status = $2`
	}
	query += ` ORDER BY raised_at DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += ` LIMIT $` + itoa(len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]monitoring.Alert, 0)
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}

	return out, rows.Err()
}

func (r *MonitoringRepo) CreateLogEntry(ctx context.Context, e monitoring.LogEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO care_log_entries (
			id, profile_id,
			kind, title, body,
			recorded_at, recorded_by
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		e.ID,
		e.ProfileID,
		string(e.Kind),
		e.Title,
		e.Body,
		e.RecordedAt,
		e.RecordedBy,
	)
	return err
}

func (r *MonitoringRepo) ListLogsByProfile(ctx context.Context, profileID string, f monitoring.LogFilter) ([]monitoring.LogEntry, error) {
	profileID = strings.TrimSpace(profileID)
	if profileID == "" {
		return nil, nil
	}

	query := `
		SELECT
			id, profile_id,
			kind, title, body,
			recorded_at, recorded_by
		FROM care_log_entries
		WHERE profile_id = $1
	`
	args := []any{profileID}

	if f.Kind != "" {
		args = append(args, string(f.Kind))
		query += ` AND kind = $` + itoa(len(args))
	}
	if f.From != nil {
		args = append(args, *f.From)
		query += ` AND recorded_at >= $` + itoa(len(args))
	}
	query += ` ORDER BY recorded_at DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += ` LIMIT $` + itoa(len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]monitoring.LogEntry, 0)
	for rows.Next() {
		var e monitoring.LogEntry
		var kind string

		if err := rows.Scan(
			&e.ID,
			&e.ProfileID,
			&kind,
			&e.Title,
			&e.Body,
			&e.RecordedAt,
			&e.RecordedBy,
		); err != nil {
			return nil, err
		}

		e.Kind = monitoring.LogKind(kind)
		out = append(out, e)
	}

	return out, rows.Err()
}

func scanAlert(row rowScanner) (monitoring.Alert, error) {
	var a monitoring.Alert
	var kind, severity, source, status string
	var ackedAt sql.NullTime

	if err := row.Scan(
		&a.ID,
		&a.ProfileID,
		&kind,
		&severity,
		&a.Message,
		&source,
		&a.RaisedAt,
		&status,
		&a.AckedBy,
		&ackedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return monitoring.Alert{}, ErrNotFound
		}
		return monitoring.Alert{}, err
	}

	a.Kind = monitoring.AlertKind(kind)
	a.Severity = monitoring.Severity(severity)
	a.Source = monitoring.Source(source)
	a.Status = monitoring.AlertStatus(status)
	if ackedAt.Valid {
		t := ackedAt.Time
		a.AckedAt = &t
	}

	return a, nil
}
