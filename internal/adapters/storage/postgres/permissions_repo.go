package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"care-access/internal/domain/permissions"

	"github.com/google/uuid"
)

// PermissionsRepo persiste el agregado (customer, caregiver) en una sola fila.
// Los requests y los canales vigentes van en columnas JSONB: el documento se
// lee y se escribe entero, igual que en el adapter de memoria.
type PermissionsRepo struct {
	db *sql.DB
}

func NewPermissionsRepo(db *sql.DB) *PermissionsRepo {
	return &PermissionsRepo{db: db}
}

const pairColumns = `
	id, customer_id, caregiver_id,
	stream_view, alert_read, alert_ack, profile_view,
	log_access_days, report_access_days,
	notification_channels, requests,
	created_at, updated_at
`

func (r *PermissionsRepo) GetPair(ctx context.Context, customerID, caregiverID string) (permissions.Pair, bool, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+pairColumns+`
		FROM permission_pairs
		WHERE customer_id = $1 AND caregiver_id = $2
	`, customerID, caregiverID)

	p, err := scanPair(row)
	if err == sql.ErrNoRows {
		return permissions.Pair{}, false, nil
	}
	if err != nil {
		return permissions.Pair{}, false, err
	}
	return p, true, nil
}

func (r *PermissionsRepo) CreateEmpty(ctx context.Context, customerID, caregiverID string) (permissions.Pair, error) {
	now := time.Now()
	p := permissions.Pair{
		ID:          uuid.NewString(),
		CustomerID:  customerID,
		CaregiverID: caregiverID,
		Requests:    []permissions.PermissionRequest{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	channels, requests, err := marshalPairDocs(p)
	if err != nil {
		return permissions.Pair{}, err
	}

	// ON CONFLICT cubre la carrera de dos creates simultáneos del mismo par.
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO permission_pairs (
			id, customer_id, caregiver_id,
			stream_view, alert_read, alert_ack, profile_view,
			log_access_days, report_access_days,
			notification_channels, requests,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		ON CONFLICT (customer_id, caregiver_id) DO NOTHING
	`,
		p.ID, p.CustomerID, p.CaregiverID,
		p.Effective.StreamView, p.Effective.AlertRead, p.Effective.AlertAck, p.Effective.ProfileView,
		p.Effective.LogAccessDays, p.Effective.ReportAccessDays,
		channels, requests,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return permissions.Pair{}, err
	}

	// Releemos por si el INSERT perdió la carrera.
	got, found, err := r.GetPair(ctx, customerID, caregiverID)
	if err != nil {
		return permissions.Pair{}, err
	}
	if !found {
		return permissions.Pair{}, fmt.Errorf("permission pair not found after insert")
	}
	return got, nil
}

func (r *PermissionsRepo) Update(ctx context.Context, p permissions.Pair) error {
	channels, requests, err := marshalPairDocs(p)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE permission_pairs
		SET
			stream_view = $2,
			alert_read = $3,
			alert_ack = $4,
			profile_view = $5,
			log_access_days = $6,
			report_access_days = $7,
			notification_channels = $8,
			requests = $9,
			updated_at = $10
		WHERE id = $1
	`,
		p.ID,
		p.Effective.StreamView, p.Effective.AlertRead, p.Effective.AlertAck, p.Effective.ProfileView,
		p.Effective.LogAccessDays, p.Effective.ReportAccessDays,
		channels, requests,
		p.UpdatedAt,
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

func (r *PermissionsRepo) ListByCustomer(ctx context.Context, customerID string) ([]permissions.Pair, error) {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+pairColumns+`
		FROM permission_pairs
		WHERE customer_id = $1
		ORDER BY created_at ASC
	`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]permissions.Pair, 0)
	for rows.Next() {
		p, err := scanPair(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	return out, rows.Err()
}

func (r *PermissionsRepo) GetByRequestIDForCustomer(ctx context.Context, requestID, customerID string) (permissions.Pair, bool, error) {
	return r.getByRequestID(ctx, requestID, "AND customer_id = $2", customerID)
}

func (r *PermissionsRepo) GetByRequestIDForCaregiver(ctx context.Context, requestID, caregiverID string) (permissions.Pair, bool, error) {
	return r.getByRequestID(ctx, requestID, "AND caregiver_id = $2", caregiverID)
}

func (r *PermissionsRepo) GetByRequestID(ctx context.Context, requestID string) (permissions.Pair, bool, error) {
	return r.getByRequestID(ctx, requestID, "")
}

func (r *PermissionsRepo) getByRequestID(ctx context.Context, requestID, extra string, args ...any) (permissions.Pair, bool, error) {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return permissions.Pair{}, false, nil
	}

	query := `
		SELECT ` + pairColumns + `
		FROM permission_pairs
		WHERE EXISTS (
			SELECT 1 FROM jsonb_array_elements(requests) AS req
			WHERE req->>'id' = $1
		)
	` + extra

	row := r.db.QueryRowContext(ctx, query, append([]any{requestID}, args...)...)

	p, err := scanPair(row)
	if err == sql.ErrNoRows {
		return permissions.Pair{}, false, nil
	}
	if err != nil {
		return permissions.Pair{}, false, err
	}
	return p, true, nil
}

// helpers

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPair(row rowScanner) (permissions.Pair, error) {
	var p permissions.Pair
	var channelsRaw, requestsRaw []byte

	if err := row.Scan(
		&p.ID,
		&p.CustomerID,
		&p.CaregiverID,
		&p.Effective.StreamView,
		&p.Effective.AlertRead,
		&p.Effective.AlertAck,
		&p.Effective.ProfileView,
		&p.Effective.LogAccessDays,
		&p.Effective.ReportAccessDays,
		&channelsRaw,
		&requestsRaw,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return permissions.Pair{}, err
	}

	if len(channelsRaw) > 0 {
		if err := json.Unmarshal(channelsRaw, &p.Effective.NotificationChannels); err != nil {
			return permissions.Pair{}, fmt.Errorf("decode notification_channels: %w", err)
		}
	}
	p.Requests = []permissions.PermissionRequest{}
	if len(requestsRaw) > 0 {
		if err := json.Unmarshal(requestsRaw, &p.Requests); err != nil {
			return permissions.Pair{}, fmt.Errorf("decode requests: %w", err)
		}
	}

	return p, nil
}

func marshalPairDocs(p permissions.Pair) (channels, requests []byte, err error) {
	chs := p.Effective.NotificationChannels
	if chs == nil {
		chs = []permissions.Channel{}
	}
	channels, err = json.Marshal(chs)
	if err != nil {
		return nil, nil, fmt.Errorf("encode notification_channels: %w", err)
	}

	reqs := p.Requests
	if reqs == nil {
		reqs = []permissions.PermissionRequest{}
	}
	requests, err = json.Marshal(reqs)
	if err != nil {
		return nil, nil, fmt.Errorf("encode requests: %w", err)
	}

	return channels, requests, nil
}
