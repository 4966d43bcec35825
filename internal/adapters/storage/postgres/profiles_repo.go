package postgres

import (
	"context"
	"database/sql"
	"strings"

	"care-access/internal/domain/profiles"
)

type ProfilesRepo struct {
	db *sql.DB
}

func NewProfilesRepo(db *sql.DB) *ProfilesRepo {
	return &ProfilesRepo{db: db}
}

func (r *ProfilesRepo) Create(ctx context.Context, p profiles.CareProfile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO care_profiles (
			id, owner_user_id,
			name, time_zone, address, mobility,
			emergency_contact, notes,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		p.ID,
		p.OwnerUserID,
		p.Name,
		p.TimeZone,
		p.Address,
		string(p.Mobility),
		p.EmergencyContact,
		p.Notes,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *ProfilesRepo) Update(ctx context.Context, p profiles.CareProfile) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE care_profiles
		SET
			name = $2,
			time_zone = $3,
			address = $4,
			mobility = $5,
			emergency_contact = $6,
			notes = $7,
			updated_at = $8
		WHERE id = $1
	`,
		p.ID,
		p.Name,
		p.TimeZone,
		p.Address,
		string(p.Mobility),
		p.EmergencyContact,
		p.Notes,
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

func (r *ProfilesRepo) GetByID(ctx context.Context, id string) (profiles.CareProfile, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return profiles.CareProfile{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, owner_user_id,
			name, time_zone, address, mobility,
			emergency_contact, notes,
			created_at, updated_at
		FROM care_profiles
		WHERE id = $1
	`, id)

	return scanProfile(row)
}

func (r *ProfilesRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]profiles.CareProfile, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, owner_user_id,
			name, time_zone, address, mobility,
			emergency_contact, notes,
			created_at, updated_at
		FROM care_profiles
		WHERE owner_user_id = $1
		ORDER BY created_at ASC
	`, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]profiles.CareProfile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	return out, rows.Err()
}

func scanProfile(row rowScanner) (profiles.CareProfile, error) {
	var p profiles.CareProfile
	var mobility string

	if err := row.Scan(
		&p.ID,
		&p.OwnerUserID,
		&p.Name,
		&p.TimeZone,
		&p.Address,
		&mobility,
		&p.EmergencyContact,
		&p.Notes,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return profiles.CareProfile{}, ErrNotFound
		}
		return profiles.CareProfile{}, err
	}

	p.Mobility = profiles.MobilityLevel(mobility)
	return p, nil
}
