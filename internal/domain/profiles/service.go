package profiles

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

type CreateInput struct {
	OwnerUserID string
	Name        string
	TimeZone    string
	Address     string
	Mobility    MobilityLevel

	EmergencyContact string
	Notes            string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (CareProfile, error) {
	ownerID := strings.TrimSpace(in.OwnerUserID)
	name := strings.TrimSpace(in.Name)

	if ownerID == "" || name == "" {
		return CareProfile{}, ErrInvalidInput
	}

	mobility := in.Mobility
	if mobility == "" {
		mobility = MobilityIndependent
	}

	now := s.now()
	p := CareProfile{
		ID:          uuid.NewString(),
		OwnerUserID: ownerID,
		Name:        name,
		TimeZone:    strings.TrimSpace(in.TimeZone),
		Address:     strings.TrimSpace(in.Address),
		Mobility:    mobility,

		EmergencyContact: strings.TrimSpace(in.EmergencyContact),
		Notes:            strings.TrimSpace(in.Notes),

		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return CareProfile{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (CareProfile, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return CareProfile{}, ErrInvalidInput
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return CareProfile{}, ErrNotFound
	}
	return p, nil
}

type UpdateInput struct {
	Name             *string
	TimeZone         *string
	Address          *string
	Mobility         *MobilityLevel
	EmergencyContact *string
	Notes            *string
}

// Update aplica cambios parciales; solo los campos no-nil se tocan.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (CareProfile, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return CareProfile{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return CareProfile{}, ErrInvalidInput
		}
		p.Name = name
	}
	if in.TimeZone != nil {
		p.TimeZone = strings.TrimSpace(*in.TimeZone)
	}
	if in.Address != nil {
		p.Address = strings.TrimSpace(*in.Address)
	}
	if in.Mobility != nil {
		p.Mobility = *in.Mobility
	}
	if in.EmergencyContact != nil {
		p.EmergencyContact = strings.TrimSpace(*in.EmergencyContact)
	}
	if in.Notes != nil {
		p.Notes = strings.TrimSpace(*in.Notes)
	}

	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return CareProfile{}, err
	}
	return p, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]CareProfile, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByOwner(ctx, ownerUserID)
}
