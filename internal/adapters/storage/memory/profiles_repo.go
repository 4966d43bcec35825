package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"care-access/internal/domain/profiles"
)

var (
	ErrNotFound = errors.New("not found")
)

type profileRepo struct {
	mu   sync.RWMutex
	byID map[string]profiles.CareProfile
}

func NewProfilesRepo() profiles.Repository {
	return &profileRepo{
		byID: make(map[string]profiles.CareProfile),
	}
}

func (r *profileRepo) Create(ctx context.Context, p profiles.CareProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("profile id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return errors.New("profile already exists")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *profileRepo) Update(ctx context.Context, p profiles.CareProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("profile id required")
	}
	if _, exists := r.byID[p.ID]; !exists {
		return ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *profileRepo) GetByID(ctx context.Context, id string) (profiles.CareProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return profiles.CareProfile{}, ErrNotFound
	}
	return p, nil
}

func (r *profileRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]profiles.CareProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]profiles.CareProfile, 0)
	for _, p := range r.byID {
		if p.OwnerUserID == ownerUserID {
			out = append(out, p)
		}
	}

	// Orden estable por created_at asc (solo para consistencia en dev)
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}
