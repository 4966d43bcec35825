package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"care-access/internal/domain/permissions"

	"github.com/google/uuid"
)

type permissionsRepo struct {
	mu     sync.RWMutex
	byID   map[string]permissions.Pair
	byPair map[string]string // "customer|caregiver" -> pair id
}

func NewPermissionsRepo() permissions.Repository {
	return &permissionsRepo{
		byID:   make(map[string]permissions.Pair),
		byPair: make(map[string]string),
	}
}

func pairKey(customerID, caregiverID string) string {
	return customerID + "|" + caregiverID
}

// clonePair copia el agregado con sus slices para que el caller no pueda
// mutar lo guardado por referencia.
func clonePair(p permissions.Pair) permissions.Pair {
	out := p
	out.Effective.NotificationChannels = append([]permissions.Channel(nil), p.Effective.NotificationChannels...)
	out.Requests = make([]permissions.PermissionRequest, len(p.Requests))
	for i, req := range p.Requests {
		out.Requests[i] = req
		out.Requests[i].History = append([]permissions.HistoryEntry(nil), req.History...)
	}
	return out
}

func (r *permissionsRepo) GetPair(ctx context.Context, customerID, caregiverID string) (permissions.Pair, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byPair[pairKey(customerID, caregiverID)]
	if !ok {
		return permissions.Pair{}, false, nil
	}
	return clonePair(r.byID[id]), true, nil
}

func (r *permissionsRepo) CreateEmpty(ctx context.Context, customerID, caregiverID string) (permissions.Pair, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pairKey(customerID, caregiverID)
	if id, exists := r.byPair[key]; exists {
		return clonePair(r.byID[id]), nil
	}

	now := time.Now()
	p := permissions.Pair{
		ID:          uuid.NewString(),
		CustomerID:  customerID,
		CaregiverID: caregiverID,
		Requests:    []permissions.PermissionRequest{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.byID[p.ID] = p
	r.byPair[key] = p.ID
	return clonePair(p), nil
}

func (r *permissionsRepo) Update(ctx context.Context, p permissions.Pair) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == "" {
		return errors.New("pair id required")
	}
	if _, exists := r.byID[p.ID]; !exists {
		return ErrNotFound
	}
	r.byID[p.ID] = clonePair(p)
	return nil
}

func (r *permissionsRepo) ListByCustomer(ctx context.Context, customerID string) ([]permissions.Pair, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]permissions.Pair, 0)
	for _, p := range r.byID {
		if p.CustomerID == customerID {
			out = append(out, clonePair(p))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

func (r *permissionsRepo) GetByRequestIDForCustomer(ctx context.Context, requestID, customerID string) (permissions.Pair, bool, error) {
	return r.findByRequestID(requestID, func(p permissions.Pair) bool {
		return p.CustomerID == customerID
	})
}

func (r *permissionsRepo) GetByRequestIDForCaregiver(ctx context.Context, requestID, caregiverID string) (permissions.Pair, bool, error) {
	return r.findByRequestID(requestID, func(p permissions.Pair) bool {
		return p.CaregiverID == caregiverID
	})
}

func (r *permissionsRepo) GetByRequestID(ctx context.Context, requestID string) (permissions.Pair, bool, error) {
	return r.findByRequestID(requestID, func(permissions.Pair) bool { return true })
}

func (r *permissionsRepo) findByRequestID(requestID string, match func(permissions.Pair) bool) (permissions.Pair, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.byID {
		if !match(p) {
			continue
		}
		for i := range p.Requests {
			if p.Requests[i].ID == requestID {
				return clonePair(p), true, nil
			}
		}
	}
	return permissions.Pair{}, false, nil
}
