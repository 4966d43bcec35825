package permissions

import (
	"context"
	"strings"
)

// SkipReasonNotEligible marca ids que el prefetch descartó: no existen, no
// son del caller o ya no están PENDING.
const SkipReasonNotEligible = "NOT_FOUND_OR_NOT_OWNED_OR_NOT_PENDING"

type BulkInput struct {
	RequestIDs []string
	Reason     string
	Override   bool
}

type BulkItemStatus string

const (
	BulkItemApproved BulkItemStatus = "APPROVED"
	BulkItemRejected BulkItemStatus = "REJECTED"
	BulkItemSkipped  BulkItemStatus = "SKIPPED"
	BulkItemError    BulkItemStatus = "ERROR"
)

type BulkItemResult struct {
	ID     string
	Status BulkItemStatus
	Reason string
	Error  string
}

// BulkResult siempre se devuelve completo: las fallas por ítem van adentro
// del array, nunca como error de la operación.
type BulkResult struct {
	Updated int
	Results []BulkItemResult
}

// BulkApprove aprueba de a uno los ids elegibles. Primero filtra con un solo
// prefetch el set de ids PENDING del caller; el resto queda SKIPPED. Una
// falla individual se registra como ERROR y no aborta el batch.
func (s *Service) BulkApprove(ctx context.Context, actor Actor, in BulkInput) (BulkResult, error) {
	if actor.Role != RoleCustomer && actor.Role != RoleAdmin {
		return BulkResult{}, ErrForbidden
	}

	eligible, err := s.eligiblePendingIDs(ctx, actor, in.RequestIDs)
	if err != nil {
		return BulkResult{}, err
	}

	out := BulkResult{Results: make([]BulkItemResult, 0, len(in.RequestIDs))}
	for _, raw := range in.RequestIDs {
		id := strings.TrimSpace(raw)
		if _, ok := eligible[id]; !ok {
			out.Results = append(out.Results, BulkItemResult{
				ID:     id,
				Status: BulkItemSkipped,
				Reason: SkipReasonNotEligible,
			})
			continue
		}

		if _, err := s.Approve(ctx, actor, DecideInput{
			RequestID: id,
			Reason:    in.Reason,
			Override:  in.Override,
		}); err != nil {
			out.Results = append(out.Results, BulkItemResult{
				ID:     id,
				Status: BulkItemError,
				Error:  err.Error(),
			})
			continue
		}

		out.Updated++
		out.Results = append(out.Results, BulkItemResult{ID: id, Status: BulkItemApproved})
	}

	return out, nil
}

// BulkReject intenta cada id directo, sin prefetch; cada falla queda
// registrada por ítem.
func (s *Service) BulkReject(ctx context.Context, actor Actor, in BulkInput) (BulkResult, error) {
	if actor.Role != RoleCustomer && actor.Role != RoleAdmin {
		return BulkResult{}, ErrForbidden
	}

	out := BulkResult{Results: make([]BulkItemResult, 0, len(in.RequestIDs))}
	for _, raw := range in.RequestIDs {
		id := strings.TrimSpace(raw)

		if _, err := s.Reject(ctx, actor, DecideInput{
			RequestID: id,
			Reason:    in.Reason,
			Override:  in.Override,
		}); err != nil {
			out.Results = append(out.Results, BulkItemResult{
				ID:     id,
				Status: BulkItemError,
				Error:  err.Error(),
			})
			continue
		}

		out.Updated++
		out.Results = append(out.Results, BulkItemResult{ID: id, Status: BulkItemRejected})
	}

	return out, nil
}

// eligiblePendingIDs arma el set de ids PENDING visibles para el actor.
// Customer: un solo ListByCustomer y se filtra en memoria. Admin: lookup
// unscoped por id (no hay listado global de pares).
func (s *Service) eligiblePendingIDs(ctx context.Context, actor Actor, ids []string) (map[string]struct{}, error) {
	wanted := map[string]struct{}{}
	for _, raw := range ids {
		id := strings.TrimSpace(raw)
		if id != "" {
			wanted[id] = struct{}{}
		}
	}

	out := map[string]struct{}{}

	if actor.Role == RoleCustomer {
		pairs, err := s.repo.ListByCustomer(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		for _, p := range pairs {
			for _, req := range p.Requests {
				if req.Status != StatusPending {
					continue
				}
				if _, ok := wanted[req.ID]; ok {
					out[req.ID] = struct{}{}
				}
			}
		}
		return out, nil
	}

	for id := range wanted {
		p, found, err := s.repo.GetByRequestID(ctx, id)
		if err != nil {
			return nil, err
		}
		if !found {
			continue
		}
		if req := p.findRequest(id); req != nil && req.Status == StatusPending {
			out[id] = struct{}{}
		}
	}
	return out, nil
}
