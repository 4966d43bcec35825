package permissions

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrBadState     = errors.New("invalid state")
)

// Service es el motor del ciclo de vida de solicitudes de permiso. Es
// stateless salvo por los locks por par; todo el estado vive en el Repository.
type Service struct {
	repo  Repository
	locks *pairLocks
	now   func() time.Time
	newID func() string
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:  repo,
		locks: newPairLocks(),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

type CreateInput struct {
	CustomerID  string
	CaregiverID string

	Type RequestType

	// Payload polimórfico: según el tipo aplica uno solo de estos.
	Bool     *bool
	Days     *int
	Channels []Channel

	Scope  Scope
	Reason string
}

// CreateResult distingue la creación real del corto-circuito ALREADY_GRANTED.
type CreateResult struct {
	AlreadyGranted bool
	Request        PermissionRequest
}

// Create registra una nueva solicitud PENDING para el par, o devuelve
// AlreadyGranted sin mutar nada si el permiso vigente ya cubre el pedido.
// Regla: una sola solicitud PENDING por tipo a la vez.
func (s *Service) Create(ctx context.Context, actor Actor, in CreateInput) (CreateResult, error) {
	customerID := strings.TrimSpace(in.CustomerID)
	caregiverID := strings.TrimSpace(in.CaregiverID)

	if customerID == "" || caregiverID == "" {
		return CreateResult{}, ErrInvalidInput
	}
	if customerID == caregiverID {
		return CreateResult{}, ErrInvalidInput
	}
	if !in.Type.Valid() {
		return CreateResult{}, ErrInvalidInput
	}
	if !in.Scope.Valid() {
		return CreateResult{}, ErrInvalidInput
	}

	// Solo el caregiver del par (o un admin en su nombre) puede pedir.
	switch actor.Role {
	case RoleCaregiver:
		if actor.ID != caregiverID {
			return CreateResult{}, ErrForbidden
		}
	case RoleAdmin:
		// ok
	default:
		return CreateResult{}, ErrForbidden
	}

	value, err := resolveValue(in.Type, in.Bool, in.Days, in.Channels)
	if err != nil {
		return CreateResult{}, err
	}

	unlock := s.locks.lock(pairKey(customerID, caregiverID))
	defer unlock()

	p, found, err := s.repo.GetPair(ctx, customerID, caregiverID)
	if err != nil {
		return CreateResult{}, err
	}
	if !found {
		p, err = s.repo.CreateEmpty(ctx, customerID, caregiverID)
		if err != nil {
			return CreateResult{}, err
		}
	}

	if p.alreadyGranted(in.Type, value) {
		return CreateResult{AlreadyGranted: true}, nil
	}

	if p.hasPendingOfType(in.Type) {
		return CreateResult{}, fmt.Errorf("%w: pending %s request already exists", ErrBadState, in.Type)
	}

	now := s.now()
	req := PermissionRequest{
		ID:        s.newID(),
		Type:      in.Type,
		Value:     value,
		Scope:     in.Scope,
		Status:    StatusPending,
		Reason:    strings.TrimSpace(in.Reason),
		CreatedAt: now,
		History: []HistoryEntry{
			{Status: StatusPending, At: now, By: actor.ID, Reason: strings.TrimSpace(in.Reason)},
		},
	}

	p.Requests = append(p.Requests, req)
	p.UpdatedAt = now

	if err := s.repo.Update(ctx, p); err != nil {
		return CreateResult{}, err
	}
	return CreateResult{Request: req}, nil
}

type DecideInput struct {
	RequestID string
	Reason    string

	// Override queda reservado para resolución de conflictos futura;
	// hoy se acepta y no cambia el comportamiento.
	Override bool
}

// Approve decide una solicitud PENDING y aplica el valor al permiso vigente
// del par (reemplazo, nunca merge).
func (s *Service) Approve(ctx context.Context, actor Actor, in DecideInput) (PermissionRequest, error) {
	return s.decide(ctx, actor, in, StatusApproved)
}

// Reject decide la solicitud sin tocar los permisos vigentes.
func (s *Service) Reject(ctx context.Context, actor Actor, in DecideInput) (PermissionRequest, error) {
	return s.decide(ctx, actor, in, StatusRejected)
}

func (s *Service) decide(ctx context.Context, actor Actor, in DecideInput, to RequestStatus) (PermissionRequest, error) {
	requestID := strings.TrimSpace(in.RequestID)
	if requestID == "" {
		return PermissionRequest{}, ErrInvalidInput
	}
	if actor.Role != RoleCustomer && actor.Role != RoleAdmin {
		return PermissionRequest{}, ErrForbidden
	}

	p, err := s.loadPairLocked(ctx, actor, requestID, func(p *Pair) error {
		req := p.findRequest(requestID)
		if req == nil || req.Status != StatusPending {
			return ErrNotFound
		}

		now := s.now()
		req.Status = to
		req.DecidedAt = &now
		req.DecidedBy = actor.ID
		req.DecisionReason = strings.TrimSpace(in.Reason)
		req.History = append(req.History, HistoryEntry{
			Status: to,
			At:     now,
			By:     actor.ID,
			Reason: req.DecisionReason,
		})

		if to == StatusApproved {
			p.applyEffective(req.Type, req.Value)
		}

		p.UpdatedAt = now
		return s.repo.Update(ctx, *p)
	})
	if err != nil {
		return PermissionRequest{}, err
	}

	req := p.findRequest(requestID)
	if req == nil {
		return PermissionRequest{}, ErrNotFound
	}
	return *req, nil
}

type ReopenInput struct {
	RequestID string
	Reason    string
}

// Reopen devuelve una solicitud REJECTED/REVOKED a PENDING para un nuevo
// ciclo de decisión. Limpia los campos de decisión y agrega una segunda
// entrada PENDING al history (nunca se colapsa con la original).
func (s *Service) Reopen(ctx context.Context, actor Actor, in ReopenInput) (PermissionRequest, error) {
	requestID := strings.TrimSpace(in.RequestID)
	if requestID == "" {
		return PermissionRequest{}, ErrInvalidInput
	}
	if actor.Role != RoleCustomer && actor.Role != RoleAdmin {
		return PermissionRequest{}, ErrForbidden
	}

	p, err := s.loadPairLocked(ctx, actor, requestID, func(p *Pair) error {
		req := p.findRequest(requestID)
		if req == nil {
			return ErrNotFound
		}
		if req.Status != StatusRejected && req.Status != StatusRevoked {
			return fmt.Errorf("%w: cannot reopen a %s request", ErrBadState, req.Status)
		}
		// Mantiene el invariante de un solo PENDING por tipo aunque se haya
		// creado otra solicitud del mismo tipo después del rechazo.
		if p.hasPendingOfType(req.Type) {
			return fmt.Errorf("%w: pending %s request already exists", ErrBadState, req.Type)
		}

		now := s.now()
		req.Status = StatusPending
		req.DecidedAt = nil
		req.DecidedBy = ""
		req.DecisionReason = ""
		req.History = append(req.History, HistoryEntry{
			Status: StatusPending,
			At:     now,
			By:     actor.ID,
			Reason: strings.TrimSpace(in.Reason),
		})

		p.UpdatedAt = now
		return s.repo.Update(ctx, *p)
	})
	if err != nil {
		return PermissionRequest{}, err
	}

	req := p.findRequest(requestID)
	if req == nil {
		return PermissionRequest{}, ErrNotFound
	}
	return *req, nil
}

// loadPairLocked resuelve el par por request id según el rol, toma el lock
// del par y re-lee el documento antes de mutar. La primera lectura solo sirve
// para descubrir la clave; la versión autoritativa es la de adentro del lock.
func (s *Service) loadPairLocked(ctx context.Context, actor Actor, requestID string, mutate func(*Pair) error) (Pair, error) {
	lookup := s.lookupFor(actor)

	peek, found, err := lookup(ctx, requestID)
	if err != nil {
		return Pair{}, err
	}
	if !found {
		return Pair{}, ErrNotFound
	}

	unlock := s.locks.lock(pairKey(peek.CustomerID, peek.CaregiverID))
	defer unlock()

	p, found, err := s.repo.GetPair(ctx, peek.CustomerID, peek.CaregiverID)
	if err != nil {
		return Pair{}, err
	}
	if !found {
		return Pair{}, ErrNotFound
	}

	if err := mutate(&p); err != nil {
		return Pair{}, err
	}
	return p, nil
}

type pairLookup func(ctx context.Context, requestID string) (Pair, bool, error)

// lookupFor mapea rol -> lookup con scope. Reemplaza branching ad hoc en cada
// operación: customer y caregiver solo ven sus propios pares, admin ve todo.
func (s *Service) lookupFor(actor Actor) pairLookup {
	switch actor.Role {
	case RoleCustomer:
		return func(ctx context.Context, requestID string) (Pair, bool, error) {
			return s.repo.GetByRequestIDForCustomer(ctx, requestID, actor.ID)
		}
	case RoleCaregiver:
		return func(ctx context.Context, requestID string) (Pair, bool, error) {
			return s.repo.GetByRequestIDForCaregiver(ctx, requestID, actor.ID)
		}
	default:
		return func(ctx context.Context, requestID string) (Pair, bool, error) {
			return s.repo.GetByRequestID(ctx, requestID)
		}
	}
}

// ListedRequest es una solicitud aplanada con el caregiver del par que la contiene.
type ListedRequest struct {
	CaregiverID string
	Request     PermissionRequest
}

// ListByCustomer aplana todas las solicitudes de todos los pares del customer,
// opcionalmente filtradas por status.
func (s *Service) ListByCustomer(ctx context.Context, customerID string, status *RequestStatus) ([]ListedRequest, error) {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return nil, ErrInvalidInput
	}

	pairs, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	out := make([]ListedRequest, 0)
	for _, p := range pairs {
		for _, req := range p.Requests {
			if status != nil && req.Status != *status {
				continue
			}
			out = append(out, ListedRequest{CaregiverID: p.CaregiverID, Request: req})
		}
	}
	return out, nil
}

// ListAllByCustomer es el listado sin filtro.
func (s *Service) ListAllByCustomer(ctx context.Context, customerID string) ([]ListedRequest, error) {
	return s.ListByCustomer(ctx, customerID, nil)
}

// ListDecidedByCustomer restringe a APPROVED/REJECTED/REVOKED.
func (s *Service) ListDecidedByCustomer(ctx context.Context, customerID string) ([]ListedRequest, error) {
	all, err := s.ListByCustomer(ctx, customerID, nil)
	if err != nil {
		return nil, err
	}
	out := make([]ListedRequest, 0, len(all))
	for _, item := range all {
		if item.Request.Status.Decided() {
			out = append(out, item)
		}
	}
	return out, nil
}

// EffectiveFor expone la proyección de permisos vigentes para el resto del
// sistema. Par inexistente = todo denegado (zero value).
func (s *Service) EffectiveFor(ctx context.Context, customerID, caregiverID string) (Effective, error) {
	p, found, err := s.repo.GetPair(ctx, customerID, caregiverID)
	if err != nil {
		return Effective{}, err
	}
	if !found {
		return Effective{}, nil
	}
	return p.Effective, nil
}

// RequestDetail es el detalle con history normalizado y el contexto del par.
type RequestDetail struct {
	CustomerID  string
	CaregiverID string
	Request     PermissionRequest
	History     []HistoryEntry
}

// GetOneWithHistory localiza la solicitud con el lookup del rol y devuelve el
// history normalizado: garantiza la entrada PENDING inicial y la entrada de
// decisión aunque el documento venga de datos viejos sin history completo.
func (s *Service) GetOneWithHistory(ctx context.Context, actor Actor, requestID string) (RequestDetail, error) {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return RequestDetail{}, ErrInvalidInput
	}

	p, found, err := s.lookupFor(actor)(ctx, requestID)
	if err != nil {
		return RequestDetail{}, err
	}
	if !found {
		return RequestDetail{}, ErrNotFound
	}

	// Doble chequeo de identidad además del scope del lookup.
	switch actor.Role {
	case RoleCustomer:
		if p.CustomerID != actor.ID {
			return RequestDetail{}, ErrForbidden
		}
	case RoleCaregiver:
		if p.CaregiverID != actor.ID {
			return RequestDetail{}, ErrForbidden
		}
	}

	req := p.findRequest(requestID)
	if req == nil {
		return RequestDetail{}, ErrNotFound
	}

	return RequestDetail{
		CustomerID:  p.CustomerID,
		CaregiverID: p.CaregiverID,
		Request:     *req,
		History:     normalizeHistory(*req),
	}, nil
}

// normalizeHistory reconstruye el history visible: si falta la entrada
// PENDING inicial la sintetiza desde created_at/reason, y si la solicitud
// está decidida pero no hay entrada con ese estado, la sintetiza desde los
// campos de decisión. Ordena ascendente por timestamp (sort estable: empates
// conservan el orden de inserción).
func normalizeHistory(req PermissionRequest) []HistoryEntry {
	out := append([]HistoryEntry(nil), req.History...)

	hasPending := false
	hasDecision := false
	for _, e := range out {
		if e.Status == StatusPending {
			hasPending = true
		}
		if req.Status.Decided() && e.Status == req.Status {
			hasDecision = true
		}
	}

	if !hasPending {
		out = append(out, HistoryEntry{
			Status: StatusPending,
			At:     req.CreatedAt,
			Reason: req.Reason,
		})
	}

	if req.Status.Decided() && req.DecidedAt != nil && !hasDecision {
		out = append(out, HistoryEntry{
			Status: req.Status,
			At:     *req.DecidedAt,
			By:     req.DecidedBy,
			Reason: req.DecisionReason,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].At.Before(out[j].At)
	})
	return out
}
