package permissions

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"care-access/internal/middleware"
	"care-access/internal/ports/auth"
	"care-access/internal/ports/capabilities"

	"github.com/go-chi/chi/v5"
)

// FeatureCaregiverSharing es la capability de plan que habilita compartir
// datos con caregivers. Con resolver nil no se chequea (modo dev).
const FeatureCaregiverSharing = "caregiver_sharing"

func RegisterRoutes(r chi.Router, svc *Service, caps capabilities.CapabilitiesResolver) {
	r.Route("/customers/{customerID}/permission-requests", func(cr chi.Router) {
		cr.Post("/", createRequestHandler(svc, caps))
	})

	r.Route("/permission-requests", func(pr chi.Router) {
		pr.Post("/bulk-approve", bulkHandler(svc, true))
		pr.Post("/bulk-reject", bulkHandler(svc, false))

		pr.Get("/{requestID}", getRequestHandler(svc))
		pr.Post("/{requestID}/approve", decideHandler(svc, true))
		pr.Post("/{requestID}/reject", decideHandler(svc, false))
		pr.Post("/{requestID}/reopen", reopenHandler(svc))
	})

	// Customer: sus solicitudes aplanadas sobre todos sus caregivers.
	r.Route("/me/permission-requests", func(mr chi.Router) {
		mr.Get("/", listMineHandler(svc, false))
		mr.Get("/decided", listMineHandler(svc, true))
	})
}

type createPermissionRequest struct {
	Type RequestType `json:"type" enums:"stream_view,alert_read,alert_ack,profile_view,log_access_days,report_access_days,notification_channel"`

	// Según el tipo aplica uno solo; los que no correspondan se ignoran.
	Bool     *bool     `json:"bool,omitempty"`
	Days     *int      `json:"days,omitempty"`
	Channels []Channel `json:"channels,omitempty"`

	Scope  Scope  `json:"scope,omitempty"`
	Reason string `json:"reason,omitempty"`

	// Solo admin: crear en nombre de un caregiver.
	CaregiverID string `json:"caregiver_id,omitempty"`
}

type historyEntryResponse struct {
	Status RequestStatus `json:"status"`
	At     time.Time     `json:"at"`
	By     string        `json:"by,omitempty"`
	Reason string        `json:"reason,omitempty"`
}

type permissionRequestResponse struct {
	ID             string                 `json:"id"`
	Type           RequestType            `json:"type"`
	Value          Value                  `json:"value"`
	Scope          Scope                  `json:"scope,omitempty"`
	Status         RequestStatus          `json:"status"`
	Reason         string                 `json:"reason,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	DecidedAt      *time.Time             `json:"decided_at,omitempty"`
	DecidedBy      string                 `json:"decided_by,omitempty"`
	DecisionReason string                 `json:"decision_reason,omitempty"`
	History        []historyEntryResponse `json:"history,omitempty"`
}

type createPermissionResponse struct {
	AlreadyGranted bool                       `json:"already_granted"`
	Request        *permissionRequestResponse `json:"request,omitempty"`
}

type listedRequestResponse struct {
	CaregiverID string `json:"caregiver_id"`
	permissionRequestResponse
}

type requestDetailResponse struct {
	CustomerID  string `json:"customer_id"`
	CaregiverID string `json:"caregiver_id"`
	permissionRequestResponse
	History []historyEntryResponse `json:"history"`
}

type bulkDecisionRequest struct {
	RequestIDs []string `json:"request_ids"`
	Reason     string   `json:"reason,omitempty"`
	Override   bool     `json:"override,omitempty"`
}

type bulkItemResponse struct {
	ID     string         `json:"id"`
	Status BulkItemStatus `json:"status"`
	Reason string         `json:"reason,omitempty"`
	Error  string         `json:"error,omitempty"`
}

type bulkDecisionResponse struct {
	Updated int                `json:"updated"`
	Results []bulkItemResponse `json:"results"`
}

func createRequestHandler(svc *Service, caps capabilities.CapabilitiesResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFromRequest(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		customerID := chi.URLParam(r, "customerID")

		var req createPermissionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		caregiverID := actor.ID
		if actor.Role == RoleAdmin {
			caregiverID = strings.TrimSpace(req.CaregiverID)
			if caregiverID == "" {
				http.Error(w, "caregiver_id required", http.StatusBadRequest)
				return
			}
		}

		// Gate por plan del customer (si hay resolver configurado).
		if caps != nil {
			has, err := caps.HasFeature(r.Context(), capabilities.CapabilityCheck{
				UserID:  customerID,
				Feature: FeatureCaregiverSharing,
			})
			if err != nil {
				http.Error(w, "capabilities unavailable", http.StatusBadGateway)
				return
			}
			if !has {
				http.Error(w, "plan does not allow caregiver sharing", http.StatusForbidden)
				return
			}
		}

		res, err := svc.Create(r.Context(), actor, CreateInput{
			CustomerID:  customerID,
			CaregiverID: caregiverID,
			Type:        req.Type,
			Bool:        req.Bool,
			Days:        req.Days,
			Channels:    req.Channels,
			Scope:       req.Scope,
			Reason:      req.Reason,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		if res.AlreadyGranted {
			writeJSON(w, http.StatusOK, createPermissionResponse{AlreadyGranted: true})
			return
		}

		out := toRequestResponse(res.Request)
		writeJSON(w, http.StatusCreated, createPermissionResponse{Request: &out})
	}
}

func decideHandler(svc *Service, approve bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFromRequest(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			Reason   string `json:"reason,omitempty"`
			Override bool   `json:"override,omitempty"`
		}
		// Body opcional: decidir sin razón es válido.
		_ = json.NewDecoder(r.Body).Decode(&body)

		in := DecideInput{
			RequestID: chi.URLParam(r, "requestID"),
			Reason:    body.Reason,
			Override:  body.Override,
		}

		var (
			req PermissionRequest
			err error
		)
		if approve {
			req, err = svc.Approve(r.Context(), actor, in)
		} else {
			req, err = svc.Reject(r.Context(), actor, in)
		}
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toRequestResponse(req))
	}
}

func reopenHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFromRequest(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			Reason string `json:"reason,omitempty"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		req, err := svc.Reopen(r.Context(), actor, ReopenInput{
			RequestID: chi.URLParam(r, "requestID"),
			Reason:    body.Reason,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toRequestResponse(req))
	}
}

func bulkHandler(svc *Service, approve bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFromRequest(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body bulkDecisionRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := BulkInput{RequestIDs: body.RequestIDs, Reason: body.Reason, Override: body.Override}

		var (
			res BulkResult
			err error
		)
		if approve {
			res, err = svc.BulkApprove(r.Context(), actor, in)
		} else {
			res, err = svc.BulkReject(r.Context(), actor, in)
		}
		if err != nil {
			writeDomainError(w, err)
			return
		}

		out := bulkDecisionResponse{
			Updated: res.Updated,
			Results: make([]bulkItemResponse, 0, len(res.Results)),
		}
		for _, item := range res.Results {
			out.Results = append(out.Results, bulkItemResponse(item))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getRequestHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFromRequest(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		detail, err := svc.GetOneWithHistory(r.Context(), actor, chi.URLParam(r, "requestID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}

		out := requestDetailResponse{
			CustomerID:                detail.CustomerID,
			CaregiverID:               detail.CaregiverID,
			permissionRequestResponse: toRequestResponse(detail.Request),
			History:                   toHistoryResponse(detail.History),
		}
		// El history del detalle es el normalizado, no el crudo del documento.
		out.permissionRequestResponse.History = nil

		writeJSON(w, http.StatusOK, out)
	}
}

func listMineHandler(svc *Service, decidedOnly bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFromRequest(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if actor.Role != RoleCustomer {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var (
			items []ListedRequest
			err   error
		)
		if decidedOnly {
			items, err = svc.ListDecidedByCustomer(r.Context(), actor.ID)
		} else if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status := RequestStatus(raw)
			items, err = svc.ListByCustomer(r.Context(), actor.ID, &status)
		} else {
			items, err = svc.ListAllByCustomer(r.Context(), actor.ID)
		}
		if err != nil {
			writeDomainError(w, err)
			return
		}

		out := make([]listedRequestResponse, 0, len(items))
		for _, item := range items {
			out = append(out, listedRequestResponse{
				CaregiverID:               item.CaregiverID,
				permissionRequestResponse: toRequestResponse(item.Request),
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// actorFromRequest traduce los claims del middleware al actor del motor.
// Sin rol explícito asumimos customer (modo dev).
func actorFromRequest(r *http.Request) (Actor, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		return Actor{}, false
	}
	return Actor{ID: claims.UserID, Role: roleFromClaims(claims)}, true
}

func roleFromClaims(claims auth.Claims) Role {
	switch Role(strings.ToLower(strings.TrimSpace(claims.Role))) {
	case RoleCaregiver:
		return RoleCaregiver
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleCustomer
	}
}

func toRequestResponse(req PermissionRequest) permissionRequestResponse {
	return permissionRequestResponse{
		ID:             req.ID,
		Type:           req.Type,
		Value:          req.Value,
		Scope:          req.Scope,
		Status:         req.Status,
		Reason:         req.Reason,
		CreatedAt:      req.CreatedAt,
		DecidedAt:      req.DecidedAt,
		DecidedBy:      req.DecidedBy,
		DecisionReason: req.DecisionReason,
		History:        toHistoryResponse(req.History),
	}
}

func toHistoryResponse(in []HistoryEntry) []historyEntryResponse {
	out := make([]historyEntryResponse, 0, len(in))
	for _, e := range in {
		out = append(out, historyEntryResponse(e))
	}
	return out
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, ErrBadState):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// writeJSON está duplicado a propósito en los handlers de cada módulo;
// todavía no amerita un helper compartido.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
