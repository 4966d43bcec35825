package monitoring

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"care-access/internal/domain/permissions"
	"care-access/internal/domain/profiles"
	"care-access/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, profilesSvc *profiles.Service, permsSvc *permissions.Service) {
	r.Route("/profiles/{profileID}/alerts", func(ar chi.Router) {
		ar.Post("/", raiseAlertHandler(svc, profilesSvc))
		ar.Get("/", listAlertsHandler(svc, profilesSvc, permsSvc))
		ar.Post("/{alertID}/ack", ackAlertHandler(svc, profilesSvc, permsSvc))
	})

	r.Route("/profiles/{profileID}/logs", func(lr chi.Router) {
		lr.Post("/", recordLogHandler(svc, profilesSvc))
		lr.Get("/", listLogsHandler(svc, profilesSvc, permsSvc))
	})

	r.Get("/profiles/{profileID}/stream", streamTicketHandler(svc, profilesSvc, permsSvc))
}

type raiseAlertRequest struct {
	Kind     AlertKind `json:"kind" enums:"fall,heart_rate,inactivity,device_offline"`
	Severity Severity  `json:"severity" enums:"info,warning,critical"`
	Message  string    `json:"message"`
	Source   Source    `json:"source"` // opcional
}

type alertResponse struct {
	ID        string      `json:"id"`
	ProfileID string      `json:"profile_id"`
	Kind      AlertKind   `json:"kind"`
	Severity  Severity    `json:"severity"`
	Message   string      `json:"message,omitempty"`
	Source    Source      `json:"source"`
	RaisedAt  time.Time   `json:"raised_at"`
	Status    AlertStatus `json:"status"`
	AckedBy   string      `json:"acked_by,omitempty"`
	AckedAt   *time.Time  `json:"acked_at,omitempty"`
}

type recordLogRequest struct {
	Kind  LogKind `json:"kind" enums:"daily_log,report"`
	Title string  `json:"title"`
	Body  string  `json:"body"`
}

type logEntryResponse struct {
	ID         string    `json:"id"`
	ProfileID  string    `json:"profile_id"`
	Kind       LogKind   `json:"kind"`
	Title      string    `json:"title"`
	Body       string    `json:"body,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
	RecordedBy string    `json:"recorded_by,omitempty"`
}

type streamTicketResponse struct {
	SessionID string    `json:"session_id"`
	ProfileID string    `json:"profile_id"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// raiseAlertHandler godoc
// @Summary Generar alerta
// @Description Registra una alerta de monitoreo para el perfil. Solo el customer dueño (los devices entran con sus credenciales).
// @Tags monitoring
// @Accept json
// @Produce json
// @Param profileID path string true "ID del perfil"
// @Param payload body raiseAlertRequest true "Datos de la alerta"
// @Success 201 {object} alertResponse
// @Failure 400 {string} string "invalid json / reglas de negocio"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "profile not found"
// @Router /profiles/{profileID}/alerts [post]
func raiseAlertHandler(svc *Service, profilesSvc *profiles.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		profileID := chi.URLParam(r, "profileID")
		ownerID, err := profilesSvc.OwnerOf(r.Context(), profileID)
		if err != nil {
			http.Error(w, "profile not found", http.StatusNotFound)
			return
		}
		if ownerID != claims.UserID && !isAdmin(claims.Role) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var req raiseAlertRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		a, err := svc.RaiseAlert(r.Context(), profileID, RaiseAlertInput{
			Kind:     req.Kind,
			Severity: req.Severity,
			Message:  req.Message,
			Source:   req.Source,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toAlertResponse(a))
	}
}

// listAlertsHandler godoc
// @Summary Listar alertas
// @Description Lista alertas del perfil. El owner siempre puede; un caregiver necesita el permiso alert_read vigente.
// @Tags monitoring
// @Produce json
// @Param profileID path string true "ID del perfil"
// @Param status query string false "Filtro por estado (active|acknowledged)"
// @Success 200 {array} alertResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "profile not found"
// @Router /profiles/{profileID}/alerts [get]
func listAlertsHandler(svc *Service, profilesSvc *profiles.Service, permsSvc *permissions.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		profileID := chi.URLParam(r, "profileID")
		ownerID, err := profilesSvc.OwnerOf(r.Context(), profileID)
		if err != nil {
			http.Error(w, "profile not found", http.StatusNotFound)
			return
		}

		if ownerID != claims.UserID && !isAdmin(claims.Role) {
			eff, err := permsSvc.EffectiveFor(r.Context(), ownerID, claims.UserID)
			if err != nil || !eff.AlertRead {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
		}

		f := AlertFilter{
			Status: AlertStatus(strings.TrimSpace(r.URL.Query().Get("status"))),
			Limit:  parseLimit(r.URL.Query().Get("limit")),
		}

		items, err := svc.ListAlerts(r.Context(), profileID, f)
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]alertResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toAlertResponse(a))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// ackAlertHandler godoc
// @Summary Reconocer alerta
// @Description Marca la alerta como reconocida. El owner siempre puede; un caregiver necesita alert_ack vigente. Operación idempotente.
// @Tags monitoring
// @Produce json
// @Param profileID path string true "ID del perfil"
// @Param alertID path string true "ID de la alerta"
// @Success 200 {object} alertResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "not found"
// @Router /profiles/{profileID}/alerts/{alertID}/ack [post]
func ackAlertHandler(svc *Service, profilesSvc *profiles.Service, permsSvc *permissions.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		profileID := chi.URLParam(r, "profileID")
		ownerID, err := profilesSvc.OwnerOf(r.Context(), profileID)
		if err != nil {
			http.Error(w, "profile not found", http.StatusNotFound)
			return
		}

		if ownerID != claims.UserID && !isAdmin(claims.Role) {
			eff, err := permsSvc.EffectiveFor(r.Context(), ownerID, claims.UserID)
			if err != nil || !eff.AlertAck {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
		}

		a, err := svc.Acknowledge(r.Context(), chi.URLParam(r, "alertID"), claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}
		// La alerta tiene que ser del perfil de la URL.
		if a.ProfileID != profileID {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toAlertResponse(a))
	}
}

func recordLogHandler(svc *Service, profilesSvc *profiles.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		profileID := chi.URLParam(r, "profileID")
		ownerID, err := profilesSvc.OwnerOf(r.Context(), profileID)
		if err != nil {
			http.Error(w, "profile not found", http.StatusNotFound)
			return
		}
		if ownerID != claims.UserID && !isAdmin(claims.Role) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var req recordLogRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		e, err := svc.RecordLog(r.Context(), profileID, claims.UserID, RecordLogInput{
			Kind:  req.Kind,
			Title: req.Title,
			Body:  req.Body,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toLogEntryResponse(e))
	}
}

// listLogsHandler godoc
// @Summary Listar logs de cuidado
// @Description Lista logs diarios o reportes del perfil. El owner ve todo; un caregiver ve solo la ventana de días otorgada (log_access_days / report_access_days según kind). Cero días = sin acceso.
// @Tags monitoring
// @Produce json
// @Param profileID path string true "ID del perfil"
// @Param kind query string false "daily_log (default) o report"
// @Success 200 {array} logEntryResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "profile not found"
// @Router /profiles/{profileID}/logs [get]
func listLogsHandler(svc *Service, profilesSvc *profiles.Service, permsSvc *permissions.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		profileID := chi.URLParam(r, "profileID")
		ownerID, err := profilesSvc.OwnerOf(r.Context(), profileID)
		if err != nil {
			http.Error(w, "profile not found", http.StatusNotFound)
			return
		}

		kind := LogKind(strings.TrimSpace(r.URL.Query().Get("kind")))
		if kind == "" {
			kind = LogKindDaily
		}

		f := LogFilter{
			Kind:  kind,
			Limit: parseLimit(r.URL.Query().Get("limit")),
		}

		if ownerID != claims.UserID && !isAdmin(claims.Role) {
			eff, err := permsSvc.EffectiveFor(r.Context(), ownerID, claims.UserID)
			if err != nil {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			days := eff.LogAccessDays
			if kind == LogKindReport {
				days = eff.ReportAccessDays
			}
			if days <= 0 {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			from := svc.WindowFrom(days)
			f.From = &from
		}

		items, err := svc.ListLogs(r.Context(), profileID, f)
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]logEntryResponse, 0, len(items))
		for _, e := range items {
			out = append(out, toLogEntryResponse(e))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func streamTicketHandler(svc *Service, profilesSvc *profiles.Service, permsSvc *permissions.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		profileID := chi.URLParam(r, "profileID")
		ownerID, err := profilesSvc.OwnerOf(r.Context(), profileID)
		if err != nil {
			http.Error(w, "profile not found", http.StatusNotFound)
			return
		}

		if ownerID != claims.UserID && !isAdmin(claims.Role) {
			eff, err := permsSvc.EffectiveFor(r.Context(), ownerID, claims.UserID)
			if err != nil || !eff.StreamView {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
		}

		t, err := svc.IssueStreamTicket(r.Context(), profileID)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, streamTicketResponse(t))
	}
}

func isAdmin(role string) bool {
	return strings.EqualFold(strings.TrimSpace(role), "admin")
}

func parseLimit(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func toAlertResponse(a Alert) alertResponse {
	return alertResponse{
		ID:        a.ID,
		ProfileID: a.ProfileID,
		Kind:      a.Kind,
		Severity:  a.Severity,
		Message:   a.Message,
		Source:    a.Source,
		RaisedAt:  a.RaisedAt,
		Status:    a.Status,
		AckedBy:   a.AckedBy,
		AckedAt:   a.AckedAt,
	}
}

func toLogEntryResponse(e LogEntry) logEntryResponse {
	return logEntryResponse{
		ID:         e.ID,
		ProfileID:  e.ProfileID,
		Kind:       e.Kind,
		Title:      e.Title,
		Body:       e.Body,
		RecordedAt: e.RecordedAt,
		RecordedBy: e.RecordedBy,
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
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
