package profiles

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"care-access/internal/domain/permissions"
	"care-access/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, permsSvc *permissions.Service) {
	r.Route("/profiles", func(pr chi.Router) {
		pr.Post("/", createProfileHandler(svc))
		pr.Get("/{profileID}", getProfileHandler(svc, permsSvc))
		pr.Patch("/{profileID}", patchProfileHandler(svc))
	})

	r.Route("/me/profiles", func(mr chi.Router) {
		mr.Get("/", listMyProfilesHandler(svc))
	})
}

type createProfileRequest struct {
	Name     string        `json:"name"`
	TimeZone string        `json:"time_zone"`
	Address  string        `json:"address"`
	Mobility MobilityLevel `json:"mobility" enums:"independent,assisted,wheelchair,bedridden"`

	EmergencyContact string `json:"emergency_contact"`
	Notes            string `json:"notes"`
}

type patchProfileRequest struct {
	Name             *string        `json:"name,omitempty"`
	TimeZone         *string        `json:"time_zone,omitempty"`
	Address          *string        `json:"address,omitempty"`
	Mobility         *MobilityLevel `json:"mobility,omitempty"`
	EmergencyContact *string        `json:"emergency_contact,omitempty"`
	Notes            *string        `json:"notes,omitempty"`
}

type profileResponse struct {
	ID          string        `json:"id"`
	OwnerUserID string        `json:"owner_user_id"`
	Name        string        `json:"name"`
	TimeZone    string        `json:"time_zone,omitempty"`
	Address     string        `json:"address,omitempty"`
	Mobility    MobilityLevel `json:"mobility"`

	EmergencyContact string `json:"emergency_contact,omitempty"`
	Notes            string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func createProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.Create(r.Context(), CreateInput{
			OwnerUserID: claims.UserID,
			Name:        req.Name,
			TimeZone:    req.TimeZone,
			Address:     req.Address,
			Mobility:    req.Mobility,

			EmergencyContact: req.EmergencyContact,
			Notes:            req.Notes,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toProfileResponse(p))
	}
}

func getProfileHandler(svc *Service, permsSvc *permissions.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "profileID"))
		if err != nil {
			writeError(w, err)
			return
		}

		// Owner siempre; caregiver necesita profile_view vigente.
		if p.OwnerUserID != claims.UserID {
			eff, err := permsSvc.EffectiveFor(r.Context(), p.OwnerUserID, claims.UserID)
			if err != nil || !eff.ProfileView {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
		}

		writeJSON(w, http.StatusOK, toProfileResponse(p))
	}
}

func patchProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "profileID"))
		if err != nil {
			writeError(w, err)
			return
		}
		// Solo el owner edita el perfil.
		if p.OwnerUserID != claims.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var req patchProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		updated, err := svc.Update(r.Context(), p.ID, UpdateInput{
			Name:             req.Name,
			TimeZone:         req.TimeZone,
			Address:          req.Address,
			Mobility:         req.Mobility,
			EmergencyContact: req.EmergencyContact,
			Notes:            req.Notes,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toProfileResponse(updated))
	}
}

func listMyProfilesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByOwner(r.Context(), claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]profileResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toProfileResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func toProfileResponse(p CareProfile) profileResponse {
	return profileResponse{
		ID:          p.ID,
		OwnerUserID: p.OwnerUserID,
		Name:        p.Name,
		TimeZone:    p.TimeZone,
		Address:     p.Address,
		Mobility:    p.Mobility,

		EmergencyContact: p.EmergencyContact,
		Notes:            p.Notes,

		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "profile not found", http.StatusNotFound)
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
