package handlers

import (
	"fmt"
	"net/http"

	"ttportal/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type agencyRequest struct {
	Name        *string  `json:"name"`
	Address     *string  `json:"address"`
	PhoneNumber *string  `json:"phoneNumber"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

func (h *Handler) ListAgencies(w http.ResponseWriter, r *http.Request) {
	rows, err := h.agencies.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load agencies")
		return
	}
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		out = append(out, agencyJSON(row))
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *Handler) CreateAgencies(w http.ResponseWriter, r *http.Request) {
	requests, err := decodeBatch[agencyRequest](r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	inputs := make([]store.AgencyLocationInput, 0, len(requests))
	for _, req := range requests {
		if req.Name == nil || req.Latitude == nil || req.Longitude == nil {
			respondError(w, http.StatusBadRequest, "each agency must have name, latitude and longitude fields")
			return
		}
		inputs = append(inputs, store.AgencyLocationInput{
			ID:          uuid.NewString(),
			Name:        *req.Name,
			Address:     stringOrEmpty(req.Address),
			PhoneNumber: stringOrEmpty(req.PhoneNumber),
			Latitude:    *req.Latitude,
			Longitude:   *req.Longitude,
		})
	}
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		for _, input := range inputs {
			if err := h.agencies.Create(r.Context(), tx, input); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create agencies")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"message": fmt.Sprintf("added %d agencies", len(inputs))})
}

func (h *Handler) GetAgency(w http.ResponseWriter, r *http.Request) {
	row, err := h.agencies.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "agency not found")
		return
	}
	respondJSON(w, http.StatusOK, agencyJSON(row))
}

func (h *Handler) DeleteAgency(w http.ResponseWriter, r *http.Request) {
	agencyID := chi.URLParam(r, "id")
	var deleted int64
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		var err error
		deleted, err = h.agencies.Delete(r.Context(), tx, agencyID)
		return err
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete agency")
		return
	}
	if deleted == 0 {
		respondError(w, http.StatusNotFound, "agency not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("agency %s deleted", agencyID)})
}

func (h *Handler) DeleteAllAgencies(w http.ResponseWriter, r *http.Request) {
	var deleted int64
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		var err error
		deleted, err = h.agencies.DeleteAll(r.Context(), tx)
		return err
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete agencies")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("deleted %d agencies", deleted)})
}

func agencyJSON(row store.AgencyLocation) map[string]any {
	return map[string]any{
		"id":          row.ID,
		"name":        row.Name,
		"address":     row.Address,
		"phoneNumber": row.PhoneNumber,
		"latitude":    row.Latitude,
		"longitude":   row.Longitude,
	}
}

func stringOrEmpty(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
