package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"ttportal/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type usageRequest struct {
	UserID         *string  `json:"userId"`
	UsageTimestamp *string  `json:"usageTimestamp"`
	CallsMinutes   *float64 `json:"callsMinutes"`
	SMSCount       *float64 `json:"smsCount"`
	DataUsageMB    *float64 `json:"dataUsageMB"`
}

func (h *Handler) ListUsage(w http.ResponseWriter, r *http.Request) {
	rows, err := h.usage.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load usage history")
		return
	}
	respondJSON(w, http.StatusOK, usageListJSON(rows))
}

func (h *Handler) CreateUsage(w http.ResponseWriter, r *http.Request) {
	requests, err := decodeBatch[usageRequest](r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	inputs := make([]store.UsageRecordInput, 0, len(requests))
	for _, req := range requests {
		if req.UserID == nil {
			respondError(w, http.StatusBadRequest, "each usage record must have a userId field")
			return
		}
		if req.CallsMinutes == nil && req.SMSCount == nil && req.DataUsageMB == nil {
			respondError(w, http.StatusBadRequest, "each usage record must have at least one of callsMinutes, smsCount or dataUsageMB")
			return
		}
		if _, err := h.users.GetByID(r.Context(), *req.UserID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				respondError(w, http.StatusBadRequest, fmt.Sprintf("user %s does not exist", *req.UserID))
				return
			}
			respondError(w, http.StatusInternalServerError, "unable to check user")
			return
		}
		timestamp := time.Now().UTC()
		if req.UsageTimestamp != nil && *req.UsageTimestamp != "" {
			parsed, err := parseTimestamp(*req.UsageTimestamp)
			if err != nil {
				respondError(w, http.StatusBadRequest, err.Error())
				return
			}
			timestamp = parsed
		}
		inputs = append(inputs, store.UsageRecordInput{
			ID:             uuid.NewString(),
			UserID:         *req.UserID,
			UsageTimestamp: timestamp,
			CallsMinutes:   floatOrZero(req.CallsMinutes),
			SMSCount:       floatOrZero(req.SMSCount),
			DataUsageMB:    floatOrZero(req.DataUsageMB),
		})
	}
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		for _, input := range inputs {
			if err := h.usage.Create(r.Context(), tx, input); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create usage records")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"message": fmt.Sprintf("added %d usage records", len(inputs))})
}

func (h *Handler) GetUsage(w http.ResponseWriter, r *http.Request) {
	row, err := h.usage.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "usage record not found")
		return
	}
	respondJSON(w, http.StatusOK, usageJSON(row))
}

func (h *Handler) ListUsageByUser(w http.ResponseWriter, r *http.Request) {
	rows, err := h.usage.ListByUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load usage history")
		return
	}
	respondJSON(w, http.StatusOK, usageListJSON(rows))
}

func (h *Handler) DeleteUsage(w http.ResponseWriter, r *http.Request) {
	usageID := chi.URLParam(r, "id")
	var deleted int64
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		var err error
		deleted, err = h.usage.Delete(r.Context(), tx, usageID)
		return err
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete usage record")
		return
	}
	if deleted == 0 {
		respondError(w, http.StatusNotFound, "usage record not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("usage record %s deleted", usageID)})
}

func (h *Handler) DeleteAllUsage(w http.ResponseWriter, r *http.Request) {
	var deleted int64
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		var err error
		deleted, err = h.usage.DeleteAll(r.Context(), tx)
		return err
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete usage history")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("deleted %d usage records", deleted)})
}

func usageJSON(row store.UsageRecord) map[string]any {
	return map[string]any{
		"id":             row.ID,
		"userId":         row.UserID,
		"usageTimestamp": row.UsageTimestamp.Format(time.RFC3339),
		"callsMinutes":   row.CallsMinutes,
		"smsCount":       row.SMSCount,
		"dataUsageMB":    row.DataUsageMB,
	}
}

func usageListJSON(rows []store.UsageRecord) []map[string]any {
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		out = append(out, usageJSON(row))
	}
	return out
}

func floatOrZero(value *float64) float64 {
	if value == nil {
		return 0
	}
	return *value
}
