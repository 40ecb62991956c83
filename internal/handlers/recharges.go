package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"ttportal/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type rechargeRequest struct {
	UserID             *string  `json:"userId"`
	RechargeAmount     *float64 `json:"rechargeAmount"`
	BonusAdded         *float64 `json:"bonusAdded"`
	DataAddedMB        *float64 `json:"dataAddedMB"`
	RechargeDate       *string  `json:"rechargeDate"`
	MonetaryExpiryDate *string  `json:"monetaryExpiryDate"`
	BonusExpiryDate    *string  `json:"bonusExpiryDate"`
	DataExpiryDate     *string  `json:"dataExpiryDate"`
}

func (h *Handler) ListRecharges(w http.ResponseWriter, r *http.Request) {
	rows, err := h.recharges.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load recharges")
		return
	}
	respondJSON(w, http.StatusOK, rechargeListJSON(rows))
}

func (h *Handler) CreateRecharges(w http.ResponseWriter, r *http.Request) {
	requests, err := decodeBatch[rechargeRequest](r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	inputs := make([]store.RechargeInput, 0, len(requests))
	for _, req := range requests {
		if req.UserID == nil {
			respondError(w, http.StatusBadRequest, "each recharge must have a userId field")
			return
		}
		monetary := floatOrZero(req.RechargeAmount) > 0 || floatOrZero(req.BonusAdded) > 0
		data := floatOrZero(req.DataAddedMB) > 0
		if monetary && data {
			respondError(w, http.StatusBadRequest, "a recharge is either monetary or data, not both")
			return
		}
		if !monetary && !data {
			respondError(w, http.StatusBadRequest, "a recharge must add money or data")
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
		input := store.RechargeInput{
			ID:             uuid.NewString(),
			UserID:         *req.UserID,
			RechargeAmount: floatOrZero(req.RechargeAmount),
			BonusAdded:     floatOrZero(req.BonusAdded),
			DataAddedMB:    floatOrZero(req.DataAddedMB),
		}
		input.RechargeDate, err = parseOptionalDate(req.RechargeDate)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		if input.RechargeAmount > 0 {
			input.MonetaryExpiryDate, err = parseOptionalDate(req.MonetaryExpiryDate)
			if err != nil {
				respondError(w, http.StatusBadRequest, err.Error())
				return
			}
		}
		if input.BonusAdded > 0 {
			input.BonusExpiryDate, err = parseOptionalDate(req.BonusExpiryDate)
			if err != nil {
				respondError(w, http.StatusBadRequest, err.Error())
				return
			}
		}
		if input.DataAddedMB > 0 {
			input.DataExpiryDate, err = parseOptionalDate(req.DataExpiryDate)
			if err != nil {
				respondError(w, http.StatusBadRequest, err.Error())
				return
			}
		}
		inputs = append(inputs, input)
	}
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		for _, input := range inputs {
			if err := h.recharges.Create(r.Context(), tx, input); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create recharges")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"message": fmt.Sprintf("added %d recharges", len(inputs))})
}

func (h *Handler) GetRecharge(w http.ResponseWriter, r *http.Request) {
	row, err := h.recharges.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "recharge not found")
		return
	}
	respondJSON(w, http.StatusOK, rechargeJSON(row))
}

func (h *Handler) ListRechargesByUser(w http.ResponseWriter, r *http.Request) {
	rows, err := h.recharges.ListByUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load recharges")
		return
	}
	respondJSON(w, http.StatusOK, rechargeListJSON(rows))
}

func (h *Handler) DeleteRecharge(w http.ResponseWriter, r *http.Request) {
	rechargeID := chi.URLParam(r, "id")
	var deleted int64
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		var err error
		deleted, err = h.recharges.Delete(r.Context(), tx, rechargeID)
		return err
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete recharge")
		return
	}
	if deleted == 0 {
		respondError(w, http.StatusNotFound, "recharge not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("recharge %s deleted", rechargeID)})
}

func (h *Handler) DeleteAllRecharges(w http.ResponseWriter, r *http.Request) {
	var deleted int64
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		var err error
		deleted, err = h.recharges.DeleteAll(r.Context(), tx)
		return err
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete recharges")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("deleted %d recharges", deleted)})
}

func rechargeJSON(row store.Recharge) map[string]any {
	return map[string]any{
		"id":                 row.ID,
		"userId":             row.UserID,
		"rechargeAmount":     row.RechargeAmount,
		"bonusAdded":         row.BonusAdded,
		"dataAddedMB":        row.DataAddedMB,
		"rechargeDate":       formatDate(row.RechargeDate),
		"monetaryExpiryDate": formatDate(row.MonetaryExpiryDate),
		"bonusExpiryDate":    formatDate(row.BonusExpiryDate),
		"dataExpiryDate":     formatDate(row.DataExpiryDate),
	}
}

func rechargeListJSON(rows []store.Recharge) []map[string]any {
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		out = append(out, rechargeJSON(row))
	}
	return out
}
