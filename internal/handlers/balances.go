package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"ttportal/internal/store"
	"ttportal/internal/websocket"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type balanceRequest struct {
	UserID             *string  `json:"userId"`
	MonetaryBalance    *float64 `json:"monetaryBalance"`
	BonusBalance       *float64 `json:"bonusBalance"`
	DataBalanceMB      *float64 `json:"dataBalanceMB"`
	MonetaryExpiryDate *string  `json:"monetaryExpiryDate"`
	BonusExpiryDate    *string  `json:"bonusExpiryDate"`
	DataExpiryDate     *string  `json:"dataExpiryDate"`
}

func (h *Handler) ListBalances(w http.ResponseWriter, r *http.Request) {
	rows, err := h.balances.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load balances")
		return
	}
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		out = append(out, balanceJSON(row))
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *Handler) CreateBalances(w http.ResponseWriter, r *http.Request) {
	requests, err := decodeBatch[balanceRequest](r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	seen := make(map[string]struct{}, len(requests))
	inputs := make([]store.BalanceInput, 0, len(requests))
	for _, req := range requests {
		if req.UserID == nil {
			respondError(w, http.StatusBadRequest, "each balance must have a userId field")
			return
		}
		if _, dup := seen[*req.UserID]; dup {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("user %s already has a balance", *req.UserID))
			return
		}
		seen[*req.UserID] = struct{}{}
		if _, err := h.users.GetByID(r.Context(), *req.UserID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				respondError(w, http.StatusBadRequest, fmt.Sprintf("user %s does not exist", *req.UserID))
				return
			}
			respondError(w, http.StatusInternalServerError, "unable to check user")
			return
		}
		exists, err := h.balances.ExistsForUser(r.Context(), *req.UserID)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "unable to check balance")
			return
		}
		if exists {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("user %s already has a balance", *req.UserID))
			return
		}
		input := store.BalanceInput{
			ID:              uuid.NewString(),
			UserID:          *req.UserID,
			MonetaryBalance: floatOrZero(req.MonetaryBalance),
			BonusBalance:    floatOrZero(req.BonusBalance),
			DataBalanceMB:   floatOrZero(req.DataBalanceMB),
		}
		// expiry dates only matter while the matching bucket holds value
		if input.MonetaryBalance > 0 {
			input.MonetaryExpiryDate, err = parseOptionalDate(req.MonetaryExpiryDate)
			if err != nil {
				respondError(w, http.StatusBadRequest, err.Error())
				return
			}
		}
		if input.BonusBalance > 0 {
			input.BonusExpiryDate, err = parseOptionalDate(req.BonusExpiryDate)
			if err != nil {
				respondError(w, http.StatusBadRequest, err.Error())
				return
			}
		}
		if input.DataBalanceMB > 0 {
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
			if err := h.balances.Create(r.Context(), tx, input); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create balances")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"message": fmt.Sprintf("added %d balances", len(inputs))})
}

func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	row, err := h.balances.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "balance not found")
		return
	}
	respondJSON(w, http.StatusOK, balanceJSON(row))
}

func (h *Handler) GetBalanceByUser(w http.ResponseWriter, r *http.Request) {
	row, err := h.balances.GetByUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		respondError(w, http.StatusNotFound, "balance not found")
		return
	}
	respondJSON(w, http.StatusOK, balanceJSON(row))
}

func (h *Handler) PatchBalanceByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	var req balanceRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	patch := store.BalancePatch{
		MonetaryBalance: req.MonetaryBalance,
		BonusBalance:    req.BonusBalance,
		DataBalanceMB:   req.DataBalanceMB,
	}
	var err error
	patch.MonetaryExpiryDate, err = parseOptionalDate(req.MonetaryExpiryDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	patch.BonusExpiryDate, err = parseOptionalDate(req.BonusExpiryDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	patch.DataExpiryDate, err = parseOptionalDate(req.DataExpiryDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	exists, err := h.balances.ExistsForUser(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to check balance")
		return
	}
	if !exists {
		respondError(w, http.StatusNotFound, "balance not found")
		return
	}
	var updated store.Balance
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		var err error
		updated, err = h.balances.Patch(r.Context(), tx, userID, patch)
		return err
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to update balance")
		return
	}
	h.hub.BroadcastBalance(updated.UserID, websocket.BalanceUpdate{
		UserID:          updated.UserID,
		MonetaryBalance: updated.MonetaryBalance,
		BonusBalance:    updated.BonusBalance,
		DataBalanceMB:   updated.DataBalanceMB,
	})
	respondJSON(w, http.StatusOK, balanceJSON(updated))
}

func (h *Handler) DeleteBalance(w http.ResponseWriter, r *http.Request) {
	balanceID := chi.URLParam(r, "id")
	var deleted int64
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		var err error
		deleted, err = h.balances.Delete(r.Context(), tx, balanceID)
		return err
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete balance")
		return
	}
	if deleted == 0 {
		respondError(w, http.StatusNotFound, "balance not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("balance %s deleted", balanceID)})
}

func (h *Handler) DeleteAllBalances(w http.ResponseWriter, r *http.Request) {
	var deleted int64
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		var err error
		deleted, err = h.balances.DeleteAll(r.Context(), tx)
		return err
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete balances")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("deleted %d balances", deleted)})
}

func balanceJSON(row store.Balance) map[string]any {
	return map[string]any{
		"id":                 row.ID,
		"userId":             row.UserID,
		"monetaryBalance":    row.MonetaryBalance,
		"bonusBalance":       row.BonusBalance,
		"dataBalanceMB":      row.DataBalanceMB,
		"monetaryExpiryDate": formatDate(row.MonetaryExpiryDate),
		"bonusExpiryDate":    formatDate(row.BonusExpiryDate),
		"dataExpiryDate":     formatDate(row.DataExpiryDate),
	}
}
