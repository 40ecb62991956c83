package handlers

import (
	"fmt"
	"net/http"

	"ttportal/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type monetaryPlanRequest struct {
	Price           *float64 `json:"price"`
	RechargeAmount  *float64 `json:"rechargeAmount"`
	RechargeExpDays *int     `json:"rechargeExpDays"`
	BonusExpDays    *int     `json:"bonusExpDays"`
}

type dataPlanRequest struct {
	Price        *float64 `json:"price"`
	DataAmountMB *float64 `json:"dataAmountMB"`
	ExpDays      *int     `json:"expDays"`
}

func (h *Handler) ListMonetaryPlans(w http.ResponseWriter, r *http.Request) {
	rows, err := h.monetaryPlans.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load monetary plans")
		return
	}
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		out = append(out, monetaryPlanJSON(row))
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *Handler) CreateMonetaryPlans(w http.ResponseWriter, r *http.Request) {
	requests, err := decodeBatch[monetaryPlanRequest](r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	inputs := make([]store.MonetaryPlanInput, 0, len(requests))
	for _, req := range requests {
		if req.Price == nil || req.RechargeAmount == nil {
			respondError(w, http.StatusBadRequest, "each monetary plan must have price and rechargeAmount fields")
			return
		}
		inputs = append(inputs, store.MonetaryPlanInput{
			ID:              uuid.NewString(),
			Price:           *req.Price,
			RechargeAmount:  *req.RechargeAmount,
			RechargeExpDays: intOrZero(req.RechargeExpDays),
			BonusExpDays:    intOrZero(req.BonusExpDays),
		})
	}
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		for _, input := range inputs {
			if err := h.monetaryPlans.Create(r.Context(), tx, input); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create monetary plans")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"message": fmt.Sprintf("added %d monetary plans", len(inputs))})
}

func (h *Handler) GetMonetaryPlan(w http.ResponseWriter, r *http.Request) {
	row, err := h.monetaryPlans.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "monetary plan not found")
		return
	}
	respondJSON(w, http.StatusOK, monetaryPlanJSON(row))
}

func (h *Handler) DeleteMonetaryPlan(w http.ResponseWriter, r *http.Request) {
	planID := chi.URLParam(r, "id")
	var deleted int64
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		var err error
		deleted, err = h.monetaryPlans.Delete(r.Context(), tx, planID)
		return err
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete monetary plan")
		return
	}
	if deleted == 0 {
		respondError(w, http.StatusNotFound, "monetary plan not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("monetary plan %s deleted", planID)})
}

func (h *Handler) DeleteAllMonetaryPlans(w http.ResponseWriter, r *http.Request) {
	var deleted int64
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		var err error
		deleted, err = h.monetaryPlans.DeleteAll(r.Context(), tx)
		return err
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete monetary plans")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("deleted %d monetary plans", deleted)})
}

func (h *Handler) ListDataPlans(w http.ResponseWriter, r *http.Request) {
	rows, err := h.dataPlans.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load data plans")
		return
	}
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		out = append(out, dataPlanJSON(row))
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *Handler) CreateDataPlans(w http.ResponseWriter, r *http.Request) {
	requests, err := decodeBatch[dataPlanRequest](r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	inputs := make([]store.DataPlanInput, 0, len(requests))
	for _, req := range requests {
		if req.Price == nil || req.DataAmountMB == nil {
			respondError(w, http.StatusBadRequest, "each data plan must have price and dataAmountMB fields")
			return
		}
		inputs = append(inputs, store.DataPlanInput{
			ID:           uuid.NewString(),
			Price:        *req.Price,
			DataAmountMB: *req.DataAmountMB,
			ExpDays:      intOrZero(req.ExpDays),
		})
	}
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		for _, input := range inputs {
			if err := h.dataPlans.Create(r.Context(), tx, input); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create data plans")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"message": fmt.Sprintf("added %d data plans", len(inputs))})
}

func (h *Handler) GetDataPlan(w http.ResponseWriter, r *http.Request) {
	row, err := h.dataPlans.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "data plan not found")
		return
	}
	respondJSON(w, http.StatusOK, dataPlanJSON(row))
}

func (h *Handler) DeleteDataPlan(w http.ResponseWriter, r *http.Request) {
	planID := chi.URLParam(r, "id")
	var deleted int64
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		var err error
		deleted, err = h.dataPlans.Delete(r.Context(), tx, planID)
		return err
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete data plan")
		return
	}
	if deleted == 0 {
		respondError(w, http.StatusNotFound, "data plan not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("data plan %s deleted", planID)})
}

func (h *Handler) DeleteAllDataPlans(w http.ResponseWriter, r *http.Request) {
	var deleted int64
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		var err error
		deleted, err = h.dataPlans.DeleteAll(r.Context(), tx)
		return err
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete data plans")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("deleted %d data plans", deleted)})
}

func monetaryPlanJSON(row store.MonetaryPlan) map[string]any {
	return map[string]any{
		"id":              row.ID,
		"price":           row.Price,
		"rechargeAmount":  row.RechargeAmount,
		"rechargeExpDays": row.RechargeExpDays,
		"bonusExpDays":    row.BonusExpDays,
	}
}

func dataPlanJSON(row store.DataPlan) map[string]any {
	return map[string]any{
		"id":           row.ID,
		"price":        row.Price,
		"dataAmountMB": row.DataAmountMB,
		"expDays":      row.ExpDays,
	}
}

func intOrZero(value *int) int {
	if value == nil {
		return 0
	}
	return *value
}
