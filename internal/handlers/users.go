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

type userRequest struct {
	PhoneNumber *string `json:"phoneNumber"`
	Username    *string `json:"username"`
	BonusPlan   *int    `json:"bonusPlan"`
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load users")
		return
	}
	normalized := make([]map[string]any, 0, len(users))
	for _, user := range users {
		normalized = append(normalized, userJSON(user))
	}
	respondJSON(w, http.StatusOK, normalized)
}

func (h *Handler) CreateUsers(w http.ResponseWriter, r *http.Request) {
	requests, err := decodeBatch[userRequest](r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	seen := make(map[string]struct{}, len(requests))
	for _, req := range requests {
		if req.PhoneNumber == nil || req.BonusPlan == nil {
			respondError(w, http.StatusBadRequest, "each user must have phoneNumber and bonusPlan fields")
			return
		}
		if _, dup := seen[*req.PhoneNumber]; dup {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("user with phone number %s already exists", *req.PhoneNumber))
			return
		}
		seen[*req.PhoneNumber] = struct{}{}
		_, err := h.users.GetByPhoneNumber(r.Context(), *req.PhoneNumber)
		if err == nil {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("user with phone number %s already exists", *req.PhoneNumber))
			return
		}
		if !errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusInternalServerError, "unable to check phone number")
			return
		}
	}
	created := make([]map[string]any, 0, len(requests))
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		for _, req := range requests {
			id := uuid.NewString()
			if err := h.users.Create(r.Context(), tx, id, *req.PhoneNumber, req.Username, *req.BonusPlan); err != nil {
				return err
			}
			created = append(created, map[string]any{
				"id":          id,
				"phoneNumber": *req.PhoneNumber,
				"bonusPlan":   *req.BonusPlan,
			})
		}
		return nil
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create users")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"message": "users added successfully",
		"users":   created,
	})
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	respondJSON(w, http.StatusOK, userJSON(user))
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	var deleted int64
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		var err error
		deleted, err = h.users.Delete(r.Context(), tx, userID)
		return err
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete user")
		return
	}
	if deleted == 0 {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("user %s deleted", userID)})
}

func (h *Handler) DeleteAllUsers(w http.ResponseWriter, r *http.Request) {
	var deleted int64
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		var err error
		deleted, err = h.users.DeleteAll(r.Context(), tx)
		return err
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete users")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("deleted %d users", deleted)})
}

func userJSON(user store.User) map[string]any {
	var username any
	if user.Username != nil {
		username = *user.Username
	}
	return map[string]any{
		"id":          user.ID,
		"phoneNumber": user.PhoneNumber,
		"username":    username,
		"bonusPlan":   user.BonusPlan,
	}
}
