package handlers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ttportal/internal/auth"
	"ttportal/internal/middleware"
	"ttportal/internal/services"
	"ttportal/internal/store"
	"ttportal/internal/validator"
	"ttportal/internal/websocket"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

func (h *Handler) render(w http.ResponseWriter, page string, data map[string]any) {
	tmpl, ok := h.templates[page]
	if !ok {
		http.Error(w, "page not found", http.StatusNotFound)
		return
	}
	if err := tmpl.ExecuteTemplate(w, "base.html", data); err != nil {
		log.Printf("render %s: %v", page, err)
	}
}

func (h *Handler) setSession(w http.ResponseWriter, userID string) error {
	token, err := auth.GenerateToken(h.cfg.SessionSecret, userID, h.cfg.TokenTTL)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.cfg.TokenTTL.Seconds()),
	})
	return nil
}

func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, "login", map[string]any{"PhoneNumber": ""})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	phone := strings.TrimSpace(r.FormValue("phoneNumber"))
	password := r.FormValue("password")
	fail := func(message string) {
		h.render(w, "login", map[string]any{"Error": message, "PhoneNumber": phone})
	}
	user, err := h.users.GetByPhoneNumber(r.Context(), phone)
	if errors.Is(err, sql.ErrNoRows) {
		fail("Phone number does not exist.")
		return
	}
	if err != nil {
		http.Error(w, "unable to load account", http.StatusInternalServerError)
		return
	}
	if user.PasswordHash == nil {
		fail("This account has no profile yet. Please sign up first.")
		return
	}
	if !auth.CheckPassword(*user.PasswordHash, password) {
		fail("Incorrect password.")
		return
	}
	if err := h.setSession(w, user.ID); err != nil {
		fail("Unable to open a session.")
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) SignupPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, "signup", map[string]any{"PhoneNumber": "", "Username": ""})
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	phone := strings.TrimSpace(r.FormValue("phoneNumber"))
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	confirmation := r.FormValue("confirmation")
	fail := func(message string) {
		h.render(w, "signup", map[string]any{
			"Error":       message,
			"PhoneNumber": phone,
			"Username":    username,
		})
	}
	if err := validator.ValidatePhoneNumber(phone); err != nil {
		fail(err.Error())
		return
	}
	user, err := h.users.GetByPhoneNumber(r.Context(), phone)
	if errors.Is(err, sql.ErrNoRows) {
		fail("Phone number is not registered with the operator.")
		return
	}
	if err != nil {
		http.Error(w, "unable to load account", http.StatusInternalServerError)
		return
	}
	if user.PasswordHash != nil {
		fail("This account already has a profile. Please log in.")
		return
	}
	if err := validator.ValidateUsername(username); err != nil {
		fail(err.Error())
		return
	}
	if err := validator.ValidatePassword(password, confirmation); err != nil {
		fail(err.Error())
		return
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		fail("Unable to create the profile.")
		return
	}
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.users.CompleteSignup(r.Context(), tx, user.ID, username, hash)
	})
	if err != nil {
		fail("Unable to create the profile.")
		return
	}
	if err := h.setSession(w, user.ID); err != nil {
		fail("Unable to open a session.")
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	balance, err := h.balances.GetByUser(r.Context(), userID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		http.Error(w, "unable to load balance", http.StatusInternalServerError)
		return
	}
	h.render(w, "home", map[string]any{
		"User":    user,
		"Balance": balance,
	})
}

func (h *Handler) Subscriptions(w http.ResponseWriter, r *http.Request) {
	monetary, err := h.monetaryPlans.List(r.Context())
	if err != nil {
		http.Error(w, "unable to load plans", http.StatusInternalServerError)
		return
	}
	data, err := h.dataPlans.List(r.Context())
	if err != nil {
		http.Error(w, "unable to load plans", http.StatusInternalServerError)
		return
	}
	h.render(w, "subscriptions", map[string]any{
		"MonetaryPlans": monetary,
		"DataPlans":     data,
	})
}

func (h *Handler) QuestionsPage(w http.ResponseWriter, r *http.Request) {
	h.renderQuestions(w, r, "")
}

func (h *Handler) renderQuestions(w http.ResponseWriter, r *http.Request, errorMessage string) {
	keyword := strings.TrimSpace(r.URL.Query().Get("keyword"))
	var (
		questions []store.Question
		err       error
	)
	if keyword != "" {
		questions, err = h.questions.Search(r.Context(), keyword)
	} else {
		questions, err = h.questions.List(r.Context())
	}
	if err != nil {
		http.Error(w, "unable to load questions", http.StatusInternalServerError)
		return
	}
	h.render(w, "questions", map[string]any{
		"Questions": questions,
		"Keyword":   keyword,
		"Error":     errorMessage,
	})
}

func (h *Handler) SubmitQuestion(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	content := strings.TrimSpace(r.FormValue("content"))
	if err := validator.ValidateQuestion(content); err != nil {
		h.renderQuestions(w, r, err.Error())
		return
	}
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.questions.Create(r.Context(), tx, uuid.NewString(), userID, content, time.Now().UTC())
	})
	if err != nil {
		http.Error(w, "unable to submit the question", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/questions", http.StatusSeeOther)
}

func (h *Handler) QuestionThread(w http.ResponseWriter, r *http.Request) {
	h.renderThread(w, r, "")
}

func (h *Handler) renderThread(w http.ResponseWriter, r *http.Request, errorMessage string) {
	questionID := chi.URLParam(r, "id")
	question, err := h.questions.GetByID(r.Context(), questionID)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	answers, err := h.answers.ListByQuestion(r.Context(), questionID)
	if err != nil {
		http.Error(w, "unable to load answers", http.StatusInternalServerError)
		return
	}
	h.render(w, "answers", map[string]any{
		"Question": question,
		"Answers":  answers,
		"Error":    errorMessage,
	})
}

func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	questionID := chi.URLParam(r, "id")
	if _, err := h.questions.GetByID(r.Context(), questionID); err != nil {
		http.NotFound(w, r)
		return
	}
	content := strings.TrimSpace(r.FormValue("content"))
	if content == "" {
		h.renderThread(w, r, "An answer cannot be empty.")
		return
	}
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.answers.Create(r.Context(), tx, uuid.NewString(), questionID, userID, content, time.Now().UTC())
	})
	if err != nil {
		http.Error(w, "unable to submit the answer", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/question/"+questionID, http.StatusSeeOther)
}

func (h *Handler) FindAgencyPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, "findAgency", map[string]any{})
}

func (h *Handler) FindAgency(w http.ResponseWriter, r *http.Request) {
	latitude, latErr := strconv.ParseFloat(strings.TrimSpace(r.FormValue("latitude")), 64)
	longitude, lonErr := strconv.ParseFloat(strings.TrimSpace(r.FormValue("longitude")), 64)
	if latErr != nil || lonErr != nil {
		h.render(w, "findAgency", map[string]any{"Error": "Latitude and longitude must be numbers."})
		return
	}
	agency, distanceKM, err := h.locator.Nearest(r.Context(), latitude, longitude)
	if err != nil {
		if errors.Is(err, services.ErrNoAgencies) {
			h.render(w, "findAgency", map[string]any{"Error": "No agencies are registered yet."})
			return
		}
		http.Error(w, "unable to locate the nearest agency", http.StatusInternalServerError)
		return
	}
	h.render(w, "findAgency", map[string]any{
		"Agency":     agency,
		"DistanceKM": distanceKM,
	})
}

func (h *Handler) PredictPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, "predict", map[string]any{})
}

func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	result, err := h.forecasts.Predict(r.Context(), userID)
	if err != nil {
		http.Error(w, "unable to compute the forecast", http.StatusInternalServerError)
		return
	}
	h.render(w, "predict", map[string]any{"Result": &result})
}

func (h *Handler) WSBalances(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	websocket.ServeWS(w, r, h.hub, userID)
}
