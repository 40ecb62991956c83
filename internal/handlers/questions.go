package handlers

import (
	"fmt"
	"net/http"
	"time"

	"ttportal/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
)

func (h *Handler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("search")
	var (
		rows []store.Question
		err  error
	)
	if keyword != "" {
		rows, err = h.questions.Search(r.Context(), keyword)
	} else {
		rows, err = h.questions.List(r.Context())
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load questions")
		return
	}
	respondJSON(w, http.StatusOK, questionListJSON(rows))
}

func (h *Handler) ListQuestionsByUser(w http.ResponseWriter, r *http.Request) {
	rows, err := h.questions.ListByUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load questions")
		return
	}
	respondJSON(w, http.StatusOK, questionListJSON(rows))
}

func (h *Handler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	questionID := chi.URLParam(r, "id")
	var deleted int64
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		var err error
		deleted, err = h.questions.Delete(r.Context(), tx, questionID)
		return err
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete question")
		return
	}
	if deleted == 0 {
		respondError(w, http.StatusNotFound, "question not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("question %s deleted", questionID)})
}

func (h *Handler) DeleteAllQuestions(w http.ResponseWriter, r *http.Request) {
	var deleted int64
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		var err error
		deleted, err = h.questions.DeleteAll(r.Context(), tx)
		return err
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete questions")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("deleted %d questions", deleted)})
}

func (h *Handler) ListAnswers(w http.ResponseWriter, r *http.Request) {
	rows, err := h.answers.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load answers")
		return
	}
	respondJSON(w, http.StatusOK, answerListJSON(rows))
}

func (h *Handler) ListAnswersByQuestion(w http.ResponseWriter, r *http.Request) {
	rows, err := h.answers.ListByQuestion(r.Context(), chi.URLParam(r, "questionId"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load answers")
		return
	}
	respondJSON(w, http.StatusOK, answerListJSON(rows))
}

func (h *Handler) ListAnswersByUser(w http.ResponseWriter, r *http.Request) {
	rows, err := h.answers.ListByUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load answers")
		return
	}
	respondJSON(w, http.StatusOK, answerListJSON(rows))
}

func (h *Handler) DeleteAllAnswers(w http.ResponseWriter, r *http.Request) {
	var deleted int64
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		var err error
		deleted, err = h.answers.DeleteAll(r.Context(), tx)
		return err
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete answers")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("deleted %d answers", deleted)})
}

func questionListJSON(rows []store.Question) []map[string]any {
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		out = append(out, map[string]any{
			"id":          row.ID,
			"userId":      row.UserID,
			"content":     row.Content,
			"submittedAt": row.SubmittedAt.Format(time.RFC3339),
		})
	}
	return out
}

func answerListJSON(rows []store.Answer) []map[string]any {
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		out = append(out, map[string]any{
			"id":          row.ID,
			"questionId":  row.QuestionID,
			"userId":      row.UserID,
			"content":     row.Content,
			"submittedAt": row.SubmittedAt.Format(time.RFC3339),
		})
	}
	return out
}
