// Copyright (c) 2025 niichapats.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/niichapats/ku-polls/auth"
	"github.com/niichapats/ku-polls/cliparse"
	"github.com/niichapats/ku-polls/middleware"
	"github.com/niichapats/ku-polls/models"
)

type AdminHandler struct {
	db  *sql.DB
	cfg cliparse.Config
	now func() time.Time
}

func NewAdminHandler(db *sql.DB, cfg cliparse.Config) *AdminHandler {
	return &AdminHandler{db: db, cfg: cfg, now: time.Now}
}

// CreateQuestion handles POST /admin/questions
// pub_date defaults to now. A future pub_date schedules the question.
func (h *AdminHandler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req models.CreateQuestionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.QuestionText = strings.TrimSpace(req.QuestionText)
	if req.QuestionText == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "question_text is required")
		return
	}
	if len([]rune(req.QuestionText)) > models.MaxQuestionText {
		middleware.ErrorResponse(w, http.StatusBadRequest, "question_text is too long")
		return
	}

	pubDate := h.now()
	if req.PubDate != nil {
		pubDate = *req.PubDate
	}

	var endDate any
	if req.EndDate != nil {
		if !req.EndDate.After(pubDate) {
			middleware.ErrorResponse(w, http.StatusBadRequest, "end_date must be after pub_date")
			return
		}
		endDate = models.DBTime(*req.EndDate)
	}

	questionID := auth.GenerateID()
	_, err := h.db.ExecContext(r.Context(), `
		INSERT INTO question (id, question_text, pub_date, end_date)
		VALUES ($1, $2, $3, $4)
	`, questionID, req.QuestionText, models.DBTime(pubDate), endDate)
	if err != nil {
		slog.Error("failed to create question", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create question")
		return
	}

	createdBy := ""
	if claims, ok := middleware.UserFromContext(r.Context()); ok {
		createdBy = claims.Username
	}
	slog.Info("question created", "question_id", questionID, "by", createdBy)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateQuestionResponse{
		QuestionID: questionID,
	})
}

// AddChoice handles POST /admin/questions/{id}/choices
// Choices are displayed in the order they were added.
func (h *AdminHandler) AddChoice(w http.ResponseWriter, r *http.Request) {
	questionID := r.PathValue("id")

	var req models.AddChoiceRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.ChoiceText = strings.TrimSpace(req.ChoiceText)
	if req.ChoiceText == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "choice_text is required")
		return
	}
	if len([]rune(req.ChoiceText)) > models.MaxChoiceText {
		middleware.ErrorResponse(w, http.StatusBadRequest, "choice_text is too long")
		return
	}

	tx, err := h.db.BeginTx(r.Context(), nil)
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	if _, err := getQuestion(r.Context(), tx, questionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			middleware.ErrorResponse(w, http.StatusNotFound, "Question not found")
			return
		}
		slog.Error("failed to query question", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var nextOrder int
	err = tx.QueryRowContext(r.Context(), `
		SELECT COALESCE(MAX(display_order), 0) + 1 FROM choice WHERE question_id = $1
	`, questionID).Scan(&nextOrder)
	if err != nil {
		slog.Error("failed to compute display order", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	choiceID := auth.GenerateID()
	_, err = tx.ExecContext(r.Context(), `
		INSERT INTO choice (id, question_id, choice_text, display_order)
		VALUES ($1, $2, $3, $4)
	`, choiceID, questionID, req.ChoiceText, nextOrder)
	if err != nil {
		slog.Error("failed to create choice", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to add choice")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit choice", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to add choice")
		return
	}

	slog.Info("choice added", "question_id", questionID, "choice_id", choiceID)

	middleware.JSONResponse(w, http.StatusCreated, models.AddChoiceResponse{
		ChoiceID: choiceID,
	})
}
