// Copyright (c) 2025 niichapats.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/niichapats/ku-polls/auth"
	"github.com/niichapats/ku-polls/cliparse"
	"github.com/niichapats/ku-polls/middleware"
	"github.com/niichapats/ku-polls/models"
)

type VotingHandler struct {
	db  *sql.DB
	cfg cliparse.Config
	now func() time.Time
}

func NewVotingHandler(db *sql.DB, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{db: db, cfg: cfg, now: time.Now}
}

// Vote handles POST /polls/{id}/vote
// Requires an authenticated user. Each user holds at most one vote per
// question; voting again moves the vote to the new choice.
func (h *VotingHandler) Vote(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.UserFromContext(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, models.MsgLoginRequired)
		return
	}

	questionID := r.PathValue("id")
	if questionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "question id is required")
		return
	}

	question, err := getQuestion(r.Context(), h.db, questionID)
	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Question not found")
		return
	}
	if err != nil {
		slog.Error("failed to query question", "error", err, "question_id", questionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	now := h.now()
	if !question.IsPublished(now) {
		middleware.ErrorResponse(w, http.StatusForbidden, models.MsgNotPublished)
		return
	}
	if !question.CanVote(now) {
		middleware.ErrorResponse(w, http.StatusConflict, models.MsgVotingEnded)
		return
	}

	// A missing body, bad JSON and an empty choice all mean no selection
	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil || req.Choice == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.MsgNoChoice)
		return
	}

	tx, err := h.db.BeginTx(r.Context(), nil)
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	// The choice must belong to this question
	var exists bool
	err = tx.QueryRowContext(r.Context(), `
		SELECT EXISTS(
			SELECT 1 FROM choice WHERE id = $1 AND question_id = $2
		)
	`, req.Choice, question.ID).Scan(&exists)
	if err != nil {
		slog.Error("failed to verify choice", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.MsgNoChoice)
		return
	}

	var previous string
	err = tx.QueryRowContext(r.Context(), `
		SELECT choice_id FROM vote WHERE user_id = $1 AND question_id = $2`+h.lockClause(),
		claims.UserID(), question.ID).Scan(&previous)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		slog.Error("failed to read previous vote", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}
	replaced := err == nil

	// (user_id, question_id) is unique; a concurrent first vote lands on the update arm
	_, err = tx.ExecContext(r.Context(), `
		INSERT INTO vote (id, user_id, question_id, choice_id, voted_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, question_id)
		DO UPDATE SET choice_id = excluded.choice_id, voted_at = excluded.voted_at
	`, auth.GenerateID(), claims.UserID(), question.ID, req.Choice, models.DBTime(now))
	if err != nil {
		slog.Error("failed to upsert vote", "error", err, "question_id", question.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}

	choices, total, err := getResults(r.Context(), tx, question.ID)
	if err != nil {
		slog.Error("failed to query results", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit vote", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}

	message := models.MsgVoteRecorded
	if replaced {
		message = models.MsgVoteChanged
	}

	slog.Info("vote recorded",
		"question_id", question.ID,
		"user", claims.Username,
		"choice_id", req.Choice,
		"replaced", replaced,
		"previous_choice_id", previous,
	)

	middleware.JSONResponse(w, http.StatusOK, models.ResultsResponse{
		Question:   inZone(question, h.cfg.Location()),
		Choices:    choices,
		TotalVotes: total,
		Message:    message,
	})
}

// lockClause row-locks the caller's existing vote on Postgres. SQLite
// serializes writers on its single connection.
func (h *VotingHandler) lockClause() string {
	switch h.cfg.DatabaseType {
	case cliparse.DatabasePostgres, cliparse.DatabasePGX:
		return " FOR UPDATE"
	}
	return ""
}

// MyVote handles GET /polls/{id}/my-vote
// Returns the caller's current choice, or a null choice_id if they have
// not voted on this question.
func (h *VotingHandler) MyVote(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.UserFromContext(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, models.MsgLoginRequired)
		return
	}

	questionID := r.PathValue("id")
	if _, err := getQuestion(r.Context(), h.db, questionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			middleware.ErrorResponse(w, http.StatusNotFound, "Question not found")
			return
		}
		slog.Error("failed to query question", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	resp := models.MyVoteResponse{QuestionID: questionID}

	var choiceID string
	var votedAt time.Time
	err := h.db.QueryRowContext(r.Context(), `
		SELECT choice_id, voted_at FROM vote WHERE user_id = $1 AND question_id = $2
	`, claims.UserID(), questionID).Scan(&choiceID, &votedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// Not voted yet
	case err != nil:
		slog.Error("failed to query vote", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	default:
		votedAt = votedAt.In(h.cfg.Location())
		resp.ChoiceID = &choiceID
		resp.VotedAt = &votedAt
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}
