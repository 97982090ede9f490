// Copyright (c) 2025 niichapats.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/niichapats/ku-polls/cliparse"
	"github.com/niichapats/ku-polls/middleware"
	"github.com/niichapats/ku-polls/models"
)

type PollHandler struct {
	db  *sql.DB
	cfg cliparse.Config
	now func() time.Time
}

func NewPollHandler(db *sql.DB, cfg cliparse.Config) *PollHandler {
	return &PollHandler{db: db, cfg: cfg, now: time.Now}
}

// Index handles GET /polls
// Returns the latest published questions, newest first. Questions with a
// future pub_date are not listed.
func (h *PollHandler) Index(w http.ResponseWriter, r *http.Request) {
	now := h.now()

	rows, err := h.db.QueryContext(r.Context(), `
		SELECT id, question_text, pub_date, end_date
		FROM question
		WHERE pub_date <= $1
		ORDER BY pub_date DESC, id
		LIMIT $2
	`, models.DBTime(now), models.IndexSize)
	if err != nil {
		slog.Error("failed to query questions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	questions := []models.QuestionSummary{}
	for rows.Next() {
		var q models.Question
		var endDate sql.NullTime
		if err := rows.Scan(&q.ID, &q.QuestionText, &q.PubDate, &endDate); err != nil {
			slog.Error("failed to scan question", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		if endDate.Valid {
			q.EndDate = &endDate.Time
		}

		questions = append(questions, models.QuestionSummary{
			ID:                   q.ID,
			QuestionText:         q.QuestionText,
			PubDate:              q.PubDate.In(h.cfg.Location()),
			PublishedAgo:         humanize.RelTime(q.PubDate, now, "ago", "from now"),
			WasPublishedRecently: q.WasPublishedRecently(now),
			CanVote:              q.CanVote(now),
		})
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate questions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	resp := models.IndexResponse{Questions: questions}
	if len(questions) == 0 {
		resp.Message = models.MsgNoPolls
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// Detail handles GET /polls/{id}
// Unpublished questions are hidden (404). A question whose voting period
// has ended is still shown, with can_vote false and an explanatory message.
func (h *PollHandler) Detail(w http.ResponseWriter, r *http.Request) {
	now := h.now()

	question, ok := h.publishedQuestion(w, r, now)
	if !ok {
		return
	}

	choices, err := getChoices(r.Context(), h.db, question.ID)
	if err != nil {
		slog.Error("failed to query choices", "error", err, "question_id", question.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	resp := models.DetailResponse{
		Question:             inZone(question, h.cfg.Location()),
		Choices:              choices,
		PublishedAgo:         humanize.RelTime(question.PubDate, now, "ago", "from now"),
		WasPublishedRecently: question.WasPublishedRecently(now),
		CanVote:              question.CanVote(now),
	}
	if !resp.CanVote {
		resp.Message = models.MsgVotingEnded
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// Results handles GET /polls/{id}/results
// Unpublished questions are hidden (404), same as Detail.
func (h *PollHandler) Results(w http.ResponseWriter, r *http.Request) {
	now := h.now()

	question, ok := h.publishedQuestion(w, r, now)
	if !ok {
		return
	}

	choices, total, err := getResults(r.Context(), h.db, question.ID)
	if err != nil {
		slog.Error("failed to query results", "error", err, "question_id", question.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ResultsResponse{
		Question:   inZone(question, h.cfg.Location()),
		Choices:    choices,
		TotalVotes: total,
	})
}

// publishedQuestion loads the {id} question and writes a 404 unless it is
// published at now
func (h *PollHandler) publishedQuestion(w http.ResponseWriter, r *http.Request, now time.Time) (models.Question, bool) {
	questionID := r.PathValue("id")
	if questionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "question id is required")
		return models.Question{}, false
	}

	question, err := getQuestion(r.Context(), h.db, questionID)
	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Question not found")
		return models.Question{}, false
	}
	if err != nil {
		slog.Error("failed to query question", "error", err, "question_id", questionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return models.Question{}, false
	}

	if !question.IsPublished(now) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Question not found")
		return models.Question{}, false
	}
	return question, true
}
