// Copyright (c) 2025 niichapats.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"time"

	"github.com/niichapats/ku-polls/models"
)

// querier is satisfied by *sql.DB and *sql.Tx
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// getQuestion loads a question by ID. Returns sql.ErrNoRows when absent.
func getQuestion(ctx context.Context, q querier, id string) (models.Question, error) {
	var question models.Question
	var endDate sql.NullTime

	err := q.QueryRowContext(ctx, `
		SELECT id, question_text, pub_date, end_date
		FROM question
		WHERE id = $1
	`, id).Scan(&question.ID, &question.QuestionText, &question.PubDate, &endDate)
	if err != nil {
		return models.Question{}, err
	}

	if endDate.Valid {
		question.EndDate = &endDate.Time
	}
	return question, nil
}

// getChoices returns a question's choices in display order
func getChoices(ctx context.Context, q querier, questionID string) ([]models.Choice, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, question_id, choice_text, display_order
		FROM choice
		WHERE question_id = $1
		ORDER BY display_order, id
	`, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	choices := []models.Choice{}
	for rows.Next() {
		var c models.Choice
		if err := rows.Scan(&c.ID, &c.QuestionID, &c.ChoiceText, &c.DisplayOrder); err != nil {
			return nil, err
		}
		choices = append(choices, c)
	}
	return choices, rows.Err()
}

// getResults returns each choice with its vote count, and the total
func getResults(ctx context.Context, q querier, questionID string) ([]models.ChoiceResult, int, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT c.id, c.question_id, c.choice_text, c.display_order, COUNT(v.id)
		FROM choice c
		LEFT JOIN vote v ON v.choice_id = c.id
		WHERE c.question_id = $1
		GROUP BY c.id, c.question_id, c.choice_text, c.display_order
		ORDER BY c.display_order, c.id
	`, questionID)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	results := []models.ChoiceResult{}
	total := 0
	for rows.Next() {
		var r models.ChoiceResult
		if err := rows.Scan(&r.ID, &r.QuestionID, &r.ChoiceText, &r.DisplayOrder, &r.Votes); err != nil {
			return nil, 0, err
		}
		total += r.Votes
		results = append(results, r)
	}
	return results, total, rows.Err()
}

// inZone renders a question's timestamps in loc
func inZone(q models.Question, loc *time.Location) models.Question {
	q.PubDate = q.PubDate.In(loc)
	if q.EndDate != nil {
		end := q.EndDate.In(loc)
		q.EndDate = &end
	}
	return q
}
