package models

import "time"

// Limits carried over from the original schema
const (
	MaxQuestionText = 200
	MaxChoiceText   = 200
	IndexSize       = 5
)

// Messages shown to voters
const (
	MsgNoPolls       = "No polls are available."
	MsgNotPublished  = "This poll has not been published yet."
	MsgVotingEnded   = "The voting period for this poll has ended."
	MsgNoChoice      = "You didn't select a choice."
	MsgVoteRecorded  = "Your vote was recorded."
	MsgVoteChanged   = "Your vote was changed."
	MsgLoginRequired = "Authentication required to vote."
)

// Request types

type VoteRequest struct {
	Choice string `json:"choice"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type CreateQuestionRequest struct {
	QuestionText string     `json:"question_text"`
	PubDate      *time.Time `json:"pub_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
}

type AddChoiceRequest struct {
	ChoiceText string `json:"choice_text"`
}

// Response types

type QuestionSummary struct {
	ID                   string    `json:"id"`
	QuestionText         string    `json:"question_text"`
	PubDate              time.Time `json:"pub_date"`
	PublishedAgo         string    `json:"published_ago"`
	WasPublishedRecently bool      `json:"was_published_recently"`
	CanVote              bool      `json:"can_vote"`
}

type IndexResponse struct {
	Questions []QuestionSummary `json:"latest_question_list"`
	Message   string            `json:"message,omitempty"`
}

type DetailResponse struct {
	Question             Question `json:"question"`
	Choices              []Choice `json:"choices"`
	PublishedAgo         string   `json:"published_ago"`
	WasPublishedRecently bool     `json:"was_published_recently"`
	CanVote              bool     `json:"can_vote"`
	Message              string   `json:"message,omitempty"`
}

type ResultsResponse struct {
	Question   Question       `json:"question"`
	Choices    []ChoiceResult `json:"choices"`
	TotalVotes int            `json:"total_votes"`
	Message    string         `json:"message,omitempty"`
}

type MyVoteResponse struct {
	QuestionID string     `json:"question_id"`
	ChoiceID   *string    `json:"choice_id"`
	VotedAt    *time.Time `json:"voted_at,omitempty"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Username  string    `json:"username"`
}

type CreateQuestionResponse struct {
	QuestionID string `json:"question_id"`
}

type AddChoiceResponse struct {
	ChoiceID string `json:"choice_id"`
}

// Domain types

type Question struct {
	ID           string     `json:"id"`
	QuestionText string     `json:"question_text"`
	PubDate      time.Time  `json:"pub_date"`
	EndDate      *time.Time `json:"end_date,omitempty"`
}

type Choice struct {
	ID           string `json:"id"`
	QuestionID   string `json:"question_id"`
	ChoiceText   string `json:"choice_text"`
	DisplayOrder int    `json:"-"`
}

type ChoiceResult struct {
	Choice
	Votes int `json:"votes"`
}

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	FirstName    string    `json:"first_name"`
	IsStaff      bool      `json:"is_staff"`
	CreatedAt    time.Time `json:"created_at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
