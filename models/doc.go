// Copyright (c) 2025 niichapats.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Domain Types

  - Question: question_text, pub_date, optional end_date
  - Choice: choice_text and display order within a question
  - ChoiceResult: a Choice with its vote count
  - User: account with bcrypt hash and staff flag

# Publication Rules

Questions carry the rules that gate listing and voting:

	q.IsPublished(now)          // now >= pub_date
	q.WasPublishedRecently(now) // now-24h <= pub_date <= now
	q.CanVote(now)              // published and not past end_date

# Request Types

  - VoteRequest: choice
  - LoginRequest: username, password
  - CreateQuestionRequest: question_text, pub_date, end_date
  - AddChoiceRequest: choice_text

# Response Types

  - IndexResponse: latest_question_list, message
  - DetailResponse: question, choices, can_vote, message
  - ResultsResponse: question, choices with votes, total_votes
  - MyVoteResponse: the caller's current choice
  - LoginResponse: token, expires_at
  - ErrorResponse: error, message

Timestamps are stored with DBTime (UTC, whole seconds).
*/
package models
