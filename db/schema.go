// Copyright (c) 2025 niichapats.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

// Migrations is the schema history of the polls application. IDs are
// permanent: once a migration has shipped it must not be edited, only
// followed by a new one.
var Migrations = []Migration{
	{
		ID: "0001_initial",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS question (
    id TEXT PRIMARY KEY,
    question_text VARCHAR(200) NOT NULL,
    pub_date TIMESTAMP NOT NULL
)`,
			`CREATE INDEX IF NOT EXISTS idx_question_pub_date ON question(pub_date)`,
			`CREATE TABLE IF NOT EXISTS choice (
    id TEXT PRIMARY KEY,
    question_id TEXT NOT NULL REFERENCES question(id) ON DELETE CASCADE,
    choice_text VARCHAR(200) NOT NULL,
    display_order INTEGER NOT NULL DEFAULT 0
)`,
			`CREATE INDEX IF NOT EXISTS idx_choice_question_id ON choice(question_id)`,
		},
	},
	{
		ID:        "0002_question_end_date",
		DependsOn: []string{"0001_initial"},
		Statements: []string{
			`ALTER TABLE question ADD COLUMN end_date TIMESTAMP`,
		},
	},
	{
		ID: "0003_users",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    username VARCHAR(150) NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    first_name VARCHAR(150) NOT NULL DEFAULT '',
    is_staff BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL
)`,
		},
	},
	{
		ID:        "0004_vote",
		DependsOn: []string{"0002_question_end_date", "0003_users"},
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS vote (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    question_id TEXT NOT NULL REFERENCES question(id) ON DELETE CASCADE,
    choice_id TEXT NOT NULL REFERENCES choice(id) ON DELETE CASCADE,
    voted_at TIMESTAMP NOT NULL,
    UNIQUE (user_id, question_id)
)`,
			`CREATE INDEX IF NOT EXISTS idx_vote_choice_id ON vote(choice_id)`,
		},
	},
}
