// Copyright (c) 2025 niichapats.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/niichapats/ku-polls/auth"
	"github.com/niichapats/ku-polls/cliparse"
	"github.com/niichapats/ku-polls/db"
	"github.com/niichapats/ku-polls/models"
)

// TestSecret signs session tokens in tests
const TestSecret = "test-secret-key"

// SetupTestDB opens a fresh SQLite database in a temp dir with every
// migration applied. The database is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.sqlite3")
	conn, err := db.Open(cliparse.DatabaseSQLite, "file:"+path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if _, err := db.Migrate(context.Background(), conn); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Host:            "127.0.0.1",
		Port:            8000,
		DatabaseType:    cliparse.DatabaseSQLite,
		SecretKey:       TestSecret,
		Debug:           true,
		TimeZone:        "UTC",
		AllowedHosts:    cliparse.SplitHosts(cliparse.DefaultAllowedHosts),
		ServeMode:       cliparse.ServeModeDev,
		ShutdownTimeout: time.Second,
	}
}

// CreateTestQuestion inserts a question published days from now (negative
// for the past). endDays, when given, sets end_date relative to now.
func CreateTestQuestion(t *testing.T, conn *sql.DB, text string, days int, endDays ...int) string {
	t.Helper()

	now := time.Now()
	pubDate := models.DBTime(now.AddDate(0, 0, days))

	var endDate any
	if len(endDays) > 0 {
		endDate = models.DBTime(now.AddDate(0, 0, endDays[0]))
	}

	id := auth.GenerateID()
	_, err := conn.Exec(`
		INSERT INTO question (id, question_text, pub_date, end_date)
		VALUES ($1, $2, $3, $4)
	`, id, text, pubDate, endDate)
	if err != nil {
		t.Fatalf("Failed to create test question: %v", err)
	}
	return id
}

// AddTestChoice adds a choice to a question and returns the choice ID
func AddTestChoice(t *testing.T, conn *sql.DB, questionID, text string) string {
	t.Helper()

	var order int
	if err := conn.QueryRow(`
		SELECT COALESCE(MAX(display_order), 0) + 1 FROM choice WHERE question_id = $1
	`, questionID).Scan(&order); err != nil {
		t.Fatalf("Failed to compute display order: %v", err)
	}

	id := auth.GenerateID()
	_, err := conn.Exec(`
		INSERT INTO choice (id, question_id, choice_text, display_order)
		VALUES ($1, $2, $3, $4)
	`, id, questionID, text, order)
	if err != nil {
		t.Fatalf("Failed to create test choice: %v", err)
	}
	return id
}

// CreateTestUser inserts a user with the given password and returns its ID
func CreateTestUser(t *testing.T, conn *sql.DB, username, password string, staff bool) string {
	t.Helper()

	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	id := auth.GenerateID()
	_, err = conn.Exec(`
		INSERT INTO users (id, username, password_hash, first_name, is_staff, created_at)
		VALUES ($1, $2, $3, '', $4, $5)
	`, id, username, hash, staff, models.DBTime(time.Now()))
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return id
}

// TokenFor issues a session token for a user signed with TestSecret
func TokenFor(t *testing.T, userID, username string, staff bool) string {
	t.Helper()

	token, _, err := auth.IssueToken(userID, username, staff, TestSecret, time.Now())
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}
	return token
}

// BearerHeader builds the Authorization header for a token
func BearerHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
