// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/ku-polls/auth"
	"github.com/danielhkuo/ku-polls/cliparse"
	"github.com/danielhkuo/ku-polls/db"
	"github.com/danielhkuo/ku-polls/models"
)

// TestDBURL is an in-memory SQLite database; each SetupTestDB call gets a
// fresh one because the pool holds a single connection.
const TestDBURL = "file::memory:"

// TestAdminKey is the operator key in GetTestConfig
const TestAdminKey = "test-admin-key"

// SetupTestDB creates a fresh test database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, TestDBURL)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  TestDBURL,
		DatabaseType: db.TypeSQLite,
		AdminKey:     TestAdminKey,
		TimeZone:     "UTC",
		Location:     time.UTC,
		SessionTTL:   cliparse.DefaultSessionTTL,
		LogLevel:     "info",
	}
}

// CreateTestQuestion inserts a question published pubOffset from now. A nil
// endOffset leaves the question without an end date.
func CreateTestQuestion(t *testing.T, conn *sql.DB, text string, pubOffset time.Duration, endOffset *time.Duration) models.Question {
	t.Helper()

	now := time.Now().UTC()
	q := models.Question{QuestionText: text, PubDate: now.Add(pubOffset)}
	if endOffset != nil {
		end := now.Add(*endOffset)
		q.EndDate = &end
	}

	q, err := db.NewStore(conn).CreateQuestion(t.Context(), q)
	if err != nil {
		t.Fatalf("Failed to create test question: %v", err)
	}
	return q
}

// Offset returns a pointer to d, for CreateTestQuestion end dates
func Offset(d time.Duration) *time.Duration {
	return &d
}

// AddTestChoice adds a choice to a question and returns the choice ID
func AddTestChoice(t *testing.T, conn *sql.DB, questionID, text string) string {
	t.Helper()

	c, err := db.NewStore(conn).CreateChoice(t.Context(), models.Choice{
		QuestionID: questionID,
		ChoiceText: text,
	})
	if err != nil {
		t.Fatalf("Failed to create test choice: %v", err)
	}
	return c.ID
}

// CreateTestUser creates a user with the given password
func CreateTestUser(t *testing.T, conn *sql.DB, username, password string) models.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	u, err := db.NewStore(conn).CreateUser(t.Context(), username, hash, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return u
}

// CreateTestSession logs userID in and returns the session token
func CreateTestSession(t *testing.T, conn *sql.DB, userID string) string {
	t.Helper()

	token, err := auth.GenerateSessionToken()
	if err != nil {
		t.Fatalf("Failed to generate session token: %v", err)
	}
	if _, err := db.NewStore(conn).CreateSession(t.Context(), token, userID, time.Now(), time.Hour); err != nil {
		t.Fatalf("Failed to create test session: %v", err)
	}
	return token
}

// SubmitTestVote records a vote for userID directly in the database
func SubmitTestVote(t *testing.T, conn *sql.DB, userID, choiceID string) string {
	t.Helper()

	now := time.Now()
	v, err := db.NewStore(conn).CreateVote(t.Context(), models.Vote{
		UserID:    userID,
		ChoiceID:  choiceID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}
	return v.ID
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

// MakeFormRequest creates an HTTP test request with a urlencoded form body
func MakeFormRequest(method, path string, form url.Values, headers map[string]string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

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

// AssertRedirect checks for a 302 to the expected location
func AssertRedirect(t *testing.T, w *httptest.ResponseRecorder, location string) {
	t.Helper()
	AssertStatus(t, w, http.StatusFound)
	if got := w.Header().Get("Location"); got != location {
		t.Errorf("Expected redirect to %q, got %q", location, got)
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
