// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/ku-polls/models"
)

func TestWithLogging(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		status   int
		location string
	}{
		{
			name:    "implicit 200",
			handler: func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("ok")) },
			status:  http.StatusOK,
		},
		{
			name: "vote redirect with notice",
			handler: func(w http.ResponseWriter, r *http.Request) {
				Redirect(w, r, "/polls/q1/results/", models.NoticePollClosed)
			},
			status:   http.StatusFound,
			location: "/polls/q1/results/?notice=This+poll+is+already+closed.",
		},
		{
			name: "missing choice",
			handler: func(w http.ResponseWriter, r *http.Request) {
				ErrorResponse(w, http.StatusBadRequest, models.NoticeNoChoice)
			},
			status: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WithLogging(tt.handler)(w, httptest.NewRequest("POST", "/polls/q1/vote/", nil))

			if w.Code != tt.status {
				t.Errorf("Expected status %d, got %d", tt.status, w.Code)
			}
			if got := w.Header().Get("Location"); got != tt.location {
				t.Errorf("Expected Location %q, got %q", tt.location, got)
			}
		})
	}
}

func TestErrorResponse(t *testing.T) {
	w := httptest.NewRecorder()
	ErrorResponse(w, http.StatusUnauthorized, models.NoticeInvalidLogin)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected Content-Type application/json, got %q", ct)
	}

	var resp models.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if resp.Error != "Unauthorized" || resp.Message != models.NoticeInvalidLogin {
		t.Errorf("Unexpected error body %+v", resp)
	}
}

func TestJSONResponse_OmitsEmptyNotice(t *testing.T) {
	w := httptest.NewRecorder()
	JSONResponse(w, http.StatusOK, models.LoginPromptResponse{Next: "/polls/"})

	if body := strings.TrimSpace(w.Body.String()); body != `{"next":"/polls/"}` {
		t.Errorf("Unexpected body %s", body)
	}
}

func TestParseJSONBody(t *testing.T) {
	t.Run("partial update", func(t *testing.T) {
		req := httptest.NewRequest("PUT", "/admin/questions/q1", strings.NewReader(`{"clear_end_date":true}`))

		var parsed models.UpdateQuestionRequest
		if err := ParseJSONBody(req, &parsed); err != nil {
			t.Fatalf("ParseJSONBody() error = %v", err)
		}
		if !parsed.ClearEndDate {
			t.Error("Expected clear_end_date to be set")
		}
		if parsed.QuestionText != nil || parsed.PubDate != nil || parsed.EndDate != nil {
			t.Errorf("Expected untouched fields to stay nil, got %+v", parsed)
		}
	})

	for name, body := range map[string]string{"malformed": `{"question_text":`, "empty": ""} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/admin/questions", strings.NewReader(body))

			var parsed models.CreateQuestionRequest
			if err := ParseJSONBody(req, &parsed); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestCORS(t *testing.T) {
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("handled"))
	}))

	t.Run("preflight allows session and admin headers", func(t *testing.T) {
		req := httptest.NewRequest("OPTIONS", "/polls/q1/vote/", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK || w.Body.Len() != 0 {
			t.Errorf("Expected empty 200 preflight, got %d %q", w.Code, w.Body.String())
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
			t.Errorf("Expected origin to be echoed, got %q", got)
		}
		allowed := w.Header().Get("Access-Control-Allow-Headers")
		for _, h := range []string{"X-Session-Token", "X-Admin-Key"} {
			if !strings.Contains(allowed, h) {
				t.Errorf("Expected %s in allowed headers, got %q", h, allowed)
			}
		}
		if !strings.Contains(w.Header().Get("Access-Control-Allow-Methods"), "DELETE") {
			t.Error("Expected DELETE to be allowed")
		}
	})

	t.Run("request reaches the handler", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/polls/", nil))

		if w.Body.String() != "handled" {
			t.Error("Expected next handler to be called")
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("Expected wildcard origin, got %q", got)
		}
	})
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{"first forwarded hop", map[string]string{"X-Forwarded-For": "203.0.113.195, 70.41.3.18"}, "127.0.0.1:1", "203.0.113.195"},
		{"real ip", map[string]string{"X-Real-IP": "203.0.113.50"}, "10.0.0.1:1", "203.0.113.50"},
		{"remote addr", nil, "192.168.1.50:54321", "192.168.1.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/accounts/login/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			if got := GetClientIP(req); got != tt.want {
				t.Errorf("GetClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRedirect(t *testing.T) {
	testCases := []struct {
		name     string
		target   string
		notice   string
		expected string
	}{
		{
			name:     "without notice",
			target:   "/polls/",
			expected: "/polls/",
		},
		{
			name:     "with notice",
			target:   "/polls/q1/results/",
			notice:   "This poll is already closed.",
			expected: "/polls/q1/results/?notice=This+poll+is+already+closed.",
		},
		{
			name:     "keeps existing query",
			target:   "/accounts/login/?next=%2Fpolls%2Fq1%2F",
			notice:   "hi",
			expected: "/accounts/login/?next=%2Fpolls%2Fq1%2F&notice=hi",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/polls/q1/vote/", nil)
			w := httptest.NewRecorder()

			Redirect(w, req, tc.target, tc.notice)

			if w.Code != http.StatusFound {
				t.Errorf("Expected status 302, got %d", w.Code)
			}
			if got := w.Header().Get("Location"); got != tc.expected {
				t.Errorf("Expected Location '%s', got '%s'", tc.expected, got)
			}
		})
	}
}

func TestWithUser(t *testing.T) {
	alice := &models.User{ID: "u1", Username: "alice"}

	t.Run("authenticated user is stored in context", func(t *testing.T) {
		var seen *models.User
		handler := WithUser(
			func(r *http.Request) (*models.User, error) { return alice, nil },
			func(w http.ResponseWriter, r *http.Request) { seen = UserFromContext(r.Context()) },
		)

		handler(httptest.NewRecorder(), httptest.NewRequest("GET", "/polls/", nil))

		if seen == nil || seen.ID != "u1" {
			t.Errorf("Expected user u1 in context, got %v", seen)
		}
	})

	t.Run("anonymous request has no user", func(t *testing.T) {
		called := false
		handler := WithUser(
			func(r *http.Request) (*models.User, error) { return nil, nil },
			func(w http.ResponseWriter, r *http.Request) {
				called = true
				if UserFromContext(r.Context()) != nil {
					t.Error("Expected no user in context")
				}
			},
		)

		handler(httptest.NewRecorder(), httptest.NewRequest("GET", "/polls/", nil))

		if !called {
			t.Error("Expected handler to be called")
		}
	})

	t.Run("resolver failure is a server error", func(t *testing.T) {
		handler := WithUser(
			func(r *http.Request) (*models.User, error) { return nil, errors.New("db down") },
			func(w http.ResponseWriter, r *http.Request) { t.Error("handler should not be called") },
		)

		w := httptest.NewRecorder()
		handler(w, httptest.NewRequest("GET", "/polls/", nil))

		if w.Code != http.StatusInternalServerError {
			t.Errorf("Expected status 500, got %d", w.Code)
		}
	})
}
