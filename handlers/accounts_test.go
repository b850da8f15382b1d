// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/danielhkuo/ku-polls/db"
	"github.com/danielhkuo/ku-polls/models"
	"github.com/danielhkuo/ku-polls/testutil"
)

func postLogin(h *AccountHandler, username, password, next string) *httptest.ResponseRecorder {
	form := url.Values{"username": {username}, "password": {password}}
	if next != "" {
		form.Set("next", next)
	}
	w := httptest.NewRecorder()
	h.Login(w, testutil.MakeFormRequest("POST", "/accounts/login/", form, nil))
	return w
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookie {
			return c
		}
	}
	return nil
}

func TestLogin_Success(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewAccountHandler(conn, cfg)

	user := testutil.CreateTestUser(t, conn, "harry", "hackme")

	w := postLogin(handler, "harry", "hackme", "")
	testutil.AssertRedirect(t, w, "/polls/")

	cookie := sessionCookie(w)
	if cookie == nil || cookie.Value == "" {
		t.Fatal("Expected sessionid cookie to be set")
	}
	if !cookie.HttpOnly {
		t.Error("Session cookie should be HttpOnly")
	}

	// The cookie resolves to the user
	req := httptest.NewRequest("GET", "/polls/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: cookie.Value})
	got, err := handler.CurrentUser(req)
	if err != nil {
		t.Fatalf("CurrentUser() error = %v", err)
	}
	if got == nil || got.ID != user.ID {
		t.Errorf("CurrentUser() = %v, want user %s", got, user.ID)
	}
}

func TestLogin_Next(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	handler := NewAccountHandler(conn, testutil.GetTestConfig())
	testutil.CreateTestUser(t, conn, "harry", "hackme")

	tests := []struct {
		name string
		next string
		want string
	}{
		{"same-site path", "/polls/abc/", "/polls/abc/"},
		{"absolute url", "https://evil.example/", "/polls/"},
		{"scheme-relative url", "//evil.example/", "/polls/"},
		{"relative path", "polls/abc/", "/polls/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postLogin(handler, "harry", "hackme", tt.next)
			testutil.AssertRedirect(t, w, tt.want)
		})
	}
}

func TestLogin_Failure(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	handler := NewAccountHandler(conn, testutil.GetTestConfig())
	testutil.CreateTestUser(t, conn, "harry", "hackme")

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "harry", "letmein"},
		{"unknown user", "ron", "hackme"},
		{"empty password", "harry", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postLogin(handler, tt.username, tt.password, "")
			testutil.AssertStatus(t, w, http.StatusUnauthorized)
			if sessionCookie(w) != nil {
				t.Error("Failed login must not set a session cookie")
			}
		})
	}
}

func TestLogout(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewAccountHandler(conn, cfg)

	user := testutil.CreateTestUser(t, conn, "harry", "hackme")
	token := testutil.CreateTestSession(t, conn, user.ID)

	req := testutil.MakeRequest("POST", "/accounts/logout/", nil, nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	w := httptest.NewRecorder()
	withSession(conn, cfg, handler.Logout)(w, req)

	testutil.AssertRedirect(t, w, "/accounts/login/?notice=You+have+been+logged+out.")

	cookie := sessionCookie(w)
	if cookie == nil || cookie.MaxAge >= 0 {
		t.Error("Expected session cookie to be cleared")
	}

	// The session no longer resolves
	check := httptest.NewRequest("GET", "/polls/", nil)
	check.Header.Set(SessionHeader, token)
	got, err := handler.CurrentUser(check)
	if err != nil {
		t.Fatalf("CurrentUser() error = %v", err)
	}
	if got != nil {
		t.Errorf("Expected anonymous after logout, got %s", got.Username)
	}
}

func TestLogout_Anonymous(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	handler := NewAccountHandler(conn, testutil.GetTestConfig())

	w := httptest.NewRecorder()
	handler.Logout(w, httptest.NewRequest("POST", "/accounts/logout/", nil))

	testutil.AssertStatus(t, w, http.StatusFound)
}

func TestCurrentUser_ExpiredSession(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	handler := NewAccountHandler(conn, testutil.GetTestConfig())

	user := testutil.CreateTestUser(t, conn, "harry", "hackme")
	token := "expired-token"
	_, err := db.NewStore(conn).CreateSession(t.Context(), token, user.ID, time.Now().Add(-2*time.Hour), time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest("GET", "/polls/", nil)
	req.Header.Set(SessionHeader, token)
	got, err := handler.CurrentUser(req)
	if err != nil {
		t.Fatalf("CurrentUser() error = %v", err)
	}
	if got != nil {
		t.Errorf("Expired session should be anonymous, got %s", got.Username)
	}
}

func TestLoginForm(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewAccountHandler(conn, cfg)

	user := testutil.CreateTestUser(t, conn, "harry", "hackme")
	token := testutil.CreateTestSession(t, conn, user.ID)

	tests := []struct {
		name    string
		query   url.Values
		headers map[string]string
		want    models.LoginPromptResponse
	}{
		{
			name:  "defaults to the listing",
			query: url.Values{},
			want:  models.LoginPromptResponse{Next: "/polls/"},
		},
		{
			name:  "echoes next",
			query: url.Values{"next": {"/polls/q1/"}},
			want:  models.LoginPromptResponse{Next: "/polls/q1/"},
		},
		{
			name:  "drops offsite next",
			query: url.Values{"next": {"//evil.example"}},
			want:  models.LoginPromptResponse{Next: "/polls/"},
		},
		{
			name:  "echoes notice",
			query: url.Values{"notice": {models.NoticeLoggedOut}},
			want:  models.LoginPromptResponse{Next: "/polls/", Notice: models.NoticeLoggedOut},
		},
		{
			name:    "names the signed-in user",
			query:   url.Values{"next": {"/polls/q1/"}},
			headers: map[string]string{SessionHeader: token},
			want:    models.LoginPromptResponse{Next: "/polls/q1/", Username: "harry"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("GET", "/accounts/login/?"+tt.query.Encode(), nil, tt.headers)
			w := httptest.NewRecorder()
			withSession(conn, cfg, handler.LoginForm)(w, req)

			testutil.AssertStatus(t, w, http.StatusOK)

			var resp models.LoginPromptResponse
			testutil.AssertJSON(t, w, &resp)
			if resp != tt.want {
				t.Errorf("Expected %+v, got %+v", tt.want, resp)
			}
		})
	}
}

func TestSafeNext(t *testing.T) {
	tests := []struct {
		next string
		want string
	}{
		{"", "/polls/"},
		{"/polls/q1/", "/polls/q1/"},
		{"//evil.example", "/polls/"},
		{"/\\evil.example", "/polls/"},
		{"https://evil.example", "/polls/"},
	}

	for _, tt := range tests {
		if got := safeNext(tt.next); got != tt.want {
			t.Errorf("safeNext(%q) = %q, want %q", tt.next, got, tt.want)
		}
	}
}
