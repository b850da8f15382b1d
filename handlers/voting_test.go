// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/danielhkuo/ku-polls/models"
	"github.com/danielhkuo/ku-polls/testutil"
)

func postVote(h http.HandlerFunc, questionID, choiceID, token string) *httptest.ResponseRecorder {
	form := url.Values{}
	if choiceID != "" {
		form.Set("choice", choiceID)
	}
	headers := map[string]string{}
	if token != "" {
		headers[SessionHeader] = token
	}

	req := testutil.MakeFormRequest("POST", "/polls/"+questionID+"/vote/", form, headers)
	req.SetPathValue("id", questionID)
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func TestVote_Success(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := withSession(db, cfg, NewVotingHandler(db, cfg).Vote)

	q := testutil.CreateTestQuestion(t, db, "Vote question", -day, nil)
	a := testutil.AddTestChoice(t, db, q.ID, "A")
	user := testutil.CreateTestUser(t, db, "voter", "pw")
	token := testutil.CreateTestSession(t, db, user.ID)

	w := postVote(handler, q.ID, a, token)
	testutil.AssertRedirect(t, w, "/polls/"+q.ID+"/results/")

	if n := countVotes(t, db, a); n != 1 {
		t.Errorf("Expected 1 vote, got %d", n)
	}
}

func TestVote_ChangesExistingVote(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := withSession(db, cfg, NewVotingHandler(db, cfg).Vote)

	q := testutil.CreateTestQuestion(t, db, "Revote question", -day, nil)
	a := testutil.AddTestChoice(t, db, q.ID, "A")
	b := testutil.AddTestChoice(t, db, q.ID, "B")
	user := testutil.CreateTestUser(t, db, "voter", "pw")
	token := testutil.CreateTestSession(t, db, user.ID)

	testutil.AssertStatus(t, postVote(handler, q.ID, a, token), http.StatusFound)
	testutil.AssertStatus(t, postVote(handler, q.ID, b, token), http.StatusFound)

	if n := countVotes(t, db, a); n != 0 {
		t.Errorf("Expected vote moved off A, got %d", n)
	}
	if n := countVotes(t, db, b); n != 1 {
		t.Errorf("Expected 1 vote on B, got %d", n)
	}

	var rows int
	if err := db.QueryRow(`SELECT COUNT(*) FROM vote WHERE user_id = $1`, user.ID).Scan(&rows); err != nil {
		t.Fatal(err)
	}
	if rows != 1 {
		t.Errorf("Expected a single vote row for the user, got %d", rows)
	}
}

func TestVote_InvalidSelection(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := withSession(db, cfg, NewVotingHandler(db, cfg).Vote)

	q := testutil.CreateTestQuestion(t, db, "Ballot", -day, nil)
	a := testutil.AddTestChoice(t, db, q.ID, "A")
	other := testutil.CreateTestQuestion(t, db, "Other ballot", -day, nil)
	foreign := testutil.AddTestChoice(t, db, other.ID, "Foreign")
	user := testutil.CreateTestUser(t, db, "voter", "pw")
	token := testutil.CreateTestSession(t, db, user.ID)

	tests := []struct {
		name     string
		choiceID string
		token    string
	}{
		{"no choice", "", token},
		{"unknown choice", "does-not-exist", token},
		{"choice of another question", foreign, token},
		{"no choice while anonymous", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postVote(handler, q.ID, tt.choiceID, tt.token)
			testutil.AssertStatus(t, w, http.StatusBadRequest)

			var resp models.DetailResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.Notice != models.NoticeNoChoice {
				t.Errorf("Expected notice %q, got %q", models.NoticeNoChoice, resp.Notice)
			}
			if resp.Question.ID != q.ID || len(resp.Choices) != 1 {
				t.Errorf("Expected ballot of %s to be re-rendered, got %+v", q.ID, resp)
			}
		})
	}

	if n := countVotes(t, db, a) + countVotes(t, db, foreign); n != 0 {
		t.Errorf("Expected no votes recorded, got %d", n)
	}
}

func TestVote_Anonymous(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := withSession(db, cfg, NewVotingHandler(db, cfg).Vote)

	q := testutil.CreateTestQuestion(t, db, "Login first", -day, nil)
	a := testutil.AddTestChoice(t, db, q.ID, "A")

	w := postVote(handler, q.ID, a, "")
	testutil.AssertRedirect(t, w, "/accounts/login/?next=%2Fpolls%2F"+q.ID+"%2F")

	// An unknown token is anonymous too
	w = postVote(handler, q.ID, a, "not-a-session")
	testutil.AssertRedirect(t, w, "/accounts/login/?next=%2Fpolls%2F"+q.ID+"%2F")

	if n := countVotes(t, db, a); n != 0 {
		t.Errorf("Expected no votes, got %d", n)
	}
}

func TestVote_ClosedPoll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := withSession(db, cfg, NewVotingHandler(db, cfg).Vote)

	q := testutil.CreateTestQuestion(t, db, "Closed", -3*day, testutil.Offset(-2*day))
	a := testutil.AddTestChoice(t, db, q.ID, "A")
	user := testutil.CreateTestUser(t, db, "voter", "pw")
	token := testutil.CreateTestSession(t, db, user.ID)

	w := postVote(handler, q.ID, a, token)
	testutil.AssertRedirect(t, w, "/polls/"+q.ID+"/results/?notice=This+poll+is+already+closed.")

	// Closed takes precedence over a missing login
	w = postVote(handler, q.ID, a, "")
	testutil.AssertRedirect(t, w, "/polls/"+q.ID+"/results/?notice=This+poll+is+already+closed.")

	// An empty ballot on a closed poll also lands on the results
	w = postVote(handler, q.ID, "", token)
	testutil.AssertRedirect(t, w, "/polls/"+q.ID+"/results/?notice=This+poll+is+already+closed.")

	if n := countVotes(t, db, a); n != 0 {
		t.Errorf("Expected no votes on closed poll, got %d", n)
	}
}

func TestVote_EndsToday(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := withSession(db, cfg, NewVotingHandler(db, cfg).Vote)

	// End date earlier today still accepts votes until the day is over
	now := time.Now().UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	q := testutil.CreateTestQuestion(t, db, "Last day", -3*day, testutil.Offset(midnight.Sub(now)))
	a := testutil.AddTestChoice(t, db, q.ID, "A")
	user := testutil.CreateTestUser(t, db, "voter", "pw")
	token := testutil.CreateTestSession(t, db, user.ID)

	w := postVote(handler, q.ID, a, token)
	testutil.AssertRedirect(t, w, "/polls/"+q.ID+"/results/")
}

func TestVote_UnpublishedOrMissing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := withSession(db, cfg, NewVotingHandler(db, cfg).Vote)

	future := testutil.CreateTestQuestion(t, db, "Future", 30*day, nil)
	a := testutil.AddTestChoice(t, db, future.ID, "A")
	user := testutil.CreateTestUser(t, db, "voter", "pw")
	token := testutil.CreateTestSession(t, db, user.ID)

	testutil.AssertRedirect(t, postVote(handler, future.ID, a, token), "/polls/")
	testutil.AssertRedirect(t, postVote(handler, future.ID, "", token), "/polls/")
	testutil.AssertRedirect(t, postVote(handler, "missing", a, token), "/polls/")

	if n := countVotes(t, db, a); n != 0 {
		t.Errorf("Expected no votes on unpublished poll, got %d", n)
	}
}
