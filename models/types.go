package models

import "time"

// Question states, derived from the clock on every read
const (
	StateUnpublished = "unpublished"
	StateOpen        = "open"
	StateClosed      = "closed"
)

// Text limits for question and choice text
const (
	MaxQuestionText = 200
	MaxChoiceText   = 200
)

// Notices carried on redirects and inline error bodies
const (
	NoticePollClosed   = "This poll is already closed."
	NoticeNoChoice     = "You didn't select a choice. Please consider doing so."
	NoticeInvalidLogin = "Invalid username or password."
	NoticeLoggedOut    = "You have been logged out."
)

// Request types

type CreateQuestionRequest struct {
	QuestionText string     `json:"question_text"`
	PubDate      *time.Time `json:"pub_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
}

type UpdateQuestionRequest struct {
	QuestionText *string    `json:"question_text,omitempty"`
	PubDate      *time.Time `json:"pub_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	ClearEndDate bool       `json:"clear_end_date,omitempty"`
}

type AddChoiceRequest struct {
	ChoiceText string `json:"choice_text"`
}

type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Response types

type CreateQuestionResponse struct {
	QuestionID string `json:"question_id"`
}

type AddChoiceResponse struct {
	ChoiceID string `json:"choice_id"`
}

type CreateUserResponse struct {
	UserID string `json:"user_id"`
}

// QuestionSummary is one entry of the listing
type QuestionSummary struct {
	Question          Question `json:"question"`
	State             string   `json:"state"`
	PublishedRecently bool     `json:"published_recently"`
	PublishedAgo      string   `json:"published_ago"`
}

type IndexResponse struct {
	Questions []QuestionSummary `json:"questions"`
}

type DetailResponse struct {
	Question          Question `json:"question"`
	Choices           []Choice `json:"choices"`
	State             string   `json:"state"`
	PublishedRecently bool     `json:"published_recently"`
	PublishedAgo      string   `json:"published_ago"`
	SelectedChoiceID  *string  `json:"selected_choice_id,omitempty"`
	Notice            string   `json:"notice,omitempty"`
}

type ChoiceResult struct {
	Choice Choice `json:"choice"`
	Votes  int    `json:"votes"`
}

type ResultsResponse struct {
	Question     Question       `json:"question"`
	State        string         `json:"state"`
	PublishedAgo string         `json:"published_ago"`
	Choices      []ChoiceResult `json:"choices"`
	TotalVotes   int            `json:"total_votes"`
	Notice       string         `json:"notice,omitempty"`
}

// LoginPromptResponse tells a client where to post credentials and where
// it will land afterwards
type LoginPromptResponse struct {
	Next     string `json:"next"`
	Notice   string `json:"notice,omitempty"`
	Username string `json:"username,omitempty"`
}

// Domain types

type Question struct {
	ID           string     `json:"id"`
	QuestionText string     `json:"question_text"`
	PubDate      time.Time  `json:"pub_date"`
	EndDate      *time.Time `json:"end_date,omitempty"`
}

type Choice struct {
	ID         string    `json:"id"`
	QuestionID string    `json:"question_id"`
	ChoiceText string    `json:"choice_text"`
	CreatedAt  time.Time `json:"-"`
}

type Vote struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ChoiceID  string    `json:"choice_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	CreatedAt    time.Time `json:"created_at"`
}

type Session struct {
	Token     string    `json:"-"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
