// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON on operator endpoints:

  - CreateQuestionRequest: question_text, pub_date, end_date
  - UpdateQuestionRequest: partial edit of a question
  - AddChoiceRequest: choice_text
  - CreateUserRequest: username, password

Vote submissions and logins are form-encoded and have no request type.

# Response Types

  - IndexResponse: published questions, newest first
  - DetailResponse: question, choices, and the caller's current selection
  - ResultsResponse: per-choice live vote counts
  - ErrorResponse: error, message

# Domain Types

  - Question: text, pub_date, optional end_date
  - Choice: one option of a Question
  - Vote: one User's selection, at most one per (User, Question)
  - User, Session: identities resolved by the accounts boundary

Question state (unpublished, open, closed) is never stored. It is
recomputed from the clock by package polls.
*/
package models
