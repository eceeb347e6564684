// Package common holds the sentinel errors shared by every service.
// Handlers match on these with errors.Is to pick an HTTP status, so the
// taxonomy stays in one place: validation, authorization, rate limit,
// not-found and external-dependency failures.
package common

import "errors"

// Validation errors — the operation is aborted, nothing is mutated.
var (
	// ErrNameRequired — a display name must be non-empty
	ErrNameRequired = errors.New("name is required")
	// ErrTitleRequired — a question needs a non-empty title
	ErrTitleRequired = errors.New("title is required")
	// ErrContentRequired — a question or answer needs non-empty content
	ErrContentRequired = errors.New("content is required")
	// ErrInvalidEmail — email must at least contain an "@"
	ErrInvalidEmail = errors.New("email address is not valid")
	// ErrInvalidCategory — category must be one of the fixed tags
	ErrInvalidCategory = errors.New("unknown category")
	// ErrInvalidAmount — injected vote amounts must be positive
	ErrInvalidAmount = errors.New("amount must be positive")
	// ErrInvalidAttachment — attachment needs a known type tag and a URL
	ErrInvalidAttachment = errors.New("invalid attachment")
)

// Authorization errors
var (
	// ErrNotLoggedIn — the operation needs an authenticated user
	ErrNotLoggedIn = errors.New("login required")
	// ErrNotAdmin — the operation is reserved for admins
	ErrNotAdmin = errors.New("admin privileges required")
)

// Lookup errors
var (
	// ErrUserNotFound — no account matches the given identity
	ErrUserNotFound = errors.New("user not found")
	// ErrQuestionNotFound — the question id does not resolve
	ErrQuestionNotFound = errors.New("question not found")
	// ErrAnswerNotFound — the answer id does not resolve
	ErrAnswerNotFound = errors.New("answer not found")
)

// Rate limiting
var (
	// ErrVoteBudgetExhausted — the shared daily vote budget is spent
	ErrVoteBudgetExhausted = errors.New("daily vote limit reached")
)

// External collaborators
var (
	// ErrPublishFailed — the render service rejected or never received the pair
	ErrPublishFailed = errors.New("publishing to the render service failed")
	// ErrGenerationFailed — the AI collaborator returned nothing usable
	ErrGenerationFailed = errors.New("content generation failed")
	// ErrSpeechFailed — the text-to-speech collaborator failed
	ErrSpeechFailed = errors.New("speech synthesis failed")
)
