package common

import "errors"

// Business logic errors
var (
	// Conversation errors
	ErrInvalidParticipants  = errors.New("invalid participants")
	ErrUnknownParticipant   = errors.New("unknown participant")
	ErrConversationNotFound = errors.New("conversation not found")

	// Message errors
	ErrInvalidMessage  = errors.New("invalid message")
	ErrMessageNotFound = errors.New("message not found")
	ErrForbidden       = errors.New("forbidden")

	// Auth errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrUserNotFound = errors.New("user not found")

	// Validation errors
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidCursor = errors.New("invalid cursor")
)
