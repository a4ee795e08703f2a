package models

import "errors"

// Common errors used across models.
var (
	// User errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user is inactive")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Source/Topic errors
	ErrSourceNotFound  = errors.New("source not found")
	ErrTopicNotFound   = errors.New("topic not found")
	ErrInvalidPlatform = errors.New("invalid platform")

	// StoredVideo errors
	ErrStoredVideoNotFound = errors.New("stored video not found")

	// General errors
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrInternalError = errors.New("internal server error")
	ErrNotFound      = errors.New("resource not found")
	ErrConflict      = errors.New("resource conflict")
)
