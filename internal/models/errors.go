package models

import "errors"

// Application-wide standard errors
var (
	// Registry errors
	ErrMissingTokenFields = errors.New("missing userId or pushToken")
	ErrTokenNotFound      = errors.New("push token not found in registry")

	// Request errors
	ErrInvalidJSON = errors.New("invalid JSON body")

	// General server errors
	ErrInternalServer = errors.New("internal server error")
)
