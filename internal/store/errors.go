package store

import "errors"

var (
	ErrNotFound           = errors.New("record not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrGenerationInFlight = errors.New("generation already in progress for this client and type")
	ErrSessionExpired     = errors.New("session expired")
)
