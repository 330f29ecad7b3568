package usecase

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionBusy       = errors.New("session is being analyzed")
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrInternal          = errors.New("internal error")
)
