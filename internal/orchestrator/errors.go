package orchestrator

import "errors"

var (
	// ErrSessionNotFound viene restituito al chiamante, mai mascherato
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionClosed indica una sessione completed o error
	ErrSessionClosed = errors.New("session is no longer active")
	// ErrInvalidInput indica una richiesta malformata del chiamante
	ErrInvalidInput = errors.New("invalid input")
)
