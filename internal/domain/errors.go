package domain

import "errors"

// Sentinel errors for pipeline-level error discrimination.
// The dispatch service wraps these so the HTTP handler can map each failure
// to a status code and a fixed public message without leaking provider or
// driver details.
var (
	ErrValidation       = errors.New("invalid event")
	ErrCredential       = errors.New("credential unavailable")
	ErrLinkConstruction = errors.New("link construction failed")
	ErrDelivery         = errors.New("delivery failed")
	ErrPersistence      = errors.New("persistence failed")
)
