package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/verify-dispatch/internal/domain"
)

// Dispatcher is the minimal interface this handler requires from the
// dispatch pipeline.
type Dispatcher interface {
	Dispatch(ctx context.Context, event json.RawMessage) (string, error)
}

// DispatchHandler exposes the verification-dispatch pipeline over HTTP. The
// request body is the trigger event: either the payload object itself or an
// SNS envelope wrapping it.
type DispatchHandler struct {
	svc Dispatcher
}

func NewDispatchHandler(svc Dispatcher) *DispatchHandler {
	return &DispatchHandler{svc: svc}
}

func (h *DispatchHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid event format")
		return
	}

	msg, err := h.svc.Dispatch(r.Context(), body)
	if err != nil {
		writeMessage(w, statusFor(err), publicMessage(err))
		return
	}
	writeMessage(w, http.StatusOK, msg)
}

func statusFor(err error) int {
	if errors.Is(err, domain.ErrValidation) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// publicMessage maps an error kind to its fixed caller-facing text. No stack
// traces, tokens or provider identifiers cross this boundary.
func publicMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return "Invalid event format"
	case errors.Is(err, domain.ErrCredential):
		return "Failed to resolve email credentials"
	case errors.Is(err, domain.ErrLinkConstruction):
		return "Failed to construct verification link"
	case errors.Is(err, domain.ErrDelivery):
		return "Failed to send verification email"
	case errors.Is(err, domain.ErrPersistence):
		return "Failed to log email in database"
	default:
		return "Internal error"
	}
}
