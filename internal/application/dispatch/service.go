package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/verify-dispatch/internal/domain"
	"github.com/verify-dispatch/internal/pkg/id"
	"github.com/verify-dispatch/internal/pkg/link"
)

// SuccessMessage is the fixed confirmation returned on a fully successful run.
const SuccessMessage = "Verification email sent successfully"

// CredentialResolver obtains the email-provider API key. Resolve is called
// once per dispatch; implementations must not cache across invocations
// unless the value is fixed at startup (StaticCredential).
type CredentialResolver interface {
	Resolve(ctx context.Context) (string, error)
}

// StaticCredential resolves to a value read from configuration at cold
// start. An empty value is a deployment fault; main refuses to start with
// one, so Resolve treats it as defensive.
type StaticCredential string

func (c StaticCredential) Resolve(context.Context) (string, error) {
	if c == "" {
		return "", errors.New("empty static credential")
	}
	return string(c), nil
}

// Mailer dispatches a rendered message through the email provider. The API
// key is passed per call so it stays in request scope.
type Mailer interface {
	Send(ctx context.Context, apiKey string, msg *domain.EmailMessage) error
}

// Recorder persists a verification record after a successful send.
type Recorder interface {
	Record(ctx context.Context, rec *domain.VerificationRecord) error
}

// Archiver stores a copy of the sent message body for audit.
type Archiver interface {
	Archive(ctx context.Context, key, body string) error
}

// Service runs the verification-request pipeline for one raw event:
// parse, issue token, resolve credential, build link, send, record.
type Service interface {
	Dispatch(ctx context.Context, event json.RawMessage) (string, error)
}

// ServiceDeps wires the pipeline. Recorder and Archiver are optional; nil
// disables the corresponding step.
type ServiceDeps struct {
	Credentials       CredentialResolver
	Tokens            TokenSource
	Links             *link.Builder
	Mailer            Mailer
	Recorder          Recorder
	Archiver          Archiver
	From              string
	UnsubscribeMailto string
}

type service struct {
	credentials       CredentialResolver
	tokens            TokenSource
	links             *link.Builder
	mailer            Mailer
	recorder          Recorder
	archiver          Archiver
	from              string
	unsubscribeMailto string
}

func NewService(d ServiceDeps) Service {
	return &service{
		credentials:       d.Credentials,
		tokens:            d.Tokens,
		links:             d.Links,
		mailer:            d.Mailer,
		recorder:          d.Recorder,
		archiver:          d.Archiver,
		from:              d.From,
		unsubscribeMailto: d.UnsubscribeMailto,
	}
}

// Dispatch processes one event to completion. Every failure is terminal for
// the invocation: no in-process retry, redelivery is the trigger's problem.
// Redelivered events cause a duplicate send and a duplicate record; the
// pipeline performs no deduplication.
func (s *service) Dispatch(ctx context.Context, event json.RawMessage) (string, error) {
	reqID := id.New()

	req, err := ParseEvent(event)
	if err != nil {
		slog.Error("failed to parse event", "request_id", reqID, "err", err)
		return "", err
	}

	tok, expiresAt, err := s.tokens.Issue(req, time.Now().UTC())
	if err != nil {
		slog.Error("failed to issue verification token", "request_id", reqID, "err", err)
		return "", err
	}

	apiKey, err := s.credentials.Resolve(ctx)
	if err != nil {
		slog.Error("failed to resolve provider credential", "request_id", reqID, "err", err)
		return "", fmt.Errorf("provider credential unavailable: %w", domain.ErrCredential)
	}

	verifyURL, err := s.links.VerificationURL(tok)
	if err != nil {
		slog.Error("failed to construct verification link", "request_id", reqID, "err", err)
		return "", fmt.Errorf("constructing verification link: %w", domain.ErrLinkConstruction)
	}
	slog.Info("constructed verification link", "request_id", reqID, "recipient", req.Email)

	msg := renderMessage(s.from, req.Email, s.unsubscribeMailto, verifyURL, s.links.UnsubscribeURL())
	if err := s.mailer.Send(ctx, apiKey, msg); err != nil {
		slog.Error("provider did not accept message", "request_id", reqID, "recipient", req.Email, "err", err)
		return "", fmt.Errorf("sending verification email: %w", domain.ErrDelivery)
	}
	slog.Info("verification email accepted", "request_id", reqID, "recipient", req.Email)

	// notify-then-record: the email is already out at this point, so a
	// failed insert reports failure for a message the user did receive.
	if s.recorder != nil {
		rec := &domain.VerificationRecord{
			UserID:            req.UserID,
			Email:             req.Email,
			VerificationToken: tok,
			ExpirationTime:    expiresAt,
			IsVerified:        false,
		}
		if err := s.recorder.Record(ctx, rec); err != nil {
			slog.Error("failed to record verification", "request_id", reqID, "err", err)
			return "", fmt.Errorf("recording verification: %w", domain.ErrPersistence)
		}
		slog.Info("verification recorded", "request_id", reqID, "user_id", req.UserID)
	}

	// Archiving is best-effort; the send already succeeded.
	if s.archiver != nil {
		if err := s.archiver.Archive(ctx, "dispatches/"+reqID+".txt", msg.PlainText); err != nil {
			slog.Warn("failed to archive message body", "request_id", reqID, "err", err)
		}
	}

	return SuccessMessage, nil
}
