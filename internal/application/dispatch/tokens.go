package dispatch

import (
	"fmt"
	"time"

	"github.com/verify-dispatch/internal/domain"
	"github.com/verify-dispatch/internal/pkg/token"
)

// TokenTTL is the advertised lifetime of a verification link. It is encoded
// into derived tokens and persisted records but not enforced here; the
// redemption endpoint owns expiry checks.
const TokenTTL = 2 * time.Minute

// TokenSource yields the verification token for a request. Issue returns
// ErrValidation when the field its mode requires is missing, before any
// network call is made.
type TokenSource interface {
	Issue(req *domain.VerificationRequest, now time.Time) (tok string, expiresAt time.Time, err error)
}

type callerTokens struct{}

// CallerTokens uses the token supplied in the payload, verbatim.
func CallerTokens() TokenSource { return callerTokens{} }

func (callerTokens) Issue(req *domain.VerificationRequest, now time.Time) (string, time.Time, error) {
	if req.VerificationToken == "" {
		return "", time.Time{}, fmt.Errorf("missing required field verification_token: %w", domain.ErrValidation)
	}
	return req.VerificationToken, now.Add(TokenTTL), nil
}

type derivedTokens struct {
	signer *token.Signer
}

// DerivedTokens derives "{user_id}:{expiry}" tokens with expiry = now + 2m.
// The expiry is plain text with no integrity protection, so the token is
// forgeable; pass a non-nil signer to append an HMAC suffix.
func DerivedTokens(signer *token.Signer) TokenSource {
	return derivedTokens{signer: signer}
}

func (d derivedTokens) Issue(req *domain.VerificationRequest, now time.Time) (string, time.Time, error) {
	if req.UserID == "" {
		return "", time.Time{}, fmt.Errorf("missing required field user_id: %w", domain.ErrValidation)
	}
	expiresAt := now.Add(TokenTTL)
	tok := token.Derive(req.UserID, expiresAt)
	if d.signer != nil {
		tok = d.signer.Sign(tok)
	}
	return tok, expiresAt, nil
}
