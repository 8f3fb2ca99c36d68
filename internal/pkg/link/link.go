package link

import (
	"errors"
	"fmt"
)

// Builder composes the user-facing URLs for the verification flow.
// Prefix is an optional subdomain segment ("staging" yields staging.{domain}).
type Builder struct {
	Scheme string // "http" or "https"; defaults to "http"
	Prefix string
	Domain string
}

// VerificationURL returns {scheme}://[{prefix}.]{domain}/verify?token={token}.
// The token is embedded verbatim, not URL-escaped; callers must supply
// URL-safe tokens.
func (b *Builder) VerificationURL(token string) (string, error) {
	if b.Domain == "" {
		return "", errors.New("link domain not configured")
	}
	if token == "" {
		return "", errors.New("empty token")
	}
	scheme := b.Scheme
	if scheme == "" {
		scheme = "http"
	}
	return fmt.Sprintf("%s://%s/verify?token=%s", scheme, b.host(), token), nil
}

// UnsubscribeURL returns the companion unsubscribe page URL. It is always
// https, independent of the verification link scheme.
func (b *Builder) UnsubscribeURL() string {
	return fmt.Sprintf("https://%s/unsubscribe", b.host())
}

func (b *Builder) host() string {
	if b.Prefix != "" {
		return b.Prefix + "." + b.Domain
	}
	return b.Domain
}
