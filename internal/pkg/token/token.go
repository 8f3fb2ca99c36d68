package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// expiryLayout is an ISO-8601 timestamp with microsecond precision and no
// zone suffix; the expiry is always UTC.
const expiryLayout = "2006-01-02T15:04:05.000000"

// Derive builds a self-describing verification token: "{userID}:{expiry}".
// The expiry travels in clear text with no integrity protection — anyone
// holding the string can mint an equivalent one. Deployments that need
// tamper resistance wrap the result with a Signer.
func Derive(userID string, expiresAt time.Time) string {
	return userID + ":" + expiresAt.UTC().Format(expiryLayout)
}

// Signer appends an HMAC-SHA256 suffix to derived tokens, binding the user
// id and expiry to a server-side key.
type Signer struct {
	key []byte
}

func NewSigner(key string) *Signer {
	return &Signer{key: []byte(key)}
}

// Sign returns "{token}:{hex mac}".
func (s *Signer) Sign(tok string) string {
	return tok + ":" + hex.EncodeToString(s.mac(tok))
}

// Verify reports whether the trailing MAC segment matches the rest of the
// token.
func (s *Signer) Verify(signed string) bool {
	i := strings.LastIndex(signed, ":")
	if i < 0 {
		return false
	}
	got, err := hex.DecodeString(signed[i+1:])
	if err != nil {
		return false
	}
	return hmac.Equal(got, s.mac(signed[:i]))
}

func (s *Signer) mac(tok string) []byte {
	h := hmac.New(sha256.New, s.key)
	h.Write([]byte(tok))
	return h.Sum(nil)
}
