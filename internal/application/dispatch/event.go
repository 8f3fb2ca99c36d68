package dispatch

import (
	"encoding/json"
	"fmt"

	"github.com/verify-dispatch/internal/domain"
	"github.com/verify-dispatch/internal/pkg/validate"
)

// snsEnvelope matches the shape an SNS subscription delivers: the actual
// payload is a JSON string nested at Records[0].Sns.Message.
type snsEnvelope struct {
	Records []struct {
		Sns struct {
			Message string `json:"Message"`
		} `json:"Sns"`
	} `json:"Records"`
}

// ParseEvent decodes a raw trigger event into a VerificationRequest. The
// event is either an SNS envelope (detected by a non-empty Records list) or
// the payload object itself. Malformed JSON anywhere, or a missing email,
// yields ErrValidation; token-mode field requirements are checked by the
// token source.
func ParseEvent(raw []byte) (*domain.VerificationRequest, error) {
	payload := raw

	var env snsEnvelope
	if err := json.Unmarshal(raw, &env); err == nil && len(env.Records) > 0 {
		payload = []byte(env.Records[0].Sns.Message)
	}

	var p struct {
		Email             string          `json:"email"`
		VerificationToken string          `json:"verification_token"`
		UserID            json.RawMessage `json:"user_id"`
	}
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("decode payload: %w", domain.ErrValidation)
	}

	req := &domain.VerificationRequest{
		Email:             p.Email,
		VerificationToken: p.VerificationToken,
		UserID:            decodeUserID(p.UserID),
	}
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrValidation)
	}
	return req, nil
}

// decodeUserID accepts both string and numeric user ids.
func decodeUserID(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
