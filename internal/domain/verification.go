package domain

import "time"

// VerificationRequest is the decoded dispatch payload. It lives for a single
// pipeline run and is never retained.
//
// Either VerificationToken or UserID must be present, depending on the token
// mode the deployment runs in; which one is enforced by the token source.
type VerificationRequest struct {
	Email             string `json:"email" validate:"required"`
	VerificationToken string `json:"verification_token"`
	UserID            string `json:"user_id"`
}

// VerificationRecord is the row written after a successful send.
// PK: user_id. ExpirationTime doubles as the DynamoDB TTL attribute.
// Redemption (flipping IsVerified) and expiry sweeps happen elsewhere.
type VerificationRecord struct {
	UserID            string    `json:"user_id" dynamodbav:"user_id"`
	Email             string    `json:"email" dynamodbav:"email"`
	VerificationToken string    `json:"verification_token" dynamodbav:"verification_token"`
	ExpirationTime    time.Time `json:"expiration_time" dynamodbav:"expiration_time,unixtime"`
	IsVerified        bool      `json:"is_verified" dynamodbav:"is_verified"`
}
