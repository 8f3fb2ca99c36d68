package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/verify-dispatch/internal/domain"
)

const insertVerification = `
	INSERT INTO email_verification (user_id, email, verification_token, expiration_time, is_verified)
	VALUES ($1, $2, $3, $4, $5)`

// Recorder inserts verification rows into Postgres. It opens a fresh
// connection per invocation and closes it before returning; there is no
// pool and no reuse across requests.
type Recorder struct {
	dsn string
}

func NewRecorder(dsn string) *Recorder {
	return &Recorder{dsn: dsn}
}

func (r *Recorder) Record(ctx context.Context, rec *domain.VerificationRecord) error {
	conn, err := pgx.Connect(ctx, r.dsn)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer conn.Close(ctx)

	_, err = conn.Exec(ctx, insertVerification,
		rec.UserID, rec.Email, rec.VerificationToken, rec.ExpirationTime.UTC(), rec.IsVerified)
	if err != nil {
		return fmt.Errorf("insert verification: %w", err)
	}
	return nil
}
