package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/unit_availability_app/internal/apperrors"
	"github.com/SscSPs/unit_availability_app/internal/core/domain"
	portsrepo "github.com/SscSPs/unit_availability_app/internal/core/ports/repositories"
	"github.com/SscSPs/unit_availability_app/internal/models"
	"github.com/SscSPs/unit_availability_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxOTPRepository struct {
	BaseRepository
}

func newPgxOTPRepository(db *pgxpool.Pool) *PgxOTPRepository {
	return &PgxOTPRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.OTPRepositoryFacade = (*PgxOTPRepository)(nil)

func (r *PgxOTPRepository) SaveOTPToken(ctx context.Context, token domain.OTPToken) error {
	m := mapping.ToModelOTPToken(token)
	query := `
        INSERT INTO otp_tokens (otp_token_id, user_id, code, purpose, created_at, expires_at, used)
        VALUES ($1, $2, $3, $4, $5, $6, $7);
    `
	_, err := r.Pool.Exec(ctx, query, m.OTPTokenID, m.UserID, m.Code, m.Purpose, m.CreatedAt, m.ExpiresAt, m.Used)
	return mapWriteError(err, "otp token")
}

// ConsumeOTPToken locks the newest candidate row; SKIP LOCKED makes a
// concurrent verifier see no candidate instead of consuming the same row.
func (r *PgxOTPRepository) ConsumeOTPToken(ctx context.Context, userID, code string, now time.Time) (*domain.OTPToken, error) {
	query := `
        UPDATE otp_tokens SET used = TRUE
        WHERE otp_token_id = (
            SELECT otp_token_id FROM otp_tokens
            WHERE user_id = $1 AND code = $2 AND used = FALSE AND expires_at > $3
            ORDER BY created_at DESC
            LIMIT 1
            FOR UPDATE SKIP LOCKED
        ) AND used = FALSE
        RETURNING otp_token_id, user_id, code, purpose, created_at, expires_at, used;
    `
	var m models.OTPToken
	err := r.Pool.QueryRow(ctx, query, userID, code, now).Scan(
		&m.OTPTokenID, &m.UserID, &m.Code, &m.Purpose, &m.CreatedAt, &m.ExpiresAt, &m.Used,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to consume otp token: %w", err)
	}
	d := mapping.ToDomainOTPToken(m)
	return &d, nil
}

func (r *PgxOTPRepository) DeleteExpiredOTPTokens(ctx context.Context, cutoff time.Time) (int64, error) {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM otp_tokens WHERE expires_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired otp tokens: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}
