package pgsql

import (
	"context"
	"database/sql"
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

const userColumns = `u.user_id, u.email, u.first_name, u.last_name, u.phone, u.password_hash,
	u.is_approved, u.is_active, u.is_staff, u.refresh_token_hash, u.refresh_token_expiry_time,
	u.created_at, u.updated_at`

const profileColumns = `p.user_id, p.unit_id, p.role, p.service_type, p.address, p.city_id,
	p.contact_name, p.contact_phone, p.created_at, p.updated_at`

type PgxUserRepository struct {
	BaseRepository
}

func newPgxUserRepository(db *pgxpool.Pool) *PgxUserRepository {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: db}}
}

// Ensure PgxUserRepository implements the user and profile ports
var (
	_ portsrepo.UserRepositoryFacade    = (*PgxUserRepository)(nil)
	_ portsrepo.ProfileRepositoryFacade = (*PgxUserRepository)(nil)
)

func userScanTargets(m *models.User) []any {
	return []any{
		&m.UserID, &m.Email, &m.FirstName, &m.LastName, &m.Phone, &m.PasswordHash,
		&m.IsApproved, &m.IsActive, &m.IsStaff, &m.RefreshTokenHash, &m.RefreshTokenExpiryTime,
		&m.CreatedAt, &m.UpdatedAt,
	}
}

// nullableProfile scans a LEFT JOINed profile.
type nullableProfile struct {
	UserID       sql.NullString
	UnitID       sql.NullString
	Role         sql.NullString
	ServiceType  sql.NullString
	Address      sql.NullString
	CityID       sql.NullString
	ContactName  sql.NullString
	ContactPhone sql.NullString
	CreatedAt    sql.NullTime
	UpdatedAt    sql.NullTime
}

func (n *nullableProfile) targets() []any {
	return []any{&n.UserID, &n.UnitID, &n.Role, &n.ServiceType, &n.Address, &n.CityID,
		&n.ContactName, &n.ContactPhone, &n.CreatedAt, &n.UpdatedAt}
}

func (n nullableProfile) toDomain() *domain.Profile {
	if !n.UserID.Valid {
		return nil
	}
	p := mapping.ToDomainProfile(models.Profile{
		UserID:       n.UserID.String,
		UnitID:       n.UnitID,
		Role:         n.Role.String,
		ServiceType:  n.ServiceType.String,
		Address:      n.Address.String,
		CityID:       n.CityID,
		ContactName:  n.ContactName.String,
		ContactPhone: n.ContactPhone.String,
		Timestamps:   models.Timestamps{CreatedAt: n.CreatedAt.Time, UpdatedAt: n.UpdatedAt.Time},
	})
	return &p
}

func (r *PgxUserRepository) findUser(ctx context.Context, where string, arg any) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE ` + where
	var m models.User
	if err := r.Pool.QueryRow(ctx, query, arg).Scan(userScanTargets(&m)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	d := mapping.ToDomainUser(m)
	return &d, nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.findUser(ctx, `u.user_id = $1`, userID)
}

func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findUser(ctx, `LOWER(u.email) = LOWER($1)`, email)
}

func (r *PgxUserRepository) ListApprovedUsers(ctx context.Context, userIDs []string) ([]domain.UserWithProfile, error) {
	if userIDs != nil && len(userIDs) == 0 {
		return []domain.UserWithProfile{}, nil
	}
	var w whereBuilder
	w.add(`u.is_approved`)
	if userIDs != nil {
		w.add(`u.user_id = ANY(?)`, userIDs)
	}
	query := `SELECT ` + userColumns + `, ` + profileColumns + `
		FROM users u LEFT JOIN profiles p ON p.user_id = u.user_id` + w.String() + `
		ORDER BY u.email`

	rows, err := r.Pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query approved users: %w", err)
	}
	defer rows.Close()

	out := []domain.UserWithProfile{}
	for rows.Next() {
		var m models.User
		var p nullableProfile
		if err := rows.Scan(append(userScanTargets(&m), p.targets()...)...); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		out = append(out, domain.UserWithProfile{User: mapping.ToDomainUser(m), Profile: p.toDomain()})
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", rows.Err())
	}
	return out, nil
}

func (r *PgxUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	return updateUser(ctx, r.Pool, user)
}

func updateUser(ctx context.Context, db dbtx, user domain.User) error {
	m := mapping.ToModelUser(user)
	query := `
        UPDATE users
        SET email = $1, first_name = $2, last_name = $3, phone = $4, password_hash = $5,
            is_approved = $6, is_active = $7, is_staff = $8, updated_at = $9
        WHERE user_id = $10;
    `
	cmdTag, err := db.Exec(ctx, query,
		m.Email, m.FirstName, m.LastName, m.Phone, m.PasswordHash,
		m.IsApproved, m.IsActive, m.IsStaff, m.UpdatedAt, m.UserID,
	)
	if err != nil {
		return mapWriteError(err, "user")
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %w", apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxUserRepository) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, expiry time.Time) error {
	query := `UPDATE users SET refresh_token_hash = $1, refresh_token_expiry_time = $2 WHERE user_id = $3;`
	cmdTag, err := r.Pool.Exec(ctx, query, refreshTokenHash, expiry, userID)
	if err != nil {
		return fmt.Errorf("failed to update refresh token: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxUserRepository) ClearRefreshToken(ctx context.Context, userID string) error {
	query := `UPDATE users SET refresh_token_hash = NULL, refresh_token_expiry_time = NULL WHERE user_id = $1;`
	if _, err := r.Pool.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}
	return nil
}

func (r *PgxUserRepository) CreateRegistration(ctx context.Context, user domain.User, profile domain.Profile, request domain.AccessRequest) error {
	m := mapping.ToModelUser(user)
	ar := mapping.ToModelAccessRequest(request)
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO users (user_id, email, first_name, last_name, phone, password_hash,
				is_approved, is_active, is_staff, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`,
			m.UserID, m.Email, m.FirstName, m.LastName, m.Phone, m.PasswordHash,
			m.IsApproved, m.IsActive, m.IsStaff, m.CreatedAt, m.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err, "") {
				return fmt.Errorf("%w: email already registered", apperrors.ErrDuplicate)
			}
			return fmt.Errorf("failed to insert user: %w", err)
		}
		if err := upsertProfile(ctx, tx, profile); err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO access_requests (access_request_id, user_id, status, submitted_at, rejection_reason)
			VALUES ($1, $2, $3, $4, $5);`,
			ar.AccessRequestID, ar.UserID, ar.Status, ar.SubmittedAt, ar.RejectionReason,
		)
		return mapWriteError(err, "access request")
	})
}

func (r *PgxUserRepository) FindProfileByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles p WHERE p.user_id = $1`
	var n nullableProfile
	if err := r.Pool.QueryRow(ctx, query, userID).Scan(n.targets()...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}
	return n.toDomain(), nil
}

func (r *PgxUserRepository) ListProfiles(ctx context.Context) ([]domain.Profile, error) {
	return r.listProfiles(ctx, `SELECT `+profileColumns+` FROM profiles p`)
}

func (r *PgxUserRepository) ListProfilesByUnitIDs(ctx context.Context, unitIDs []string) ([]domain.Profile, error) {
	if len(unitIDs) == 0 {
		return []domain.Profile{}, nil
	}
	return r.listProfiles(ctx, `SELECT `+profileColumns+` FROM profiles p WHERE p.unit_id = ANY($1)`, unitIDs)
}

func (r *PgxUserRepository) listProfiles(ctx context.Context, query string, args ...any) ([]domain.Profile, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	out := []domain.Profile{}
	for rows.Next() {
		var n nullableProfile
		if err := rows.Scan(n.targets()...); err != nil {
			return nil, fmt.Errorf("failed to scan profile row: %w", err)
		}
		out = append(out, *n.toDomain())
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating profile rows: %w", rows.Err())
	}
	return out, nil
}

func (r *PgxUserRepository) SaveProfile(ctx context.Context, profile domain.Profile) error {
	return upsertProfile(ctx, r.Pool, profile)
}

func upsertProfile(ctx context.Context, db dbtx, profile domain.Profile) error {
	m := mapping.ToModelProfile(profile)
	query := `
        INSERT INTO profiles (user_id, unit_id, role, service_type, address, city_id,
            contact_name, contact_phone, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        ON CONFLICT (user_id) DO UPDATE SET
            unit_id = EXCLUDED.unit_id,
            role = EXCLUDED.role,
            service_type = EXCLUDED.service_type,
            address = EXCLUDED.address,
            city_id = EXCLUDED.city_id,
            contact_name = EXCLUDED.contact_name,
            contact_phone = EXCLUDED.contact_phone,
            updated_at = EXCLUDED.updated_at;
    `
	_, err := db.Exec(ctx, query,
		m.UserID, m.UnitID, m.Role, m.ServiceType, m.Address, m.CityID,
		m.ContactName, m.ContactPhone, m.CreatedAt, m.UpdatedAt,
	)
	return mapWriteError(err, "profile")
}
