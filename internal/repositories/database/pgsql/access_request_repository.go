package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/SscSPs/unit_availability_app/internal/apperrors"
	"github.com/SscSPs/unit_availability_app/internal/core/domain"
	portsrepo "github.com/SscSPs/unit_availability_app/internal/core/ports/repositories"
	"github.com/SscSPs/unit_availability_app/internal/models"
	"github.com/SscSPs/unit_availability_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const accessRequestColumns = `ar.access_request_id, ar.user_id, ar.status, ar.submitted_at, ar.approved_by, ar.approved_at, ar.rejection_reason`

type PgxAccessRequestRepository struct {
	BaseRepository
}

func newPgxAccessRequestRepository(db *pgxpool.Pool) *PgxAccessRequestRepository {
	return &PgxAccessRequestRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.AccessRequestRepositoryFacade = (*PgxAccessRequestRepository)(nil)

func accessRequestScanTargets(m *models.AccessRequest) []any {
	return []any{&m.AccessRequestID, &m.UserID, &m.Status, &m.SubmittedAt, &m.ApprovedBy, &m.ApprovedAt, &m.RejectionReason}
}

func (r *PgxAccessRequestRepository) FindAccessRequestByID(ctx context.Context, requestID string) (*domain.AccessRequest, error) {
	return findAccessRequest(ctx, r.Pool, requestID)
}

func findAccessRequest(ctx context.Context, db dbtx, requestID string) (*domain.AccessRequest, error) {
	query := `SELECT ` + accessRequestColumns + ` FROM access_requests ar WHERE ar.access_request_id = $1`
	var m models.AccessRequest
	if err := db.QueryRow(ctx, query, requestID).Scan(accessRequestScanTargets(&m)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find access request %s: %w", requestID, err)
	}
	d := mapping.ToDomainAccessRequest(m)
	return &d, nil
}

func (r *PgxAccessRequestRepository) ListAccessRequests(ctx context.Context, q portsrepo.AccessRequestQuery) ([]domain.AccessRequestDetails, error) {
	var w whereBuilder
	if q.Status != nil {
		w.add(`ar.status = ?`, string(*q.Status))
	}
	if q.UserIDs != nil {
		if q.IncludeUnassignedPending {
			w.add(`(ar.user_id = ANY(?) OR (ar.status = 'pending' AND p.unit_id IS NULL))`, q.UserIDs)
		} else {
			w.add(`ar.user_id = ANY(?)`, q.UserIDs)
		}
	}
	query := `SELECT ` + accessRequestColumns + `,
			u.email, u.first_name, u.last_name, u.phone, p.role, p.unit_id, un.name
		FROM access_requests ar
		JOIN users u ON u.user_id = ar.user_id
		LEFT JOIN profiles p ON p.user_id = ar.user_id
		LEFT JOIN units un ON un.unit_id = p.unit_id` + w.String() + `
		ORDER BY ar.submitted_at DESC`

	rows, err := r.Pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query access requests: %w", err)
	}
	defer rows.Close()

	out := []domain.AccessRequestDetails{}
	for rows.Next() {
		var m models.AccessRequest
		var d domain.AccessRequestDetails
		var role, unitID, unitName sql.NullString
		targets := append(accessRequestScanTargets(&m), &d.Email, &d.FirstName, &d.LastName, &d.Phone, &role, &unitID, &unitName)
		if err := rows.Scan(targets...); err != nil {
			return nil, fmt.Errorf("failed to scan access request row: %w", err)
		}
		d.AccessRequest = mapping.ToDomainAccessRequest(m)
		d.Role = domain.RoleUser
		if role.Valid {
			d.Role = domain.Role(role.String)
		}
		d.UnitID = mapping.FromNullString(unitID)
		d.UnitName = unitName.String
		out = append(out, d)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating access request rows: %w", rows.Err())
	}
	return out, nil
}

// DecideAccessRequest performs the pending check and the status write as one
// conditional UPDATE, so concurrent deciders cannot both succeed.
func (r *PgxAccessRequestRepository) DecideAccessRequest(ctx context.Context, decision domain.AccessRequestDecision) (*domain.AccessRequest, error) {
	var decided *domain.AccessRequest
	err := r.WithTx(ctx, func(tx pgx.Tx) error {
		query := `
			UPDATE access_requests ar
			SET status = $2, approved_by = $3, approved_at = $4, rejection_reason = $5
			WHERE ar.access_request_id = $1 AND ar.status = 'pending'
			RETURNING ` + accessRequestColumns
		var m models.AccessRequest
		err := tx.QueryRow(ctx, query,
			decision.AccessRequestID, string(decision.Status), decision.DecidedBy, decision.DecidedAt, decision.RejectionReason,
		).Scan(accessRequestScanTargets(&m)...)
		if errors.Is(err, pgx.ErrNoRows) {
			current, findErr := findAccessRequest(ctx, tx, decision.AccessRequestID)
			if findErr != nil {
				return findErr
			}
			if err := current.CheckTransition(); err != nil {
				return err
			}
			return apperrors.ErrInvalidState
		}
		if err != nil {
			return fmt.Errorf("failed to decide access request: %w", err)
		}

		if decision.Status == domain.AccessRequestApproved {
			if decision.User != nil {
				if err := updateUser(ctx, tx, *decision.User); err != nil {
					return err
				}
			}
			if decision.Profile != nil {
				if err := upsertProfile(ctx, tx, *decision.Profile); err != nil {
					return err
				}
			}
		}
		d := mapping.ToDomainAccessRequest(m)
		decided = &d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return decided, nil
}
