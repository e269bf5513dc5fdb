package pgsql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/SscSPs/unit_availability_app/internal/apperrors"
	"github.com/SscSPs/unit_availability_app/internal/core/domain"
	portsrepo "github.com/SscSPs/unit_availability_app/internal/core/ports/repositories"
	"github.com/SscSPs/unit_availability_app/internal/models"
	"github.com/SscSPs/unit_availability_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

const reportUserDateConstraint = "availability_reports_user_date_key"

type PgxReportRepository struct {
	BaseRepository
}

func newPgxReportRepository(db *pgxpool.Pool) *PgxReportRepository {
	return &PgxReportRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.ReportRepositoryFacade = (*PgxReportRepository)(nil)

func (r *PgxReportRepository) ListReports(ctx context.Context, q domain.ReportQuery) ([]domain.ReportDetails, error) {
	if q.UserIDs != nil && len(q.UserIDs) == 0 {
		return []domain.ReportDetails{}, nil
	}
	var w whereBuilder
	if q.UserIDs != nil {
		w.add(`r.user_id = ANY(?)`, q.UserIDs)
	}
	if q.Date != nil {
		w.add(`r.date = ?`, domain.TruncateToDay(*q.Date))
	}
	if q.From != nil {
		w.add(`r.date >= ?`, domain.TruncateToDay(*q.From))
	}
	if q.To != nil {
		w.add(`r.date <= ?`, domain.TruncateToDay(*q.To))
	}
	if q.After != nil {
		w.add(`(r.date, r.submitted_at, r.report_id) < (?, ?, ?)`, q.After.Date, q.After.SubmittedAt, q.After.ReportID)
	}
	limit := ""
	if q.Limit > 0 {
		limit = fmt.Sprintf(" LIMIT %d", q.Limit)
	}
	query := `SELECT r.report_id, r.user_id, r.date, r.status, r.location_id, r.location_text, r.notes,
			r.submitted_at, r.updated_at,
			u.email, u.first_name, u.last_name, p.unit_id, un.name, l.name
		FROM availability_reports r
		JOIN users u ON u.user_id = r.user_id
		LEFT JOIN profiles p ON p.user_id = r.user_id
		LEFT JOIN units un ON un.unit_id = p.unit_id
		LEFT JOIN locations l ON l.location_id = r.location_id` + w.String() + `
		ORDER BY r.date DESC, r.submitted_at DESC, r.report_id DESC` + limit

	rows, err := r.Pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	out := []domain.ReportDetails{}
	for rows.Next() {
		var m models.AvailabilityReport
		var email, firstName, lastName string
		var unitID, unitName, locationName sql.NullString
		err := rows.Scan(
			&m.ReportID, &m.UserID, &m.Date, &m.Status, &m.LocationID, &m.LocationText, &m.Notes,
			&m.SubmittedAt, &m.UpdatedAt,
			&email, &firstName, &lastName, &unitID, &unitName, &locationName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		owner := domain.User{Email: email, FirstName: firstName, LastName: lastName}
		out = append(out, domain.ReportDetails{
			AvailabilityReport: mapping.ToDomainReport(m),
			UserEmail:          email,
			UserName:           owner.FullName(),
			UnitID:             mapping.FromNullString(unitID),
			UnitName:           unitName.String,
			LocationName:       locationName.String,
		})
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating report rows: %w", rows.Err())
	}
	return out, nil
}

func (r *PgxReportRepository) SaveReport(ctx context.Context, report domain.AvailabilityReport) error {
	m := mapping.ToModelReport(report)
	query := `
        INSERT INTO availability_reports (report_id, user_id, date, status, location_id, location_text, notes, submitted_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
    `
	_, err := r.Pool.Exec(ctx, query, m.ReportID, m.UserID, m.Date, m.Status, m.LocationID, m.LocationText, m.Notes, m.SubmittedAt, m.UpdatedAt)
	if isUniqueViolation(err, reportUserDateConstraint) {
		return fmt.Errorf("%w: report already submitted for this date", apperrors.ErrDuplicate)
	}
	return mapWriteError(err, "report")
}
