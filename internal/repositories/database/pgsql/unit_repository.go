package pgsql

import (
	"context"
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

const unitColumns = `unit_id, name, name_he, parent_id, unit_type, code, order_number, created_at, updated_at`

type PgxUnitRepository struct {
	BaseRepository
}

func newPgxUnitRepository(db *pgxpool.Pool) *PgxUnitRepository {
	return &PgxUnitRepository{BaseRepository: BaseRepository{Pool: db}}
}

var (
	_ portsrepo.UnitRepositoryFacade     = (*PgxUnitRepository)(nil)
	_ portsrepo.LocationRepositoryFacade = (*PgxUnitRepository)(nil)
)

func unitScanTargets(m *models.Unit) []any {
	return []any{&m.UnitID, &m.Name, &m.NameHe, &m.ParentID, &m.UnitType, &m.Code, &m.OrderNumber, &m.CreatedAt, &m.UpdatedAt}
}

func (r *PgxUnitRepository) FindUnitByID(ctx context.Context, unitID string) (*domain.Unit, error) {
	query := `SELECT ` + unitColumns + ` FROM units WHERE unit_id = $1`
	var m models.Unit
	if err := r.Pool.QueryRow(ctx, query, unitID).Scan(unitScanTargets(&m)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find unit %s: %w", unitID, err)
	}
	d := mapping.ToDomainUnit(m)
	return &d, nil
}

func (r *PgxUnitRepository) ListUnits(ctx context.Context) ([]domain.Unit, error) {
	query := `SELECT ` + unitColumns + ` FROM units ORDER BY order_number, name`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query units: %w", err)
	}
	defer rows.Close()

	ms := []models.Unit{}
	for rows.Next() {
		var m models.Unit
		if err := rows.Scan(unitScanTargets(&m)...); err != nil {
			return nil, fmt.Errorf("failed to scan unit row: %w", err)
		}
		ms = append(ms, m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating unit rows: %w", rows.Err())
	}
	return mapping.ToDomainUnitSlice(ms), nil
}

func (r *PgxUnitRepository) SaveUnit(ctx context.Context, unit domain.Unit) error {
	m := mapping.ToModelUnit(unit)
	query := `
        INSERT INTO units (unit_id, name, name_he, parent_id, unit_type, code, order_number, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
    `
	_, err := r.Pool.Exec(ctx, query, m.UnitID, m.Name, m.NameHe, m.ParentID, m.UnitType, m.Code, m.OrderNumber, m.CreatedAt, m.UpdatedAt)
	return mapWriteError(err, "unit")
}

func (r *PgxUnitRepository) UpdateUnit(ctx context.Context, unit domain.Unit) error {
	m := mapping.ToModelUnit(unit)
	query := `
        UPDATE units
        SET name = $1, name_he = $2, parent_id = $3, unit_type = $4, code = $5, order_number = $6, updated_at = $7
        WHERE unit_id = $8;
    `
	cmdTag, err := r.Pool.Exec(ctx, query, m.Name, m.NameHe, m.ParentID, m.UnitType, m.Code, m.OrderNumber, m.UpdatedAt, m.UnitID)
	if err != nil {
		return mapWriteError(err, "unit")
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteUnit relies on ON DELETE CASCADE for children and ON DELETE SET NULL for profiles.
func (r *PgxUnitRepository) DeleteUnit(ctx context.Context, unitID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM units WHERE unit_id = $1`, unitID)
	if err != nil {
		return fmt.Errorf("failed to delete unit %s: %w", unitID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxUnitRepository) FindLocationByID(ctx context.Context, locationID string) (*domain.Location, error) {
	query := `SELECT location_id, name, name_he, location_type, region FROM locations WHERE location_id = $1`
	var m models.Location
	err := r.Pool.QueryRow(ctx, query, locationID).Scan(&m.LocationID, &m.Name, &m.NameHe, &m.LocationType, &m.Region)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find location %s: %w", locationID, err)
	}
	d := mapping.ToDomainLocation(m)
	return &d, nil
}

func (r *PgxUnitRepository) ListLocations(ctx context.Context, q domain.LocationQuery) ([]domain.Location, error) {
	var w whereBuilder
	if q.LocationType != "" {
		w.add(`location_type = ?`, q.LocationType)
	}
	if q.Search != "" {
		w.add(`(name ILIKE ? OR name_he ILIKE ?)`, "%"+q.Search+"%", "%"+q.Search+"%")
	}
	query := `SELECT location_id, name, name_he, location_type, region FROM locations` + w.String() + ` ORDER BY name`

	rows, err := r.Pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query locations: %w", err)
	}
	defer rows.Close()

	out := []domain.Location{}
	for rows.Next() {
		var m models.Location
		if err := rows.Scan(&m.LocationID, &m.Name, &m.NameHe, &m.LocationType, &m.Region); err != nil {
			return nil, fmt.Errorf("failed to scan location row: %w", err)
		}
		out = append(out, mapping.ToDomainLocation(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating location rows: %w", rows.Err())
	}
	return out, nil
}
