package pgsql

import (
	portsrepo "github.com/SscSPs/unit_availability_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	userRepo := newPgxUserRepository(dbPool)
	unitRepo := newPgxUnitRepository(dbPool)

	return portsrepo.RepositoryProvider{
		UserRepo:          userRepo,
		ProfileRepo:       userRepo,
		UnitRepo:          unitRepo,
		LocationRepo:      unitRepo,
		AccessRequestRepo: newPgxAccessRequestRepository(dbPool),
		OTPRepo:           newPgxOTPRepository(dbPool),
		ReportRepo:        newPgxReportRepository(dbPool),
	}
}
