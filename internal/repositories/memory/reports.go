package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/unit_availability_app/internal/apperrors"
	"github.com/SscSPs/unit_availability_app/internal/core/domain"
)

func (s *Store) ListReports(ctx context.Context, query domain.ReportQuery) ([]domain.ReportDetails, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	match := idFilter(query.UserIDs)
	out := make([]domain.ReportDetails, 0)
	for _, r := range s.reports {
		if !match(r.UserID) {
			continue
		}
		if query.Date != nil && !r.Date.Equal(*query.Date) {
			continue
		}
		if query.From != nil && r.Date.Before(*query.From) {
			continue
		}
		if query.To != nil && r.Date.After(*query.To) {
			continue
		}
		if query.After != nil && !query.After.Before(r) {
			continue
		}
		user := s.users[r.UserID]
		d := domain.ReportDetails{
			AvailabilityReport: r,
			UserEmail:          user.Email,
			UserName:           user.FullName(),
		}
		if p, ok := s.profiles[r.UserID]; ok && p.UnitID != nil {
			d.UnitID = cloneString(p.UnitID)
			d.UnitName = s.units[*p.UnitID].Name
		}
		if r.LocationID != nil {
			d.LocationName = s.locations[*r.LocationID].Name
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		if !out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].SubmittedAt.After(out[j].SubmittedAt)
		}
		return out[i].ReportID > out[j].ReportID
	})
	if query.Limit > 0 && len(out) > query.Limit {
		out = out[:query.Limit]
	}
	return out, nil
}

func (s *Store) SaveReport(ctx context.Context, report domain.AvailabilityReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reports {
		if r.UserID == report.UserID && r.Date.Equal(report.Date) {
			return fmt.Errorf("%w: report already submitted for this date", apperrors.ErrDuplicate)
		}
	}
	s.reports[report.ReportID] = report
	return nil
}
