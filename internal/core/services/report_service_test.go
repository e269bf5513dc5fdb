package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/unit_availability_app/internal/apperrors"
	"github.com/SscSPs/unit_availability_app/internal/core/domain"
	portssvc "github.com/SscSPs/unit_availability_app/internal/core/ports/services"
	"github.com/SscSPs/unit_availability_app/internal/core/services"
	"github.com/SscSPs/unit_availability_app/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mocks ---

type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) ListReports(ctx context.Context, query domain.ReportQuery) ([]domain.ReportDetails, error) {
	args := m.Called(ctx, query)
	var reports []domain.ReportDetails
	if args.Get(0) != nil {
		reports = args.Get(0).([]domain.ReportDetails)
	}
	return reports, args.Error(1)
}

func (m *MockReportRepository) SaveReport(ctx context.Context, report domain.AvailabilityReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

type MockLocationRepository struct {
	mock.Mock
}

func (m *MockLocationRepository) FindLocationByID(ctx context.Context, locationID string) (*domain.Location, error) {
	args := m.Called(ctx, locationID)
	var loc *domain.Location
	if args.Get(0) != nil {
		loc = args.Get(0).(*domain.Location)
	}
	return loc, args.Error(1)
}

func (m *MockLocationRepository) ListLocations(ctx context.Context, query domain.LocationQuery) ([]domain.Location, error) {
	args := m.Called(ctx, query)
	var locs []domain.Location
	if args.Get(0) != nil {
		locs = args.Get(0).([]domain.Location)
	}
	return locs, args.Error(1)
}

type MockScopeService struct {
	mock.Mock
}

func (m *MockScopeService) LoadCaller(ctx context.Context, userID string) (*domain.Caller, error) {
	args := m.Called(ctx, userID)
	var c *domain.Caller
	if args.Get(0) != nil {
		c = args.Get(0).(*domain.Caller)
	}
	return c, args.Error(1)
}

func (m *MockScopeService) LoadTree(ctx context.Context) (*domain.UnitTree, error) {
	args := m.Called(ctx)
	var t *domain.UnitTree
	if args.Get(0) != nil {
		t = args.Get(0).(*domain.UnitTree)
	}
	return t, args.Error(1)
}

func (m *MockScopeService) VisibleUsers(ctx context.Context, caller domain.Caller) (domain.VisibleUsers, error) {
	args := m.Called(ctx, caller)
	return args.Get(0).(domain.VisibleUsers), args.Error(1)
}

func (m *MockScopeService) SubtreeMembers(ctx context.Context, unitID string) (domain.VisibleUsers, error) {
	args := m.Called(ctx, unitID)
	return args.Get(0).(domain.VisibleUsers), args.Error(1)
}

var _ portssvc.ScopeSvcFacade = (*MockScopeService)(nil)

// --- Test Suite ---

type ReportServiceTestSuite struct {
	suite.Suite
	mockReports   *MockReportRepository
	mockLocations *MockLocationRepository
	mockScope     *MockScopeService
	service       portssvc.ReportSvcFacade
	ctx           context.Context

	member  domain.Caller
	manager domain.Caller
}

func (s *ReportServiceTestSuite) SetupTest() {
	s.mockReports = new(MockReportRepository)
	s.mockLocations = new(MockLocationRepository)
	s.mockScope = new(MockScopeService)
	s.service = services.NewReportService(s.mockReports, s.mockLocations, s.mockScope)
	s.ctx = context.Background()

	unitID := "unit-1"
	s.member = domain.Caller{UserID: "user-1", Email: "user@example.com", IsApproved: true, Role: domain.RoleUser, UnitID: &unitID}
	s.manager = domain.Caller{UserID: "manager-1", Email: "manager@example.com", IsApproved: true, Role: domain.RoleBranchManager, UnitID: &unitID}
}

func (s *ReportServiceTestSuite) TearDownTest() {
	s.mockReports.AssertExpectations(s.T())
	s.mockLocations.AssertExpectations(s.T())
	s.mockScope.AssertExpectations(s.T())
}

func TestReportService(t *testing.T) {
	suite.Run(t, new(ReportServiceTestSuite))
}

func (s *ReportServiceTestSuite) today() string {
	return time.Now().UTC().Format(dto.DateLayout)
}

// --- Test Cases ---

func (s *ReportServiceTestSuite) TestCreateReport_Success() {
	locationID := "loc-1"
	req := dto.CreateReportRequest{Date: s.today(), Status: "partial", LocationID: &locationID, Notes: "  back at noon "}

	s.mockLocations.On("FindLocationByID", s.ctx, locationID).Return(&domain.Location{LocationID: locationID}, nil).Once()
	s.mockReports.On("SaveReport", s.ctx, mock.MatchedBy(func(r domain.AvailabilityReport) bool {
		return r.UserID == s.member.UserID &&
			r.Status == domain.AvailabilityPartial &&
			r.Notes == "back at noon" &&
			r.Date.Equal(domain.TruncateToDay(time.Now())) &&
			r.ReportID != ""
	})).Return(nil).Once()

	report, err := s.service.CreateReport(s.ctx, s.member, req)

	s.Require().NoError(err)
	s.Equal(s.member.UserID, report.UserID)
	s.Equal(locationID, *report.LocationID)
}

func (s *ReportServiceTestSuite) TestCreateReport_NotApproved() {
	pending := s.member
	pending.IsApproved = false

	_, err := s.service.CreateReport(s.ctx, pending, dto.CreateReportRequest{Date: s.today(), Status: "available"})

	s.ErrorIs(err, apperrors.ErrNotApproved)
	s.mockReports.AssertNotCalled(s.T(), "SaveReport", mock.Anything, mock.Anything)
}

func (s *ReportServiceTestSuite) TestCreateReport_FutureDate() {
	tomorrow := time.Now().UTC().AddDate(0, 0, 1).Format(dto.DateLayout)

	_, err := s.service.CreateReport(s.ctx, s.member, dto.CreateReportRequest{Date: tomorrow, Status: "available"})

	s.ErrorIs(err, apperrors.ErrFutureDate)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *ReportServiceTestSuite) TestCreateReport_BadInput() {
	testCases := []struct {
		name string
		req  dto.CreateReportRequest
	}{
		{name: "malformed date", req: dto.CreateReportRequest{Date: "18/10/2026", Status: "available"}},
		{name: "unknown status", req: dto.CreateReportRequest{Date: s.today(), Status: "asleep"}},
	}
	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := s.service.CreateReport(s.ctx, s.member, tc.req)
			s.ErrorIs(err, apperrors.ErrValidation)
		})
	}
}

func (s *ReportServiceTestSuite) TestCreateReport_UnknownLocation() {
	locationID := "nowhere"
	s.mockLocations.On("FindLocationByID", s.ctx, locationID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := s.service.CreateReport(s.ctx, s.member, dto.CreateReportRequest{Date: s.today(), Status: "available", LocationID: &locationID})

	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *ReportServiceTestSuite) TestCreateReport_Duplicate() {
	s.mockReports.On("SaveReport", s.ctx, mock.Anything).Return(apperrors.ErrDuplicate).Once()

	_, err := s.service.CreateReport(s.ctx, s.member, dto.CreateReportRequest{Date: s.today(), Status: "available"})

	s.ErrorIs(err, apperrors.ErrDuplicate)
}

func (s *ReportServiceTestSuite) TestCreateReport_RepoError() {
	repoErr := errors.New("connection reset")
	s.mockReports.On("SaveReport", s.ctx, mock.Anything).Return(repoErr).Once()

	_, err := s.service.CreateReport(s.ctx, s.member, dto.CreateReportRequest{Date: s.today(), Status: "available"})

	s.ErrorIs(err, repoErr)
	s.NotErrorIs(err, apperrors.ErrDuplicate)
}

func (s *ReportServiceTestSuite) TestListReports_ScopedByRole() {
	s.mockScope.On("VisibleUsers", s.ctx, s.member).Return(domain.NewVisibleUsers(s.member.UserID), nil).Once()
	s.mockReports.On("ListReports", s.ctx, domain.ReportQuery{UserIDs: []string{s.member.UserID}}).
		Return([]domain.ReportDetails{{AvailabilityReport: domain.AvailabilityReport{ReportID: "r1", UserID: s.member.UserID}}}, nil).Once()

	reports, err := s.service.ListReports(s.ctx, s.member, domain.ReportFilter{})

	s.Require().NoError(err)
	s.Len(reports, 1)
}

func (s *ReportServiceTestSuite) TestListReports_UnitFilterNarrows() {
	unitID := "unit-2"
	s.mockScope.On("VisibleUsers", s.ctx, s.manager).Return(domain.NewVisibleUsers("a", "b", "c"), nil).Once()
	s.mockScope.On("SubtreeMembers", s.ctx, unitID).Return(domain.NewVisibleUsers("b", "c", "outsider"), nil).Once()
	s.mockReports.On("ListReports", s.ctx, mock.MatchedBy(func(q domain.ReportQuery) bool {
		return assert.ObjectsAreEqual([]string{"b", "c"}, q.UserIDs) && q.Limit == 25
	})).Return([]domain.ReportDetails{}, nil).Once()

	_, err := s.service.ListReports(s.ctx, s.manager, domain.ReportFilter{UnitID: &unitID, Limit: 25})

	s.NoError(err)
}

func (s *ReportServiceTestSuite) TestListReports_UnrestrictedPassesNil() {
	admin := domain.Caller{UserID: "admin", IsApproved: true, Role: domain.RoleAdmin}
	s.mockScope.On("VisibleUsers", s.ctx, admin).Return(domain.AllUsers(), nil).Once()
	s.mockReports.On("ListReports", s.ctx, mock.MatchedBy(func(q domain.ReportQuery) bool {
		return q.UserIDs == nil
	})).Return([]domain.ReportDetails{}, nil).Once()

	_, err := s.service.ListReports(s.ctx, admin, domain.ReportFilter{})

	s.NoError(err)
}

func (s *ReportServiceTestSuite) TestListReports_EmptyScopeStaysEmpty() {
	s.mockScope.On("VisibleUsers", s.ctx, s.member).Return(domain.NewVisibleUsers(), nil).Once()
	s.mockReports.On("ListReports", s.ctx, mock.MatchedBy(func(q domain.ReportQuery) bool {
		return q.UserIDs != nil && len(q.UserIDs) == 0
	})).Return([]domain.ReportDetails{}, nil).Once()

	reports, err := s.service.ListReports(s.ctx, s.member, domain.ReportFilter{})

	s.NoError(err)
	s.Empty(reports)
}

func (s *ReportServiceTestSuite) TestListReports_InvalidRange() {
	from := time.Date(2026, 10, 10, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, -3)

	_, err := s.service.ListReports(s.ctx, s.member, domain.ReportFilter{From: &from, To: &to})

	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *ReportServiceTestSuite) TestExportReports_IgnoresPaging() {
	cursor := domain.ReportCursor{ReportID: "r9"}
	s.mockScope.On("VisibleUsers", s.ctx, s.manager).Return(domain.AllUsers(), nil).Once()
	s.mockReports.On("ListReports", s.ctx, mock.MatchedBy(func(q domain.ReportQuery) bool {
		return q.Limit == 0 && q.After == nil
	})).Return([]domain.ReportDetails{{AvailabilityReport: domain.AvailabilityReport{
		ReportID: "r1", UserID: "u1", Date: domain.TruncateToDay(time.Now()), Status: domain.AvailabilityAvailable,
	}}}, nil).Once()

	data, err := s.service.ExportReports(s.ctx, s.manager, domain.ReportFilter{Limit: 10, After: &cursor})

	s.Require().NoError(err)
	s.NotEmpty(data)
}
