package memory_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SscSPs/unit_availability_app/internal/apperrors"
	"github.com/SscSPs/unit_availability_app/internal/core/domain"
	portsrepo "github.com/SscSPs/unit_availability_app/internal/core/ports/repositories"
	"github.com/SscSPs/unit_availability_app/internal/repositories/memory"
	"github.com/stretchr/testify/suite"
)

type StoreTestSuite struct {
	suite.Suite
	ctx   context.Context
	store *memory.Store
	now   time.Time
}

func (suite *StoreTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = memory.NewStore()
	suite.now = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string { return &s }

func (suite *StoreTestSuite) register(id, email string, unitID *string) domain.AccessRequest {
	req := domain.AccessRequest{
		AccessRequestID: "req-" + id,
		UserID:          id,
		Status:          domain.AccessRequestPending,
		SubmittedAt:     suite.now,
	}
	err := suite.store.CreateRegistration(suite.ctx,
		domain.User{UserID: id, Email: email, IsActive: true},
		domain.Profile{UserID: id, UnitID: unitID, Role: domain.RoleUser},
		req,
	)
	suite.Require().NoError(err)
	return req
}

func (suite *StoreTestSuite) saveUnit(id string, parent *string) {
	suite.Require().NoError(suite.store.SaveUnit(suite.ctx, domain.Unit{UnitID: id, Name: id, ParentID: parent, UnitType: domain.UnitTypeUnit}))
}

func (suite *StoreTestSuite) TestCreateRegistration_DuplicateEmail() {
	suite.register("u1", "a@x.com", nil)

	err := suite.store.CreateRegistration(suite.ctx,
		domain.User{UserID: "u2", Email: "A@X.com"},
		domain.Profile{UserID: "u2"},
		domain.AccessRequest{AccessRequestID: "req-u2", UserID: "u2"},
	)

	suite.ErrorIs(err, apperrors.ErrDuplicate)
	_, err = suite.store.FindUserByID(suite.ctx, "u2")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *StoreTestSuite) TestFindUserByEmail_CaseInsensitive() {
	suite.register("u1", "a@x.com", nil)

	user, err := suite.store.FindUserByEmail(suite.ctx, " A@X.COM ")

	suite.Require().NoError(err)
	suite.Equal("u1", user.UserID)
}

func (suite *StoreTestSuite) TestDecideAccessRequest_CompareAndSet() {
	req := suite.register("u1", "a@x.com", nil)
	user, _ := suite.store.FindUserByID(suite.ctx, "u1")
	user.IsApproved = true

	decided, err := suite.store.DecideAccessRequest(suite.ctx, domain.AccessRequestDecision{
		AccessRequestID: req.AccessRequestID,
		Status:          domain.AccessRequestApproved,
		DecidedBy:       "admin",
		DecidedAt:       suite.now,
		User:            user,
		Profile:         &domain.Profile{UserID: "u1", Role: domain.RoleUser},
	})
	suite.Require().NoError(err)
	suite.Equal(domain.AccessRequestApproved, decided.Status)
	suite.Equal("admin", *decided.ApprovedBy)

	_, err = suite.store.DecideAccessRequest(suite.ctx, domain.AccessRequestDecision{
		AccessRequestID: req.AccessRequestID,
		Status:          domain.AccessRequestRejected,
		DecidedBy:       "other",
		DecidedAt:       suite.now,
	})
	suite.ErrorIs(err, apperrors.ErrAlreadyApproved)

	stored, err := suite.store.FindAccessRequestByID(suite.ctx, req.AccessRequestID)
	suite.Require().NoError(err)
	suite.Equal(domain.AccessRequestApproved, stored.Status)
	suite.Equal("admin", *stored.ApprovedBy)

	approved, _ := suite.store.FindUserByID(suite.ctx, "u1")
	suite.True(approved.IsApproved)
}

func (suite *StoreTestSuite) TestDecideAccessRequest_FailedApprovalWritesNothing() {
	req := suite.register("u1", "a@x.com", nil)
	suite.register("u2", "taken@x.com", nil)

	testCases := []struct {
		name    string
		email   string
		unitID  *string
		wantErr error
	}{
		{"deleted unit", "a@x.com", strPtr("deleted-unit"), apperrors.ErrValidation},
		{"email owned by another user", "taken@x.com", nil, apperrors.ErrDuplicate},
	}
	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			user, _ := suite.store.FindUserByID(suite.ctx, "u1")
			user.IsApproved = true
			user.Email = tc.email

			_, err := suite.store.DecideAccessRequest(suite.ctx, domain.AccessRequestDecision{
				AccessRequestID: req.AccessRequestID,
				Status:          domain.AccessRequestApproved,
				DecidedBy:       "admin",
				DecidedAt:       suite.now,
				User:            user,
				Profile:         &domain.Profile{UserID: "u1", UnitID: tc.unitID, Role: domain.RoleTeamManager},
			})
			suite.ErrorIs(err, tc.wantErr)

			stored, _ := suite.store.FindUserByID(suite.ctx, "u1")
			suite.False(stored.IsApproved)
			suite.Equal("a@x.com", stored.Email)
			profile, err := suite.store.FindProfileByUserID(suite.ctx, "u1")
			suite.Require().NoError(err)
			suite.Equal(domain.RoleUser, profile.Role)
			pending, _ := suite.store.FindAccessRequestByID(suite.ctx, req.AccessRequestID)
			suite.Equal(domain.AccessRequestPending, pending.Status)
			owner, err := suite.store.FindUserByEmail(suite.ctx, "a@x.com")
			suite.Require().NoError(err)
			suite.Equal("u1", owner.UserID)
		})
	}
}

func (suite *StoreTestSuite) TestDecideAccessRequest_ConcurrentOnlyOneWins() {
	req := suite.register("u1", "a@x.com", nil)

	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := suite.store.DecideAccessRequest(suite.ctx, domain.AccessRequestDecision{
				AccessRequestID: req.AccessRequestID,
				Status:          domain.AccessRequestRejected,
				DecidedBy:       "admin",
				DecidedAt:       suite.now,
			})
			if err == nil {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()

	suite.Equal(int32(1), wins)
}

func (suite *StoreTestSuite) TestListAccessRequests_UnassignedPending() {
	suite.saveUnit("unit-a", nil)
	suite.register("u1", "a@x.com", strPtr("unit-a"))
	suite.register("u2", "b@x.com", nil)
	suite.register("u3", "c@x.com", strPtr("unit-a"))

	got, err := suite.store.ListAccessRequests(suite.ctx, portsrepo.AccessRequestQuery{
		UserIDs:                  []string{"u1"},
		IncludeUnassignedPending: true,
	})
	suite.Require().NoError(err)
	var owners []string
	for _, r := range got {
		owners = append(owners, r.UserID)
	}
	suite.ElementsMatch([]string{"u1", "u2"}, owners)

	got, err = suite.store.ListAccessRequests(suite.ctx, portsrepo.AccessRequestQuery{UserIDs: []string{}})
	suite.Require().NoError(err)
	suite.Empty(got)
}

func (suite *StoreTestSuite) TestConsumeOTPToken_OlderMatchLeavesNewerValid() {
	older := domain.OTPToken{OTPTokenID: "t1", UserID: "u1", Code: "111111", CreatedAt: suite.now, ExpiresAt: suite.now.Add(10 * time.Minute)}
	newer := domain.OTPToken{OTPTokenID: "t2", UserID: "u1", Code: "222222", CreatedAt: suite.now.Add(time.Minute), ExpiresAt: suite.now.Add(11 * time.Minute)}
	suite.Require().NoError(suite.store.SaveOTPToken(suite.ctx, older))
	suite.Require().NoError(suite.store.SaveOTPToken(suite.ctx, newer))

	got, err := suite.store.ConsumeOTPToken(suite.ctx, "u1", "111111", suite.now.Add(2*time.Minute))
	suite.Require().NoError(err)
	suite.Equal("t1", got.OTPTokenID)

	_, err = suite.store.ConsumeOTPToken(suite.ctx, "u1", "111111", suite.now.Add(2*time.Minute))
	suite.ErrorIs(err, apperrors.ErrNotFound)

	got, err = suite.store.ConsumeOTPToken(suite.ctx, "u1", "222222", suite.now.Add(3*time.Minute))
	suite.Require().NoError(err)
	suite.Equal("t2", got.OTPTokenID)
}

func (suite *StoreTestSuite) TestConsumeOTPToken_Expired() {
	suite.Require().NoError(suite.store.SaveOTPToken(suite.ctx, domain.OTPToken{
		OTPTokenID: "t1", UserID: "u1", Code: "123456", CreatedAt: suite.now, ExpiresAt: suite.now.Add(time.Minute),
	}))

	_, err := suite.store.ConsumeOTPToken(suite.ctx, "u1", "123456", suite.now.Add(time.Minute))

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *StoreTestSuite) TestConsumeOTPToken_ConcurrentSingleRedemption() {
	suite.Require().NoError(suite.store.SaveOTPToken(suite.ctx, domain.OTPToken{
		OTPTokenID: "t1", UserID: "u1", Code: "123456", CreatedAt: suite.now, ExpiresAt: suite.now.Add(time.Hour),
	}))

	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := suite.store.ConsumeOTPToken(suite.ctx, "u1", "123456", suite.now); err == nil {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()

	suite.Equal(int32(1), wins)
}

func (suite *StoreTestSuite) TestDeleteUnit_CascadesAndClearsProfiles() {
	suite.saveUnit("root", nil)
	suite.saveUnit("child", strPtr("root"))
	suite.saveUnit("grandchild", strPtr("child"))
	suite.saveUnit("other", nil)
	suite.register("u1", "a@x.com", strPtr("grandchild"))
	suite.register("u2", "b@x.com", strPtr("other"))

	suite.Require().NoError(suite.store.DeleteUnit(suite.ctx, "root"))

	units, err := suite.store.ListUnits(suite.ctx)
	suite.Require().NoError(err)
	suite.Len(units, 1)
	suite.Equal("other", units[0].UnitID)

	p1, _ := suite.store.FindProfileByUserID(suite.ctx, "u1")
	suite.Nil(p1.UnitID)
	p2, _ := suite.store.FindProfileByUserID(suite.ctx, "u2")
	suite.Equal("other", *p2.UnitID)
}

func (suite *StoreTestSuite) TestSaveReport_DuplicateDay() {
	day := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	report := domain.AvailabilityReport{ReportID: "r1", UserID: "u1", Date: day, Status: domain.AvailabilityAvailable}
	suite.Require().NoError(suite.store.SaveReport(suite.ctx, report))

	report.ReportID = "r2"
	err := suite.store.SaveReport(suite.ctx, report)

	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *StoreTestSuite) TestListReports_FiltersIntersect() {
	d1 := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	for _, r := range []domain.AvailabilityReport{
		{ReportID: "r1", UserID: "u1", Date: d1},
		{ReportID: "r2", UserID: "u1", Date: d2},
		{ReportID: "r3", UserID: "u2", Date: d2},
	} {
		suite.Require().NoError(suite.store.SaveReport(suite.ctx, r))
	}

	got, err := suite.store.ListReports(suite.ctx, domain.ReportQuery{UserIDs: []string{"u1"}, From: &d2})
	suite.Require().NoError(err)
	suite.Require().Len(got, 1)
	suite.Equal("r2", got[0].ReportID)

	all, err := suite.store.ListReports(suite.ctx, domain.ReportQuery{})
	suite.Require().NoError(err)
	suite.Require().Len(all, 3)
	suite.Equal(d2, all[0].Date)
}

func (suite *StoreTestSuite) TestListReports_KeysetPaging() {
	d1 := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	for _, r := range []domain.AvailabilityReport{
		{ReportID: "r1", UserID: "u1", Date: d1, SubmittedAt: suite.now},
		{ReportID: "r2", UserID: "u2", Date: d2, SubmittedAt: suite.now},
		{ReportID: "r3", UserID: "u3", Date: d2, SubmittedAt: suite.now},
	} {
		suite.Require().NoError(suite.store.SaveReport(suite.ctx, r))
	}

	first, err := suite.store.ListReports(suite.ctx, domain.ReportQuery{Limit: 2})
	suite.Require().NoError(err)
	suite.Require().Len(first, 2)
	suite.Equal("r3", first[0].ReportID)
	suite.Equal("r2", first[1].ReportID)

	cursor := domain.CursorOf(first[1].AvailabilityReport)
	rest, err := suite.store.ListReports(suite.ctx, domain.ReportQuery{Limit: 2, After: &cursor})
	suite.Require().NoError(err)
	suite.Require().Len(rest, 1)
	suite.Equal("r1", rest[0].ReportID)
}

func (suite *StoreTestSuite) TestDeleteExpiredOTPTokens() {
	for i, expires := range []time.Time{suite.now.Add(-time.Hour), suite.now.Add(-time.Minute), suite.now.Add(time.Minute)} {
		suite.Require().NoError(suite.store.SaveOTPToken(suite.ctx, domain.OTPToken{
			OTPTokenID: string(rune('a' + i)),
			UserID:     "u1",
			Code:       "123456",
			Purpose:    domain.OTPPurposeLogin,
			CreatedAt:  expires.Add(-10 * time.Minute),
			ExpiresAt:  expires,
		}))
	}

	removed, err := suite.store.DeleteExpiredOTPTokens(suite.ctx, suite.now)

	suite.Require().NoError(err)
	suite.Equal(int64(2), removed)
	left := suite.store.OTPTokens("u1")
	suite.Require().Len(left, 1)
	suite.Equal("c", left[0].OTPTokenID)
}

func (suite *StoreTestSuite) TestLocations_FilterAndSearch() {
	suite.store.SeedLocations(
		domain.Location{LocationID: "l1", Name: "Haifa Port", NameHe: "נמל חיפה", LocationType: "base"},
		domain.Location{LocationID: "l2", Name: "Eilat", LocationType: "city"},
		domain.Location{LocationID: "l3", Name: "Ashdod Port", LocationType: "base"},
	)

	bases, err := suite.store.ListLocations(suite.ctx, domain.LocationQuery{LocationType: "base"})
	suite.Require().NoError(err)
	suite.Require().Len(bases, 2)
	suite.Equal("Ashdod Port", bases[0].Name)

	found, err := suite.store.ListLocations(suite.ctx, domain.LocationQuery{Search: "חיפה"})
	suite.Require().NoError(err)
	suite.Require().Len(found, 1)
	suite.Equal("l1", found[0].LocationID)

	none, err := suite.store.ListLocations(suite.ctx, domain.LocationQuery{LocationType: "city", Search: "port"})
	suite.Require().NoError(err)
	suite.Empty(none)

	loc, err := suite.store.FindLocationByID(suite.ctx, "l2")
	suite.Require().NoError(err)
	suite.Equal("Eilat", loc.Name)
	_, err = suite.store.FindLocationByID(suite.ctx, "missing")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}
