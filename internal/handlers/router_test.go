package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/SscSPs/unit_availability_app/internal/apperrors"
	"github.com/SscSPs/unit_availability_app/internal/core/domain"
	portssvc "github.com/SscSPs/unit_availability_app/internal/core/ports/services"
	"github.com/SscSPs/unit_availability_app/internal/core/services"
	"github.com/SscSPs/unit_availability_app/internal/dto"
	"github.com/SscSPs/unit_availability_app/internal/handlers"
	"github.com/SscSPs/unit_availability_app/internal/metrics"
	"github.com/SscSPs/unit_availability_app/internal/notify"
	"github.com/SscSPs/unit_availability_app/internal/ratelimit"
	"github.com/SscSPs/unit_availability_app/internal/repositories/memory"
	"github.com/SscSPs/unit_availability_app/internal/utils"
	"github.com/SscSPs/unit_availability_app/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/ulule/limiter/v3"
)

type discardDispatcher struct{}

func (discardDispatcher) Submit(notify.Email) error { return nil }

type RouterTestSuite struct {
	suite.Suite
	cfg      *config.Config
	store    *memory.Store
	services *portssvc.ServiceContainer
	router   *gin.Engine

	unitID     string
	adminID    string
	adminToken string
}

func TestRouterTestSuite(t *testing.T) {
	gin.SetMode(gin.TestMode)
	suite.Run(t, new(RouterTestSuite))
}

func (s *RouterTestSuite) SetupTest() {
	ctx := context.Background()
	s.cfg = &config.Config{
		JWTSecret:                  "router-test-secret",
		JWTExpiryDuration:          time.Hour,
		JWTIssuer:                  "router-test",
		RefreshTokenExpiryDuration: 24 * time.Hour,
		OTPExpiryMinutes:           10,
		OTPDebugExpose:             true,
	}
	s.store = memory.NewStore()
	s.services = services.NewServiceContainer(s.cfg, memory.NewRepositoryProvider(s.store), services.Dependencies{
		OTPLimiter: ratelimit.NewMemory(limiter.Rate{Period: time.Hour, Limit: 5}, "otp"),
		Dispatcher: discardDispatcher{},
	})
	s.router = s.newRouter(handlers.RouterDeps{Metrics: metrics.New()})

	now := time.Now().UTC()
	s.unitID = uuid.NewString()
	s.Require().NoError(s.store.SaveUnit(ctx, domain.Unit{UnitID: s.unitID, Name: "HQ", UnitType: domain.UnitTypeUnit, CreatedAt: now, UpdatedAt: now}))

	s.adminID = uuid.NewString()
	s.Require().NoError(s.store.CreateUser(ctx,
		domain.User{UserID: s.adminID, Email: "admin@example.com", IsActive: true, IsApproved: true, IsStaff: true, CreatedAt: now, UpdatedAt: now},
		&domain.Profile{UserID: s.adminID, Role: domain.RoleAdmin, CreatedAt: now, UpdatedAt: now},
	))
	s.adminToken = s.tokenFor(s.adminID, "admin@example.com")
}

func (s *RouterTestSuite) newRouter(deps handlers.RouterDeps) *gin.Engine {
	r := gin.New()
	handlers.RegisterRoutes(r, s.cfg, s.services, deps)
	return r
}

func (s *RouterTestSuite) tokenFor(userID, email string) string {
	token, _, err := utils.GenerateJWT(userID, email, s.cfg.JWTSecret, time.Hour, s.cfg.JWTIssuer, time.Now())
	s.Require().NoError(err)
	return token
}

func (s *RouterTestSuite) do(r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func (s *RouterTestSuite) decode(w *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func (s *RouterTestSuite) TestHealthAndMetrics() {
	w := s.do(s.router, http.MethodGet, "/health", "", nil)
	s.Equal(http.StatusOK, w.Code)
	var health handlers.HealthResponse
	s.decode(w, &health)
	s.Equal("ok", health.Status)

	w = s.do(s.router, http.MethodGet, "/metrics", "", nil)
	s.Equal(http.StatusOK, w.Code)
}

func (s *RouterTestSuite) TestProtectedRoutesNeedToken() {
	w := s.do(s.router, http.MethodGet, "/api/v1/users/me", "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)

	w = s.do(s.router, http.MethodGet, "/api/v1/users/me", "not-a-jwt", nil)
	s.Equal(http.StatusUnauthorized, w.Code)

	ghost := s.tokenFor(uuid.NewString(), "ghost@example.com")
	w = s.do(s.router, http.MethodGet, "/api/v1/users/me", ghost, nil)
	s.Equal(http.StatusUnauthorized, w.Code, "tokens of unknown users are refused")
}

func (s *RouterTestSuite) TestRegistrationToSession() {
	w := s.do(s.router, http.MethodPost, "/api/v1/auth/register", "", dto.RegisterRequest{
		Email: "new@example.com", FirstName: "Noa", LastName: "Levi", UnitID: &s.unitID,
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var reg dto.RegisterResponse
	s.decode(w, &reg)
	s.Equal(string(domain.AccessRequestPending), reg.Status)

	w = s.do(s.router, http.MethodPost, "/api/v1/auth/request-otp", "", dto.RequestOTPRequest{Email: "new@example.com"})
	s.Equal(http.StatusForbidden, w.Code, "pending users cannot request codes")

	w = s.do(s.router, http.MethodGet, "/api/v1/access-requests?status=pending", s.adminToken, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var list dto.ListAccessRequestsResponse
	s.decode(w, &list)
	s.Require().Equal(1, list.Count)
	s.Equal(reg.AccessRequestID, list.Requests[0].AccessRequestID)

	w = s.do(s.router, http.MethodPost, "/api/v1/access-requests/"+reg.AccessRequestID+"/approve", s.adminToken, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var approval dto.ApproveAccessRequestResponse
	s.decode(w, &approval)
	s.Equal(string(domain.AccessRequestApproved), approval.Request.Status)
	s.Len(approval.OTPCode, 6)

	w = s.do(s.router, http.MethodPost, "/api/v1/access-requests/"+reg.AccessRequestID+"/approve", s.adminToken, nil)
	s.Equal(http.StatusBadRequest, w.Code, "approving twice is a client error")

	w = s.do(s.router, http.MethodPost, "/api/v1/auth/verify-otp", "", dto.VerifyOTPRequest{Email: "new@example.com", Code: "000000"})
	if approval.OTPCode != "000000" {
		s.Equal(http.StatusBadRequest, w.Code)
		var errResp handlers.ErrorResponse
		s.decode(w, &errResp)
		s.Equal(apperrors.ErrInvalidOrExpiredCode.Error(), errResp.Error)
	}

	w = s.do(s.router, http.MethodPost, "/api/v1/auth/verify-otp", "", dto.VerifyOTPRequest{Email: "new@example.com", Code: approval.OTPCode})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var session dto.LoginResponse
	s.decode(w, &session)
	s.NotEmpty(session.AccessToken)
	s.Require().NotNil(session.User)
	s.Equal(reg.UserID, session.User.UserID)

	w = s.do(s.router, http.MethodGet, "/api/v1/users/me", session.AccessToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var me dto.UserResponse
	s.decode(w, &me)
	s.Equal("new@example.com", me.Email)
	s.Equal(string(domain.RoleUser), me.Role)

	w = s.do(s.router, http.MethodPost, "/api/v1/auth/refresh", "", dto.RefreshTokenRequest{UserID: reg.UserID, RefreshToken: session.RefreshToken})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = s.do(s.router, http.MethodPost, "/api/v1/auth/logout", session.AccessToken, nil)
	s.Equal(http.StatusNoContent, w.Code)
}

func (s *RouterTestSuite) TestRegisterValidation() {
	w := s.do(s.router, http.MethodPost, "/api/v1/auth/register", "", map[string]string{"email": "not-an-email"})
	s.Equal(http.StatusBadRequest, w.Code)

	body := dto.RegisterRequest{Email: "twice@example.com"}
	s.Equal(http.StatusCreated, s.do(s.router, http.MethodPost, "/api/v1/auth/register", "", body).Code)
	s.Equal(http.StatusConflict, s.do(s.router, http.MethodPost, "/api/v1/auth/register", "", body).Code)
}

func (s *RouterTestSuite) TestPlainUserIsForbiddenFromManagerRoutes() {
	now := time.Now().UTC()
	userID := uuid.NewString()
	s.Require().NoError(s.store.CreateUser(context.Background(),
		domain.User{UserID: userID, Email: "plain@example.com", IsActive: true, IsApproved: true, CreatedAt: now, UpdatedAt: now},
		&domain.Profile{UserID: userID, Role: domain.RoleUser, UnitID: &s.unitID, CreatedAt: now, UpdatedAt: now},
	))
	token := s.tokenFor(userID, "plain@example.com")

	s.Equal(http.StatusForbidden, s.do(s.router, http.MethodGet, "/api/v1/access-requests", token, nil).Code)
	s.Equal(http.StatusForbidden, s.do(s.router, http.MethodGet, "/api/v1/users/approved", token, nil).Code)
	s.Equal(http.StatusForbidden, s.do(s.router, http.MethodPost, "/api/v1/units", token, dto.CreateUnitRequest{Name: "x", UnitType: "team"}).Code)
	s.Equal(http.StatusForbidden, s.do(s.router, http.MethodPost, "/api/v1/alerts/send", token, dto.SendAlertRequest{Subject: "s", Message: "m", SendTo: "all"}).Code)
}

func (s *RouterTestSuite) TestReportsPaging() {
	today := time.Now().UTC()
	for _, day := range []time.Time{today, today.AddDate(0, 0, -1)} {
		w := s.do(s.router, http.MethodPost, "/api/v1/reports", s.adminToken, dto.CreateReportRequest{
			Date: day.Format(dto.DateLayout), Status: "available",
		})
		s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	}

	w := s.do(s.router, http.MethodPost, "/api/v1/reports", s.adminToken, dto.CreateReportRequest{Date: today.Format(dto.DateLayout), Status: "partial"})
	s.Equal(http.StatusConflict, w.Code)

	w = s.do(s.router, http.MethodPost, "/api/v1/reports", s.adminToken, dto.CreateReportRequest{Date: today.AddDate(0, 0, 2).Format(dto.DateLayout), Status: "available"})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(s.router, http.MethodGet, "/api/v1/reports?limit=1", s.adminToken, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var page dto.ListReportsResponse
	s.decode(w, &page)
	s.Require().Len(page.Reports, 1)
	s.Equal(today.Format(dto.DateLayout), page.Reports[0].Date)
	s.Require().NotEmpty(page.NextPageToken)

	w = s.do(s.router, http.MethodGet, "/api/v1/reports?limit=1&pageToken="+url.QueryEscape(page.NextPageToken), s.adminToken, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var next dto.ListReportsResponse
	s.decode(w, &next)
	s.Require().Len(next.Reports, 1)
	s.Equal(today.AddDate(0, 0, -1).Format(dto.DateLayout), next.Reports[0].Date)

	w = s.do(s.router, http.MethodGet, "/api/v1/reports?pageToken=%21%21", s.adminToken, nil)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(s.router, http.MethodGet, "/api/v1/reports?from=2026-10-10&to=2026-10-01", s.adminToken, nil)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(s.router, http.MethodGet, "/api/v1/reports/export", s.adminToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Header().Get("Content-Disposition"), ".xlsx")
	s.NotZero(w.Body.Len())
}

func (s *RouterTestSuite) TestUnitRoutes() {
	w := s.do(s.router, http.MethodPost, "/api/v1/units", s.adminToken, dto.CreateUnitRequest{Name: "Team A", UnitType: "team", ParentID: &s.unitID})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var team dto.UnitResponse
	s.decode(w, &team)

	w = s.do(s.router, http.MethodGet, "/api/v1/units/"+team.UnitID, s.adminToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var detail dto.UnitDetailResponse
	s.decode(w, &detail)
	s.Require().Len(detail.Ancestors, 1)
	s.Equal(s.unitID, detail.Ancestors[0].UnitID)

	w = s.do(s.router, http.MethodPut, "/api/v1/units/"+s.unitID, s.adminToken, dto.UpdateUnitRequest{ParentID: &team.UnitID})
	s.Equal(http.StatusBadRequest, w.Code, "moving a unit below its own descendant is refused")

	w = s.do(s.router, http.MethodGet, "/api/v1/units?parentId="+s.unitID, s.adminToken, nil)
	s.Equal(http.StatusOK, w.Code)

	w = s.do(s.router, http.MethodDelete, "/api/v1/units/"+s.unitID, s.adminToken, nil)
	s.Equal(http.StatusNoContent, w.Code)

	w = s.do(s.router, http.MethodGet, "/api/v1/units/"+team.UnitID, s.adminToken, nil)
	s.Equal(http.StatusNotFound, w.Code, "descendants go with their parent")
}

func (s *RouterTestSuite) TestAuthRoutesAreRateLimited() {
	r := s.newRouter(handlers.RouterDeps{
		AuthLimiter: ratelimit.NewMemory(limiter.Rate{Period: time.Minute, Limit: 2}, "auth-ip"),
	})
	body := dto.RequestOTPRequest{Email: "nobody@example.com"}

	for i := 0; i < 2; i++ {
		w := s.do(r, http.MethodPost, "/api/v1/auth/request-otp", "", body)
		s.Equal(http.StatusNotFound, w.Code)
		s.NotEmpty(w.Header().Get("X-RateLimit-Limit"))
	}
	w := s.do(r, http.MethodPost, "/api/v1/auth/request-otp", "", body)
	s.Equal(http.StatusTooManyRequests, w.Code)

	w = s.do(r, http.MethodGet, "/health", "", nil)
	s.Equal(http.StatusOK, w.Code, "only auth routes are limited")
}
