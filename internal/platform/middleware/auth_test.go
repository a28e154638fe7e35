package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// MockSessionValidator is a testify mock for SessionValidator
type MockSessionValidator struct {
	mock.Mock
}

func (m *MockSessionValidator) Authenticate(ctx context.Context, token string) (*Principal, error) {
	args := m.Called(ctx, token)
	if p := args.Get(0); p != nil {
		return p.(*Principal), args.Error(1)
	}
	return nil, args.Error(1)
}

// mockHandler captures whether it was called and the request context
type mockHandler struct {
	called  bool
	context context.Context
}

func (m *mockHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.called = true
	m.context = r.Context()
	w.WriteHeader(http.StatusOK)
}

type SessionMiddlewareTestSuite struct {
	suite.Suite
	validator   *MockSessionValidator
	logger      *slog.Logger
	nextHandler *mockHandler
	middleware  func(http.Handler) http.Handler
}

func (s *SessionMiddlewareTestSuite) SetupTest() {
	s.validator = new(MockSessionValidator)
	s.logger = slog.Default()
	s.nextHandler = &mockHandler{}
	s.middleware = RequireSession(s.validator, s.logger)
}

func (s *SessionMiddlewareTestSuite) TearDownTest() {
	s.validator.AssertExpectations(s.T())
}

func (s *SessionMiddlewareTestSuite) makeRequest(authHeader string) *httptest.ResponseRecorder {
	handler := s.middleware(s.nextHandler)
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func (s *SessionMiddlewareTestSuite) TestValidToken() {
	principal := &Principal{
		UserID:    "user-123",
		SessionID: "session-456",
		Email:     "alex.morgan@campus.edu",
		Role:      "student",
	}
	s.validator.On("Authenticate", mock.Anything, "valid-token").Return(principal, nil)

	w := s.makeRequest("Bearer valid-token")

	require.True(s.T(), s.nextHandler.called, "next handler should be called")
	assert.Equal(s.T(), http.StatusOK, w.Code)

	got := GetPrincipal(s.nextHandler.context)
	require.NotNil(s.T(), got)
	assert.Equal(s.T(), "user-123", got.UserID)
	assert.Equal(s.T(), "session-456", got.SessionID)
}

func (s *SessionMiddlewareTestSuite) TestInvalidToken() {
	s.validator.On("Authenticate", mock.Anything, "bad-token").Return(nil, errors.New("session expired"))

	w := s.makeRequest("Bearer bad-token")

	assert.False(s.T(), s.nextHandler.called, "next handler should not be called")
	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
	assert.Equal(s.T(), "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(s.T(),
		`{"error":"unauthorized","error_description":"invalid or expired session"}`,
		w.Body.String(),
	)
}

func (s *SessionMiddlewareTestSuite) TestMissingAuthorizationHeader() {
	w := s.makeRequest("")

	assert.False(s.T(), s.nextHandler.called, "next handler should not be called")
	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
	assert.JSONEq(s.T(),
		`{"error":"unauthorized","error_description":"missing bearer token"}`,
		w.Body.String(),
	)
}

func (s *SessionMiddlewareTestSuite) TestInvalidAuthorizationFormats() {
	testCases := []struct {
		name       string
		authHeader string
	}{
		{"no bearer prefix", "token-without-bearer"},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"lowercase bearer", "bearer token"},
		{"bearer without token", "Bearer "},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			nextHandler := &mockHandler{}
			handler := RequireSession(s.validator, s.logger)(nextHandler)

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set("Authorization", tc.authHeader)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.False(s.T(), nextHandler.called, "next handler should not be called")
			assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
		})
	}
}

func TestSessionMiddlewareTestSuite(t *testing.T) {
	suite.Run(t, new(SessionMiddlewareTestSuite))
}

type ManagerMiddlewareTestSuite struct {
	suite.Suite
	logger      *slog.Logger
	nextHandler *mockHandler
	middleware  func(http.Handler) http.Handler
}

func (s *ManagerMiddlewareTestSuite) SetupTest() {
	s.logger = slog.Default()
	s.nextHandler = &mockHandler{}
	s.middleware = RequireRegistrationManager(s.logger)
}

func (s *ManagerMiddlewareTestSuite) makeRequest(principal *Principal) *httptest.ResponseRecorder {
	handler := s.middleware(s.nextHandler)
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if principal != nil {
		req = req.WithContext(WithPrincipal(req.Context(), principal))
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func (s *ManagerMiddlewareTestSuite) TestAdminPasses() {
	w := s.makeRequest(&Principal{UserID: "user-123", Role: "admin"})

	require.True(s.T(), s.nextHandler.called, "next handler should be called")
	assert.Equal(s.T(), http.StatusOK, w.Code)
}

func (s *ManagerMiddlewareTestSuite) TestStudentForbidden() {
	w := s.makeRequest(&Principal{UserID: "user-123", Role: "student"})

	assert.False(s.T(), s.nextHandler.called, "next handler should not be called")
	assert.Equal(s.T(), http.StatusForbidden, w.Code)
	assert.JSONEq(s.T(),
		`{"error":"forbidden","error_description":"administrator capability required"}`,
		w.Body.String(),
	)
}

func (s *ManagerMiddlewareTestSuite) TestNoPrincipalForbidden() {
	w := s.makeRequest(nil)

	assert.False(s.T(), s.nextHandler.called, "next handler should not be called")
	assert.Equal(s.T(), http.StatusForbidden, w.Code)
}

func TestManagerMiddlewareTestSuite(t *testing.T) {
	suite.Run(t, new(ManagerMiddlewareTestSuite))
}

func TestGetPrincipal(t *testing.T) {
	t.Run("missing principal", func(t *testing.T) {
		assert.Nil(t, GetPrincipal(context.Background()))
	})

	t.Run("attached principal", func(t *testing.T) {
		p := &Principal{UserID: "user-123"}
		ctx := WithPrincipal(context.Background(), p)
		assert.Same(t, p, GetPrincipal(ctx))
	})
}
