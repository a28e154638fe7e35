package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"campushub/internal/auth/models"
	"campushub/internal/auth/otp"
	"campushub/internal/auth/token"
	"campushub/internal/notify"
	"campushub/internal/platform/metrics"
	"campushub/internal/platform/middleware"
	"campushub/internal/platform/tracer"
	"campushub/internal/sentinel"
	id "campushub/pkg/domain"
	dErrors "campushub/pkg/domain-errors"
)

// IdentityStore defines the read interface for the registered identity store.
// Error Contract: Find methods return sentinel.ErrNotFound when the entity doesn't exist.
type IdentityStore interface {
	FindByEmail(ctx context.Context, email string) (*models.Identity, error)
	FindByID(ctx context.Context, identityID id.StudentID) (*models.Identity, error)
}

// SessionStore defines the persistence interface for credential sessions.
// Error Contract: Find methods return sentinel.ErrNotFound when the entity doesn't exist.
type SessionStore interface {
	Save(ctx context.Context, session *models.Session) error
	FindByID(ctx context.Context, sessionID id.SessionID) (*models.Session, error)
	Delete(ctx context.Context, sessionID id.SessionID) error
}

// ChallengeStore defines the persistence interface for pending challenges.
// Error Contract: Find methods return sentinel.ErrNotFound when the entity doesn't exist.
type ChallengeStore interface {
	Save(ctx context.Context, ch *models.PendingChallenge) error
	FindByEmail(ctx context.Context, email string) (*models.PendingChallenge, error)
	Delete(ctx context.Context, email string) error
}

// TokenService mints and validates signed session tokens.
type TokenService interface {
	Generate(identityID id.StudentID, sessionID id.SessionID, role string, issuedAt, expiresAt time.Time) (string, error)
	Validate(tokenString string) (*token.SessionClaims, error)
}

// Config carries the tunable knobs of the step-up flow.
type Config struct {
	ChallengeTTL      time.Duration
	SessionTTL        time.Duration
	MaxVerifyAttempts int
}

const (
	defaultChallengeTTL      = 5 * time.Minute
	defaultSessionTTL        = time.Hour
	defaultMaxVerifyAttempts = 5
)

// Service implements the step-up authentication flow: credential check,
// one-time-code challenge for privileged roles, session establishment.
type Service struct {
	identities IdentityStore
	sessions   SessionStore
	challenges ChallengeStore
	notifier   notify.Notifier
	tokens     TokenService
	cfg        Config

	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  tracer.Tracer
	now     func() time.Time
	newCode func() (string, error)

	// mu serializes mutating operations so no call observes a
	// partially-applied login or verification.
	mu sync.Mutex
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithClock overrides the wall clock. Tests use this to advance time past
// the challenge expiry without sleeping.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithCodeGenerator overrides one-time-code generation for tests.
func WithCodeGenerator(gen func() (string, error)) Option {
	return func(s *Service) {
		if gen != nil {
			s.newCode = gen
		}
	}
}

func NewService(identities IdentityStore, sessions SessionStore, challenges ChallengeStore, notifier notify.Notifier, tokens TokenService, cfg Config, opts ...Option) *Service {
	if cfg.ChallengeTTL <= 0 {
		cfg.ChallengeTTL = defaultChallengeTTL
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = defaultSessionTTL
	}
	if cfg.MaxVerifyAttempts <= 0 {
		cfg.MaxVerifyAttempts = defaultMaxVerifyAttempts
	}

	svc := &Service{
		identities: identities,
		sessions:   sessions,
		challenges: challenges,
		notifier:   notifier,
		tokens:     tokens,
		cfg:        cfg,
		now:        time.Now,
		newCode:    otp.GenerateCode,
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	if svc.tracer == nil {
		svc.tracer = tracer.Noop()
	}
	return svc
}

// Login performs the credential check. Privileged identities get a pending
// challenge whose code travels only through the notification channel; other
// identities get a session immediately.
func (s *Service) Login(ctx context.Context, req *models.LoginRequest, userAgent string) (result *models.LoginResult, err error) {
	ctx, span := s.tracer.Start(ctx, "auth.login")
	defer func() { span.End(err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	identity, err := s.identities.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.logAuthFailure(ctx, "unknown_email", false, "email", req.Email)
			return nil, errInvalidCredentials()
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up identity")
	}

	if bcrypt.CompareHashAndPassword(identity.PasswordHash, []byte(req.Password)) != nil {
		s.logAuthFailure(ctx, "password_mismatch", false, "identity_id", identity.ID.String())
		return nil, errInvalidCredentials()
	}

	if !identity.Role.Privileged() {
		session, err := s.establishSession(ctx, identity, userAgent)
		if err != nil {
			return nil, err
		}
		return &models.LoginResult{Session: session}, nil
	}

	now := s.now()
	code, err := s.newCode()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate one-time code")
	}

	ch := &models.PendingChallenge{
		Email:     identity.Email,
		Code:      code,
		Identity:  *identity,
		MaxTries:  s.cfg.MaxVerifyAttempts,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.ChallengeTTL),
	}
	if err := s.challenges.Save(ctx, ch); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save challenge")
	}

	if err := s.deliverCode(ctx, ch); err != nil {
		// A challenge the user can never learn the code for is dead weight.
		_ = s.challenges.Delete(ctx, ch.Email)
		return nil, err
	}

	s.logAudit(ctx, "auth.challenge_issued",
		"identity_id", identity.ID.String(),
		"expires_at", ch.ExpiresAt.Format(time.RFC3339),
	)
	if s.metrics != nil {
		s.metrics.IncrementChallengesIssued()
	}

	expiresAt := ch.ExpiresAt
	return &models.LoginResult{
		ChallengeRequired:  true,
		ChallengeExpiresAt: &expiresAt,
	}, nil
}

func (s *Service) deliverCode(ctx context.Context, ch *models.PendingChallenge) error {
	err := s.notifier.Send(ctx, notify.Message{
		Recipient: ch.Email,
		Kind:      notify.KindOneTimeCode,
		Subject:   "Your verification code",
		Body:      "Your one-time code is " + ch.Code + ". It expires in " + s.cfg.ChallengeTTL.String() + ".",
	})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to deliver one-time code")
	}
	return nil
}

func errInvalidCredentials() error {
	// Uniform message: callers must not be able to tell unknown email from
	// wrong password.
	return dErrors.New(dErrors.CodeInvalidCredentials, "invalid email or password")
}

func (s *Service) logAudit(ctx context.Context, event string, attributes ...any) {
	if requestID := middleware.GetRequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", event, "log_type", "audit")
	s.logger.InfoContext(ctx, event, args...)
}

func (s *Service) logAuthFailure(ctx context.Context, reason string, isError bool, attributes ...any) {
	if requestID := middleware.GetRequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", "auth.failed", "reason", reason, "log_type", "standard")
	if isError {
		s.logger.ErrorContext(ctx, "auth.failed", args...)
	} else {
		s.logger.WarnContext(ctx, "auth.failed", args...)
	}
	if s.metrics != nil {
		s.metrics.IncrementAuthFailures(reason)
	}
}
