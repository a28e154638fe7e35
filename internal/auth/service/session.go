package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mssola/useragent"

	"campushub/internal/auth/models"
	"campushub/internal/platform/middleware"
	"campushub/internal/sentinel"
	id "campushub/pkg/domain"
	dErrors "campushub/pkg/domain-errors"
)

// establishSession creates and stores a fully verified credential session
// and mints its access token. Callers hold s.mu.
func (s *Service) establishSession(ctx context.Context, identity *models.Identity, userAgent string) (*models.SessionResult, error) {
	now := s.now()
	session := &models.Session{
		ID:                id.SessionID(uuid.New()),
		IdentityID:        identity.ID,
		Email:             identity.Email,
		Name:              identity.Name,
		Role:              identity.Role,
		DeviceDisplayName: deviceDisplayName(userAgent),
		CreatedAt:         now,
		ExpiresAt:         now.Add(s.cfg.SessionTTL),
	}

	token, err := s.tokens.Generate(identity.ID, session.ID, string(identity.Role), now, session.ExpiresAt)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to mint session token")
	}
	session.Token = token

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save session")
	}

	s.logAudit(ctx, "auth.session_established",
		"identity_id", identity.ID.String(),
		"session_id", session.ID.String(),
		"role", string(identity.Role),
		"device", session.DeviceDisplayName,
	)
	if s.metrics != nil {
		s.metrics.IncrementActiveSessions(1)
	}

	return &models.SessionResult{
		SessionID: session.ID.String(),
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: session.ExpiresAt,
		User: models.UserInfo{
			ID:    identity.ID.String(),
			Email: identity.Email,
			Name:  identity.Name,
			Role:  string(identity.Role),
		},
	}, nil
}

// Logout destroys the credential session.
func (s *Service) Logout(ctx context.Context, sessionID id.SessionID) (err error) {
	ctx, span := s.tracer.Start(ctx, "auth.logout")
	defer func() { span.End(err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "session not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete session")
	}

	s.logAudit(ctx, "auth.session_destroyed", "session_id", sessionID.String())
	if s.metrics != nil {
		s.metrics.DecrementActiveSessions(1)
	}
	return nil
}

// Authenticate resolves a bearer token into the principal attached to the
// request context by the session middleware. Expired sessions are removed
// on sight. Satisfies middleware.SessionValidator.
func (s *Service) Authenticate(ctx context.Context, tokenString string) (*middleware.Principal, error) {
	claims, err := s.tokens.Validate(tokenString)
	if err != nil {
		return nil, err
	}

	sessionID, err := id.ParseSessionID(claims.SessionID)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "malformed session token")
	}

	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "session not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up session")
	}

	if session.Expired(s.now()) {
		_ = s.sessions.Delete(ctx, session.ID)
		if s.metrics != nil {
			s.metrics.DecrementActiveSessions(1)
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "session expired")
	}

	return &middleware.Principal{
		UserID:    session.IdentityID.String(),
		SessionID: session.ID.String(),
		Email:     session.Email,
		Name:      session.Name,
		Role:      string(session.Role),
	}, nil
}

// deviceDisplayName turns a User-Agent header into a short human-readable
// label for the session, e.g. "Chrome on Mac OS X".
func deviceDisplayName(userAgentString string) string {
	if userAgentString == "" {
		return "Unknown device"
	}
	ua := useragent.New(userAgentString)
	browser, _ := ua.Browser()
	os := ua.OSInfo().Name
	if browser == "" {
		browser = "Unknown browser"
	}
	if os == "" {
		return browser
	}
	return browser + " on " + os
}
