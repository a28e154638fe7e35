package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"campushub/internal/auth/models"
	"campushub/internal/sentinel"
	dErrors "campushub/pkg/domain-errors"
)

// VerifyCode checks a one-time code against the pending challenge for the
// email. A wrong code keeps the challenge alive (within the attempt budget)
// so the user can retry until expiry; the right code establishes a session
// and clears the challenge.
func (s *Service) VerifyCode(ctx context.Context, req *models.VerifyCodeRequest, userAgent string) (result *models.SessionResult, err error) {
	ctx, span := s.tracer.Start(ctx, "auth.verify_code")
	defer func() { span.End(err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	ch, err := s.challenges.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.logAuthFailure(ctx, "no_pending_challenge", false, "email", req.Email)
			return nil, dErrors.New(dErrors.CodeNoChallenge, "no pending verification for this login")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up challenge")
	}

	if ch.Expired(s.now()) {
		_ = s.challenges.Delete(ctx, ch.Email)
		s.logAuthFailure(ctx, "challenge_expired", false, "identity_id", ch.Identity.ID.String())
		return nil, dErrors.New(dErrors.CodeChallengeExpired, "one-time code expired, request a new one")
	}

	if subtle.ConstantTimeCompare([]byte(req.Code), []byte(ch.Code)) != 1 {
		if !ch.RecordAttempt() {
			_ = s.challenges.Delete(ctx, ch.Email)
			s.logAuthFailure(ctx, "attempts_exhausted", false, "identity_id", ch.Identity.ID.String())
			return nil, dErrors.New(dErrors.CodeInvalidCode, "incorrect one-time code")
		}
		if saveErr := s.challenges.Save(ctx, ch); saveErr != nil {
			return nil, dErrors.Wrap(saveErr, dErrors.CodeInternal, "failed to record attempt")
		}
		s.logAuthFailure(ctx, "invalid_code", false,
			"identity_id", ch.Identity.ID.String(),
			"attempts", ch.Attempts,
		)
		return nil, dErrors.New(dErrors.CodeInvalidCode, "incorrect one-time code")
	}

	if err := s.challenges.Delete(ctx, ch.Email); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to clear challenge")
	}

	identity := ch.Identity
	return s.establishSession(ctx, &identity, userAgent)
}

// ResendCode regenerates the code for the pending challenge and resets the
// expiry window. The previous code stops working immediately.
func (s *Service) ResendCode(ctx context.Context, req *models.ResendCodeRequest) (result *models.ResendResult, err error) {
	ctx, span := s.tracer.Start(ctx, "auth.resend_code")
	defer func() { span.End(err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	ch, err := s.challenges.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.logAuthFailure(ctx, "no_pending_challenge", false, "email", req.Email)
			return nil, dErrors.New(dErrors.CodeNoChallenge, "no pending verification for this login")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up challenge")
	}

	code, err := s.newCode()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate one-time code")
	}
	ch.Refresh(code, s.now(), s.cfg.ChallengeTTL)

	if err := s.challenges.Save(ctx, ch); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save challenge")
	}
	if err := s.deliverCode(ctx, ch); err != nil {
		return nil, err
	}

	s.logAudit(ctx, "auth.challenge_resent",
		"identity_id", ch.Identity.ID.String(),
		"expires_at", ch.ExpiresAt.Format(time.RFC3339),
	)
	if s.metrics != nil {
		s.metrics.IncrementChallengesIssued()
	}

	return &models.ResendResult{ExpiresAt: ch.ExpiresAt}, nil
}
