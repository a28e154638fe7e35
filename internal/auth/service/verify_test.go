package service

import (
	"context"
	"time"

	"campushub/internal/auth/models"
	id "campushub/pkg/domain"
	dErrors "campushub/pkg/domain-errors"
)

func (s *ServiceSuite) TestVerify_NoPendingChallenge() {
	_, err := s.verify(adminEmail, "123456")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNoChallenge))
}

func (s *ServiceSuite) TestVerify_CorrectCodeEstablishesSession() {
	s.expectDelivery()
	_, err := s.login(adminEmail, adminPassword)
	s.Require().NoError(err)

	res, err := s.verify(adminEmail, s.nextCode)
	s.Require().NoError(err)
	s.Equal(adminEmail, res.User.Email)
	s.Equal("admin", res.User.Role)
	s.NotEmpty(res.Token)

	// Challenge is single-use.
	_, err = s.verify(adminEmail, s.nextCode)
	s.True(dErrors.HasCode(err, dErrors.CodeNoChallenge))
}

func (s *ServiceSuite) TestVerify_ExpiredChallenge() {
	s.expectDelivery()
	_, err := s.login(adminEmail, adminPassword)
	s.Require().NoError(err)

	s.clock = s.clock.Add(5*time.Minute + time.Second)

	_, err = s.verify(adminEmail, s.nextCode)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeChallengeExpired))

	// The expired challenge is cleared, so even a fresh attempt sees none.
	_, err = s.verify(adminEmail, s.nextCode)
	s.True(dErrors.HasCode(err, dErrors.CodeNoChallenge))
}

func (s *ServiceSuite) TestVerify_WrongCodeThenRightCode() {
	s.expectDelivery()
	_, err := s.login(adminEmail, adminPassword)
	s.Require().NoError(err)

	_, err = s.verify(adminEmail, "000000")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidCode))

	// The challenge survives a wrong guess within the attempt budget.
	res, err := s.verify(adminEmail, s.nextCode)
	s.Require().NoError(err)
	s.Equal(adminEmail, res.User.Email)
}

func (s *ServiceSuite) TestVerify_AttemptBudgetExhausted() {
	s.expectDelivery()
	_, err := s.login(adminEmail, adminPassword)
	s.Require().NoError(err)

	for range 3 {
		_, err = s.verify(adminEmail, "000000")
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidCode))
	}

	// Budget spent: the correct code no longer works.
	_, err = s.verify(adminEmail, s.nextCode)
	s.True(dErrors.HasCode(err, dErrors.CodeNoChallenge))
}

func (s *ServiceSuite) TestResend_InvalidatesOldCodeAndResetsWindow() {
	s.expectDelivery()
	_, err := s.login(adminEmail, adminPassword)
	s.Require().NoError(err)

	s.clock = s.clock.Add(4 * time.Minute)
	s.nextCode = "900001"
	res, err := s.service.ResendCode(context.Background(), &models.ResendCodeRequest{Email: adminEmail})
	s.Require().NoError(err)
	s.Equal(s.clock.Add(5*time.Minute), res.ExpiresAt)

	// Old code is dead immediately.
	_, err = s.verify(adminEmail, "042137")
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidCode))

	// The new code works even past the original window.
	s.clock = s.clock.Add(2 * time.Minute)
	session, err := s.verify(adminEmail, "900001")
	s.Require().NoError(err)
	s.Equal(adminEmail, session.User.Email)
}

func (s *ServiceSuite) TestResend_NoPendingChallenge() {
	_, err := s.service.ResendCode(context.Background(), &models.ResendCodeRequest{Email: studentEmail})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNoChallenge))
}

func (s *ServiceSuite) TestLogout() {
	res, err := s.login(studentEmail, studentPass)
	s.Require().NoError(err)

	sessionID, err := id.ParseSessionID(res.Session.SessionID)
	s.Require().NoError(err)

	s.Require().NoError(s.service.Logout(context.Background(), sessionID))

	err = s.service.Logout(context.Background(), sessionID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestAuthenticate() {
	res, err := s.login(studentEmail, studentPass)
	s.Require().NoError(err)

	principal, err := s.service.Authenticate(context.Background(), res.Session.Token)
	s.Require().NoError(err)
	s.Equal(studentEmail, principal.Email)
	s.False(principal.CanManageRegistrations())

	s.Run("expired session is rejected and removed", func() {
		s.clock = s.clock.Add(2 * time.Hour)
		_, err := s.service.Authenticate(context.Background(), res.Session.Token)
		s.Require().Error(err)
	})
}

func (s *ServiceSuite) TestAuthenticate_AdminHasManagementCapability() {
	s.expectDelivery()
	_, err := s.login(adminEmail, adminPassword)
	s.Require().NoError(err)
	session, err := s.verify(adminEmail, s.nextCode)
	s.Require().NoError(err)

	principal, err := s.service.Authenticate(context.Background(), session.Token)
	s.Require().NoError(err)
	s.True(principal.CanManageRegistrations())
}
