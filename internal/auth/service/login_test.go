package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/mock/gomock"

	"campushub/internal/notify"
	id "campushub/pkg/domain"
	dErrors "campushub/pkg/domain-errors"
)

func (s *ServiceSuite) TestLogin_UnknownEmail() {
	_, err := s.login("nobody@campus.edu", "whatever-pass")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidCredentials))
}

func (s *ServiceSuite) TestLogin_WrongPassword() {
	_, err := s.login(studentEmail, "wrong-password")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidCredentials))

	// Message must not reveal whether the email exists.
	_, unknownErr := s.login("nobody@campus.edu", "whatever-pass")
	s.Equal(unknownErr.Error(), err.Error())
}

func (s *ServiceSuite) TestLogin_StudentGetsSessionDirectly() {
	res, err := s.login(studentEmail, studentPass)
	s.Require().NoError(err)

	s.False(res.ChallengeRequired)
	s.Require().NotNil(res.Session)
	s.NotEmpty(res.Session.Token)
	s.Equal("Bearer", res.Session.TokenType)
	s.Equal(studentEmail, res.Session.User.Email)
	s.Equal("student", res.Session.User.Role)

	// No challenge, no notification.
	s.Empty(s.delivered)
}

func (s *ServiceSuite) TestLogin_AdminGetsChallenge() {
	s.expectDelivery()

	res, err := s.login(adminEmail, adminPassword)
	s.Require().NoError(err)

	s.True(res.ChallengeRequired)
	s.Nil(res.Session, "no session before verification")
	s.Require().NotNil(res.ChallengeExpiresAt)
	s.Equal(s.clock.Add(5*time.Minute), *res.ChallengeExpiresAt)

	// The code travels only through the notification channel.
	s.Require().Len(s.delivered, 1)
	msg := s.delivered[0]
	s.Equal(adminEmail, msg.Recipient)
	s.Equal(notify.KindOneTimeCode, msg.Kind)
	s.Contains(msg.Body, s.nextCode)
}

func (s *ServiceSuite) TestLogin_NewLoginReplacesPendingChallenge() {
	s.expectDelivery()

	_, err := s.login(adminEmail, adminPassword)
	s.Require().NoError(err)

	s.nextCode = "771234"
	_, err = s.login(adminEmail, adminPassword)
	s.Require().NoError(err)

	// The first code no longer verifies.
	_, err = s.verify(adminEmail, "042137")
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidCode))

	res, err := s.verify(adminEmail, "771234")
	s.Require().NoError(err)
	s.Equal(adminEmail, res.User.Email)
}

func (s *ServiceSuite) TestLogin_DeliveryFailureClearsChallenge() {
	s.mockNotifier.EXPECT().
		Send(gomock.Any(), gomock.Any()).
		Return(fmt.Errorf("smtp unreachable"))

	_, err := s.login(adminEmail, adminPassword)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))

	// No half-issued challenge is left behind.
	_, err = s.verify(adminEmail, s.nextCode)
	s.True(dErrors.HasCode(err, dErrors.CodeNoChallenge))
}

func (s *ServiceSuite) TestLogin_SessionRecordsDevice() {
	res, err := s.login(studentEmail, studentPass)
	s.Require().NoError(err)

	sessionID, parseErr := id.ParseSessionID(res.Session.SessionID)
	s.Require().NoError(parseErr)
	stored, findErr := s.sessions.FindByID(context.Background(), sessionID)
	s.Require().NoError(findErr)
	s.Contains(stored.DeviceDisplayName, "Chrome")
}
