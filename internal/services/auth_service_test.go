package services

import (
	"strings"

	"github.com/yukikurage/project-board-api/internal/auth"
	apierrors "github.com/yukikurage/project-board-api/internal/errors"
)

func (s *serviceSuite) TestRegister_NormalizesEmailAndHashes() {
	user, err := s.auth.Register(RegisterInput{Email: "  Alice@Example.COM ", Password: "secret"})
	s.Require().NoError(err)

	s.Equal("alice@example.com", user.Email)
	s.NotEqual("secret", user.PasswordHash)
	s.NotEmpty(user.ID)
}

func (s *serviceSuite) TestRegister_Validation() {
	_, err := s.auth.Register(RegisterInput{Email: " ", Password: "secret"})
	s.ErrorIs(err, ErrEmailRequired)

	_, err = s.auth.Register(RegisterInput{Email: "a@example.com"})
	s.ErrorIs(err, ErrPasswordRequired)
}

func (s *serviceSuite) TestRegister_DuplicateEmail() {
	s.register("dup@example.com")

	_, err := s.auth.Register(RegisterInput{Email: "DUP@example.com", Password: "other"})
	s.ErrorIs(err, ErrEmailTaken)
	s.Equal(apierrors.KindConflict, apierrors.KindOf(err))
}

func (s *serviceSuite) TestLogin() {
	s.register("login@example.com")

	result, err := s.auth.Login(LoginInput{Email: "login@example.com", Password: "password123"})
	s.Require().NoError(err)
	s.NotEmpty(result.Token)
	s.Equal("login@example.com", result.User.Email)

	_, err = s.auth.Login(LoginInput{Email: "login@example.com", Password: "wrong"})
	s.ErrorIs(err, ErrInvalidCredentials)

	_, err = s.auth.Login(LoginInput{Email: "nobody@example.com", Password: "password123"})
	s.ErrorIs(err, ErrInvalidCredentials)
	s.Equal(apierrors.KindInvalidCredentials, apierrors.KindOf(err))
}

func (s *serviceSuite) TestRegister_PasswordTooLong() {
	_, err := s.auth.Register(RegisterInput{Email: "long@example.com", Password: strings.Repeat("a", 73)})
	s.ErrorIs(err, auth.ErrPasswordTooLong)
	s.Equal(apierrors.KindValidation, apierrors.KindOf(err))

	_, err = s.auth.Login(LoginInput{Email: "long@example.com", Password: strings.Repeat("a", 73)})
	s.ErrorIs(err, ErrInvalidCredentials)

	_, err = s.auth.Register(RegisterInput{Email: "long@example.com", Password: strings.Repeat("a", 72)})
	s.NoError(err)
}
