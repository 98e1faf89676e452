package services

import (
	"strings"

	"github.com/yukikurage/project-board-api/internal/access"
	"github.com/yukikurage/project-board-api/internal/auth"
	apierrors "github.com/yukikurage/project-board-api/internal/errors"
	"github.com/yukikurage/project-board-api/internal/models"
)

func (s *serviceSuite) TestUpdateUser() {
	alice := s.register("alice@example.com")
	bob := s.register("bob@example.com")

	_, err := s.users.UpdateUser(bob, alice.UserID, UpdateUserInput{Email: "x@example.com"})
	s.Equal(access.ReasonOtherUser, err.Error())

	_, err = s.users.UpdateUser(alice, "missing", UpdateUserInput{Email: "x@example.com"})
	s.ErrorIs(err, ErrUserNotFound)

	_, err = s.users.UpdateUser(alice, alice.UserID, UpdateUserInput{Email: ""})
	s.ErrorIs(err, ErrEmailRequired)

	_, err = s.users.UpdateUser(alice, alice.UserID, UpdateUserInput{Email: "BOB@example.com"})
	s.ErrorIs(err, ErrEmailTaken)

	updated, err := s.users.UpdateUser(alice, alice.UserID, UpdateUserInput{
		Email:    "alice2@example.com",
		Password: strPtr("new-password"),
	})
	s.Require().NoError(err)
	s.Equal("alice2@example.com", updated.Email)

	_, err = s.auth.Login(LoginInput{Email: "alice2@example.com", Password: "password123"})
	s.ErrorIs(err, ErrInvalidCredentials)

	_, err = s.auth.Login(LoginInput{Email: "alice2@example.com", Password: "new-password"})
	s.NoError(err)
}

func (s *serviceSuite) TestDeleteUser_Cascades() {
	owner := s.register("owner@example.com")
	member := s.register("member@example.com")

	owned := s.createProject(owner, "Owned")
	joined := s.createProject(member, "Joined")
	s.invite(member, joined.ID, owner)
	s.invite(owner, owned.ID, member)

	ownedTask := s.createTask(member, owned.ID, "in owned project")
	assigned := s.createTask(owner, joined.ID, "owner's task elsewhere")

	s.Equal(access.ReasonOtherUser, s.users.DeleteUser(member, owner.UserID).Error())
	s.Require().NoError(s.users.DeleteUser(owner, owner.UserID))

	_, err := s.users.GetUser(owner.UserID)
	s.ErrorIs(err, ErrUserNotFound)

	_, err = s.projects.GetProject(member, owned.ID)
	s.ErrorIs(err, access.ErrProjectNotFound)

	_, err = s.tasks.GetTask(member, ownedTask.ID)
	s.ErrorIs(err, access.ErrTaskNotFound)

	s.Nil(s.loadTask(assigned.ID).AssigneeID)

	var memberships int64
	s.Require().NoError(s.db.Model(&models.Membership{}).Where("user_id = ?", owner.UserID).Count(&memberships).Error)
	s.Zero(memberships)
}

func (s *serviceSuite) TestListUsers_NewestFirst() {
	s.register("first@example.com")
	s.register("second@example.com")

	users, err := s.users.ListUsers()
	s.Require().NoError(err)
	s.Len(users, 2)
	s.False(users[0].CreatedAt.Before(users[1].CreatedAt))
}

func (s *serviceSuite) TestUpdateUser_PasswordTooLong() {
	alice := s.register("alice@example.com")
	long := strings.Repeat("a", 73)

	_, err := s.users.UpdateUser(alice, alice.UserID, UpdateUserInput{Email: "alice@example.com", Password: &long})
	s.ErrorIs(err, auth.ErrPasswordTooLong)
	s.Equal(apierrors.KindValidation, apierrors.KindOf(err))

	_, err = s.auth.Login(LoginInput{Email: "alice@example.com", Password: "password123"})
	s.NoError(err)
}
