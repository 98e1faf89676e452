package services

import (
	"time"

	"github.com/yukikurage/project-board-api/internal/access"
	apierrors "github.com/yukikurage/project-board-api/internal/errors"
	"github.com/yukikurage/project-board-api/internal/models"
)

func (s *serviceSuite) TestCreateProject_Validation() {
	owner := s.register("owner@example.com")

	_, err := s.projects.CreateProject(CreateProjectInput{Name: "   ", OwnerID: owner.UserID})
	s.ErrorIs(err, ErrProjectNameRequired)

	project := s.createProject(owner, "  Roadmap ")
	s.Equal("Roadmap", project.Name)
	s.Equal(owner.UserID, project.OwnerID)

	_, err = s.projects.CreateProject(CreateProjectInput{Name: "Roadmap", OwnerID: owner.UserID})
	s.ErrorIs(err, ErrProjectNameTaken)

	// Names are unique per owner only.
	other := s.register("other@example.com")
	s.createProject(other, "Roadmap")
}

func (s *serviceSuite) TestCreateProject_DeletedOwner() {
	owner := s.register("gone@example.com")
	s.Require().NoError(s.users.DeleteUser(owner, owner.UserID))

	_, err := s.projects.CreateProject(CreateProjectInput{Name: "Orphan", OwnerID: owner.UserID})
	s.ErrorIs(err, ErrAccountGone)
	s.Equal(apierrors.KindUnauthenticated, apierrors.KindOf(err))

	var count int64
	s.Require().NoError(s.db.Model(&models.Project{}).Count(&count).Error)
	s.Zero(count)
}

func (s *serviceSuite) TestGetProject_AccessRules() {
	owner := s.register("owner@example.com")
	member := s.register("member@example.com")
	stranger := s.register("stranger@example.com")

	project := s.createProject(owner, "Board")
	s.invite(owner, project.ID, member)
	s.createTask(owner, project.ID, "first")

	got, err := s.projects.GetProject(member, project.ID)
	s.Require().NoError(err)
	s.Len(got.Tasks, 1)

	_, err = s.projects.GetProject(stranger, project.ID)
	s.Equal(apierrors.KindForbidden, apierrors.KindOf(err))
	s.Equal(access.ReasonNotMember, err.Error())

	// Missing projects are reported before any membership check.
	_, err = s.projects.GetProject(stranger, "missing")
	s.ErrorIs(err, access.ErrProjectNotFound)
}

func (s *serviceSuite) TestRenameProject_OwnerOnly() {
	owner := s.register("owner@example.com")
	member := s.register("member@example.com")

	project := s.createProject(owner, "Board")
	s.createProject(owner, "Taken")
	s.invite(owner, project.ID, member)

	_, err := s.projects.RenameProject(member, project.ID, "Mine")
	s.Equal(access.ReasonOwnerOnly, err.Error())

	_, err = s.projects.RenameProject(owner, project.ID, "Taken")
	s.ErrorIs(err, ErrProjectNameTaken)

	renamed, err := s.projects.RenameProject(owner, project.ID, "Renamed")
	s.Require().NoError(err)
	s.Equal("Renamed", renamed.Name)

	got, err := s.projects.GetProject(owner, project.ID)
	s.Require().NoError(err)
	s.Equal("Renamed", got.Name)
}

func (s *serviceSuite) TestDeleteProject_Cascades() {
	owner := s.register("owner@example.com")
	member := s.register("member@example.com")

	project := s.createProject(owner, "Board")
	s.invite(owner, project.ID, member)
	task := s.createTask(member, project.ID, "doomed")

	s.Equal(access.ReasonOwnerOnly, s.projects.DeleteProject(member, project.ID).Error())
	s.Require().NoError(s.projects.DeleteProject(owner, project.ID))

	_, err := s.projects.GetProject(owner, project.ID)
	s.ErrorIs(err, access.ErrProjectNotFound)

	_, err = s.tasks.GetTask(owner, task.ID)
	s.ErrorIs(err, access.ErrTaskNotFound)

	var memberships int64
	s.Require().NoError(s.db.Model(&models.Membership{}).Where("project_id = ?", project.ID).Count(&memberships).Error)
	s.Zero(memberships)
}

func (s *serviceSuite) TestListAccessibleProjects_DedupAndOrder() {
	alice := s.register("alice@example.com")
	bob := s.register("bob@example.com")

	older := s.createProject(alice, "Older")
	joined := s.createProject(bob, "Joined")
	newer := s.createProject(alice, "Newer")
	s.createProject(bob, "Hidden")
	s.invite(bob, joined.ID, alice)

	base := time.Now().Add(-time.Hour)
	for i, id := range []string{older.ID, joined.ID, newer.ID} {
		s.Require().NoError(s.db.Model(&models.Project{}).Where("id = ?", id).
			Update("created_at", base.Add(time.Duration(i)*time.Minute)).Error)
	}

	projects, err := s.projects.ListAccessibleProjects(alice)
	s.Require().NoError(err)

	names := make([]string, len(projects))
	for i, p := range projects {
		names[i] = p.Name
	}
	s.Equal([]string{"Newer", "Joined", "Older"}, names)
}

func (s *serviceSuite) TestProjectAnalytics() {
	owner := s.register("owner@example.com")
	stranger := s.register("stranger@example.com")
	project := s.createProject(owner, "Board")

	for _, status := range []models.TaskStatus{models.TaskStatusTodo, models.TaskStatusTodo, models.TaskStatusDone} {
		_, err := s.tasks.CreateTask(owner, CreateTaskInput{Title: "t", ProjectID: project.ID, Status: status})
		s.Require().NoError(err)
	}

	counts, err := s.projects.ProjectAnalytics(owner, project.ID)
	s.Require().NoError(err)
	s.Equal(TaskStatusCounts{
		models.TaskStatusTodo:       2,
		models.TaskStatusInProgress: 0,
		models.TaskStatusDone:       1,
	}, counts)

	_, err = s.projects.ProjectAnalytics(stranger, project.ID)
	s.Equal(apierrors.KindForbidden, apierrors.KindOf(err))
}
