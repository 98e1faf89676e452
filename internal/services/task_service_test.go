package services

import (
	"context"
	"errors"

	"github.com/yukikurage/project-board-api/internal/access"
	apierrors "github.com/yukikurage/project-board-api/internal/errors"
	"github.com/yukikurage/project-board-api/internal/models"
)

func strPtr(s string) *string { return &s }

func (s *serviceSuite) TestCreateTask_DefaultsAndValidation() {
	owner := s.register("owner@example.com")
	project := s.createProject(owner, "Board")

	task := s.createTask(owner, project.ID, "  Write docs ")
	s.Equal("Write docs", task.Title)
	s.Equal(models.TaskStatusTodo, task.Status)
	s.Equal(owner.UserID, *task.AssigneeID)
	s.Equal(project.ID, task.Project.ID)
	s.Require().NotNil(task.Assignee)
	s.Equal("owner@example.com", task.Assignee.Email)

	_, err := s.tasks.CreateTask(owner, CreateTaskInput{ProjectID: project.ID})
	s.ErrorIs(err, ErrTitleRequired)

	_, err = s.tasks.CreateTask(owner, CreateTaskInput{Title: "x"})
	s.ErrorIs(err, ErrProjectIDRequired)

	_, err = s.tasks.CreateTask(owner, CreateTaskInput{Title: "x", ProjectID: project.ID, Status: "BLOCKED"})
	s.ErrorIs(err, ErrInvalidStatus)

	_, err = s.tasks.CreateTask(owner, CreateTaskInput{Title: "x", ProjectID: "missing"})
	s.ErrorIs(err, access.ErrProjectNotFound)
}

func (s *serviceSuite) TestCreateTask_AssigneeMustBeLegal() {
	owner := s.register("owner@example.com")
	member := s.register("member@example.com")
	outsider := s.register("outsider@example.com")

	project := s.createProject(owner, "Board")
	s.invite(owner, project.ID, member)

	task, err := s.tasks.CreateTask(member, CreateTaskInput{Title: "for owner", ProjectID: project.ID, AssigneeID: owner.UserID})
	s.Require().NoError(err)
	s.Equal(owner.UserID, *task.AssigneeID)

	_, err = s.tasks.CreateTask(owner, CreateTaskInput{Title: "nope", ProjectID: project.ID, AssigneeID: outsider.UserID})
	s.ErrorIs(err, ErrIllegalAssignee)

	_, err = s.tasks.CreateTask(outsider, CreateTaskInput{Title: "nope", ProjectID: project.ID})
	s.Equal(access.ReasonNotMember, err.Error())
}

func (s *serviceSuite) TestUpdateTask() {
	owner := s.register("owner@example.com")
	member := s.register("member@example.com")
	outsider := s.register("outsider@example.com")

	project := s.createProject(owner, "Board")
	s.invite(owner, project.ID, member)
	task := s.createTask(owner, project.ID, "Draft")

	done := models.TaskStatusDone
	updated, err := s.tasks.UpdateTask(member, task.ID, UpdateTaskInput{
		Title:  strPtr("Final"),
		Status: &done,
	})
	s.Require().NoError(err)
	s.Equal("Final", updated.Title)
	s.Equal(models.TaskStatusDone, updated.Status)
	// The owner is still legal, so the assignee is kept.
	s.Equal(owner.UserID, *updated.AssigneeID)

	updated, err = s.tasks.UpdateTask(owner, task.ID, UpdateTaskInput{AssigneeID: strPtr(member.UserID)})
	s.Require().NoError(err)
	s.Equal(member.UserID, *updated.AssigneeID)

	_, err = s.tasks.UpdateTask(owner, task.ID, UpdateTaskInput{AssigneeID: strPtr(outsider.UserID)})
	s.ErrorIs(err, ErrIllegalAssignee)

	_, err = s.tasks.UpdateTask(owner, task.ID, UpdateTaskInput{Title: strPtr(" ")})
	s.ErrorIs(err, ErrTitleEmpty)

	bad := models.TaskStatus("LATER")
	_, err = s.tasks.UpdateTask(owner, task.ID, UpdateTaskInput{Status: &bad})
	s.ErrorIs(err, ErrInvalidStatus)

	_, err = s.tasks.UpdateTask(outsider, task.ID, UpdateTaskInput{Title: strPtr("hijack")})
	s.Equal(access.ReasonNotMember, err.Error())

	_, err = s.tasks.UpdateTask(owner, "missing", UpdateTaskInput{})
	s.ErrorIs(err, access.ErrTaskNotFound)
}

func (s *serviceSuite) TestUpdateTask_FallsBackToCallerWhenAssigneeLeft() {
	owner := s.register("owner@example.com")
	member := s.register("member@example.com")

	project := s.createProject(owner, "Board")
	s.invite(owner, project.ID, member)
	task := s.createTask(member, project.ID, "member task")

	s.Require().NoError(s.memberships.Remove(owner, project.ID, member.UserID))

	updated, err := s.tasks.UpdateTask(owner, task.ID, UpdateTaskInput{Description: strPtr("reassigned")})
	s.Require().NoError(err)
	s.Equal(owner.UserID, *updated.AssigneeID)
	s.Equal("reassigned", updated.Description)
}

func (s *serviceSuite) TestDeleteTask() {
	owner := s.register("owner@example.com")
	outsider := s.register("outsider@example.com")
	project := s.createProject(owner, "Board")
	task := s.createTask(owner, project.ID, "temp")

	s.Equal(access.ReasonNotMember, s.tasks.DeleteTask(outsider, task.ID).Error())
	s.Require().NoError(s.tasks.DeleteTask(owner, task.ID))
	s.ErrorIs(s.tasks.DeleteTask(owner, task.ID), access.ErrTaskNotFound)
}

func (s *serviceSuite) TestListTasks_ScopesToAccessibleProjects() {
	alice := s.register("alice@example.com")
	bob := s.register("bob@example.com")

	aliceProject := s.createProject(alice, "Alice")
	bobProject := s.createProject(bob, "Bob")
	sharedProject := s.createProject(bob, "Shared")
	s.invite(bob, sharedProject.ID, alice)

	s.createTask(alice, aliceProject.ID, "a1")
	s.createTask(bob, bobProject.ID, "b1")
	inProgress := models.TaskStatusInProgress
	_, err := s.tasks.CreateTask(bob, CreateTaskInput{Title: "s1", ProjectID: sharedProject.ID, Status: inProgress})
	s.Require().NoError(err)

	tasks, err := s.tasks.ListTasks(alice, ListTasksInput{})
	s.Require().NoError(err)
	s.Len(tasks, 2)
	for _, task := range tasks {
		s.NotEqual(bobProject.ID, task.ProjectID)
		s.NotEmpty(task.Project.Name)
	}

	tasks, err = s.tasks.ListTasks(alice, ListTasksInput{Status: &inProgress})
	s.Require().NoError(err)
	s.Require().Len(tasks, 1)
	s.Equal("s1", tasks[0].Title)

	tasks, err = s.tasks.ListTasks(alice, ListTasksInput{ProjectID: &aliceProject.ID})
	s.Require().NoError(err)
	s.Require().Len(tasks, 1)
	s.Equal("a1", tasks[0].Title)

	tasks, err = s.tasks.ListTasks(alice, ListTasksInput{AssigneeID: &bob.UserID})
	s.Require().NoError(err)
	s.Require().Len(tasks, 1)
	s.Equal("s1", tasks[0].Title)

	_, err = s.tasks.ListTasks(alice, ListTasksInput{ProjectID: &bobProject.ID})
	s.Equal(apierrors.KindForbidden, apierrors.KindOf(err))

	loner := s.register("loner@example.com")
	tasks, err = s.tasks.ListTasks(loner, ListTasksInput{})
	s.Require().NoError(err)
	s.Empty(tasks)
}

func (s *serviceSuite) TestGenerateTasks() {
	owner := s.register("owner@example.com")
	outsider := s.register("outsider@example.com")
	project := s.createProject(owner, "Board")

	s.suggester.drafts = []TaskDraft{
		{Title: " Book venue ", Description: "for the offsite"},
		{Title: "   "},
	}

	drafts, err := s.tasks.GenerateTasks(context.Background(), owner, GenerateTasksInput{ProjectID: project.ID, Text: "We need a venue"})
	s.Require().NoError(err)
	s.Equal([]TaskDraft{{Title: "Book venue", Description: "for the offsite"}}, drafts)

	var count int64
	s.Require().NoError(s.db.Model(&models.Task{}).Count(&count).Error)
	s.Zero(count)

	_, err = s.tasks.GenerateTasks(context.Background(), outsider, GenerateTasksInput{ProjectID: project.ID, Text: "x"})
	s.Equal(apierrors.KindForbidden, apierrors.KindOf(err))

	_, err = s.tasks.GenerateTasks(context.Background(), owner, GenerateTasksInput{ProjectID: project.ID})
	s.ErrorIs(err, ErrTextRequired)

	s.suggester.err = errors.New("upstream timeout")
	_, err = s.tasks.GenerateTasks(context.Background(), owner, GenerateTasksInput{ProjectID: project.ID, Text: "x"})
	s.Equal(apierrors.KindInternal, apierrors.KindOf(err))
}

func (s *serviceSuite) TestGenerateTasks_Unconfigured() {
	owner := s.register("owner@example.com")
	project := s.createProject(owner, "Board")

	s.tasks.suggester = nil
	_, err := s.tasks.GenerateTasks(context.Background(), owner, GenerateTasksInput{ProjectID: project.ID, Text: "x"})
	s.ErrorIs(err, ErrAIServiceNotConfigured)
	s.Equal(apierrors.KindUnavailable, apierrors.KindOf(err))
}
