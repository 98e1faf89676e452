package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/project-board-api/internal/access"
	"github.com/yukikurage/project-board-api/internal/constants"
	apierrors "github.com/yukikurage/project-board-api/internal/errors"
	"github.com/yukikurage/project-board-api/internal/models"
	"github.com/yukikurage/project-board-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTitleRequired          = apierrors.NewValidation("Title is required")
	ErrTitleEmpty             = apierrors.NewValidation("Title cannot be empty")
	ErrProjectIDRequired      = apierrors.NewValidation("projectId is required")
	ErrInvalidStatus          = apierrors.NewValidation("Status must be one of TODO, IN_PROGRESS, DONE")
	ErrTextRequired           = apierrors.NewValidation("Text is required")
	ErrTextTooLong            = apierrors.NewValidation(fmt.Sprintf("Text must be at most %d characters", constants.MaxAIInputLength))
	ErrAIServiceNotConfigured = apierrors.New(apierrors.KindUnavailable, "AI service is not configured")
	ErrAINoTasksGenerated     = apierrors.New(apierrors.KindUnavailable, "AI did not generate any tasks")
)

// TaskSuggester extracts task drafts from free text.
type TaskSuggester interface {
	SuggestTasks(ctx context.Context, text string) ([]TaskDraft, error)
}

// TaskService handles task business logic
type TaskService struct {
	taskRepo       repository.TaskRepository
	projectRepo    repository.ProjectRepository
	membershipRepo repository.MembershipRepository
	guard          *access.Guard
	suggester      TaskSuggester
}

// NewTaskService creates a new TaskService. suggester may be nil.
func NewTaskService(
	taskRepo repository.TaskRepository,
	projectRepo repository.ProjectRepository,
	membershipRepo repository.MembershipRepository,
	guard *access.Guard,
	suggester TaskSuggester,
) *TaskService {
	return &TaskService{
		taskRepo:       taskRepo,
		projectRepo:    projectRepo,
		membershipRepo: membershipRepo,
		guard:          guard,
		suggester:      suggester,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	ProjectID  *string
	Status     *models.TaskStatus
	AssigneeID *string
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	Status      models.TaskStatus
	ProjectID   string
	AssigneeID  string
}

// UpdateTaskInput represents input for updating a task. Nil fields are left unchanged.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *models.TaskStatus
	AssigneeID  *string
}

// ListTasks returns tasks of every project the caller can read.
func (s *TaskService) ListTasks(p access.Principal, input ListTasksInput) ([]models.Task, error) {
	if input.Status != nil && !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	projectIDs, err := s.accessibleProjectIDs(p, input.ProjectID)
	if err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.List(repository.TaskFilter{
		ProjectIDs: projectIDs,
		Status:     input.Status,
		AssigneeID: input.AssigneeID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// GetTask returns a task with its project and assignee
func (s *TaskService) GetTask(p access.Principal, taskID string) (*models.Task, error) {
	if _, _, err := s.guard.Task(p, taskID, access.ActionReadTask); err != nil {
		return nil, err
	}
	return s.reload(taskID)
}

// CreateTask creates a task in a project the caller can write to.
func (s *TaskService) CreateTask(p access.Principal, input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(input.ProjectID) == "" {
		return nil, ErrProjectIDRequired
	}

	status := input.Status
	if status == "" {
		status = models.TaskStatusTodo
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	project, err := s.guard.Project(p, input.ProjectID, access.ActionCreateTask)
	if err != nil {
		return nil, err
	}

	legal, err := s.legalAssignees(project)
	if err != nil {
		return nil, err
	}

	assigneeID, err := ResolveAssignee(strings.TrimSpace(input.AssigneeID), p.UserID, legal)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:       title,
		Description: input.Description,
		Status:      status,
		ProjectID:   project.ID,
		AssigneeID:  &assigneeID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.reload(task.ID)
}

// UpdateTask updates an existing task. The assignee is checked against the
// project's current owner and members.
func (s *TaskService) UpdateTask(p access.Principal, taskID string, input UpdateTaskInput) (*models.Task, error) {
	task, project, err := s.guard.Task(p, taskID, access.ActionUpdateTask)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleEmpty
		}
		task.Title = title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		task.Status = *input.Status
	}

	legal, err := s.legalAssignees(project)
	if err != nil {
		return nil, err
	}

	requested := ""
	if input.AssigneeID != nil {
		requested = strings.TrimSpace(*input.AssigneeID)
	} else if task.AssigneeID != nil && legal.Contains(*task.AssigneeID) {
		requested = *task.AssigneeID
	}

	assigneeID, err := ResolveAssignee(requested, p.UserID, legal)
	if err != nil {
		return nil, err
	}
	task.AssigneeID = &assigneeID

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.reload(task.ID)
}

// DeleteTask deletes a task
func (s *TaskService) DeleteTask(p access.Principal, taskID string) error {
	if _, _, err := s.guard.Task(p, taskID, access.ActionDeleteTask); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// GenerateTasksInput represents input for task suggestions
type GenerateTasksInput struct {
	ProjectID string
	Text      string
}

// GenerateTasks asks the suggester for task drafts. Nothing is persisted.
func (s *TaskService) GenerateTasks(ctx context.Context, p access.Principal, input GenerateTasksInput) ([]TaskDraft, error) {
	if strings.TrimSpace(input.ProjectID) == "" {
		return nil, ErrProjectIDRequired
	}
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, ErrTextRequired
	}
	if len([]rune(text)) > constants.MaxAIInputLength {
		return nil, ErrTextTooLong
	}

	if _, err := s.guard.Project(p, input.ProjectID, access.ActionCreateTask); err != nil {
		return nil, err
	}

	if s.suggester == nil {
		return nil, ErrAIServiceNotConfigured
	}

	drafts, err := s.suggester.SuggestTasks(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}

	valid := make([]TaskDraft, 0, len(drafts))
	for _, draft := range drafts {
		draft.Title = strings.TrimSpace(draft.Title)
		if draft.Title == "" {
			continue
		}
		valid = append(valid, draft)
		if len(valid) == constants.MaxAIGeneratedTasks {
			break
		}
	}

	if len(valid) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	return valid, nil
}

func (s *TaskService) reload(taskID string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "Project", "Assignee")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, access.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

func (s *TaskService) legalAssignees(project *models.Project) (AssigneeSet, error) {
	memberIDs, err := s.membershipRepo.ListUserIDs(project.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return LegalAssignees(project, memberIDs), nil
}

// accessibleProjectIDs narrows to one project when requested, otherwise
// returns every project the caller owns or belongs to.
func (s *TaskService) accessibleProjectIDs(p access.Principal, projectID *string) ([]string, error) {
	if projectID != nil && *projectID != "" {
		if _, err := s.guard.Project(p, *projectID, access.ActionReadTask); err != nil {
			return nil, err
		}
		return []string{*projectID}, nil
	}

	owned, err := s.projectRepo.ListOwned(p.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list owned projects: %w", err)
	}
	joined, err := s.projectRepo.ListByMember(p.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list joined projects: %w", err)
	}

	ids := make([]string, 0, len(owned)+len(joined))
	for _, project := range append(owned, joined...) {
		ids = append(ids, project.ID)
	}
	return ids, nil
}
