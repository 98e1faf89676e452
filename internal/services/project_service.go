package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/yukikurage/project-board-api/internal/access"
	apierrors "github.com/yukikurage/project-board-api/internal/errors"
	"github.com/yukikurage/project-board-api/internal/models"
	"github.com/yukikurage/project-board-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrProjectNameRequired = apierrors.NewValidation("Project name is required")
	ErrProjectNameTaken    = apierrors.NewConflict("Project with this name already exists")
	ErrAccountGone         = apierrors.New(apierrors.KindUnauthenticated, "Account no longer exists")
)

// ProjectService provides business logic for project operations.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	guard       *access.Guard
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository, guard *access.Guard) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
		guard:       guard,
	}
}

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	Name    string
	OwnerID string
}

// CreateProject creates a project owned by the caller.
func (s *ProjectService) CreateProject(input CreateProjectInput) (*models.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrProjectNameRequired
	}

	if _, err := s.userRepo.FindByID(input.OwnerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountGone
		}
		return nil, fmt.Errorf("failed to load owner: %w", err)
	}

	if err := s.ensureNameAvailable(input.OwnerID, name); err != nil {
		return nil, err
	}

	project := &models.Project{
		Name:    name,
		OwnerID: input.OwnerID,
	}

	if err := s.projectRepo.Create(project); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrProjectNameTaken
		}
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// GetProject returns a project with its tasks.
func (s *ProjectService) GetProject(p access.Principal, id string) (*models.Project, error) {
	if _, err := s.guard.Project(p, id, access.ActionReadProject); err != nil {
		return nil, err
	}

	project, err := s.projectRepo.FindByIDWithTasks(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, access.ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	return project, nil
}

// RenameProject updates a project's name. Owner only.
func (s *ProjectService) RenameProject(p access.Principal, id, name string) (*models.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrProjectNameRequired
	}

	project, err := s.guard.Project(p, id, access.ActionRenameProject)
	if err != nil {
		return nil, err
	}

	if name == project.Name {
		return project, nil
	}

	if err := s.ensureNameAvailable(project.OwnerID, name); err != nil {
		return nil, err
	}

	if err := s.projectRepo.Rename(project, name); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrProjectNameTaken
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// DeleteProject removes a project with its tasks and memberships. Owner only.
func (s *ProjectService) DeleteProject(p access.Principal, id string) error {
	if _, err := s.guard.Project(p, id, access.ActionDeleteProject); err != nil {
		return err
	}

	if err := s.projectRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

// ListAccessibleProjects returns owned and joined projects, newest first.
func (s *ProjectService) ListAccessibleProjects(p access.Principal) ([]models.Project, error) {
	owned, err := s.projectRepo.ListOwned(p.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list owned projects: %w", err)
	}

	joined, err := s.projectRepo.ListByMember(p.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list joined projects: %w", err)
	}

	seen := make(map[string]struct{}, len(owned)+len(joined))
	projects := make([]models.Project, 0, len(owned)+len(joined))
	for _, project := range append(owned, joined...) {
		if _, ok := seen[project.ID]; ok {
			continue
		}
		seen[project.ID] = struct{}{}
		projects = append(projects, project)
	}

	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].CreatedAt.After(projects[j].CreatedAt)
	})

	return projects, nil
}

// TaskStatusCounts maps every board status to its number of tasks.
type TaskStatusCounts map[models.TaskStatus]int64

// ProjectAnalytics counts the project's tasks per status.
func (s *ProjectService) ProjectAnalytics(p access.Principal, id string) (TaskStatusCounts, error) {
	if _, err := s.guard.Project(p, id, access.ActionReadProject); err != nil {
		return nil, err
	}

	counts, err := s.projectRepo.CountTasksByStatus(id)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	result := make(TaskStatusCounts, len(models.TaskStatuses))
	for _, status := range models.TaskStatuses {
		result[status] = counts[status]
	}
	return result, nil
}

func (s *ProjectService) ensureNameAvailable(ownerID, name string) error {
	if _, err := s.projectRepo.FindByOwnerAndName(ownerID, name); err == nil {
		return ErrProjectNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check project name: %w", err)
	}
	return nil
}
