package access

import (
	"errors"
	"fmt"

	apierrors "github.com/yukikurage/project-board-api/internal/errors"
	"github.com/yukikurage/project-board-api/internal/models"
	"github.com/yukikurage/project-board-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound = apierrors.NewNotFound("Project not found")
	ErrTaskNotFound    = apierrors.NewNotFound("Task not found")
)

// Guard loads the target resource and the caller's membership, then
// applies Authorize. Not-found is reported before any denial.
type Guard struct {
	projectRepo    repository.ProjectRepository
	membershipRepo repository.MembershipRepository
	taskRepo       repository.TaskRepository
}

// NewGuard creates a Guard.
func NewGuard(projectRepo repository.ProjectRepository, membershipRepo repository.MembershipRepository, taskRepo repository.TaskRepository) *Guard {
	return &Guard{
		projectRepo:    projectRepo,
		membershipRepo: membershipRepo,
		taskRepo:       taskRepo,
	}
}

// Project authorizes action on the project and returns it.
func (g *Guard) Project(p Principal, projectID string, action Action) (*models.Project, error) {
	project, err := g.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if err := g.check(p, project, action); err != nil {
		return nil, err
	}
	return project, nil
}

// Task authorizes action against the task's parent project and returns both.
func (g *Guard) Task(p Principal, taskID string, action Action) (*models.Task, *models.Project, error) {
	task, err := g.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrTaskNotFound
		}
		return nil, nil, fmt.Errorf("failed to find task: %w", err)
	}

	project, err := g.projectRepo.FindByID(task.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrTaskNotFound
		}
		return nil, nil, fmt.Errorf("failed to find project: %w", err)
	}

	if err := g.check(p, project, action); err != nil {
		return nil, nil, err
	}
	return task, project, nil
}

// User authorizes an action on another user account.
func (g *Guard) User(p Principal, targetUserID string, action Action) error {
	return Authorize(p, action, Resource{TargetUserID: targetUserID}).Err()
}

func (g *Guard) check(p Principal, project *models.Project, action Action) error {
	res := Resource{OwnerID: project.OwnerID}

	// The owner never holds a membership row, so skip the lookup.
	if p.UserID != project.OwnerID {
		isMember, err := g.membershipRepo.Exists(project.ID, p.UserID)
		if err != nil {
			return fmt.Errorf("failed to verify membership: %w", err)
		}
		res.IsMember = isMember
	}

	return Authorize(p, action, res).Err()
}
