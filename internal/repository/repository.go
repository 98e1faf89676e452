package repository

import (
	"database/sql"

	"github.com/yukikurage/project-board-api/internal/models"
	"gorm.io/gorm"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id string, preload ...string) (*models.Task, error)

	// List retrieves tasks matching the filter, newest first
	List(filter TaskFilter) ([]models.Task, error)

	// Update saves the task's own columns
	Update(task *models.Task) error

	// Delete deletes a task
	Delete(id string) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	ProjectIDs []string
	Status     *models.TaskStatus
	AssigneeID *string
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// FindByID finds a project by ID
	FindByID(id string) (*models.Project, error)

	// FindByIDWithTasks finds a project and preloads its tasks
	FindByIDWithTasks(id string) (*models.Project, error)

	// FindByOwnerAndName finds the owner's project with the given name
	FindByOwnerAndName(ownerID, name string) (*models.Project, error)

	// ListOwned lists projects owned by the user
	ListOwned(userID string) ([]models.Project, error)

	// ListByMember lists projects the user holds a membership for
	ListByMember(userID string) ([]models.Project, error)

	// Rename updates a project's name
	Rename(project *models.Project, name string) error

	// Delete deletes a project with its tasks and memberships
	Delete(id string) error

	// CountTasksByStatus counts the project's tasks grouped by status
	CountTasksByStatus(projectID string) (map[models.TaskStatus]int64, error)
}

// MembershipRepository defines the interface for project membership data access
type MembershipRepository interface {
	// Exists reports whether the user is a member of the project
	Exists(projectID, userID string) (bool, error)

	// Find finds a specific membership
	Find(projectID, userID string) (*models.Membership, error)

	// ListByProject lists the project's memberships with users preloaded
	ListByProject(projectID string) ([]models.Membership, error)

	// ListUserIDs lists the user IDs of the project's members
	ListUserIDs(projectID string) ([]string, error)

	// CreateWithBackfill inserts the membership and assigns every unassigned
	// task of the project to the new member in one transaction.
	CreateWithBackfill(member *models.Membership) (int64, error)

	// DeleteAndUnassign removes the membership and clears the member's task
	// assignments in that project in one transaction.
	DeleteAndUnassign(projectID, userID string) (int64, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// List lists all users, newest first
	List() ([]models.User, error)

	// Update saves the user's email and password hash
	Update(user *models.User) error

	// Delete deletes the user, their owned projects, and their memberships,
	// and clears their task assignments.
	Delete(id string) error
}

// txOptions picks the isolation level for multi-step writes. SQLite
// transactions are already serializable and reject explicit levels.
func txOptions(db *gorm.DB) []*sql.TxOptions {
	if db.Dialector == nil || db.Dialector.Name() == "sqlite" {
		return nil
	}
	return []*sql.TxOptions{{Isolation: sql.LevelRepeatableRead}}
}
