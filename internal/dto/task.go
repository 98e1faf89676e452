package dto

import (
	"time"

	"github.com/yukikurage/project-board-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// UserDetailDTO adds timestamps for the user endpoints
type UserDetailDTO struct {
	UserDTO
	CreatedAt time.Time `json:"createdAt"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      models.TaskStatus `json:"status"`
	ProjectID   string            `json:"projectId"`
	AssigneeID  *string           `json:"assigneeId"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
	Project     *ProjectDTO       `json:"project,omitempty"`
	Assignee    *UserDTO          `json:"assignee,omitempty"`
}

// TaskDraftDTO represents a suggested, unsaved task
type TaskDraftDTO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:    user.ID,
		Email: user.Email,
	}
}

// ToUserDetailDTO converts a User model to UserDetailDTO
func ToUserDetailDTO(user models.User) UserDetailDTO {
	return UserDetailDTO{
		UserDTO:   ToUserDTO(user),
		CreatedAt: user.CreatedAt,
	}
}

// ToUserDetailDTOs converts a slice of users
func ToUserDetailDTOs(users []models.User) []UserDetailDTO {
	items := make([]UserDetailDTO, len(users))
	for i, user := range users {
		items[i] = ToUserDetailDTO(user)
	}
	return items
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		ProjectID:   task.ProjectID,
		AssigneeID:  task.AssigneeID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	// Include project if preloaded
	if task.Project.ID != "" {
		project := ToProjectDTO(task.Project)
		dto.Project = &project
	}

	// Include assignee if preloaded
	if task.Assignee != nil && task.Assignee.ID != "" {
		assignee := ToUserDTO(*task.Assignee)
		dto.Assignee = &assignee
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}
	return items
}
