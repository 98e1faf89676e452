package dto

import (
	"time"

	"github.com/yukikurage/project-board-api/internal/models"
)

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProjectDetailDTO represents a project with its board
type ProjectDetailDTO struct {
	ProjectDTO
	Tasks []TaskDTO `json:"tasks"`
}

// MemberDTO represents a membership with its user
type MemberDTO struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	UserID    string    `json:"userId"`
	User      UserDTO   `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
}

// StatusCountsDTO maps every board column to its task count
type StatusCountsDTO map[models.TaskStatus]int64

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	return ProjectDTO{
		ID:        project.ID,
		Name:      project.Name,
		OwnerID:   project.OwnerID,
		CreatedAt: project.CreatedAt,
		UpdatedAt: project.UpdatedAt,
	}
}

// ToProjectDTOs converts a slice of projects
func ToProjectDTOs(projects []models.Project) []ProjectDTO {
	items := make([]ProjectDTO, len(projects))
	for i, project := range projects {
		items[i] = ToProjectDTO(project)
	}
	return items
}

// ToProjectDetailDTO converts a project with preloaded tasks
func ToProjectDetailDTO(project models.Project) ProjectDetailDTO {
	return ProjectDetailDTO{
		ProjectDTO: ToProjectDTO(project),
		Tasks:      ToTaskDTOs(project.Tasks),
	}
}

// ToMemberDTO converts a membership with preloaded user
func ToMemberDTO(member models.Membership) MemberDTO {
	return MemberDTO{
		ID:        member.ID,
		ProjectID: member.ProjectID,
		UserID:    member.UserID,
		User:      ToUserDTO(member.User),
		CreatedAt: member.CreatedAt,
	}
}

// ToMemberDTOs converts a slice of memberships
func ToMemberDTOs(members []models.Membership) []MemberDTO {
	items := make([]MemberDTO, len(members))
	for i, member := range members {
		items[i] = ToMemberDTO(member)
	}
	return items
}

// ToStatusCountsDTO reports every board column, absent ones as 0
func ToStatusCountsDTO(counts map[models.TaskStatus]int64) StatusCountsDTO {
	out := make(StatusCountsDTO, len(models.TaskStatuses))
	for _, status := range models.TaskStatuses {
		out[status] = counts[status]
	}
	return out
}
