package repository

import (
	"github.com/yukikurage/project-board-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Omit(clause.Associations).Create(project).Error
}

// FindByID finds a project by ID
func (r *GormProjectRepository) FindByID(id string) (*models.Project, error) {
	var project models.Project
	if err := r.db.Where("id = ?", id).First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// FindByIDWithTasks finds a project with its tasks, newest first
func (r *GormProjectRepository) FindByIDWithTasks(id string) (*models.Project, error) {
	var project models.Project
	if err := r.db.
		Preload("Tasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("tasks.created_at DESC")
		}).
		Preload("Tasks.Assignee").
		Where("id = ?", id).
		First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// FindByOwnerAndName finds the owner's project with the given name
func (r *GormProjectRepository) FindByOwnerAndName(ownerID, name string) (*models.Project, error) {
	var project models.Project
	if err := r.db.Where("owner_id = ? AND name = ?", ownerID, name).First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// ListOwned lists projects owned by the user
func (r *GormProjectRepository) ListOwned(userID string) ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.Where("owner_id = ?", userID).Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// ListByMember lists projects the user holds a membership for
func (r *GormProjectRepository) ListByMember(userID string) ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.
		Joins("JOIN memberships ON memberships.project_id = projects.id").
		Where("memberships.user_id = ?", userID).
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// Rename updates a project's name
func (r *GormProjectRepository) Rename(project *models.Project, name string) error {
	if err := r.db.Model(project).Update("name", name).Error; err != nil {
		return err
	}
	project.Name = name
	return nil
}

// Delete deletes a project and all related data in a transaction
func (r *GormProjectRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		if err := tx.Where("project_id = ?", id).Delete(&models.Membership{}).Error; err != nil {
			return err
		}

		return tx.Where("id = ?", id).Delete(&models.Project{}).Error
	}, txOptions(r.db)...)
}

// CountTasksByStatus counts the project's tasks grouped by status
func (r *GormProjectRepository) CountTasksByStatus(projectID string) (map[models.TaskStatus]int64, error) {
	var rows []struct {
		Status models.TaskStatus
		Count  int64
	}

	if err := r.db.Model(&models.Task{}).
		Select("status, COUNT(*) AS count").
		Where("project_id = ?", projectID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[models.TaskStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
