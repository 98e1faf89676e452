package repository

import (
	"fmt"

	"github.com/yukikurage/project-board-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormMembershipRepository is a GORM implementation of MembershipRepository
type GormMembershipRepository struct {
	db *gorm.DB
}

// NewMembershipRepository creates a new MembershipRepository
func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &GormMembershipRepository{db: db}
}

// Exists reports whether the user is a member of the project
func (r *GormMembershipRepository) Exists(projectID, userID string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Membership{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Find finds a specific membership
func (r *GormMembershipRepository) Find(projectID, userID string) (*models.Membership, error) {
	var member models.Membership
	if err := r.db.Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// ListByProject lists all members of a project in join order
func (r *GormMembershipRepository) ListByProject(projectID string) ([]models.Membership, error) {
	var members []models.Membership
	if err := r.db.Preload("User").
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// ListUserIDs lists the user IDs of the project's members
func (r *GormMembershipRepository) ListUserIDs(projectID string) ([]string, error) {
	var userIDs []string
	if err := r.db.Model(&models.Membership{}).
		Where("project_id = ?", projectID).
		Pluck("user_id", &userIDs).Error; err != nil {
		return nil, err
	}
	return userIDs, nil
}

// CreateWithBackfill adds the member and hands them every unassigned task
func (r *GormMembershipRepository) CreateWithBackfill(member *models.Membership) (int64, error) {
	var backfilled int64

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(member).Error; err != nil {
			return fmt.Errorf("create membership: %w", err)
		}

		result := tx.Model(&models.Task{}).
			Where("project_id = ? AND assignee_id IS NULL", member.ProjectID).
			Update("assignee_id", member.UserID)
		if result.Error != nil {
			return fmt.Errorf("backfill task assignees: %w", result.Error)
		}

		backfilled = result.RowsAffected
		return nil
	}, txOptions(r.db)...)
	if err != nil {
		return 0, err
	}

	return backfilled, nil
}

// DeleteAndUnassign removes the member and clears their assignments in the project
func (r *GormMembershipRepository) DeleteAndUnassign(projectID, userID string) (int64, error) {
	var unassigned int64

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ? AND user_id = ?", projectID, userID).
			Delete(&models.Membership{}).Error; err != nil {
			return fmt.Errorf("delete membership: %w", err)
		}

		result := tx.Model(&models.Task{}).
			Where("project_id = ? AND assignee_id = ?", projectID, userID).
			Update("assignee_id", nil)
		if result.Error != nil {
			return fmt.Errorf("clear task assignees: %w", result.Error)
		}

		unassigned = result.RowsAffected
		return nil
	}, txOptions(r.db)...)
	if err != nil {
		return 0, err
	}

	return unassigned, nil
}
