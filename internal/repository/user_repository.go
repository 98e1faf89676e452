package repository

import (
	"github.com/yukikurage/project-board-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List lists all users, newest first
func (r *GormUserRepository) List() ([]models.User, error) {
	var users []models.User
	if err := r.db.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Update saves the user's email and password hash
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Model(user).
		Updates(map[string]interface{}{
			"email":         user.Email,
			"password_hash": user.PasswordHash,
		}).Error
}

// Delete removes the user and everything that depends on them
func (r *GormUserRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var ownedIDs []string
		if err := tx.Model(&models.Project{}).Where("owner_id = ?", id).Pluck("id", &ownedIDs).Error; err != nil {
			return err
		}

		if len(ownedIDs) > 0 {
			if err := tx.Where("project_id IN ?", ownedIDs).Delete(&models.Task{}).Error; err != nil {
				return err
			}
			if err := tx.Where("project_id IN ?", ownedIDs).Delete(&models.Membership{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", ownedIDs).Delete(&models.Project{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("user_id = ?", id).Delete(&models.Membership{}).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Task{}).Where("assignee_id = ?", id).Update("assignee_id", nil).Error; err != nil {
			return err
		}

		return tx.Where("id = ?", id).Delete(&models.User{}).Error
	}, txOptions(r.db)...)
}
