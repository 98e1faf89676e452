package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Membership struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_memberships_user_project" json:"userId"`
	ProjectID string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_memberships_user_project" json:"projectId"`
	CreatedAt time.Time `json:"createdAt"`

	// Relations
	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}

func (m *Membership) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
