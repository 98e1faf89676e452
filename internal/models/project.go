package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project is owned by exactly one user. The owner never appears in Members.
type Project struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_projects_owner_name" json:"name"`
	OwnerID   string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_projects_owner_name" json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	Members []Membership `gorm:"foreignKey:ProjectID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"members,omitempty"`
	Tasks   []Task       `gorm:"foreignKey:ProjectID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"tasks,omitempty"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
