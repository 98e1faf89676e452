package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"
)

type index struct {
	table   string
	name    string
	columns string
}

// Secondary indexes for the access checks and board queries. Unique
// constraints live on the model tags.
var indexes = []index{
	{"tasks", "idx_tasks_project_status", "project_id, status"},
	{"tasks", "idx_tasks_assignee_id", "assignee_id"},
	{"tasks", "idx_tasks_created_at", "created_at"},
	{"memberships", "idx_memberships_project_id", "project_id"},
	{"projects", "idx_projects_created_at", "created_at"},
}

// AddIndexes creates any secondary index that does not exist yet
func AddIndexes(db *gorm.DB) error {
	migrator := db.Migrator()

	for _, idx := range indexes {
		if migrator.HasIndex(idx.table, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Printf("Created index %s on %s(%s)", idx.name, idx.table, idx.columns)
	}

	return nil
}
