package services

import (
	apierrors "github.com/yukikurage/project-board-api/internal/errors"
	"github.com/yukikurage/project-board-api/internal/models"
)

var ErrIllegalAssignee = apierrors.NewForbidden("Assignee must be owner or member of project")

// AssigneeSet is the set of user IDs a project's tasks may be assigned to.
type AssigneeSet map[string]struct{}

// Contains reports whether userID may be assigned.
func (s AssigneeSet) Contains(userID string) bool {
	_, ok := s[userID]
	return ok
}

// LegalAssignees is the project owner plus every current member.
func LegalAssignees(project *models.Project, memberIDs []string) AssigneeSet {
	set := make(AssigneeSet, len(memberIDs)+1)
	set[project.OwnerID] = struct{}{}
	for _, id := range memberIDs {
		set[id] = struct{}{}
	}
	return set
}

// ResolveAssignee validates an explicit assignee, or falls back to the caller.
func ResolveAssignee(requested, callerID string, legal AssigneeSet) (string, error) {
	resolved := requested
	if resolved == "" {
		resolved = callerID
	}

	if !legal.Contains(resolved) {
		return "", ErrIllegalAssignee
	}
	return resolved, nil
}
