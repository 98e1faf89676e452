package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/yukikurage/project-board-api/internal/access"
	apierrors "github.com/yukikurage/project-board-api/internal/errors"
	"github.com/yukikurage/project-board-api/internal/models"
	"github.com/yukikurage/project-board-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrMemberUserIDRequired = apierrors.NewValidation("userId is required")
	ErrInviteeNotFound      = apierrors.NewNotFound("User to invite not found")
	ErrAlreadyMember        = apierrors.NewConflict("User is already a member")
	ErrInviteeIsOwner       = apierrors.NewConflict("User is the owner of this project")
	ErrMembershipNotFound   = apierrors.NewNotFound("Membership not found")
)

// MembershipService owns the project membership relation.
type MembershipService struct {
	membershipRepo repository.MembershipRepository
	userRepo       repository.UserRepository
	guard          *access.Guard
}

// NewMembershipService creates a new MembershipService.
func NewMembershipService(membershipRepo repository.MembershipRepository, userRepo repository.UserRepository, guard *access.Guard) *MembershipService {
	return &MembershipService{
		membershipRepo: membershipRepo,
		userRepo:       userRepo,
		guard:          guard,
	}
}

// InviteResult is the new membership and how many tasks it picked up.
type InviteResult struct {
	Membership *models.Membership
	Backfilled int64
}

// Invite adds a user to the project and assigns every unassigned task to them.
func (s *MembershipService) Invite(p access.Principal, projectID, userID string) (*InviteResult, error) {
	project, err := s.guard.Project(p, projectID, access.ActionManageMembership)
	if err != nil {
		return nil, err
	}

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrMemberUserIDRequired
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviteeNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if user.ID == project.OwnerID {
		return nil, ErrInviteeIsOwner
	}

	exists, err := s.membershipRepo.Exists(project.ID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}
	if exists {
		return nil, ErrAlreadyMember
	}

	member := &models.Membership{
		ProjectID: project.ID,
		UserID:    user.ID,
	}

	backfilled, err := s.membershipRepo.CreateWithBackfill(member)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyMember
		}
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	member.User = *user
	log.Printf("project %s: added member %s, backfilled %d task(s)", project.ID, user.ID, backfilled)

	return &InviteResult{Membership: member, Backfilled: backfilled}, nil
}

// Remove deletes a membership. The owner may remove anyone; a member may
// remove only themselves. Tasks assigned to the removed user are unassigned.
func (s *MembershipService) Remove(p access.Principal, projectID, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ErrMemberUserIDRequired
	}

	action := access.ActionManageMembership
	if userID == p.UserID {
		action = access.ActionReadProject
	}

	project, err := s.guard.Project(p, projectID, action)
	if err != nil {
		return err
	}

	if _, err := s.membershipRepo.Find(project.ID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMembershipNotFound
		}
		return fmt.Errorf("failed to find membership: %w", err)
	}

	unassigned, err := s.membershipRepo.DeleteAndUnassign(project.ID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	log.Printf("project %s: removed member %s, unassigned %d task(s)", project.ID, userID, unassigned)
	return nil
}

// List returns the project's members with their user records.
func (s *MembershipService) List(p access.Principal, projectID string) ([]models.Membership, error) {
	if _, err := s.guard.Project(p, projectID, access.ActionReadProject); err != nil {
		return nil, err
	}

	members, err := s.membershipRepo.ListByProject(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}
