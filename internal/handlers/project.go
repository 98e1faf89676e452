package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-board-api/internal/dto"
	apierrors "github.com/yukikurage/project-board-api/internal/errors"
	"github.com/yukikurage/project-board-api/internal/middleware"
	"github.com/yukikurage/project-board-api/internal/services"
)

// ProjectHandler serves projects, their members and analytics.
type ProjectHandler struct {
	projectService    *services.ProjectService
	membershipService *services.MembershipService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService, membershipService *services.MembershipService) *ProjectHandler {
	return &ProjectHandler{
		projectService:    projectService,
		membershipService: membershipService,
	}
}

type projectRequest struct {
	Name string `json:"name"`
}

type memberRequest struct {
	UserID string `json:"userId"`
}

// ListProjects returns every project the caller owns or belongs to.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	projects, err := h.projectService.ListAccessibleProjects(principal)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Projects retrieved successfully",
		"project": dto.ToProjectDTOs(projects),
	})
}

// CreateProject creates a project owned by the caller.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.CreateProject(services.CreateProjectInput{
		Name:    req.Name,
		OwnerID: principal.UserID,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Project created successfully",
		"project": dto.ToProjectDTO(*project),
	})
}

// GetProject returns a project with its tasks.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	project, err := h.projectService.GetProject(principal, c.Param("id"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Project retrieved successfully",
		"project": dto.ToProjectDetailDTO(*project),
	})
}

// UpdateProject renames a project.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.RenameProject(principal, c.Param("id"), req.Name)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Project updated successfully",
		"project": dto.ToProjectDTO(*project),
	})
}

// DeleteProject deletes a project with its tasks and memberships.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	if err := h.projectService.DeleteProject(principal, c.Param("id")); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Project deleted successfully",
	})
}

// ListMembers returns the project's members.
func (h *ProjectHandler) ListMembers(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	members, err := h.membershipService.List(principal, c.Param("id"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Members retrieved successfully",
		"members": dto.ToMemberDTOs(members),
	})
}

// InviteMember adds a user to the project.
func (h *ProjectHandler) InviteMember(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req memberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.membershipService.Invite(principal, c.Param("id"), req.UserID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Member invited successfully",
		"membership": dto.ToMemberDTO(*result.Membership),
		"data": gin.H{
			"backfilledTasks": result.Backfilled,
		},
	})
}

// RemoveMember removes a member. Members may remove themselves.
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req memberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.membershipService.Remove(principal, c.Param("id"), req.UserID); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Member removed successfully",
	})
}

// Analytics returns the project's task counts per status.
func (h *ProjectHandler) Analytics(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	counts, err := h.projectService.ProjectAnalytics(principal, c.Param("id"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Analytics retrieved successfully",
		"data":    dto.ToStatusCountsDTO(counts),
	})
}
