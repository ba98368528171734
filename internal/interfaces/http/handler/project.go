package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	appproject "github.com/buildpay/backend/internal/application/project"
	"github.com/buildpay/backend/internal/domain/project"
	"github.com/buildpay/backend/internal/interfaces/http/dto"
)

// ProjectHandler handles project and milestone endpoints
type ProjectHandler struct {
	BaseHandler
	projectService *appproject.ProjectService
}

// NewProjectHandler creates a project handler
func NewProjectHandler(projectService *appproject.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// Create creates a construction project
// POST /api/v1/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	companyID, ok := requireCompanyID(c)
	if !ok {
		return
	}

	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	result, err := h.projectService.CreateProject(c.Request.Context(), appproject.CreateProjectRequest{
		CompanyID:  companyID,
		Name:       req.Name,
		ClientName: req.ClientName,
		Address:    req.Address,
		CreatedBy:  currentUserID(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Get returns a single project
// GET /api/v1/projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	companyID, ok := requireCompanyID(c)
	if !ok {
		return
	}
	projectID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	result, err := h.projectService.GetProject(c.Request.Context(), companyID, projectID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List returns projects for the company
// GET /api/v1/projects
func (h *ProjectHandler) List(c *gin.Context) {
	companyID, ok := requireCompanyID(c)
	if !ok {
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err)
		return
	}
	req.Normalize()

	filter := project.ProjectFilter{
		Limit:  req.Limit(),
		Offset: req.Offset(),
	}
	if req.Status != "" {
		status := project.ProjectStatus(req.Status)
		if !status.IsValid() {
			h.BadRequest(c, errors.New("invalid status filter"))
			return
		}
		filter.Status = &status
	}

	result, err := h.projectService.ListProjects(c.Request.Context(), companyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Projects, result.Total, req.Page, req.PageSize)
}

// CreateMilestone adds a billing milestone to a project
// POST /api/v1/projects/:id/milestones
func (h *ProjectHandler) CreateMilestone(c *gin.Context) {
	companyID, ok := requireCompanyID(c)
	if !ok {
		return
	}
	projectID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req dto.CreateMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	result, err := h.projectService.CreateMilestone(c.Request.Context(), appproject.CreateMilestoneRequest{
		CompanyID: companyID,
		ProjectID: projectID,
		Name:      req.Name,
		Amount:    req.Amount,
		DueDate:   req.DueDate,
		CreatedBy: currentUserID(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// ListMilestones returns milestones for a project
// GET /api/v1/projects/:id/milestones
func (h *ProjectHandler) ListMilestones(c *gin.Context) {
	companyID, ok := requireCompanyID(c)
	if !ok {
		return
	}
	projectID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	milestones, err := h.projectService.ListMilestones(c.Request.Context(), companyID, projectID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, milestones)
}

// CompleteMilestone marks a milestone completed and raises a draft invoice
// POST /api/v1/milestones/:id/complete
func (h *ProjectHandler) CompleteMilestone(c *gin.Context) {
	companyID, ok := requireCompanyID(c)
	if !ok {
		return
	}
	milestoneID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	result, err := h.projectService.CompleteMilestone(c.Request.Context(), companyID, milestoneID, currentUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
