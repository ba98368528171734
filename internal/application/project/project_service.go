package project

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appbilling "github.com/buildpay/backend/internal/application/billing"
	"github.com/buildpay/backend/internal/domain/project"
	"github.com/buildpay/backend/internal/domain/shared"
	"github.com/buildpay/backend/internal/domain/shared/valueobject"
	"github.com/buildpay/backend/internal/infrastructure/telemetry"
)

func parseMilestoneAmount(amount string) (valueobject.Money, error) {
	m, err := valueobject.NewMoneyUSDFromString(amount)
	if err != nil {
		return valueobject.Money{}, shared.NewDomainError("INVALID_AMOUNT", "Amount must be a valid decimal number")
	}
	return m, nil
}

// InvoiceCreator is the slice of the billing application the project
// side needs: raising draft invoices for completed milestones.
type InvoiceCreator interface {
	CreateInvoice(ctx context.Context, req appbilling.CreateInvoiceRequest) (*appbilling.InvoiceResponse, error)
}

// ProjectService handles project and milestone operations
type ProjectService struct {
	projectRepo   project.ProjectRepository
	milestoneRepo project.MilestoneRepository
	invoices      InvoiceCreator
	logger        *zap.Logger
}

// NewProjectService creates a new ProjectService
func NewProjectService(
	projectRepo project.ProjectRepository,
	milestoneRepo project.MilestoneRepository,
	invoices InvoiceCreator,
	logger *zap.Logger,
) *ProjectService {
	return &ProjectService{
		projectRepo:   projectRepo,
		milestoneRepo: milestoneRepo,
		invoices:      invoices,
		logger:        logger,
	}
}

// CreateProjectRequest describes a new project
type CreateProjectRequest struct {
	CompanyID  uuid.UUID
	Name       string
	ClientName string
	Address    string
	CreatedBy  *uuid.UUID
}

// ProjectResponse is the outward representation of a project
type ProjectResponse struct {
	ID         uuid.UUID             `json:"id"`
	Name       string                `json:"name"`
	ClientName string                `json:"client_name"`
	Address    string                `json:"address,omitempty"`
	Status     project.ProjectStatus `json:"status"`
	CreatedAt  time.Time             `json:"created_at"`
}

func toProjectResponse(p *project.Project) *ProjectResponse {
	return &ProjectResponse{
		ID:         p.ID,
		Name:       p.Name,
		ClientName: p.ClientName,
		Address:    p.Address,
		Status:     p.Status,
		CreatedAt:  p.CreatedAt,
	}
}

// CreateProject creates a new active project
func (s *ProjectService) CreateProject(ctx context.Context, req CreateProjectRequest) (*ProjectResponse, error) {
	p, err := project.NewProject(req.CompanyID, req.Name, req.ClientName, req.Address)
	if err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		p.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.projectRepo.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save project: %w", err)
	}

	s.logger.Info("Project created",
		zap.String("project_id", p.ID.String()),
		zap.String("name", p.Name),
	)
	return toProjectResponse(p), nil
}

// GetProject returns a single project
func (s *ProjectService) GetProject(ctx context.Context, companyID, projectID uuid.UUID) (*ProjectResponse, error) {
	p, err := s.projectRepo.FindByID(ctx, companyID, projectID)
	if err != nil {
		return nil, err
	}
	return toProjectResponse(p), nil
}

// ListProjectsResult carries a page of projects
type ListProjectsResult struct {
	Projects []*ProjectResponse `json:"projects"`
	Total    int64              `json:"total"`
}

// ListProjects returns projects for a company
func (s *ProjectService) ListProjects(ctx context.Context, companyID uuid.UUID, filter project.ProjectFilter) (*ListProjectsResult, error) {
	projects, total, err := s.projectRepo.FindAll(ctx, companyID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	out := make([]*ProjectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, toProjectResponse(p))
	}
	return &ListProjectsResult{Projects: out, Total: total}, nil
}

// CreateMilestoneRequest describes a new milestone
type CreateMilestoneRequest struct {
	CompanyID uuid.UUID
	ProjectID uuid.UUID
	Name      string
	Amount    string
	DueDate   time.Time
	CreatedBy *uuid.UUID
}

// MilestoneResponse is the outward representation of a milestone
type MilestoneResponse struct {
	ID        uuid.UUID               `json:"id"`
	ProjectID uuid.UUID               `json:"project_id"`
	Name      string                  `json:"name"`
	Amount    string                  `json:"amount"`
	DueDate   time.Time               `json:"due_date"`
	Status    project.MilestoneStatus `json:"status"`
}

func toMilestoneResponse(m *project.Milestone) *MilestoneResponse {
	return &MilestoneResponse{
		ID:        m.ID,
		ProjectID: m.ProjectID,
		Name:      m.Name,
		Amount:    m.Amount.StringFixed(2),
		DueDate:   m.DueDate,
		Status:    m.Status,
	}
}

// CreateMilestone adds a milestone to a project
func (s *ProjectService) CreateMilestone(ctx context.Context, req CreateMilestoneRequest) (*MilestoneResponse, error) {
	// The project must exist and belong to the company
	p, err := s.projectRepo.FindByID(ctx, req.CompanyID, req.ProjectID)
	if err != nil {
		return nil, err
	}

	amount, err := parseMilestoneAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	m, err := project.NewMilestone(req.CompanyID, p.ID, req.Name, amount, req.DueDate)
	if err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		m.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.milestoneRepo.Save(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to save milestone: %w", err)
	}
	return toMilestoneResponse(m), nil
}

// ListMilestones returns a project's milestones
func (s *ProjectService) ListMilestones(ctx context.Context, companyID, projectID uuid.UUID) ([]*MilestoneResponse, error) {
	milestones, err := s.milestoneRepo.FindByProject(ctx, companyID, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list milestones: %w", err)
	}

	out := make([]*MilestoneResponse, 0, len(milestones))
	for _, m := range milestones {
		out = append(out, toMilestoneResponse(m))
	}
	return out, nil
}

// CompleteMilestoneResult pairs the completed milestone with the draft
// invoice raised for it
type CompleteMilestoneResult struct {
	Milestone *MilestoneResponse          `json:"milestone"`
	Invoice   *appbilling.InvoiceResponse `json:"invoice,omitempty"`
}

// CompleteMilestone marks a milestone completed and raises a draft
// invoice for its amount against the project's client. Invoice creation
// failure leaves the milestone completed but not invoiced; the error is
// surfaced so the caller can retry the billing step.
func (s *ProjectService) CompleteMilestone(ctx context.Context, companyID, milestoneID uuid.UUID, completedBy *uuid.UUID) (*CompleteMilestoneResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "milestone", "complete")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrCompanyID, companyID.String(),
		"milestone_id", milestoneID.String(),
	)

	m, err := s.milestoneRepo.FindByID(ctx, companyID, milestoneID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	p, err := s.projectRepo.FindByID(ctx, companyID, m.ProjectID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := m.Complete(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.milestoneRepo.SaveWithLock(ctx, m); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to save milestone: %w", err)
	}

	s.logger.Info("Milestone completed",
		zap.String("milestone_id", m.ID.String()),
		zap.String("project_id", p.ID.String()),
	)

	invoice, err := s.invoices.CreateInvoice(ctx, appbilling.CreateInvoiceRequest{
		CompanyID:   companyID,
		ClientName:  p.ClientName,
		Amount:      m.Amount.Amount().String(),
		DueDate:     m.DueDate,
		Notes:       fmt.Sprintf("Milestone: %s (%s)", m.Name, p.Name),
		ProjectID:   &p.ID,
		MilestoneID: &m.ID,
		CreatedBy:   completedBy,
	})
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to create invoice for completed milestone",
			zap.String("milestone_id", m.ID.String()),
			zap.Error(err),
		)
		return &CompleteMilestoneResult{Milestone: toMilestoneResponse(m)},
			fmt.Errorf("milestone completed but invoice creation failed: %w", err)
	}

	if err := m.MarkInvoiced(); err == nil {
		if err := s.milestoneRepo.SaveWithLock(ctx, m); err != nil {
			s.logger.Warn("Failed to mark milestone invoiced",
				zap.String("milestone_id", m.ID.String()),
				zap.Error(err),
			)
		}
	}

	return &CompleteMilestoneResult{
		Milestone: toMilestoneResponse(m),
		Invoice:   invoice,
	}, nil
}
