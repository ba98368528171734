package project

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appbilling "github.com/buildpay/backend/internal/application/billing"
	"github.com/buildpay/backend/internal/domain/project"
	"github.com/buildpay/backend/internal/domain/shared/valueobject"
)

type mockProjectRepo struct {
	mock.Mock
}

func (m *mockProjectRepo) Save(ctx context.Context, p *project.Project) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockProjectRepo) FindByID(ctx context.Context, companyID, id uuid.UUID) (*project.Project, error) {
	args := m.Called(ctx, companyID, id)
	if p := args.Get(0); p != nil {
		return p.(*project.Project), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProjectRepo) FindAll(ctx context.Context, companyID uuid.UUID, filter project.ProjectFilter) ([]*project.Project, int64, error) {
	args := m.Called(ctx, companyID, filter)
	var projects []*project.Project
	if v := args.Get(0); v != nil {
		projects = v.([]*project.Project)
	}
	return projects, args.Get(1).(int64), args.Error(2)
}

type mockMilestoneRepo struct {
	mock.Mock
}

func (m *mockMilestoneRepo) Save(ctx context.Context, ms *project.Milestone) error {
	return m.Called(ctx, ms).Error(0)
}

func (m *mockMilestoneRepo) SaveWithLock(ctx context.Context, ms *project.Milestone) error {
	return m.Called(ctx, ms).Error(0)
}

func (m *mockMilestoneRepo) FindByID(ctx context.Context, companyID, id uuid.UUID) (*project.Milestone, error) {
	args := m.Called(ctx, companyID, id)
	if ms := args.Get(0); ms != nil {
		return ms.(*project.Milestone), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockMilestoneRepo) FindByProject(ctx context.Context, companyID, projectID uuid.UUID) ([]*project.Milestone, error) {
	args := m.Called(ctx, companyID, projectID)
	if ms := args.Get(0); ms != nil {
		return ms.([]*project.Milestone), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockInvoiceCreator struct {
	mock.Mock
}

func (m *mockInvoiceCreator) CreateInvoice(ctx context.Context, req appbilling.CreateInvoiceRequest) (*appbilling.InvoiceResponse, error) {
	args := m.Called(ctx, req)
	if r := args.Get(0); r != nil {
		return r.(*appbilling.InvoiceResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func newTestProject(t *testing.T, companyID uuid.UUID) *project.Project {
	t.Helper()
	p, err := project.NewProject(companyID, "Riverside Duplex", "Harbor Homes LLC", "12 River Rd")
	require.NoError(t, err)
	return p
}

func newTestMilestone(t *testing.T, companyID, projectID uuid.UUID) *project.Milestone {
	t.Helper()
	m, err := project.NewMilestone(companyID, projectID, "Foundation pour",
		valueobject.NewMoneyUSDFromFloat(15000.00), time.Now().Add(30*24*time.Hour))
	require.NoError(t, err)
	return m
}

func TestCompleteMilestone_RaisesDraftInvoice(t *testing.T) {
	companyID := uuid.New()
	p := newTestProject(t, companyID)
	m := newTestMilestone(t, companyID, p.ID)

	projectRepo := new(mockProjectRepo)
	milestoneRepo := new(mockMilestoneRepo)
	invoices := new(mockInvoiceCreator)

	milestoneRepo.On("FindByID", mock.Anything, companyID, m.ID).Return(m, nil)
	projectRepo.On("FindByID", mock.Anything, companyID, p.ID).Return(p, nil)
	milestoneRepo.On("SaveWithLock", mock.Anything, m).Return(nil)
	invoices.On("CreateInvoice", mock.Anything, mock.MatchedBy(func(req appbilling.CreateInvoiceRequest) bool {
		return req.CompanyID == companyID &&
			req.ClientName == p.ClientName &&
			req.Amount == "15000" &&
			req.MilestoneID != nil && *req.MilestoneID == m.ID
	})).Return(&appbilling.InvoiceResponse{ID: uuid.New(), InvoiceNumber: "INV-20260901-00007"}, nil)

	svc := NewProjectService(projectRepo, milestoneRepo, invoices, zap.NewNop())
	result, err := svc.CompleteMilestone(context.Background(), companyID, m.ID, nil)

	require.NoError(t, err)
	assert.Equal(t, project.MilestoneStatusInvoiced, m.Status)
	require.NotNil(t, result.Invoice)
	assert.Equal(t, "INV-20260901-00007", result.Invoice.InvoiceNumber)
	invoices.AssertExpectations(t)
}

func TestCompleteMilestone_InvoiceFailureSurfaces(t *testing.T) {
	companyID := uuid.New()
	p := newTestProject(t, companyID)
	m := newTestMilestone(t, companyID, p.ID)

	projectRepo := new(mockProjectRepo)
	milestoneRepo := new(mockMilestoneRepo)
	invoices := new(mockInvoiceCreator)

	milestoneRepo.On("FindByID", mock.Anything, companyID, m.ID).Return(m, nil)
	projectRepo.On("FindByID", mock.Anything, companyID, p.ID).Return(p, nil)
	milestoneRepo.On("SaveWithLock", mock.Anything, m).Return(nil)
	invoices.On("CreateInvoice", mock.Anything, mock.Anything).Return(nil, errors.New("number allocation failed"))

	svc := NewProjectService(projectRepo, milestoneRepo, invoices, zap.NewNop())
	result, err := svc.CompleteMilestone(context.Background(), companyID, m.ID, nil)

	require.Error(t, err)
	require.NotNil(t, result)
	// Milestone stays completed, not invoiced, so billing can be retried
	assert.Equal(t, project.MilestoneStatusCompleted, m.Status)
	assert.Nil(t, result.Invoice)
}

func TestCompleteMilestone_AlreadyCompleted(t *testing.T) {
	companyID := uuid.New()
	p := newTestProject(t, companyID)
	m := newTestMilestone(t, companyID, p.ID)
	require.NoError(t, m.Complete())

	projectRepo := new(mockProjectRepo)
	milestoneRepo := new(mockMilestoneRepo)
	milestoneRepo.On("FindByID", mock.Anything, companyID, m.ID).Return(m, nil)
	projectRepo.On("FindByID", mock.Anything, companyID, p.ID).Return(p, nil)

	svc := NewProjectService(projectRepo, milestoneRepo, new(mockInvoiceCreator), zap.NewNop())
	_, err := svc.CompleteMilestone(context.Background(), companyID, m.ID, nil)

	assert.Error(t, err)
}

func TestCreateMilestone_RequiresExistingProject(t *testing.T) {
	companyID := uuid.New()
	projectID := uuid.New()

	projectRepo := new(mockProjectRepo)
	projectRepo.On("FindByID", mock.Anything, companyID, projectID).Return(nil, errors.New("not found"))

	svc := NewProjectService(projectRepo, new(mockMilestoneRepo), new(mockInvoiceCreator), zap.NewNop())
	_, err := svc.CreateMilestone(context.Background(), CreateMilestoneRequest{
		CompanyID: companyID,
		ProjectID: projectID,
		Name:      "Framing",
		Amount:    "5000.00",
		DueDate:   time.Now().Add(30 * 24 * time.Hour),
	})

	assert.Error(t, err)
}
