package project

import (
	"time"

	"github.com/google/uuid"

	"github.com/buildpay/backend/internal/domain/shared"
	"github.com/buildpay/backend/internal/domain/shared/valueobject"
)

// MilestoneStatus represents the lifecycle state of a milestone
type MilestoneStatus string

const (
	MilestoneStatusPending    MilestoneStatus = "pending"
	MilestoneStatusInProgress MilestoneStatus = "in_progress"
	MilestoneStatusCompleted  MilestoneStatus = "completed"
	MilestoneStatusInvoiced   MilestoneStatus = "invoiced"
)

// IsValid checks if the milestone status is valid
func (s MilestoneStatus) IsValid() bool {
	switch s {
	case MilestoneStatusPending, MilestoneStatusInProgress,
		MilestoneStatusCompleted, MilestoneStatusInvoiced:
		return true
	}
	return false
}

// Milestone is a billable stage of a project. Completing one triggers
// draft invoice creation for the milestone amount.
type Milestone struct {
	shared.CompanyAggregateRoot
	ProjectID uuid.UUID         `gorm:"type:uuid;not null;index"`
	Name      string            `gorm:"not null"`
	Amount    valueobject.Money `gorm:"type:decimal(15,2);not null"`
	DueDate   time.Time         `gorm:"not null"`
	Status    MilestoneStatus   `gorm:"not null;default:'pending'"`
}

// NewMilestone creates a new pending milestone for a project
func NewMilestone(
	companyID, projectID uuid.UUID,
	name string,
	amount valueobject.Money,
	dueDate time.Time,
) (*Milestone, error) {
	if projectID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROJECT_ID", "Project ID is required")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_MILESTONE_NAME", "Milestone name is required")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Milestone amount must be greater than zero")
	}
	if dueDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DUE_DATE", "Due date is required")
	}

	return &Milestone{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		ProjectID:            projectID,
		Name:                 name,
		Amount:               amount,
		DueDate:              dueDate,
		Status:               MilestoneStatusPending,
	}, nil
}

// Start transitions a pending milestone to in progress
func (m *Milestone) Start() error {
	if m.Status != MilestoneStatusPending {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", "Only pending milestones can be started")
	}
	m.Status = MilestoneStatusInProgress
	m.IncrementVersion()
	return nil
}

// Complete marks the milestone done and emits MilestoneCompleted so the
// billing side can raise a draft invoice.
func (m *Milestone) Complete() error {
	if m.Status != MilestoneStatusPending && m.Status != MilestoneStatusInProgress {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", "Only pending or in-progress milestones can be completed")
	}
	m.Status = MilestoneStatusCompleted
	m.IncrementVersion()
	m.AddDomainEvent(NewMilestoneCompletedEvent(m))
	return nil
}

// MarkInvoiced records that a draft invoice now exists for this milestone
func (m *Milestone) MarkInvoiced() error {
	if m.Status != MilestoneStatusCompleted {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", "Only completed milestones can be invoiced")
	}
	m.Status = MilestoneStatusInvoiced
	m.IncrementVersion()
	return nil
}
