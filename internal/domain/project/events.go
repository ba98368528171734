package project

import (
	"time"

	"github.com/google/uuid"

	"github.com/buildpay/backend/internal/domain/shared"
)

// Event types for the project context
const (
	EventTypeMilestoneCompleted = "project.milestone.completed"
)

// MilestoneCompletedEvent is emitted when a milestone is completed.
// It carries everything the billing side needs to raise a draft invoice
// without reading the milestone back.
type MilestoneCompletedEvent struct {
	shared.BaseDomainEvent
	ProjectID     uuid.UUID `json:"project_id"`
	MilestoneName string    `json:"milestone_name"`
	Amount        string    `json:"amount"`
	DueDate       time.Time `json:"due_date"`
}

// NewMilestoneCompletedEvent creates a MilestoneCompletedEvent
func NewMilestoneCompletedEvent(m *Milestone) *MilestoneCompletedEvent {
	return &MilestoneCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeMilestoneCompleted, "Milestone", m.ID, m.CompanyID),
		ProjectID:     m.ProjectID,
		MilestoneName: m.Name,
		Amount:        m.Amount.StringFixed(2),
		DueDate:       m.DueDate,
	}
}
