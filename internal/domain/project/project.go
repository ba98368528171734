package project

import (
	"github.com/google/uuid"

	"github.com/buildpay/backend/internal/domain/shared"
)

// ProjectStatus represents the lifecycle state of a project
type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusArchived  ProjectStatus = "archived"
)

// IsValid checks if the project status is valid
func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectStatusActive, ProjectStatusCompleted, ProjectStatusArchived:
		return true
	}
	return false
}

// Project is a construction job billed through milestones
type Project struct {
	shared.CompanyAggregateRoot
	Name       string        `gorm:"not null"`
	ClientName string        `gorm:"not null"`
	Address    string
	Status     ProjectStatus `gorm:"not null;default:'active'"`
}

// NewProject creates a new active project
func NewProject(companyID uuid.UUID, name, clientName, address string) (*Project, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PROJECT_NAME", "Project name is required")
	}
	if clientName == "" {
		return nil, shared.NewDomainError("INVALID_CLIENT_NAME", "Client name is required")
	}

	return &Project{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		Name:                 name,
		ClientName:           clientName,
		Address:              address,
		Status:               ProjectStatusActive,
	}, nil
}

// Complete transitions an active project to completed
func (p *Project) Complete() error {
	if p.Status != ProjectStatusActive {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", "Only active projects can be completed")
	}
	p.Status = ProjectStatusCompleted
	p.IncrementVersion()
	return nil
}

// Archive transitions a project to archived
func (p *Project) Archive() error {
	if p.Status == ProjectStatusArchived {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", "Project is already archived")
	}
	p.Status = ProjectStatusArchived
	p.IncrementVersion()
	return nil
}
