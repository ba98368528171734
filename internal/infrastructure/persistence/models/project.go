package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/buildpay/backend/internal/domain/project"
)

// ProjectModel is the persistence model for the Project aggregate root.
type ProjectModel struct {
	CompanyAggregateModel
	Name       string                `gorm:"type:varchar(200);not null"`
	ClientName string                `gorm:"type:varchar(200);not null"`
	Address    string                `gorm:"type:varchar(500)"`
	Status     project.ProjectStatus `gorm:"type:varchar(20);not null;default:'active';index"`
}

// TableName returns the table name for GORM
func (ProjectModel) TableName() string {
	return "projects"
}

// ToDomain converts the persistence model to a domain Project.
func (m *ProjectModel) ToDomain() *project.Project {
	p := &project.Project{
		Name:       m.Name,
		ClientName: m.ClientName,
		Address:    m.Address,
		Status:     m.Status,
	}
	m.PopulateCompanyAggregateRoot(&p.CompanyAggregateRoot)
	return p
}

// FromDomain populates the persistence model from a domain Project.
func (m *ProjectModel) FromDomain(p *project.Project) {
	m.FromDomainCompanyAggregateRoot(p.CompanyAggregateRoot)
	m.Name = p.Name
	m.ClientName = p.ClientName
	m.Address = p.Address
	m.Status = p.Status
}

// ProjectModelFromDomain creates a new persistence model from a domain Project.
func ProjectModelFromDomain(p *project.Project) *ProjectModel {
	m := &ProjectModel{}
	m.FromDomain(p)
	return m
}

// MilestoneModel is the persistence model for the Milestone aggregate root.
type MilestoneModel struct {
	CompanyAggregateModel
	ProjectID uuid.UUID               `gorm:"type:uuid;not null;index"`
	Name      string                  `gorm:"type:varchar(200);not null"`
	Amount    decimal.Decimal         `gorm:"type:decimal(15,2);not null"`
	Currency  string                  `gorm:"type:varchar(3);not null;default:'USD'"`
	DueDate   time.Time               `gorm:"not null;index"`
	Status    project.MilestoneStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
}

// TableName returns the table name for GORM
func (MilestoneModel) TableName() string {
	return "milestones"
}

// ToDomain converts the persistence model to a domain Milestone.
func (m *MilestoneModel) ToDomain() *project.Milestone {
	ms := &project.Milestone{
		ProjectID: m.ProjectID,
		Name:      m.Name,
		Amount:    moneyFromColumns(m.Amount, m.Currency),
		DueDate:   m.DueDate,
		Status:    m.Status,
	}
	m.PopulateCompanyAggregateRoot(&ms.CompanyAggregateRoot)
	return ms
}

// FromDomain populates the persistence model from a domain Milestone.
func (m *MilestoneModel) FromDomain(ms *project.Milestone) {
	m.FromDomainCompanyAggregateRoot(ms.CompanyAggregateRoot)
	m.ProjectID = ms.ProjectID
	m.Name = ms.Name
	m.Amount = ms.Amount.Amount()
	m.Currency = string(ms.Amount.Currency())
	m.DueDate = ms.DueDate
	m.Status = ms.Status
}

// MilestoneModelFromDomain creates a new persistence model from a domain Milestone.
func MilestoneModelFromDomain(ms *project.Milestone) *MilestoneModel {
	m := &MilestoneModel{}
	m.FromDomain(ms)
	return m
}
