package project

import (
	"context"

	"github.com/google/uuid"
)

// ProjectFilter narrows project list queries
type ProjectFilter struct {
	Status *ProjectStatus
	Limit  int
	Offset int
}

// ProjectRepository is the persistence port for projects
type ProjectRepository interface {
	Save(ctx context.Context, project *Project) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Project, error)
	FindAll(ctx context.Context, companyID uuid.UUID, filter ProjectFilter) ([]*Project, int64, error)
}

// MilestoneRepository is the persistence port for milestones
type MilestoneRepository interface {
	Save(ctx context.Context, milestone *Milestone) error
	SaveWithLock(ctx context.Context, milestone *Milestone) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Milestone, error)
	FindByProject(ctx context.Context, companyID, projectID uuid.UUID) ([]*Milestone, error)
}
