package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/buildpay/backend/internal/domain/project"
	"github.com/buildpay/backend/internal/domain/shared"
	"github.com/buildpay/backend/internal/infrastructure/persistence/models"
)

// GormProjectRepository implements ProjectRepository using GORM
type GormProjectRepository struct {
	db *gorm.DB
}

// NewGormProjectRepository creates a new GormProjectRepository
func NewGormProjectRepository(db *gorm.DB) *GormProjectRepository {
	return &GormProjectRepository{db: db}
}

// Save creates or updates a project
func (r *GormProjectRepository) Save(ctx context.Context, p *project.Project) error {
	model := models.ProjectModelFromDomain(p)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindByID finds a project by ID within a company
func (r *GormProjectRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*project.Project, error) {
	var model models.ProjectModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds projects for a company matching the filter, newest first
func (r *GormProjectRepository) FindAll(ctx context.Context, companyID uuid.UUID, filter project.ProjectFilter) ([]*project.Project, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.ProjectModel{}).
		Where("company_id = ?", companyID)

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var projectModels []models.ProjectModel
	if err := query.Find(&projectModels).Error; err != nil {
		return nil, 0, err
	}

	projects := make([]*project.Project, len(projectModels))
	for i := range projectModels {
		projects[i] = projectModels[i].ToDomain()
	}
	return projects, total, nil
}

// Ensure GormProjectRepository implements ProjectRepository
var _ project.ProjectRepository = (*GormProjectRepository)(nil)

// GormMilestoneRepository implements MilestoneRepository using GORM
type GormMilestoneRepository struct {
	db *gorm.DB
}

// NewGormMilestoneRepository creates a new GormMilestoneRepository
func NewGormMilestoneRepository(db *gorm.DB) *GormMilestoneRepository {
	return &GormMilestoneRepository{db: db}
}

// Save creates or updates a milestone
func (r *GormMilestoneRepository) Save(ctx context.Context, m *project.Milestone) error {
	model := models.MilestoneModelFromDomain(m)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves a milestone with optimistic locking (version check).
// Returns ErrConcurrencyConflict if the version has changed.
func (r *GormMilestoneRepository) SaveWithLock(ctx context.Context, m *project.Milestone) error {
	model := models.MilestoneModelFromDomain(m)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", m.ID, m.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// FindByID finds a milestone by ID within a company
func (r *GormMilestoneRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*project.Milestone, error) {
	var model models.MilestoneModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByProject returns a project's milestones ordered by due date
func (r *GormMilestoneRepository) FindByProject(ctx context.Context, companyID, projectID uuid.UUID) ([]*project.Milestone, error) {
	var milestoneModels []models.MilestoneModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND project_id = ?", companyID, projectID).
		Order("due_date ASC").
		Find(&milestoneModels).Error; err != nil {
		return nil, err
	}

	milestones := make([]*project.Milestone, len(milestoneModels))
	for i := range milestoneModels {
		milestones[i] = milestoneModels[i].ToDomain()
	}
	return milestones, nil
}

// Ensure GormMilestoneRepository implements MilestoneRepository
var _ project.MilestoneRepository = (*GormMilestoneRepository)(nil)
