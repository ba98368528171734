package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/buildpay/backend/internal/domain/billing"
	"github.com/buildpay/backend/internal/domain/shared"
	"github.com/buildpay/backend/internal/infrastructure/persistence/models"
)

// GormBillRepository implements BillRepository using GORM
type GormBillRepository struct {
	db *gorm.DB
}

// NewGormBillRepository creates a new GormBillRepository
func NewGormBillRepository(db *gorm.DB) *GormBillRepository {
	return &GormBillRepository{db: db}
}

// Save creates or updates a bill
func (r *GormBillRepository) Save(ctx context.Context, bill *billing.Bill) error {
	model := models.BillModelFromDomain(bill)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves a bill with optimistic locking (version check).
// Returns ErrConcurrencyConflict if the version has changed.
func (r *GormBillRepository) SaveWithLock(ctx context.Context, bill *billing.Bill) error {
	model := models.BillModelFromDomain(bill)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", bill.ID, bill.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// FindByID finds a bill by ID within a company
func (r *GormBillRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*billing.Bill, error) {
	var model models.BillModel
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

// FindAll finds bills for a company matching the filter, newest first
func (r *GormBillRepository) FindAll(ctx context.Context, companyID uuid.UUID, filter billing.BillFilter) ([]*billing.Bill, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.BillModel{}).
		Where("company_id = ?", companyID)

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.DueBefore != nil {
		query = query.Where("due_date < ?", *filter.DueBefore)
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

	var billModels []models.BillModel
	if err := query.Find(&billModels).Error; err != nil {
		return nil, 0, err
	}

	bills := make([]*billing.Bill, len(billModels))
	for i := range billModels {
		bills[i] = billModels[i].ToDomain()
	}
	return bills, total, nil
}

// NextBillNumber allocates the next bill number for the company.
// Format: BILL-YYYYMMDD-XXXXX
func (r *GormBillRepository) NextBillNumber(ctx context.Context, companyID uuid.UUID) (string, error) {
	return nextDocumentNumber(ctx, r.db, &models.BillModel{}, "bill_number", "BILL", companyID)
}

// Ensure GormBillRepository implements BillRepository
var _ billing.BillRepository = (*GormBillRepository)(nil)
