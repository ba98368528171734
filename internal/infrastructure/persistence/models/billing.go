package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/buildpay/backend/internal/domain/billing"
	"github.com/buildpay/backend/internal/domain/shared"
)

// InvoiceModel is the persistence model for the Invoice aggregate root.
type InvoiceModel struct {
	CompanyAggregateModel
	InvoiceNumber string                `gorm:"type:varchar(50);not null;uniqueIndex:idx_invoices_company_number,priority:2"`
	ClientName    string                `gorm:"type:varchar(200);not null"`
	ClientEmail   string                `gorm:"type:varchar(200)"`
	Amount        decimal.Decimal       `gorm:"type:decimal(15,2);not null"`
	Currency      string                `gorm:"type:varchar(3);not null;default:'USD'"`
	DueDate       time.Time             `gorm:"not null;index"`
	Status        billing.InvoiceStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	ProjectID     *uuid.UUID            `gorm:"type:uuid;index"`
	MilestoneID   *uuid.UUID            `gorm:"type:uuid;index"`
	Notes         string                `gorm:"type:text"`
	SentAt        *time.Time
	PaidAt        *time.Time
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice.
func (m *InvoiceModel) ToDomain() *billing.Invoice {
	inv := &billing.Invoice{
		InvoiceNumber: m.InvoiceNumber,
		ClientName:    m.ClientName,
		ClientEmail:   m.ClientEmail,
		Amount:        moneyFromColumns(m.Amount, m.Currency),
		DueDate:       m.DueDate,
		Status:        m.Status,
		ProjectID:     m.ProjectID,
		MilestoneID:   m.MilestoneID,
		Notes:         m.Notes,
		SentAt:        m.SentAt,
		PaidAt:        m.PaidAt,
	}
	m.PopulateCompanyAggregateRoot(&inv.CompanyAggregateRoot)
	return inv
}

// FromDomain populates the persistence model from a domain Invoice.
func (m *InvoiceModel) FromDomain(inv *billing.Invoice) {
	m.FromDomainCompanyAggregateRoot(inv.CompanyAggregateRoot)
	m.InvoiceNumber = inv.InvoiceNumber
	m.ClientName = inv.ClientName
	m.ClientEmail = inv.ClientEmail
	m.Amount = inv.Amount.Amount()
	m.Currency = string(inv.Amount.Currency())
	m.DueDate = inv.DueDate
	m.Status = inv.Status
	m.ProjectID = inv.ProjectID
	m.MilestoneID = inv.MilestoneID
	m.Notes = inv.Notes
	m.SentAt = inv.SentAt
	m.PaidAt = inv.PaidAt
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice.
func InvoiceModelFromDomain(inv *billing.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}

// BillModel is the persistence model for the Bill aggregate root.
type BillModel struct {
	CompanyAggregateModel
	BillNumber string             `gorm:"type:varchar(50);not null;uniqueIndex:idx_bills_company_number,priority:2"`
	VendorName string             `gorm:"type:varchar(200);not null"`
	Amount     decimal.Decimal    `gorm:"type:decimal(15,2);not null"`
	Currency   string             `gorm:"type:varchar(3);not null;default:'USD'"`
	DueDate    time.Time          `gorm:"not null;index"`
	Status     billing.BillStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	ProjectID  *uuid.UUID         `gorm:"type:uuid;index"`
	Notes      string             `gorm:"type:text"`
	PaidAt     *time.Time
}

// TableName returns the table name for GORM
func (BillModel) TableName() string {
	return "bills"
}

// ToDomain converts the persistence model to a domain Bill.
func (m *BillModel) ToDomain() *billing.Bill {
	bill := &billing.Bill{
		BillNumber: m.BillNumber,
		VendorName: m.VendorName,
		Amount:     moneyFromColumns(m.Amount, m.Currency),
		DueDate:    m.DueDate,
		Status:     m.Status,
		ProjectID:  m.ProjectID,
		Notes:      m.Notes,
		PaidAt:     m.PaidAt,
	}
	m.PopulateCompanyAggregateRoot(&bill.CompanyAggregateRoot)
	return bill
}

// FromDomain populates the persistence model from a domain Bill.
func (m *BillModel) FromDomain(bill *billing.Bill) {
	m.FromDomainCompanyAggregateRoot(bill.CompanyAggregateRoot)
	m.BillNumber = bill.BillNumber
	m.VendorName = bill.VendorName
	m.Amount = bill.Amount.Amount()
	m.Currency = string(bill.Amount.Currency())
	m.DueDate = bill.DueDate
	m.Status = bill.Status
	m.ProjectID = bill.ProjectID
	m.Notes = bill.Notes
	m.PaidAt = bill.PaidAt
}

// BillModelFromDomain creates a new persistence model from a domain Bill.
func BillModelFromDomain(bill *billing.Bill) *BillModel {
	m := &BillModel{}
	m.FromDomain(bill)
	return m
}

// PaymentModel is the persistence model for the Payment entity.
type PaymentModel struct {
	BaseModel
	CompanyID             uuid.UUID             `gorm:"type:uuid;not null;index"`
	EntityType            billing.EntityType    `gorm:"type:varchar(10);not null;index:idx_payments_entity,priority:1"`
	EntityID              uuid.UUID             `gorm:"type:uuid;not null;index:idx_payments_entity,priority:2"`
	Amount                decimal.Decimal       `gorm:"type:decimal(15,2);not null"`
	Currency              string                `gorm:"type:varchar(3);not null;default:'USD'"`
	Method                billing.PaymentMethod `gorm:"type:varchar(20);not null"`
	Status                billing.PaymentStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	PaymentDate           time.Time             `gorm:"not null;index"`
	Provider              string                `gorm:"type:varchar(50)"`
	ProviderTransactionID string                `gorm:"type:varchar(100);index"`
	PayorName             string                `gorm:"type:varchar(200)"`
	PayorCompany          string                `gorm:"type:varchar(200)"`
	PaymentDetails        string                `gorm:"type:text"`
	RecordedBy            *uuid.UUID            `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment.
func (m *PaymentModel) ToDomain() *billing.Payment {
	return &billing.Payment{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		CompanyID:             m.CompanyID,
		EntityType:            m.EntityType,
		EntityID:              m.EntityID,
		Amount:                moneyFromColumns(m.Amount, m.Currency),
		Method:                m.Method,
		Status:                m.Status,
		PaymentDate:           m.PaymentDate,
		Provider:              m.Provider,
		ProviderTransactionID: m.ProviderTransactionID,
		PayorName:             m.PayorName,
		PayorCompany:          m.PayorCompany,
		PaymentDetails:        m.PaymentDetails,
		RecordedBy:            m.RecordedBy,
	}
}

// FromDomain populates the persistence model from a domain Payment.
func (m *PaymentModel) FromDomain(p *billing.Payment) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.CompanyID = p.CompanyID
	m.EntityType = p.EntityType
	m.EntityID = p.EntityID
	m.Amount = p.Amount.Amount()
	m.Currency = string(p.Amount.Currency())
	m.Method = p.Method
	m.Status = p.Status
	m.PaymentDate = p.PaymentDate
	m.Provider = p.Provider
	m.ProviderTransactionID = p.ProviderTransactionID
	m.PayorName = p.PayorName
	m.PayorCompany = p.PayorCompany
	m.PaymentDetails = p.PaymentDetails
	m.RecordedBy = p.RecordedBy
}

// PaymentModelFromDomain creates a new persistence model from a domain Payment.
func PaymentModelFromDomain(p *billing.Payment) *PaymentModel {
	m := &PaymentModel{}
	m.FromDomain(p)
	return m
}
