package dto

import "time"

// RefreshRequest carries a refresh token exchange
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// CreateInvoiceRequest creates an invoice for a client
type CreateInvoiceRequest struct {
	ClientName  string    `json:"client_name" binding:"required,max=200"`
	ClientEmail string    `json:"client_email" binding:"omitempty,email"`
	Amount      string    `json:"amount" binding:"required,money"`
	DueDate     time.Time `json:"due_date" binding:"required"`
	Notes       string    `json:"notes" binding:"max=2000"`
	ProjectID   *string   `json:"project_id" binding:"omitempty,uuid"`
	MilestoneID *string   `json:"milestone_id" binding:"omitempty,uuid"`
}

// CreateBillRequest creates a bill owed to a vendor
type CreateBillRequest struct {
	VendorName string    `json:"vendor_name" binding:"required,max=200"`
	Amount     string    `json:"amount" binding:"required,money"`
	DueDate    time.Time `json:"due_date" binding:"required"`
	Notes      string    `json:"notes" binding:"max=2000"`
	ProjectID  *string   `json:"project_id" binding:"omitempty,uuid"`
}

// RecordPaymentRequest records an offline payment against an invoice or bill
type RecordPaymentRequest struct {
	Amount         string    `json:"amount" binding:"required,money"`
	Method         string    `json:"method" binding:"required,payment_method"`
	PaymentDate    time.Time `json:"payment_date" binding:"required"`
	PayorName      string    `json:"payor_name" binding:"max=200"`
	PayorCompany   string    `json:"payor_company" binding:"max=200"`
	PaymentDetails string    `json:"payment_details" binding:"max=500"`
}

// CreateProjectRequest creates a construction project
type CreateProjectRequest struct {
	Name       string `json:"name" binding:"required,max=200"`
	ClientName string `json:"client_name" binding:"required,max=200"`
	Address    string `json:"address" binding:"max=500"`
}

// CreateMilestoneRequest adds a billing milestone to a project
type CreateMilestoneRequest struct {
	Name    string    `json:"name" binding:"required,max=200"`
	Amount  string    `json:"amount" binding:"required,money"`
	DueDate time.Time `json:"due_date" binding:"required"`
}
