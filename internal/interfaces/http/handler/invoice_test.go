package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appbilling "github.com/buildpay/backend/internal/application/billing"
	"github.com/buildpay/backend/internal/domain/billing"
	"github.com/buildpay/backend/internal/domain/shared"
	"github.com/buildpay/backend/internal/domain/shared/valueobject"
	"github.com/buildpay/backend/internal/interfaces/http/dto"
	"github.com/buildpay/backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := RegisterValidators(); err != nil {
		panic(err)
	}
}

// testAuth injects an authenticated company and user into the request
// context the way the JWT middleware would.
func testAuth(companyID, userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.JWTCompanyKey, companyID)
		c.Set(middleware.JWTUserKey, userID)
		c.Next()
	}
}

func newInvoiceTestRouter(companyID uuid.UUID, invoiceRepo *mockInvoiceRepo, paymentRepo *mockPaymentRepo) *gin.Engine {
	log := zap.NewNop()
	aggregator := appbilling.NewPaymentAggregatorService(invoiceRepo, &mockBillRepo{}, paymentRepo, log)
	recorder := appbilling.NewPaymentRecorderService(paymentRepo, aggregator, log)
	invoiceService := appbilling.NewInvoiceService(invoiceRepo, paymentRepo, aggregator, nil, nil, nil, log)
	h := NewInvoiceHandler(invoiceService, recorder, aggregator)

	router := gin.New()
	router.Use(testAuth(companyID, uuid.New()))
	router.GET("/invoices", h.List)
	router.GET("/invoices/:id", h.Get)
	router.POST("/invoices/:id/payments", h.RecordPayment)
	router.GET("/invoices/:id/payment-summary", h.PaymentSummary)
	return router
}

func newTestInvoice(t *testing.T, companyID uuid.UUID, amount string) *billing.Invoice {
	t.Helper()
	money, err := valueobject.NewMoneyUSDFromString(amount)
	require.NoError(t, err)
	invoice, err := billing.NewInvoice(
		companyID, "INV-20260110-00001", "Summit Construction", "ap@summit.test",
		money, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return invoice
}

func TestInvoiceHandler_Get(t *testing.T) {
	companyID := uuid.New()
	invoiceRepo := &mockInvoiceRepo{}
	paymentRepo := &mockPaymentRepo{}
	invoice := newTestInvoice(t, companyID, "12000.00")

	invoiceRepo.On("FindByID", mock.Anything, companyID, invoice.ID).Return(invoice, nil)

	router := newInvoiceTestRouter(companyID, invoiceRepo, paymentRepo)
	req := httptest.NewRequest(http.MethodGet, "/invoices/"+invoice.ID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	data := resp.Data.(map[string]any)
	assert.Equal(t, "INV-20260110-00001", data["invoice_number"])
	assert.Equal(t, "12000.00", data["amount"])
}

func TestInvoiceHandler_Get_NotFound(t *testing.T) {
	companyID := uuid.New()
	invoiceRepo := &mockInvoiceRepo{}
	invoiceRepo.On("FindByID", mock.Anything, companyID, mock.Anything).Return(nil, shared.ErrNotFound)

	router := newInvoiceTestRouter(companyID, invoiceRepo, &mockPaymentRepo{})
	req := httptest.NewRequest(http.MethodGet, "/invoices/"+uuid.New().String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT_FOUND")
}

func TestInvoiceHandler_Get_InvalidID(t *testing.T) {
	router := newInvoiceTestRouter(uuid.New(), &mockInvoiceRepo{}, &mockPaymentRepo{})
	req := httptest.NewRequest(http.MethodGet, "/invoices/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInvoiceHandler_List_Pagination(t *testing.T) {
	companyID := uuid.New()
	invoiceRepo := &mockInvoiceRepo{}
	invoice := newTestInvoice(t, companyID, "500.00")

	invoiceRepo.On("FindAll", mock.Anything, companyID, billing.InvoiceFilter{Limit: 10, Offset: 10}).
		Return([]*billing.Invoice{invoice}, int64(25), nil)

	router := newInvoiceTestRouter(companyID, invoiceRepo, &mockPaymentRepo{})
	req := httptest.NewRequest(http.MethodGet, "/invoices?page=2&page_size=10", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(25), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}

func TestInvoiceHandler_List_InvalidStatus(t *testing.T) {
	router := newInvoiceTestRouter(uuid.New(), &mockInvoiceRepo{}, &mockPaymentRepo{})
	req := httptest.NewRequest(http.MethodGet, "/invoices?status=bogus", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInvoiceHandler_PaymentSummary(t *testing.T) {
	companyID := uuid.New()
	invoiceRepo := &mockInvoiceRepo{}
	paymentRepo := &mockPaymentRepo{}
	invoice := newTestInvoice(t, companyID, "10000.00")
	require.NoError(t, invoice.Send())

	amount, err := valueobject.NewMoneyUSDFromString("4000.00")
	require.NoError(t, err)
	payment, err := billing.NewCompletedPayment(
		companyID, billing.EntityTypeInvoice, invoice.ID,
		amount, billing.PaymentMethodCheck, time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)

	invoiceRepo.On("FindByID", mock.Anything, companyID, invoice.ID).Return(invoice, nil)
	paymentRepo.On("FindCompletedByEntity", mock.Anything, companyID, billing.EntityTypeInvoice, invoice.ID).
		Return([]*billing.Payment{payment}, nil)
	invoiceRepo.On("SaveWithLock", mock.Anything, invoice).Return(nil)

	router := newInvoiceTestRouter(companyID, invoiceRepo, paymentRepo)
	req := httptest.NewRequest(http.MethodGet, "/invoices/"+invoice.ID.String()+"/payment-summary", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	data := resp.Data.(map[string]any)
	assert.Equal(t, string(billing.InvoiceStatusPartiallyPaid), data["status"])
	summary := data["summary"].(map[string]any)
	totalPaid := summary["total_paid"].(map[string]any)
	remaining := summary["remaining_balance"].(map[string]any)
	assert.Equal(t, "4000", totalPaid["amount"])
	assert.Equal(t, "6000", remaining["amount"])
	assert.Equal(t, false, summary["fully_paid"])
	assert.Equal(t, true, summary["partially_paid"])
}

func TestInvoiceHandler_RecordPayment(t *testing.T) {
	companyID := uuid.New()
	invoiceRepo := &mockInvoiceRepo{}
	paymentRepo := &mockPaymentRepo{}
	invoice := newTestInvoice(t, companyID, "10000.00")
	require.NoError(t, invoice.Send())

	paymentRepo.On("Save", mock.Anything, mock.AnythingOfType("*billing.Payment")).Return(nil)
	invoiceRepo.On("FindByID", mock.Anything, companyID, invoice.ID).Return(invoice, nil)
	paymentRepo.On("FindCompletedByEntity", mock.Anything, companyID, billing.EntityTypeInvoice, invoice.ID).
		Return([]*billing.Payment{}, nil)
	invoiceRepo.On("SaveWithLock", mock.Anything, invoice).Return(nil)

	body, _ := json.Marshal(dto.RecordPaymentRequest{
		Amount:      "2500.00",
		Method:      "check",
		PaymentDate: time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC),
		PayorName:   "Summit Construction",
	})

	router := newInvoiceTestRouter(companyID, invoiceRepo, paymentRepo)
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/invoices/%s/payments", invoice.ID), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	paymentRepo.AssertCalled(t, "Save", mock.Anything, mock.AnythingOfType("*billing.Payment"))
}

func TestInvoiceHandler_RecordPayment_InvalidMethod(t *testing.T) {
	router := newInvoiceTestRouter(uuid.New(), &mockInvoiceRepo{}, &mockPaymentRepo{})

	body, _ := json.Marshal(map[string]any{
		"amount":       "2500.00",
		"method":       "barter",
		"payment_date": "2026-08-25T00:00:00Z",
	})
	req := httptest.NewRequest(http.MethodPost, "/invoices/"+uuid.New().String()+"/payments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInvoiceHandler_RecordPayment_NegativeAmount(t *testing.T) {
	router := newInvoiceTestRouter(uuid.New(), &mockInvoiceRepo{}, &mockPaymentRepo{})

	body, _ := json.Marshal(map[string]any{
		"amount":       "-100.00",
		"method":       "check",
		"payment_date": "2026-08-25T00:00:00Z",
	})
	req := httptest.NewRequest(http.MethodPost, "/invoices/"+uuid.New().String()+"/payments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInvoiceHandler_Unauthenticated(t *testing.T) {
	log := zap.NewNop()
	invoiceRepo := &mockInvoiceRepo{}
	paymentRepo := &mockPaymentRepo{}
	aggregator := appbilling.NewPaymentAggregatorService(invoiceRepo, &mockBillRepo{}, paymentRepo, log)
	recorder := appbilling.NewPaymentRecorderService(paymentRepo, aggregator, log)
	invoiceService := appbilling.NewInvoiceService(invoiceRepo, paymentRepo, aggregator, nil, nil, nil, log)
	h := NewInvoiceHandler(invoiceService, recorder, aggregator)

	router := gin.New()
	router.GET("/invoices", h.List)

	req := httptest.NewRequest(http.MethodGet, "/invoices", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
