package billing

import (
	"sort"

	"github.com/buildpay/backend/internal/domain/shared/valueobject"
)

// PaymentSummary is the derived payment state of an invoice or bill.
// It is computed from the payment records on every read and never
// persisted, so it cannot drift from the payments themselves.
type PaymentSummary struct {
	TotalPaid        valueobject.Money `json:"total_paid"`
	RemainingBalance valueobject.Money `json:"remaining_balance"`
	FullyPaid        bool              `json:"fully_paid"`
	PartiallyPaid    bool              `json:"partially_paid"`
	Payments         []*Payment        `json:"payments"`
}

// ComputeSummary derives the payment summary for a document with the
// given total amount. Only completed payments contribute; they are
// returned ordered by payment date descending, with the incoming order
// preserved as the tie-break. The remaining balance is floored at zero
// so overpayment never produces a negative figure.
func ComputeSummary(documentAmount valueobject.Money, payments []*Payment) PaymentSummary {
	completed := make([]*Payment, 0, len(payments))
	for _, p := range payments {
		if p.IsCompleted() {
			completed = append(completed, p)
		}
	}

	sort.SliceStable(completed, func(i, j int) bool {
		return completed[i].PaymentDate.After(completed[j].PaymentDate)
	})

	total := valueobject.Zero(documentAmount.Currency())
	for _, p := range completed {
		total = total.MustAdd(p.Amount)
	}

	remaining := documentAmount.MustSubtract(total).ClampNonNegative()

	fullyPaid := false
	partiallyPaid := false
	if total.IsPositive() {
		if remaining.IsZero() {
			fullyPaid = true
		} else {
			partiallyPaid = true
		}
	}

	return PaymentSummary{
		TotalPaid:        total,
		RemainingBalance: remaining,
		FullyPaid:        fullyPaid,
		PartiallyPaid:    partiallyPaid,
		Payments:         completed,
	}
}

// EmptySummary returns the zero-payment fallback for a document amount.
// Used when payment records cannot be fetched: the caller still gets a
// well-formed summary alongside the error.
func EmptySummary(documentAmount valueobject.Money) PaymentSummary {
	return PaymentSummary{
		TotalPaid:        valueobject.Zero(documentAmount.Currency()),
		RemainingBalance: documentAmount.ClampNonNegative(),
		FullyPaid:        false,
		PartiallyPaid:    false,
		Payments:         []*Payment{},
	}
}

// HasPayments returns true if at least one completed payment contributed
func (s PaymentSummary) HasPayments() bool {
	return len(s.Payments) > 0
}
