package models

import "time"

// PaymentStatus is the settlement state of a payment.
type PaymentStatus string

const (
	PaymentPending           PaymentStatus = "PENDING"
	PaymentProcessing        PaymentStatus = "PROCESSING"
	PaymentCompleted         PaymentStatus = "COMPLETED"
	PaymentFailed            PaymentStatus = "FAILED"
	PaymentRefunded          PaymentStatus = "REFUNDED"
	PaymentPartiallyRefunded PaymentStatus = "PARTIALLY_REFUNDED"
	PaymentCancelled         PaymentStatus = "CANCELLED"
)

// PaymentMethod is how a payment was made.
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "CASH"
	MethodCard         PaymentMethod = "CARD"
	MethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	MethodUPI          PaymentMethod = "UPI"
	MethodCheque       PaymentMethod = "CHEQUE"
	MethodOnline       PaymentMethod = "ONLINE"
)

// Payment is money received against an enrollment.
type Payment struct {
	ID             string        `json:"id"`
	EnrollmentID   string        `json:"enrollmentId"`
	StudentID      string        `json:"studentId"`
	Amount         float64       `json:"amount"`
	Currency       string        `json:"currency,omitempty"`
	Method         PaymentMethod `json:"method"`
	Status         PaymentStatus `json:"status"`
	TransactionRef string        `json:"transactionRef,omitempty"`
	PaidAt         *time.Time    `json:"paidAt,omitempty"`
	RefundedAmount float64       `json:"refundedAmount,omitempty"`
	Notes          string        `json:"notes,omitempty"`
	Timestamps
}

func (Payment) Header() []string {
	return []string{"ID", "STUDENT", "AMOUNT", "METHOD", "PAID", "STATUS"}
}

func (p Payment) Row() []string {
	amount := formatAmount(p.Amount)
	if p.Currency != "" {
		amount += " " + p.Currency
	}
	return []string{p.ID, p.StudentID, amount, string(p.Method), formatTimePtr(p.PaidAt), string(p.Status)}
}

// CreatePaymentRequest is the body of POST /payments.
type CreatePaymentRequest struct {
	EnrollmentID   string        `json:"enrollmentId"`
	StudentID      string        `json:"studentId,omitempty"`
	Amount         float64       `json:"amount"`
	Currency       string        `json:"currency,omitempty"`
	Method         PaymentMethod `json:"method"`
	TransactionRef string        `json:"transactionRef,omitempty"`
	Notes          string        `json:"notes,omitempty"`
}

// UpdatePaymentRequest is the body of PATCH /payments/:id.
type UpdatePaymentRequest struct {
	Amount         *float64       `json:"amount,omitempty"`
	Method         *PaymentMethod `json:"method,omitempty"`
	TransactionRef *string        `json:"transactionRef,omitempty"`
	Notes          *string        `json:"notes,omitempty"`
}

// RefundPaymentRequest is the body of POST /payments/:id/refund. A nil Amount
// refunds the full remaining balance.
type RefundPaymentRequest struct {
	Amount *float64 `json:"amount,omitempty"`
	Reason string   `json:"reason"`
}

// PaymentFilters narrows GET /payments.
type PaymentFilters struct {
	ListParams
	StudentID    string        `query:"studentId"`
	EnrollmentID string        `query:"enrollmentId"`
	Status       PaymentStatus `query:"status"`
	Method       PaymentMethod `query:"method"`
	From         *time.Time    `query:"from"`
	To           *time.Time    `query:"to"`
}
