package models

import "time"

// EnrollmentStatus is the state of a student's seat in a cohort.
type EnrollmentStatus string

const (
	EnrollmentPending   EnrollmentStatus = "PENDING"
	EnrollmentActive    EnrollmentStatus = "ACTIVE"
	EnrollmentCompleted EnrollmentStatus = "COMPLETED"
	EnrollmentWithdrawn EnrollmentStatus = "WITHDRAWN"
	EnrollmentCancelled EnrollmentStatus = "CANCELLED"
)

// Enrollment links a student to a cohort.
type Enrollment struct {
	ID             string           `json:"id"`
	StudentID      string           `json:"studentId"`
	CohortID       string           `json:"cohortId"`
	EnrolledAt     time.Time        `json:"enrolledAt"`
	Status         EnrollmentStatus `json:"status"`
	FeeAmount      float64          `json:"feeAmount"`
	DiscountAmount float64          `json:"discountAmount,omitempty"`
	Notes          string           `json:"notes,omitempty"`
	Timestamps
}

// NetFee is the fee after discount.
func (e Enrollment) NetFee() float64 {
	return e.FeeAmount - e.DiscountAmount
}

func (Enrollment) Header() []string {
	return []string{"ID", "STUDENT", "COHORT", "ENROLLED", "NET FEE", "STATUS"}
}

func (e Enrollment) Row() []string {
	return []string{e.ID, e.StudentID, e.CohortID, formatTime(e.EnrolledAt), formatAmount(e.NetFee()), string(e.Status)}
}

// CreateEnrollmentRequest is the body of POST /enrollments.
type CreateEnrollmentRequest struct {
	StudentID      string  `json:"studentId"`
	CohortID       string  `json:"cohortId"`
	FeeAmount      float64 `json:"feeAmount,omitempty"`
	DiscountAmount float64 `json:"discountAmount,omitempty"`
	Notes          string  `json:"notes,omitempty"`
}

// UpdateEnrollmentRequest is the body of PATCH /enrollments/:id.
type UpdateEnrollmentRequest struct {
	FeeAmount      *float64          `json:"feeAmount,omitempty"`
	DiscountAmount *float64          `json:"discountAmount,omitempty"`
	Notes          *string           `json:"notes,omitempty"`
	Status         *EnrollmentStatus `json:"status,omitempty"`
}

// WithdrawEnrollmentRequest is the optional body of POST /enrollments/:id/withdraw.
type WithdrawEnrollmentRequest struct {
	Reason string `json:"reason,omitempty"`
}

// EnrollmentFilters narrows GET /enrollments.
type EnrollmentFilters struct {
	ListParams
	StudentID string           `query:"studentId"`
	CohortID  string           `query:"cohortId"`
	Status    EnrollmentStatus `query:"status"`
}
