// Package envelope defines the response envelope every platform API reply conforms to.
package envelope

import (
	"errors"
	"fmt"
	"time"
)

// Module identifies the server subsystem a response is attributed to.
type Module string

const (
	ModuleAuth         Module = "AUTH"
	ModuleOrganization Module = "ORGANIZATION"
	ModuleCenter       Module = "CENTER"
	ModuleEmployee     Module = "EMPLOYEE"
	ModuleStudent      Module = "STUDENT"
	ModuleCourse       Module = "COURSE"
	ModuleCohort       Module = "COHORT"
	ModuleClass        Module = "CLASS"
	ModuleEnrollment   Module = "ENROLLMENT"
	ModuleEnquiry      Module = "ENQUIRY"
	ModulePayment      Module = "PAYMENT"
	ModuleFeedback     Module = "FEEDBACK"
	ModuleRole         Module = "ROLE"
	ModuleAuditLog     Module = "AUDIT_LOG"
	ModuleDashboard    Module = "DASHBOARD"
	// ModuleApp tags envelopes synthesized by the client itself.
	ModuleApp Module = "APP"
)

var knownModules = map[Module]struct{}{
	ModuleAuth: {}, ModuleOrganization: {}, ModuleCenter: {}, ModuleEmployee: {}, ModuleStudent: {},
	ModuleCourse: {}, ModuleCohort: {}, ModuleClass: {}, ModuleEnrollment: {}, ModuleEnquiry: {},
	ModulePayment: {}, ModuleFeedback: {}, ModuleRole: {}, ModuleAuditLog: {}, ModuleDashboard: {},
	ModuleApp: {},
}

// Known reports whether m belongs to the closed set of module tags.
func (m Module) Known() bool {
	_, ok := knownModules[m]
	return ok
}

// ErrorType is the server-defined failure taxonomy.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "VALIDATION_ERROR"
	ErrorTypeDatabase   ErrorType = "DATABASE_ERROR"
	ErrorTypeAuth       ErrorType = "AUTH_ERROR"
	ErrorTypeAccess     ErrorType = "ACCESS_ERROR"
	ErrorTypeBusiness   ErrorType = "BUSINESS_ERROR"
	ErrorTypeSystem     ErrorType = "SYSTEM_ERROR"
	ErrorTypeInternal   ErrorType = "INTERNAL_ERROR"
	ErrorTypeTechnical  ErrorType = "TECHNICAL_ERROR"
)

// CodeNetworkError is the error code of every locally synthesized failure.
const CodeNetworkError = "NETWORK_ERROR"

// TimestampLayout matches the millisecond ISO-8601 form the server emits.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// ErrorInfo is the error block of a failed envelope.
type ErrorInfo struct {
	Type    ErrorType `json:"type"`
	Code    string    `json:"code"`
	Details any       `json:"details,omitempty"`

	// Cause is the local Go error behind a synthesized failure.
	Cause error `json:"-"`
}

// Response is the discriminated success/failure envelope.
// Exactly one of Data and Error is populated, governed by Success.
type Response[T any] struct {
	Success    bool       `json:"success"`
	StatusCode int        `json:"statusCode"`
	Message    string     `json:"message"`
	Module     Module     `json:"module"`
	Data       *T         `json:"data,omitempty"`
	Error      *ErrorInfo `json:"error,omitempty"`
	Timestamp  string     `json:"timestamp"`
	RequestID  string     `json:"requestId,omitempty"`
}

// Message is the payload of delete-style endpoints.
type Message struct {
	Message string `json:"message"`
}

// Status is the payload-independent part of an envelope.
type Status struct {
	Success    bool
	StatusCode int
	Message    string
	Module     Module
	Error      *ErrorInfo
	RequestID  string
}

// Status returns the envelope without its payload.
func (r *Response[T]) Status() Status {
	return Status{
		Success:    r.Success,
		StatusCode: r.StatusCode,
		Message:    r.Message,
		Module:     r.Module,
		Error:      r.Error,
		RequestID:  r.RequestID,
	}
}

// Valid reports whether the data/error exclusivity holds.
func (r *Response[T]) Valid() bool {
	if r.Success {
		return r.Error == nil
	}
	return r.Error != nil && r.Data == nil
}

// Err returns nil for a successful envelope and an *APIError otherwise.
func (r *Response[T]) Err() error {
	if r == nil {
		return errors.New("nil response envelope")
	}
	if r.Success {
		return nil
	}
	return &APIError{Status: r.Status()}
}

// Now formats t the way the server stamps envelopes.
func Now(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Failure builds a failed envelope carrying a server-style error block.
func Failure[T any](statusCode int, module Module, message string, info *ErrorInfo, now time.Time) *Response[T] {
	return &Response[T]{
		Success:    false,
		StatusCode: statusCode,
		Message:    message,
		Module:     module,
		Error:      info,
		Timestamp:  Now(now),
	}
}

// NetworkFailure synthesizes the envelope returned for transport-level failures
// (dial errors, timeouts, undecodable bodies).
func NetworkFailure[T any](cause error, message string, now time.Time) *Response[T] {
	var details any
	if cause != nil {
		details = cause.Error()
	}
	return Failure[T](500, ModuleApp, message, &ErrorInfo{
		Type:    ErrorTypeTechnical,
		Code:    CodeNetworkError,
		Details: details,
		Cause:   cause,
	}, now)
}

// Success builds a successful envelope around data.
func Success[T any](statusCode int, module Module, message string, data *T, now time.Time) *Response[T] {
	return &Response[T]{
		Success:    true,
		StatusCode: statusCode,
		Message:    message,
		Module:     module,
		Data:       data,
		Timestamp:  Now(now),
	}
}

// APIError adapts a failed envelope to the error interface.
type APIError struct {
	Status Status
}

func (e *APIError) Error() string {
	if e.Status.Error != nil && e.Status.Error.Code != "" {
		return fmt.Sprintf("%s (%d %s)", e.Status.Message, e.Status.StatusCode, e.Status.Error.Code)
	}
	return fmt.Sprintf("%s (%d)", e.Status.Message, e.Status.StatusCode)
}

// Unwrap exposes the local cause of synthesized failures.
func (e *APIError) Unwrap() error {
	if e.Status.Error == nil {
		return nil
	}
	return e.Status.Error.Cause
}
