package services

import (
	"context"

	"github.com/MacJediWizard/edudesk/internal/apiclient"
	"github.com/MacJediWizard/edudesk/internal/envelope"
	"github.com/MacJediWizard/edudesk/internal/models"
	"github.com/MacJediWizard/edudesk/internal/query"
)

type (
	// OrganizationService manages /organizations.
	OrganizationService = Resource[models.Organization, models.CreateOrganizationRequest, models.UpdateOrganizationRequest, models.OrganizationFilters]
	// CenterService manages /centers.
	CenterService = Resource[models.Center, models.CreateCenterRequest, models.UpdateCenterRequest, models.CenterFilters]
	// EmployeeService manages /employees.
	EmployeeService = Resource[models.Employee, models.CreateEmployeeRequest, models.UpdateEmployeeRequest, models.EmployeeFilters]
	// StudentService manages /students.
	StudentService = Resource[models.Student, models.CreateStudentRequest, models.UpdateStudentRequest, models.StudentFilters]
	// FeedbackService manages /feedback.
	FeedbackService = Resource[models.Feedback, models.CreateFeedbackRequest, models.UpdateFeedbackRequest, models.FeedbackFilters]
)

// CourseService manages /courses.
type CourseService struct {
	*Resource[models.Course, models.CreateCourseRequest, models.UpdateCourseRequest, models.CourseFilters]
}

// Publish makes the course available for cohorts.
func (s *CourseService) Publish(ctx context.Context, id string) *envelope.Response[models.Course] {
	return s.Action(ctx, id, "publish", nil)
}

// Archive retires the course.
func (s *CourseService) Archive(ctx context.Context, id string) *envelope.Response[models.Course] {
	return s.Action(ctx, id, "archive", nil)
}

// CohortService manages /cohorts. Status changes are requested, never
// validated locally.
type CohortService struct {
	*Resource[models.Cohort, models.CreateCohortRequest, models.UpdateCohortRequest, models.CohortFilters]
}

// Start moves the cohort to in-progress.
func (s *CohortService) Start(ctx context.Context, id string) *envelope.Response[models.Cohort] {
	return s.Action(ctx, id, "start", nil)
}

// Complete marks the cohort as finished.
func (s *CohortService) Complete(ctx context.Context, id string) *envelope.Response[models.Cohort] {
	return s.Action(ctx, id, "complete", nil)
}

// Cancel cancels the cohort.
func (s *CohortService) Cancel(ctx context.Context, id string) *envelope.Response[models.Cohort] {
	return s.Action(ctx, id, "cancel", nil)
}

// OpenEnrollment opens the cohort for new enrollments.
func (s *CohortService) OpenEnrollment(ctx context.Context, id string) *envelope.Response[models.Cohort] {
	return s.Action(ctx, id, "open-enrollment", nil)
}

// CloseEnrollment stops new enrollments into the cohort.
func (s *CohortService) CloseEnrollment(ctx context.Context, id string) *envelope.Response[models.Cohort] {
	return s.Action(ctx, id, "close-enrollment", nil)
}

// ClassService manages /classes.
type ClassService struct {
	*Resource[models.Class, models.CreateClassRequest, models.UpdateClassRequest, models.ClassFilters]
}

// Cancel cancels the scheduled class.
func (s *ClassService) Cancel(ctx context.Context, id string) *envelope.Response[models.Class] {
	return s.Action(ctx, id, "cancel", nil)
}

// Complete marks the class as held.
func (s *ClassService) Complete(ctx context.Context, id string) *envelope.Response[models.Class] {
	return s.Action(ctx, id, "complete", nil)
}

// EnrollmentService manages /enrollments.
type EnrollmentService struct {
	*Resource[models.Enrollment, models.CreateEnrollmentRequest, models.UpdateEnrollmentRequest, models.EnrollmentFilters]
}

// Withdraw withdraws a student from the cohort. An empty reason sends no body.
func (s *EnrollmentService) Withdraw(ctx context.Context, id, reason string) *envelope.Response[models.Enrollment] {
	var body any
	if reason != "" {
		body = models.WithdrawEnrollmentRequest{Reason: reason}
	}
	return s.Action(ctx, id, "withdraw", body)
}

// EnquiryService manages /enquiries.
type EnquiryService struct {
	*Resource[models.Enquiry, models.CreateEnquiryRequest, models.UpdateEnquiryRequest, models.EnquiryFilters]
}

// Convert turns the enquiry into a student, optionally enrolling into cohortID.
func (s *EnquiryService) Convert(ctx context.Context, id, cohortID string) *envelope.Response[models.Enquiry] {
	var body any
	if cohortID != "" {
		body = models.ConvertEnquiryRequest{CohortID: cohortID}
	}
	return s.Action(ctx, id, "convert", body)
}

// Assign hands the enquiry to an employee for follow-up.
func (s *EnquiryService) Assign(ctx context.Context, id, employeeID string) *envelope.Response[models.Enquiry] {
	return s.Action(ctx, id, "assign", models.AssignEnquiryRequest{EmployeeID: employeeID})
}

// PaymentService manages /payments.
type PaymentService struct {
	*Resource[models.Payment, models.CreatePaymentRequest, models.UpdatePaymentRequest, models.PaymentFilters]
}

// Process settles a pending payment.
func (s *PaymentService) Process(ctx context.Context, id string) *envelope.Response[models.Payment] {
	return s.Action(ctx, id, "process", nil)
}

// Refund refunds all or part of a completed payment.
func (s *PaymentService) Refund(ctx context.Context, id string, req models.RefundPaymentRequest) *envelope.Response[models.Payment] {
	return s.Action(ctx, id, "refund", req)
}

// RoleService manages /roles and their permission sets.
type RoleService struct {
	*Resource[models.Role, models.CreateRoleRequest, models.UpdateRoleRequest, models.RoleFilters]
}

// Permissions lists the permissions granted to a role.
func (s *RoleService) Permissions(ctx context.Context, id string) *envelope.Response[[]models.Permission] {
	return apiclient.Get[[]models.Permission](ctx, s.client, s.itemPath(id, "permissions"), nil)
}

// AssignPermissions replaces the role's permissions with permissionIDs.
func (s *RoleService) AssignPermissions(ctx context.Context, id string, permissionIDs []string) *envelope.Response[models.Role] {
	if permissionIDs == nil {
		permissionIDs = []string{}
	}
	return s.Action(ctx, id, "assign-permissions", models.AssignPermissionsRequest{PermissionIDs: permissionIDs})
}

// AuditLogService reads /audit-logs. Entries are immutable.
type AuditLogService struct {
	res *Resource[models.AuditLog, struct{}, struct{}, models.AuditLogFilters]
}

// Path returns the collection path.
func (s *AuditLogService) Path() string {
	return s.res.Path()
}

// List returns one page of audit entries matching filters.
func (s *AuditLogService) List(ctx context.Context, filters models.AuditLogFilters, extra ...query.Param) *envelope.Response[envelope.Page[models.AuditLog]] {
	return s.res.List(ctx, filters, extra...)
}

// Get fetches a single audit entry.
func (s *AuditLogService) Get(ctx context.Context, id string) *envelope.Response[models.AuditLog] {
	return s.res.Get(ctx, id)
}
