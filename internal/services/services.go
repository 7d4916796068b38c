package services

import (
	"github.com/MacJediWizard/edudesk/internal/apiclient"
	"github.com/MacJediWizard/edudesk/internal/models"
)

// Services bundles every entity service over one shared client.
type Services struct {
	Client *apiclient.Client

	Auth          *AuthService
	Dashboard     *DashboardService
	Organizations *OrganizationService
	Centers       *CenterService
	Employees     *EmployeeService
	Students      *StudentService
	Courses       *CourseService
	Cohorts       *CohortService
	Classes       *ClassService
	Enrollments   *EnrollmentService
	Enquiries     *EnquiryService
	Payments      *PaymentService
	Feedback      *FeedbackService
	Roles         *RoleService
	AuditLogs     *AuditLogService
}

// New wires all services to client.
func New(client *apiclient.Client) *Services {
	return &Services{
		Client:        client,
		Auth:          &AuthService{client: client},
		Dashboard:     &DashboardService{client: client},
		Organizations: NewResource[models.Organization, models.CreateOrganizationRequest, models.UpdateOrganizationRequest, models.OrganizationFilters](client, "/organizations"),
		Centers:       NewResource[models.Center, models.CreateCenterRequest, models.UpdateCenterRequest, models.CenterFilters](client, "/centers"),
		Employees:     NewResource[models.Employee, models.CreateEmployeeRequest, models.UpdateEmployeeRequest, models.EmployeeFilters](client, "/employees"),
		Students:      NewResource[models.Student, models.CreateStudentRequest, models.UpdateStudentRequest, models.StudentFilters](client, "/students"),
		Courses:       &CourseService{NewResource[models.Course, models.CreateCourseRequest, models.UpdateCourseRequest, models.CourseFilters](client, "/courses")},
		Cohorts:       &CohortService{NewResource[models.Cohort, models.CreateCohortRequest, models.UpdateCohortRequest, models.CohortFilters](client, "/cohorts")},
		Classes:       &ClassService{NewResource[models.Class, models.CreateClassRequest, models.UpdateClassRequest, models.ClassFilters](client, "/classes")},
		Enrollments:   &EnrollmentService{NewResource[models.Enrollment, models.CreateEnrollmentRequest, models.UpdateEnrollmentRequest, models.EnrollmentFilters](client, "/enrollments")},
		Enquiries:     &EnquiryService{NewResource[models.Enquiry, models.CreateEnquiryRequest, models.UpdateEnquiryRequest, models.EnquiryFilters](client, "/enquiries")},
		Payments:      &PaymentService{NewResource[models.Payment, models.CreatePaymentRequest, models.UpdatePaymentRequest, models.PaymentFilters](client, "/payments")},
		Feedback:      NewResource[models.Feedback, models.CreateFeedbackRequest, models.UpdateFeedbackRequest, models.FeedbackFilters](client, "/feedback"),
		Roles:         &RoleService{NewResource[models.Role, models.CreateRoleRequest, models.UpdateRoleRequest, models.RoleFilters](client, "/roles")},
		AuditLogs:     &AuditLogService{res: NewResource[models.AuditLog, struct{}, struct{}, models.AuditLogFilters](client, "/audit-logs")},
	}
}
