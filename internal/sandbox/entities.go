package sandbox

import (
	"fmt"
	"net/http"
	"time"

	"github.com/MacJediWizard/edudesk/internal/envelope"
	"github.com/MacJediWizard/edudesk/internal/models"
)

// actionFunc computes the patch applied by a fixed-path action. rec is the
// current record and body the optional request body.
type actionFunc func(s *Server, rec, body Record) (Record, string, *apiError)

// entitySpec describes how one entity path behaves.
type entitySpec struct {
	path     string
	module   envelope.Module
	label    string
	plural   string
	required []string
	unique   []string
	defaults Record
	// rowsKey selects the nested page shape {<rowsKey>: [...], pagination: {...}}.
	rowsKey  string
	readOnly bool
	actions  map[string]actionFunc

	beforeCreate func(s *Server, body Record) *apiError
	afterCreate  func(s *Server, rec Record)
}

func entitySpecs() []*entitySpec {
	return []*entitySpec{
		{
			path: "organizations", module: envelope.ModuleOrganization,
			label: "Organization", plural: "Organizations",
			required: []string{"name", "code"},
			unique:   []string{"code"},
			defaults: Record{"isActive": true},
		},
		{
			path: "centers", module: envelope.ModuleCenter,
			label: "Center", plural: "Centers",
			required: []string{"organizationId", "name", "code"},
			unique:   []string{"code"},
			defaults: Record{"isActive": true},
		},
		{
			path: "employees", module: envelope.ModuleEmployee,
			label: "Employee", plural: "Employees",
			required: []string{"organizationId", "firstName", "lastName", "email"},
			unique:   []string{"email"},
			defaults: Record{"status": string(models.EmployeeActive)},
		},
		{
			path: "students", module: envelope.ModuleStudent,
			label: "Student", plural: "Students",
			required:     []string{"firstName", "lastName", "email"},
			unique:       []string{"email"},
			defaults:     Record{"status": string(models.StudentActive)},
			beforeCreate: assignStudentCode,
		},
		{
			path: "courses", module: envelope.ModuleCourse,
			label: "Course", plural: "Courses",
			required: []string{"organizationId", "name", "code"},
			unique:   []string{"code"},
			defaults: Record{"status": string(models.CourseDraft), "currency": "USD", "fee": 0.0},
			actions: map[string]actionFunc{
				"publish": setStatus(string(models.CoursePublished), "Course published successfully"),
				"archive": setStatus(string(models.CourseArchived), "Course archived successfully"),
			},
		},
		{
			path: "cohorts", module: envelope.ModuleCohort,
			label: "Cohort", plural: "Cohorts",
			required:     []string{"courseId", "centerId", "name", "startDate", "endDate", "capacity"},
			defaults:     Record{"status": string(models.CohortPlanning), "enrolledCount": 0.0},
			beforeCreate: validateCohort,
			actions: map[string]actionFunc{
				"start":            setStatus(string(models.CohortActive), "Cohort started successfully"),
				"complete":         setStatus(string(models.CohortCompleted), "Cohort completed successfully"),
				"cancel":           setStatus(string(models.CohortCancelled), "Cohort cancelled successfully"),
				"open-enrollment":  setStatus(string(models.CohortEnrolling), "Cohort enrollment opened"),
				"close-enrollment": setStatus(string(models.CohortPlanning), "Cohort enrollment closed"),
			},
		},
		{
			path: "classes", module: envelope.ModuleClass,
			label: "Class", plural: "Classes",
			required: []string{"cohortId", "title", "scheduledAt"},
			defaults: Record{"status": string(models.ClassScheduled), "durationMinutes": 60.0},
			actions: map[string]actionFunc{
				"cancel":   setStatus(string(models.ClassCancelled), "Class cancelled successfully"),
				"complete": setStatus(string(models.ClassCompleted), "Class completed successfully"),
			},
		},
		{
			path: "enrollments", module: envelope.ModuleEnrollment,
			label: "Enrollment", plural: "Enrollments",
			required:     []string{"studentId", "cohortId"},
			rowsKey:      "enrollments",
			beforeCreate: prepareEnrollment,
			afterCreate:  countEnrollment,
			actions: map[string]actionFunc{
				"withdraw": withdrawEnrollment,
			},
		},
		{
			path: "enquiries", module: envelope.ModuleEnquiry,
			label: "Enquiry", plural: "Enquiries",
			required: []string{"firstName", "phone"},
			defaults: Record{"status": string(models.EnquiryNew), "source": string(models.SourceOther)},
			actions: map[string]actionFunc{
				"convert": convertEnquiry,
				"assign":  assignEnquiry,
			},
		},
		{
			path: "payments", module: envelope.ModulePayment,
			label: "Payment", plural: "Payments",
			required:     []string{"enrollmentId", "amount", "method"},
			rowsKey:      "payments",
			defaults:     Record{"status": string(models.PaymentPending), "currency": "USD", "refundedAmount": 0.0},
			beforeCreate: preparePayment,
			actions: map[string]actionFunc{
				"process": processPayment,
				"refund":  refundPayment,
			},
		},
		{
			path: "feedback", module: envelope.ModuleFeedback,
			label: "Feedback", plural: "Feedback",
			required:     []string{"category", "rating"},
			defaults:     Record{"isAnonymous": false},
			beforeCreate: validateRating,
		},
		{
			path: "roles", module: envelope.ModuleRole,
			label: "Role", plural: "Roles",
			required:     []string{"name"},
			unique:       []string{"name"},
			defaults:     Record{"isSystem": false},
			beforeCreate: resolveRolePermissions,
			actions: map[string]actionFunc{
				"assign-permissions": assignPermissions,
			},
		},
		{
			path: "audit-logs", module: envelope.ModuleAuditLog,
			label: "Audit log", plural: "Audit logs",
			readOnly: true,
		},
	}
}

// permissionCatalog lists every grantable permission.
func permissionCatalog() []models.Permission {
	resources := []string{
		"organizations", "centers", "employees", "students", "courses", "cohorts",
		"classes", "enrollments", "enquiries", "payments", "feedback", "roles", "audit-logs",
	}
	var out []models.Permission
	for _, r := range resources {
		for _, a := range []string{"read", "create", "update", "delete"} {
			if r == "audit-logs" && a != "read" {
				continue
			}
			name := r + ":" + a
			out = append(out, models.Permission{
				ID:       "perm-" + r + "-" + a,
				Name:     name,
				Resource: r,
				Action:   a,
			})
		}
	}
	return out
}

func setStatus(status, message string) actionFunc {
	return func(_ *Server, _, _ Record) (Record, string, *apiError) {
		return Record{"status": status}, message, nil
	}
}

func number(v any) (float64, bool) {
	f, ok := v.(float64)
	return f, ok
}

func assignStudentCode(s *Server, body Record) *apiError {
	if isBlank(body["studentCode"]) {
		n := len(s.collections["students"].all()) + 1
		body["studentCode"] = fmt.Sprintf("STU-%04d", n)
	}
	return nil
}

func validateCohort(_ *Server, body Record) *apiError {
	capacity, ok := number(body["capacity"])
	if !ok || capacity < 1 {
		return validationError("Validation failed", map[string]string{"capacity": "must be a positive number"})
	}
	start, err1 := models.ParseDate(stringValue(body["startDate"]))
	end, err2 := models.ParseDate(stringValue(body["endDate"]))
	if err1 != nil || err2 != nil {
		return validationError("Validation failed", map[string]string{"startDate": "must be a date", "endDate": "must be a date"})
	}
	if end.Before(start.Time) {
		return validationError("Validation failed", map[string]string{"endDate": "must not be before startDate"})
	}
	body["startDate"] = start.String()
	body["endDate"] = end.String()
	return nil
}

func validateRating(_ *Server, body Record) *apiError {
	rating, ok := number(body["rating"])
	if !ok || rating < 1 || rating > 5 {
		return validationError("Validation failed", map[string]string{"rating": "must be between 1 and 5"})
	}
	return nil
}

// prepareEnrollment checks references and seats and fills the fee.
func prepareEnrollment(s *Server, body Record) *apiError {
	studentID := stringValue(body["studentId"])
	cohortID := stringValue(body["cohortId"])

	if _, err := s.collections["students"].get(studentID, false); err != nil {
		return notFound("Student not found")
	}
	cohort, err := s.collections["cohorts"].get(cohortID, false)
	if err != nil {
		return notFound("Cohort not found")
	}

	active := s.collections["enrollments"].count(func(r Record) bool {
		st := stringValue(r["status"])
		return r["studentId"] == studentID && r["cohortId"] == cohortID &&
			st != string(models.EnrollmentWithdrawn) && st != string(models.EnrollmentCancelled)
	})
	if active > 0 {
		return conflict("ALREADY_ENROLLED", "Student is already enrolled in this cohort")
	}

	capacity, _ := number(cohort["capacity"])
	enrolled, _ := number(cohort["enrolledCount"])
	if capacity > 0 && enrolled >= capacity {
		return conflict("COHORT_FULL", "Cohort has no seats left")
	}

	if _, ok := body["feeAmount"]; !ok {
		fee := 0.0
		if course, err := s.collections["courses"].get(stringValue(cohort["courseId"]), false); err == nil {
			fee, _ = number(course["fee"])
		}
		body["feeAmount"] = fee
	}
	if _, ok := body["discountAmount"]; !ok {
		body["discountAmount"] = 0.0
	}
	body["status"] = string(models.EnrollmentActive)
	body["enrolledAt"] = s.now().UTC().Format(time.RFC3339Nano)
	return nil
}

func countEnrollment(s *Server, rec Record) {
	s.adjustEnrolled(stringValue(rec["cohortId"]), 1)
}

func (s *Server) adjustEnrolled(cohortID string, delta float64) {
	cohort, err := s.collections["cohorts"].get(cohortID, true)
	if err != nil {
		return
	}
	n, _ := number(cohort["enrolledCount"])
	n += delta
	if n < 0 {
		n = 0
	}
	_, _ = s.collections["cohorts"].update(cohortID, Record{"enrolledCount": n})
}

func withdrawEnrollment(s *Server, rec, body Record) (Record, string, *apiError) {
	if rec["status"] == string(models.EnrollmentWithdrawn) {
		return nil, "", conflict("ALREADY_WITHDRAWN", "Enrollment is already withdrawn")
	}
	s.adjustEnrolled(stringValue(rec["cohortId"]), -1)

	patch := Record{
		"status":      string(models.EnrollmentWithdrawn),
		"withdrawnAt": s.now().UTC().Format(time.RFC3339Nano),
	}
	if reason := stringValue(body["reason"]); reason != "" {
		patch["withdrawalReason"] = reason
	}
	return patch, "Enrollment withdrawn successfully", nil
}

// convertEnquiry creates a student from the enquiry and optionally enrolls it.
func convertEnquiry(s *Server, rec, body Record) (Record, string, *apiError) {
	if rec["status"] == string(models.EnquiryConverted) {
		return nil, "", conflict("ALREADY_CONVERTED", "Enquiry has already been converted")
	}

	email := stringValue(rec["email"])
	if email == "" {
		email = stringValue(rec["phone"]) + "@enquiry.local"
	}
	student := Record{
		"firstName": rec["firstName"],
		"lastName":  rec["lastName"],
		"email":     email,
		"phone":     rec["phone"],
		"centerId":  rec["centerId"],
		"status":    string(models.StudentActive),
	}
	if apiErr := s.checkUnique(s.specs["students"], student, ""); apiErr != nil {
		return nil, "", apiErr
	}

	cohortID := stringValue(body["cohortId"])
	var enrollment Record
	if cohortID != "" {
		enrollment = Record{"cohortId": cohortID}
		// studentId is checked after the student exists.
		if _, err := s.collections["cohorts"].get(cohortID, false); err != nil {
			return nil, "", notFound("Cohort not found")
		}
	}

	_ = assignStudentCode(s, student)
	created := s.collections["students"].insert(student)
	if enrollment != nil {
		enrollment["studentId"] = created["id"]
		if apiErr := prepareEnrollment(s, enrollment); apiErr != nil {
			_ = s.collections["students"].forceDelete(stringValue(created["id"]))
			return nil, "", apiErr
		}
		countEnrollment(s, s.collections["enrollments"].insert(enrollment))
	}

	return Record{
		"status":             string(models.EnquiryConverted),
		"convertedStudentId": created["id"],
	}, "Enquiry converted successfully", nil
}

func assignEnquiry(s *Server, _, body Record) (Record, string, *apiError) {
	employeeID := stringValue(body["employeeId"])
	if employeeID == "" {
		return nil, "", validationError("Validation failed", map[string]string{"employeeId": "is required"})
	}
	if _, err := s.collections["employees"].get(employeeID, false); err != nil {
		return nil, "", notFound("Employee not found")
	}
	return Record{"assignedTo": employeeID}, "Enquiry assigned successfully", nil
}

func preparePayment(s *Server, body Record) *apiError {
	amount, ok := number(body["amount"])
	if !ok || amount <= 0 {
		return validationError("Validation failed", map[string]string{"amount": "must be greater than zero"})
	}
	enrollment, err := s.collections["enrollments"].get(stringValue(body["enrollmentId"]), false)
	if err != nil {
		return notFound("Enrollment not found")
	}
	if isBlank(body["studentId"]) {
		body["studentId"] = enrollment["studentId"]
	}
	return nil
}

func processPayment(s *Server, rec, _ Record) (Record, string, *apiError) {
	if rec["status"] == string(models.PaymentCompleted) {
		return nil, "", conflict("ALREADY_PROCESSED", "Payment has already been processed")
	}
	return Record{
		"status": string(models.PaymentCompleted),
		"paidAt": s.now().UTC().Format(time.RFC3339Nano),
	}, "Payment processed successfully", nil
}

// refundPayment refunds part or all of the unrefunded balance.
func refundPayment(_ *Server, rec, body Record) (Record, string, *apiError) {
	if isBlank(body["reason"]) {
		return nil, "", validationError("Validation failed", map[string]string{"reason": "is required"})
	}
	switch rec["status"] {
	case string(models.PaymentCompleted), string(models.PaymentPartiallyRefunded):
	default:
		return nil, "", conflict("NOT_REFUNDABLE", "Only completed payments can be refunded")
	}

	paid, _ := number(rec["amount"])
	refunded, _ := number(rec["refundedAmount"])
	balance := paid - refunded

	amount := balance
	if v, ok := body["amount"]; ok && v != nil {
		amount, ok = number(v)
		if !ok || amount <= 0 {
			return nil, "", validationError("Validation failed", map[string]string{"amount": "must be greater than zero"})
		}
	}
	if amount > balance {
		return nil, "", &apiError{
			status:  http.StatusUnprocessableEntity,
			errType: envelope.ErrorTypeBusiness,
			code:    "REFUND_EXCEEDS_BALANCE",
			message: fmt.Sprintf("Refund exceeds the refundable balance of %.2f", balance),
			details: map[string]float64{"balance": balance, "requested": amount},
		}
	}

	status := string(models.PaymentPartiallyRefunded)
	if refunded+amount >= paid {
		status = string(models.PaymentRefunded)
	}
	return Record{
		"status":         status,
		"refundedAmount": refunded + amount,
		"refundReason":   stringValue(body["reason"]),
	}, "Payment refunded successfully", nil
}

// lookupPermissions resolves permission ids against the catalog.
func (s *Server) lookupPermissions(raw any) ([]models.Permission, *apiError) {
	var ids []string
	if err := convert(raw, &ids); err != nil {
		return nil, validationError("Validation failed", map[string]string{"permissionIds": "must be a list of ids"})
	}

	byID := make(map[string]models.Permission, len(s.permissions))
	for _, p := range s.permissions {
		byID[p.ID] = p
	}
	out := make([]models.Permission, 0, len(ids))
	var unknown []string
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			unknown = append(unknown, id)
			continue
		}
		out = append(out, p)
	}
	if len(unknown) > 0 {
		return nil, validationError("Unknown permissions", map[string]any{"permissionIds": unknown})
	}
	return out, nil
}

func resolveRolePermissions(s *Server, body Record) *apiError {
	perms, apiErr := s.lookupPermissions(body["permissionIds"])
	if apiErr != nil {
		return apiErr
	}
	delete(body, "permissionIds")
	body["permissions"] = perms
	return nil
}

func assignPermissions(s *Server, _, body Record) (Record, string, *apiError) {
	raw, ok := body["permissionIds"]
	if !ok {
		return nil, "", validationError("Validation failed", map[string]string{"permissionIds": "is required"})
	}
	perms, apiErr := s.lookupPermissions(raw)
	if apiErr != nil {
		return nil, "", apiErr
	}
	return Record{"permissions": perms}, "Permissions assigned successfully", nil
}
