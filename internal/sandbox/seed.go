package sandbox

import (
	"time"

	"github.com/MacJediWizard/edudesk/internal/models"
)

// seed loads a small demo dataset. Ids are stable so they can be used from
// the console without listing first.
func (s *Server) seed() {
	now := s.now().UTC()
	day := func(offset int) models.Date {
		d := now.AddDate(0, 0, offset)
		return models.NewDate(d.Year(), d.Month(), d.Day())
	}
	paidAt := now.Add(-2 * time.Hour)

	instructorPerms := make([]models.Permission, 0)
	for _, p := range s.permissions {
		if p.Action == "read" || p.Resource == "classes" || p.Resource == "feedback" {
			instructorPerms = append(instructorPerms, p)
		}
	}

	rows := map[string][]any{
		"roles": {
			models.Role{ID: "role-admin", Name: "Administrator", Description: "Full access", IsSystem: true, Permissions: s.permissions},
			models.Role{ID: "role-instructor", Name: "Instructor", Description: "Teaching staff", IsSystem: true, Permissions: instructorPerms},
		},
		"organizations": {
			models.Organization{ID: "org-demo", Name: "Demo Academy", Code: "DEMO", Email: "info@demo.academy", IsActive: true},
		},
		"centers": {
			models.Center{ID: "ctr-main", OrganizationID: "org-demo", Name: "Main Campus", Code: "MAIN", City: "Springfield", Capacity: 200, IsActive: true},
			models.Center{ID: "ctr-east", OrganizationID: "org-demo", Name: "East Campus", Code: "EAST", City: "Shelbyville", Capacity: 80, IsActive: true},
		},
		"employees": {
			models.Employee{ID: "emp-admin", OrganizationID: "org-demo", CenterID: "ctr-main", RoleID: "role-admin",
				FirstName: "Ada", LastName: "Admin", Email: "admin@edudesk.local", Designation: "Director", Status: models.EmployeeActive},
			models.Employee{ID: "emp-instructor", OrganizationID: "org-demo", CenterID: "ctr-main", RoleID: "role-instructor",
				FirstName: "Ivan", LastName: "Instructor", Email: "ivan@edudesk.local", Designation: "Instructor", Status: models.EmployeeActive},
		},
		"students": {
			models.Student{ID: "stu-demo", CenterID: "ctr-main", StudentCode: "STU-0001", FirstName: "Sam", LastName: "Student",
				Email: "student@edudesk.local", Gender: models.GenderOther, Status: models.StudentActive},
			models.Student{ID: "stu-priya", CenterID: "ctr-main", StudentCode: "STU-0002", FirstName: "Priya", LastName: "Nair",
				Email: "priya@example.com", Gender: models.GenderFemale, Status: models.StudentActive},
			models.Student{ID: "stu-omar", CenterID: "ctr-east", StudentCode: "STU-0003", FirstName: "Omar", LastName: "Haddad",
				Email: "omar@example.com", Gender: models.GenderMale, Status: models.StudentInactive},
		},
		"courses": {
			models.Course{ID: "crs-go", OrganizationID: "org-demo", Name: "Backend Engineering with Go", Code: "GO-101",
				DurationWeeks: 12, Fee: 1200, Currency: "USD", Level: models.CourseIntermediate, Status: models.CoursePublished},
			models.Course{ID: "crs-data", OrganizationID: "org-demo", Name: "Data Analysis Foundations", Code: "DATA-100",
				DurationWeeks: 8, Fee: 800, Currency: "USD", Level: models.CourseBeginner, Status: models.CourseDraft},
		},
		"cohorts": {
			models.Cohort{ID: "coh-go-1", CourseID: "crs-go", CenterID: "ctr-main", InstructorID: "emp-instructor",
				Name: "Go Spring Cohort", Code: "GO-101-A", StartDate: day(-14), EndDate: day(70), Capacity: 20, EnrolledCount: 2, Status: models.CohortActive},
			models.Cohort{ID: "coh-data-1", CourseID: "crs-data", CenterID: "ctr-east",
				Name: "Data Evening Cohort", Code: "DATA-100-A", StartDate: day(30), EndDate: day(86), Capacity: 2, Status: models.CohortEnrolling},
		},
		"classes": {
			models.Class{ID: "cls-go-1", CohortID: "coh-go-1", InstructorID: "emp-instructor", Title: "Goroutines and channels",
				ScheduledAt: now.Add(48 * time.Hour).Truncate(time.Hour), DurationMinutes: 90, Location: "Room 2", Status: models.ClassScheduled},
		},
		"enrollments": {
			models.Enrollment{ID: "enr-sam-go", StudentID: "stu-demo", CohortID: "coh-go-1", EnrolledAt: now.AddDate(0, 0, -20),
				Status: models.EnrollmentActive, FeeAmount: 1200},
			models.Enrollment{ID: "enr-priya-go", StudentID: "stu-priya", CohortID: "coh-go-1", EnrolledAt: now.AddDate(0, 0, -18),
				Status: models.EnrollmentActive, FeeAmount: 1200, DiscountAmount: 200},
		},
		"payments": {
			models.Payment{ID: "pay-sam-1", EnrollmentID: "enr-sam-go", StudentID: "stu-demo", Amount: 600, Currency: "USD",
				Method: models.MethodCard, Status: models.PaymentCompleted, TransactionRef: "TXN-1001", PaidAt: &paidAt},
			models.Payment{ID: "pay-priya-1", EnrollmentID: "enr-priya-go", StudentID: "stu-priya", Amount: 1000, Currency: "USD",
				Method: models.MethodBankTransfer, Status: models.PaymentPending},
		},
		"enquiries": {
			models.Enquiry{ID: "enq-lee", CenterID: "ctr-main", CourseID: "crs-go", FirstName: "Lee", LastName: "Park",
				Email: "lee@example.com", Phone: "+1-555-0100", Source: models.SourceWebsite, Status: models.EnquiryNew},
			models.Enquiry{ID: "enq-maria", CenterID: "ctr-east", CourseID: "crs-data", FirstName: "Maria", LastName: "Rossi",
				Phone: "+1-555-0101", Source: models.SourceReferral, Status: models.EnquiryFollowUp, AssignedTo: "emp-instructor"},
		},
		"feedback": {
			models.Feedback{ID: "fbk-1", StudentID: "stu-demo", CohortID: "coh-go-1", EmployeeID: "emp-instructor",
				Category: models.FeedbackInstructor, Rating: 5, Comment: "Clear explanations"},
		},
	}

	// insertion order matters for unfiltered listings
	for _, path := range []string{
		"roles", "organizations", "centers", "employees", "students", "courses",
		"cohorts", "classes", "enrollments", "payments", "enquiries", "feedback",
	} {
		for _, v := range rows[path] {
			s.collections[path].insert(toRecord(v))
		}
	}

	s.logger.Debug().Msg("seeded demo data")
}
