package models

// CohortStatus is the lifecycle stage of a cohort. The API enforces legal
// transitions; the client only requests them.
type CohortStatus string

const (
	CohortPlanning  CohortStatus = "PLANNING"
	CohortEnrolling CohortStatus = "ENROLLING"
	CohortActive    CohortStatus = "ACTIVE"
	CohortCompleted CohortStatus = "COMPLETED"
	CohortCancelled CohortStatus = "CANCELLED"
)

// Cohort is a scheduled run of a course at a center.
type Cohort struct {
	ID            string       `json:"id"`
	CourseID      string       `json:"courseId"`
	CenterID      string       `json:"centerId"`
	InstructorID  string       `json:"instructorId,omitempty"`
	Name          string       `json:"name"`
	Code          string       `json:"code,omitempty"`
	StartDate     Date         `json:"startDate"`
	EndDate       Date         `json:"endDate"`
	Capacity      int          `json:"capacity"`
	EnrolledCount int          `json:"enrolledCount"`
	Status        CohortStatus `json:"status"`
	Timestamps
}

// SeatsLeft returns the remaining capacity, never negative.
func (c Cohort) SeatsLeft() int {
	if c.EnrolledCount >= c.Capacity {
		return 0
	}
	return c.Capacity - c.EnrolledCount
}

func (Cohort) Header() []string {
	return []string{"ID", "NAME", "START", "END", "SEATS", "STATUS"}
}

func (c Cohort) Row() []string {
	seats := itoa(c.EnrolledCount) + "/" + itoa(c.Capacity)
	return []string{c.ID, c.Name, c.StartDate.String(), c.EndDate.String(), seats, string(c.Status)}
}

// CreateCohortRequest is the body of POST /cohorts.
type CreateCohortRequest struct {
	CourseID     string `json:"courseId"`
	CenterID     string `json:"centerId"`
	InstructorID string `json:"instructorId,omitempty"`
	Name         string `json:"name"`
	Code         string `json:"code,omitempty"`
	StartDate    Date   `json:"startDate"`
	EndDate      Date   `json:"endDate"`
	Capacity     int    `json:"capacity"`
}

// UpdateCohortRequest is the body of PATCH /cohorts/:id.
type UpdateCohortRequest struct {
	InstructorID *string `json:"instructorId,omitempty"`
	Name         *string `json:"name,omitempty"`
	Code         *string `json:"code,omitempty"`
	StartDate    *Date   `json:"startDate,omitempty"`
	EndDate      *Date   `json:"endDate,omitempty"`
	Capacity     *int    `json:"capacity,omitempty"`
}

// CohortFilters narrows GET /cohorts.
type CohortFilters struct {
	ListParams
	CourseID      string       `query:"courseId"`
	CenterID      string       `query:"centerId"`
	InstructorID  string       `query:"instructorId"`
	Status        CohortStatus `query:"status"`
	StartDateFrom *Date        `query:"startDateFrom"`
	StartDateTo   *Date        `query:"startDateTo"`
}
