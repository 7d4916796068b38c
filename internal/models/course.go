package models

// CourseStatus is the publication state of a course.
type CourseStatus string

const (
	CourseDraft     CourseStatus = "DRAFT"
	CoursePublished CourseStatus = "PUBLISHED"
	CourseArchived  CourseStatus = "ARCHIVED"
)

// CourseLevel grades course difficulty.
type CourseLevel string

const (
	CourseBeginner     CourseLevel = "BEGINNER"
	CourseIntermediate CourseLevel = "INTERMEDIATE"
	CourseAdvanced     CourseLevel = "ADVANCED"
)

// Course is a catalog offering that cohorts are scheduled from.
type Course struct {
	ID             string       `json:"id"`
	OrganizationID string       `json:"organizationId"`
	Name           string       `json:"name"`
	Code           string       `json:"code"`
	Description    string       `json:"description,omitempty"`
	DurationWeeks  int          `json:"durationWeeks,omitempty"`
	Fee            float64      `json:"fee"`
	Currency       string       `json:"currency,omitempty"`
	Level          CourseLevel  `json:"level,omitempty"`
	Status         CourseStatus `json:"status"`
	Timestamps
}

func (Course) Header() []string {
	return []string{"ID", "CODE", "NAME", "LEVEL", "WEEKS", "FEE", "STATUS"}
}

func (c Course) Row() []string {
	return []string{c.ID, c.Code, c.Name, string(c.Level), itoa(c.DurationWeeks), formatAmount(c.Fee), string(c.Status)}
}

// CreateCourseRequest is the body of POST /courses.
type CreateCourseRequest struct {
	OrganizationID string      `json:"organizationId"`
	Name           string      `json:"name"`
	Code           string      `json:"code"`
	Description    string      `json:"description,omitempty"`
	DurationWeeks  int         `json:"durationWeeks,omitempty"`
	Fee            float64     `json:"fee"`
	Currency       string      `json:"currency,omitempty"`
	Level          CourseLevel `json:"level,omitempty"`
}

// UpdateCourseRequest is the body of PATCH /courses/:id.
type UpdateCourseRequest struct {
	Name          *string      `json:"name,omitempty"`
	Code          *string      `json:"code,omitempty"`
	Description   *string      `json:"description,omitempty"`
	DurationWeeks *int         `json:"durationWeeks,omitempty"`
	Fee           *float64     `json:"fee,omitempty"`
	Currency      *string      `json:"currency,omitempty"`
	Level         *CourseLevel `json:"level,omitempty"`
}

// CourseFilters narrows GET /courses.
type CourseFilters struct {
	ListParams
	OrganizationID string       `query:"organizationId"`
	Level          CourseLevel  `query:"level"`
	Status         CourseStatus `query:"status"`
	MinFee         *float64     `query:"minFee"`
	MaxFee         *float64     `query:"maxFee"`
}
