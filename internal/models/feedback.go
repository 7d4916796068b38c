package models

// FeedbackCategory is what a piece of feedback is about.
type FeedbackCategory string

const (
	FeedbackCourse     FeedbackCategory = "COURSE"
	FeedbackInstructor FeedbackCategory = "INSTRUCTOR"
	FeedbackFacility   FeedbackCategory = "FACILITY"
	FeedbackGeneral    FeedbackCategory = "GENERAL"
)

// Feedback is a rating left by a student.
type Feedback struct {
	ID          string           `json:"id"`
	StudentID   string           `json:"studentId,omitempty"`
	CohortID    string           `json:"cohortId,omitempty"`
	ClassID     string           `json:"classId,omitempty"`
	EmployeeID  string           `json:"employeeId,omitempty"`
	Category    FeedbackCategory `json:"category"`
	Rating      int              `json:"rating"`
	Comment     string           `json:"comment,omitempty"`
	IsAnonymous bool             `json:"isAnonymous"`
	Timestamps
}

func (Feedback) Header() []string {
	return []string{"ID", "CATEGORY", "RATING", "COMMENT", "CREATED"}
}

func (f Feedback) Row() []string {
	comment := f.Comment
	if len(comment) > 40 {
		comment = comment[:37] + "..."
	}
	return []string{f.ID, string(f.Category), itoa(f.Rating), comment, formatTime(f.CreatedAt)}
}

// CreateFeedbackRequest is the body of POST /feedback.
type CreateFeedbackRequest struct {
	StudentID   string           `json:"studentId,omitempty"`
	CohortID    string           `json:"cohortId,omitempty"`
	ClassID     string           `json:"classId,omitempty"`
	EmployeeID  string           `json:"employeeId,omitempty"`
	Category    FeedbackCategory `json:"category"`
	Rating      int              `json:"rating"`
	Comment     string           `json:"comment,omitempty"`
	IsAnonymous bool             `json:"isAnonymous,omitempty"`
}

// UpdateFeedbackRequest is the body of PATCH /feedback/:id.
type UpdateFeedbackRequest struct {
	Category *FeedbackCategory `json:"category,omitempty"`
	Rating   *int              `json:"rating,omitempty"`
	Comment  *string           `json:"comment,omitempty"`
}

// FeedbackFilters narrows GET /feedback.
type FeedbackFilters struct {
	ListParams
	StudentID  string           `query:"studentId"`
	CohortID   string           `query:"cohortId"`
	ClassID    string           `query:"classId"`
	EmployeeID string           `query:"employeeId"`
	Category   FeedbackCategory `query:"category"`
	MinRating  *int             `query:"minRating"`
}
