package models

// EnquiryStatus tracks a lead through follow-up.
type EnquiryStatus string

const (
	EnquiryNew       EnquiryStatus = "NEW"
	EnquiryContacted EnquiryStatus = "CONTACTED"
	EnquiryFollowUp  EnquiryStatus = "FOLLOW_UP"
	EnquiryConverted EnquiryStatus = "CONVERTED"
	EnquiryClosed    EnquiryStatus = "CLOSED"
)

// EnquirySource records where a lead came from.
type EnquirySource string

const (
	SourceWalkIn      EnquirySource = "WALK_IN"
	SourceWebsite     EnquirySource = "WEBSITE"
	SourcePhone       EnquirySource = "PHONE"
	SourceReferral    EnquirySource = "REFERRAL"
	SourceSocialMedia EnquirySource = "SOCIAL_MEDIA"
	SourceOther       EnquirySource = "OTHER"
)

// Enquiry is a prospective student's lead.
type Enquiry struct {
	ID                 string        `json:"id"`
	CenterID           string        `json:"centerId,omitempty"`
	CourseID           string        `json:"courseId,omitempty"`
	FirstName          string        `json:"firstName"`
	LastName           string        `json:"lastName,omitempty"`
	Email              string        `json:"email,omitempty"`
	Phone              string        `json:"phone"`
	Source             EnquirySource `json:"source"`
	Status             EnquiryStatus `json:"status"`
	AssignedTo         string        `json:"assignedTo,omitempty"`
	FollowUpDate       *Date         `json:"followUpDate,omitempty"`
	Notes              string        `json:"notes,omitempty"`
	ConvertedStudentID string        `json:"convertedStudentId,omitempty"`
	Timestamps
}

func (Enquiry) Header() []string {
	return []string{"ID", "NAME", "PHONE", "SOURCE", "ASSIGNED", "STATUS"}
}

func (e Enquiry) Row() []string {
	return []string{e.ID, FullName(e.FirstName, e.LastName), e.Phone, string(e.Source), e.AssignedTo, string(e.Status)}
}

// CreateEnquiryRequest is the body of POST /enquiries.
type CreateEnquiryRequest struct {
	CenterID     string        `json:"centerId,omitempty"`
	CourseID     string        `json:"courseId,omitempty"`
	FirstName    string        `json:"firstName"`
	LastName     string        `json:"lastName,omitempty"`
	Email        string        `json:"email,omitempty"`
	Phone        string        `json:"phone"`
	Source       EnquirySource `json:"source,omitempty"`
	FollowUpDate *Date         `json:"followUpDate,omitempty"`
	Notes        string        `json:"notes,omitempty"`
}

// UpdateEnquiryRequest is the body of PATCH /enquiries/:id.
type UpdateEnquiryRequest struct {
	CourseID     *string        `json:"courseId,omitempty"`
	FirstName    *string        `json:"firstName,omitempty"`
	LastName     *string        `json:"lastName,omitempty"`
	Email        *string        `json:"email,omitempty"`
	Phone        *string        `json:"phone,omitempty"`
	Status       *EnquiryStatus `json:"status,omitempty"`
	FollowUpDate *Date          `json:"followUpDate,omitempty"`
	Notes        *string        `json:"notes,omitempty"`
}

// AssignEnquiryRequest is the body of POST /enquiries/:id/assign.
type AssignEnquiryRequest struct {
	EmployeeID string `json:"employeeId"`
}

// ConvertEnquiryRequest is the optional body of POST /enquiries/:id/convert.
type ConvertEnquiryRequest struct {
	CohortID string `json:"cohortId,omitempty"`
}

// EnquiryFilters narrows GET /enquiries.
type EnquiryFilters struct {
	ListParams
	CenterID   string        `query:"centerId"`
	CourseID   string        `query:"courseId"`
	Status     EnquiryStatus `query:"status"`
	Source     EnquirySource `query:"source"`
	AssignedTo string        `query:"assignedTo"`
}
