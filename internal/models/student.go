package models

// StudentStatus is the academic standing of a student.
type StudentStatus string

const (
	StudentActive     StudentStatus = "ACTIVE"
	StudentInactive   StudentStatus = "INACTIVE"
	StudentGraduated  StudentStatus = "GRADUATED"
	StudentSuspended  StudentStatus = "SUSPENDED"
	StudentDroppedOut StudentStatus = "DROPPED_OUT"
)

// Gender values accepted by the API.
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

// Student is a learner registered at a center.
type Student struct {
	ID            string        `json:"id"`
	CenterID      string        `json:"centerId,omitempty"`
	StudentCode   string        `json:"studentCode,omitempty"`
	FirstName     string        `json:"firstName"`
	LastName      string        `json:"lastName"`
	Email         string        `json:"email"`
	Phone         string        `json:"phone,omitempty"`
	DateOfBirth   *Date         `json:"dateOfBirth,omitempty"`
	Gender        Gender        `json:"gender,omitempty"`
	Address       string        `json:"address,omitempty"`
	GuardianName  string        `json:"guardianName,omitempty"`
	GuardianPhone string        `json:"guardianPhone,omitempty"`
	Status        StudentStatus `json:"status"`
	Timestamps
}

func (Student) Header() []string {
	return []string{"ID", "CODE", "NAME", "EMAIL", "PHONE", "STATUS"}
}

func (s Student) Row() []string {
	return []string{s.ID, s.StudentCode, FullName(s.FirstName, s.LastName), s.Email, s.Phone, string(s.Status)}
}

// CreateStudentRequest is the body of POST /students.
type CreateStudentRequest struct {
	CenterID      string `json:"centerId,omitempty"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Email         string `json:"email"`
	Password      string `json:"password,omitempty"`
	Phone         string `json:"phone,omitempty"`
	DateOfBirth   *Date  `json:"dateOfBirth,omitempty"`
	Gender        Gender `json:"gender,omitempty"`
	Address       string `json:"address,omitempty"`
	GuardianName  string `json:"guardianName,omitempty"`
	GuardianPhone string `json:"guardianPhone,omitempty"`
}

// UpdateStudentRequest is the body of PATCH /students/:id.
type UpdateStudentRequest struct {
	CenterID      *string        `json:"centerId,omitempty"`
	FirstName     *string        `json:"firstName,omitempty"`
	LastName      *string        `json:"lastName,omitempty"`
	Email         *string        `json:"email,omitempty"`
	Phone         *string        `json:"phone,omitempty"`
	DateOfBirth   *Date          `json:"dateOfBirth,omitempty"`
	Gender        *Gender        `json:"gender,omitempty"`
	Address       *string        `json:"address,omitempty"`
	GuardianName  *string        `json:"guardianName,omitempty"`
	GuardianPhone *string        `json:"guardianPhone,omitempty"`
	Status        *StudentStatus `json:"status,omitempty"`
}

// StudentFilters narrows GET /students.
type StudentFilters struct {
	ListParams
	CenterID string        `query:"centerId"`
	Status   StudentStatus `query:"status"`
	Gender   Gender        `query:"gender"`
}
