package models

// EmployeeStatus is the employment state of a staff member.
type EmployeeStatus string

const (
	EmployeeActive     EmployeeStatus = "ACTIVE"
	EmployeeInactive   EmployeeStatus = "INACTIVE"
	EmployeeOnLeave    EmployeeStatus = "ON_LEAVE"
	EmployeeTerminated EmployeeStatus = "TERMINATED"
)

// Employee is a staff member: instructors, counsellors and administrators.
type Employee struct {
	ID             string         `json:"id"`
	OrganizationID string         `json:"organizationId"`
	CenterID       string         `json:"centerId,omitempty"`
	RoleID         string         `json:"roleId,omitempty"`
	FirstName      string         `json:"firstName"`
	LastName       string         `json:"lastName"`
	Email          string         `json:"email"`
	Phone          string         `json:"phone,omitempty"`
	Designation    string         `json:"designation,omitempty"`
	Status         EmployeeStatus `json:"status"`
	JoiningDate    *Date          `json:"joiningDate,omitempty"`
	Timestamps
}

func (Employee) Header() []string {
	return []string{"ID", "NAME", "EMAIL", "DESIGNATION", "STATUS"}
}

func (e Employee) Row() []string {
	return []string{e.ID, FullName(e.FirstName, e.LastName), e.Email, e.Designation, string(e.Status)}
}

// CreateEmployeeRequest is the body of POST /employees.
type CreateEmployeeRequest struct {
	OrganizationID string `json:"organizationId"`
	CenterID       string `json:"centerId,omitempty"`
	RoleID         string `json:"roleId,omitempty"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	Password       string `json:"password,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Designation    string `json:"designation,omitempty"`
	JoiningDate    *Date  `json:"joiningDate,omitempty"`
}

// UpdateEmployeeRequest is the body of PATCH /employees/:id.
type UpdateEmployeeRequest struct {
	CenterID    *string         `json:"centerId,omitempty"`
	RoleID      *string         `json:"roleId,omitempty"`
	FirstName   *string         `json:"firstName,omitempty"`
	LastName    *string         `json:"lastName,omitempty"`
	Email       *string         `json:"email,omitempty"`
	Phone       *string         `json:"phone,omitempty"`
	Designation *string         `json:"designation,omitempty"`
	Status      *EmployeeStatus `json:"status,omitempty"`
}

// EmployeeFilters narrows GET /employees.
type EmployeeFilters struct {
	ListParams
	OrganizationID string         `query:"organizationId"`
	CenterID       string         `query:"centerId"`
	RoleID         string         `query:"roleId"`
	Status         EmployeeStatus `query:"status"`
}
