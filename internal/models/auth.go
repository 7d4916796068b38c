package models

import "time"

// UserType distinguishes staff logins from student logins.
type UserType string

const (
	UserEmployee UserType = "EMPLOYEE"
	UserStudent  UserType = "STUDENT"
)

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string   `json:"email"`
	Password string   `json:"password"`
	UserType UserType `json:"userType"`
}

// AccessToken is the bearer credential issued at login.
type AccessToken struct {
	Token     string     `json:"token"`
	ExpiresIn int        `json:"expiresIn,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// LoginResponse is the payload of a successful login. Exactly one of Employee
// and Student is set, matching the requested user type.
type LoginResponse struct {
	AccessToken AccessToken `json:"access_token"`
	Employee    *Profile    `json:"employee,omitempty"`
	Student     *Profile    `json:"student,omitempty"`
}

// User returns whichever profile the login produced.
func (r LoginResponse) User() *Profile {
	if r.Employee != nil {
		return r.Employee
	}
	return r.Student
}

// Profile is the authenticated principal.
type Profile struct {
	ID          string   `json:"id"`
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	Email       string   `json:"email"`
	UserType    UserType `json:"userType,omitempty"`
	RoleID      string   `json:"roleId,omitempty"`
	Role        *Role    `json:"role,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

func (Profile) Header() []string {
	return []string{"ID", "NAME", "EMAIL", "TYPE", "ROLE"}
}

func (p Profile) Row() []string {
	role := p.RoleID
	if p.Role != nil {
		role = p.Role.Name
	}
	return []string{p.ID, FullName(p.FirstName, p.LastName), p.Email, string(p.UserType), role}
}
