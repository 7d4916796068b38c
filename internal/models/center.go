package models

// Center is a physical or virtual teaching location of an organization.
type Center struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organizationId"`
	Name           string `json:"name"`
	Code           string `json:"code"`
	Address        string `json:"address,omitempty"`
	City           string `json:"city,omitempty"`
	State          string `json:"state,omitempty"`
	Country        string `json:"country,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Email          string `json:"email,omitempty"`
	Capacity       int    `json:"capacity,omitempty"`
	IsActive       bool   `json:"isActive"`
	Timestamps
}

func (Center) Header() []string {
	return []string{"ID", "NAME", "CODE", "CITY", "CAPACITY", "ACTIVE"}
}

func (c Center) Row() []string {
	return []string{c.ID, c.Name, c.Code, c.City, itoa(c.Capacity), formatBool(c.IsActive)}
}

// CreateCenterRequest is the body of POST /centers.
type CreateCenterRequest struct {
	OrganizationID string `json:"organizationId"`
	Name           string `json:"name"`
	Code           string `json:"code"`
	Address        string `json:"address,omitempty"`
	City           string `json:"city,omitempty"`
	State          string `json:"state,omitempty"`
	Country        string `json:"country,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Email          string `json:"email,omitempty"`
	Capacity       int    `json:"capacity,omitempty"`
}

// UpdateCenterRequest is the body of PATCH /centers/:id.
type UpdateCenterRequest struct {
	Name     *string `json:"name,omitempty"`
	Code     *string `json:"code,omitempty"`
	Address  *string `json:"address,omitempty"`
	City     *string `json:"city,omitempty"`
	State    *string `json:"state,omitempty"`
	Country  *string `json:"country,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Email    *string `json:"email,omitempty"`
	Capacity *int    `json:"capacity,omitempty"`
	IsActive *bool   `json:"isActive,omitempty"`
}

// CenterFilters narrows GET /centers.
type CenterFilters struct {
	ListParams
	OrganizationID string `query:"organizationId"`
	City           string `query:"city"`
	IsActive       *bool  `query:"isActive"`
}
