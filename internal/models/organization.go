package models

// Organization is the top-level tenant that owns centers, courses and staff.
type Organization struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Code     string `json:"code"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
	Website  string `json:"website,omitempty"`
	IsActive bool   `json:"isActive"`
	Timestamps
}

func (Organization) Header() []string {
	return []string{"ID", "NAME", "CODE", "EMAIL", "ACTIVE", "CREATED"}
}

func (o Organization) Row() []string {
	return []string{o.ID, o.Name, o.Code, o.Email, formatBool(o.IsActive), formatTime(o.CreatedAt)}
}

// CreateOrganizationRequest is the body of POST /organizations.
type CreateOrganizationRequest struct {
	Name    string `json:"name"`
	Code    string `json:"code"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Website string `json:"website,omitempty"`
}

// UpdateOrganizationRequest is the body of PATCH /organizations/:id.
type UpdateOrganizationRequest struct {
	Name     *string `json:"name,omitempty"`
	Code     *string `json:"code,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Address  *string `json:"address,omitempty"`
	Website  *string `json:"website,omitempty"`
	IsActive *bool   `json:"isActive,omitempty"`
}

// OrganizationFilters narrows GET /organizations.
type OrganizationFilters struct {
	ListParams
	IsActive *bool `query:"isActive"`
}
