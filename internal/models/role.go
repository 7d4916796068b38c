package models

// Permission is a single grantable capability, e.g. students:create.
type Permission struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Resource    string `json:"resource"`
	Action      string `json:"action"`
	Description string `json:"description,omitempty"`
}

func (Permission) Header() []string {
	return []string{"ID", "NAME", "RESOURCE", "ACTION"}
}

func (p Permission) Row() []string {
	return []string{p.ID, p.Name, p.Resource, p.Action}
}

// Role groups permissions assigned to employees.
type Role struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	IsSystem    bool         `json:"isSystem"`
	Permissions []Permission `json:"permissions,omitempty"`
	Timestamps
}

func (Role) Header() []string {
	return []string{"ID", "NAME", "SYSTEM", "PERMISSIONS"}
}

func (r Role) Row() []string {
	return []string{r.ID, r.Name, formatBool(r.IsSystem), itoa(len(r.Permissions))}
}

// CreateRoleRequest is the body of POST /roles.
type CreateRoleRequest struct {
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	PermissionIDs []string `json:"permissionIds,omitempty"`
}

// UpdateRoleRequest is the body of PATCH /roles/:id.
type UpdateRoleRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// AssignPermissionsRequest is the body of POST /roles/:id/assign-permissions.
// The list replaces the role's current permissions.
type AssignPermissionsRequest struct {
	PermissionIDs []string `json:"permissionIds"`
}

// RoleFilters narrows GET /roles.
type RoleFilters struct {
	ListParams
	IsSystem *bool `query:"isSystem"`
}
