package rbac

type RoleResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CreateRoleRequest struct {
	Name          string   `json:"name" binding:"required,max=60"`
	Description   string   `json:"description" binding:"max=255"`
	PermissionIDs []string `json:"permission_ids" binding:"dive,uuid"`
}

type UpdateRolePermissionsRequest struct {
	PermissionIDs []string `json:"permission_ids" binding:"required,dive,uuid"`
}

type AssignRoleRequest struct {
	StaffID string `json:"staff_id" binding:"required,uuid"`
	RoleID  string `json:"role_id" binding:"required,uuid"`
}

type PermissionResponse struct {
	ID       string `json:"id"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
	Label    string `json:"label"`
	Category string `json:"category"`
}
