package rbac

import (
	"go-hotel-staff/internal/tenant"

	"gorm.io/gorm"
)

type Repository interface {
	GetStaffRoles(companyID string) ([]StaffRoleRow, error)
	GetRolePermissions(companyID string) ([]RolePermissionRow, error)

	ListRoles(companyID string) ([]RoleRow, error)
	GetRoleByID(companyID, id string) (*RoleRow, error)
	CreateRole(role *RoleRow, permIDs []string) error
	UpdateRolePermissions(roleID string, permIDs []string) error
	AssignRole(staffID, roleID string) error

	ListPermissions() ([]PermissionRow, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

type RoleRow struct {
	ID          string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CompanyID   string `gorm:"type:uuid;uniqueIndex:uq_roles_company_name,priority:1"`
	Name        string `gorm:"uniqueIndex:uq_roles_company_name,priority:2"`
	Description string
}

func (RoleRow) TableName() string {
	return "roles"
}

type PermissionRow struct {
	ID       string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Resource string
	Action   string
	Label    string
	Category string
}

func (PermissionRow) TableName() string {
	return "permissions"
}

type StaffRoleRow struct {
	StaffID string
	RoleID  string
}

type RolePermissionRow struct {
	RoleID   string
	Resource string
	Action   string
}

func (r *repository) GetStaffRoles(companyID string) ([]StaffRoleRow, error) {
	var result []StaffRoleRow

	err := r.db.
		Table("staff_roles").
		Select("staff_roles.staff_id, staff_roles.role_id").
		Joins("JOIN roles ON roles.id = staff_roles.role_id").
		Scopes(tenant.ScopeTable("roles", companyID)).
		Scan(&result).Error

	return result, err
}

func (r *repository) GetRolePermissions(companyID string) ([]RolePermissionRow, error) {
	var result []RolePermissionRow

	err := r.db.
		Table("role_permissions").
		Select("role_permissions.role_id, permissions.resource, permissions.action").
		Joins("JOIN roles ON roles.id = role_permissions.role_id").
		Joins("JOIN permissions ON permissions.id = role_permissions.permission_id").
		Scopes(tenant.ScopeTable("roles", companyID)).
		Scan(&result).Error

	return result, err
}

func (r *repository) ListRoles(companyID string) ([]RoleRow, error) {
	var result []RoleRow
	err := r.db.Scopes(tenant.Scope(companyID)).Order("name").Find(&result).Error
	return result, err
}

func (r *repository) GetRoleByID(companyID, id string) (*RoleRow, error) {
	var result RoleRow
	err := r.db.Scopes(tenant.Scope(companyID)).First(&result, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *repository) CreateRole(role *RoleRow, permIDs []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(role).Error; err != nil {
			return err
		}
		return insertRolePermissions(tx, role.ID, permIDs)
	})
}

func (r *repository) UpdateRolePermissions(roleID string, permIDs []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM role_permissions WHERE role_id = ?", roleID).Error; err != nil {
			return err
		}
		return insertRolePermissions(tx, roleID, permIDs)
	})
}

func insertRolePermissions(tx *gorm.DB, roleID string, permIDs []string) error {
	for _, pID := range permIDs {
		if err := tx.Exec("INSERT INTO role_permissions (role_id, permission_id) VALUES (?, ?)", roleID, pID).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *repository) AssignRole(staffID, roleID string) error {
	return r.db.Exec(
		"INSERT INTO staff_roles (staff_id, role_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
		staffID, roleID,
	).Error
}

func (r *repository) ListPermissions() ([]PermissionRow, error) {
	var result []PermissionRow
	err := r.db.Order("category, label").Find(&result).Error
	return result, err
}
