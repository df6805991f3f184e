package rbac

import (
	"time"
)

// Permission is a catalog entry following the resource:action naming
// convention, e.g. "users:read". The catalog is seeded and immutable at
// runtime.
type Permission struct {
	ID          string    `json:"id" gorm:"primaryKey;column:id"`
	Name        string    `json:"name" gorm:"uniqueIndex;column:name"`
	Description *string   `json:"description" gorm:"column:description"`
	CreatedAt   time.Time `json:"createdAt" gorm:"column:created_at"`
}

func (Permission) TableName() string { return "permissions" }

// Role groups permission grants. Global roles (is_global) are shared
// templates not bound to any tenant; tenant-scoped roles carry a tenant_id.
// Role names are unique across all tenants.
type Role struct {
	ID          string       `json:"id" gorm:"primaryKey;column:id"`
	Name        string       `json:"name" gorm:"uniqueIndex;column:name"`
	Description *string      `json:"description" gorm:"column:description"`
	IsGlobal    bool         `json:"isGlobal" gorm:"column:is_global"`
	TenantID    *string      `json:"tenantId" gorm:"column:tenant_id"`
	Permissions []Permission `json:"permissions" gorm:"many2many:role_permissions;joinForeignKey:role_id;joinReferences:permission_id"`
	CreatedAt   time.Time    `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt   time.Time    `json:"updatedAt" gorm:"column:updated_at"`
}

func (Role) TableName() string { return "roles" }

// Names of the seeded global roles. Referenced by the seeder and by the
// default role assignment on registration.
const (
	RoleSuperAdmin  = "super_admin"
	RoleTenantAdmin = "tenant_admin"
	RoleTenantUser  = "tenant_user"
)

// Repository is the persistence surface for roles and permissions.
// UpdateRole replaces the permission grants transactionally when
// permissionIDs is non-nil; a nil slice leaves grants untouched.
type Repository interface {
	RolesForUser(userID string) ([]Role, error)

	ListRoles(tenantID *string) ([]Role, error)
	GetRole(id string) (*Role, error)
	RoleNameExists(name string) (bool, error)
	CreateRole(role *Role, permissionIDs []string) error
	UpdateRole(role *Role, permissionIDs *[]string) error
	DeleteRole(id string) error

	ListPermissions() ([]Permission, error)
	PermissionIDsExist(ids []string) (bool, error)
}
