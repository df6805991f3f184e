package cmd

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/akr0407/nuxt-base-project/internal/auth"
	"github.com/akr0407/nuxt-base-project/internal/rbac"
	"github.com/akr0407/nuxt-base-project/internal/settings"
)

// The permission catalog. Seeded once; the API only ever reads it.
var permissionCatalog = []struct {
	Name string
	Desc string
}{
	{"users:read", "View users"},
	{"users:create", "Create users"},
	{"users:update", "Update users"},
	{"users:delete", "Delete users"},
	{"roles:read", "View roles"},
	{"roles:create", "Create roles"},
	{"roles:update", "Update roles"},
	{"roles:delete", "Delete roles"},
	{"permissions:read", "View the permission catalog"},
	{"settings:read", "View tenant settings"},
	{"settings:update", "Update tenant settings"},
	{"tenants:read", "View tenants"},
	{"tenants:create", "Create tenants"},
	{"tenants:update", "Update tenants"},
	{"tenants:delete", "Delete tenants"},
}

var rolePermissions = map[string][]string{
	rbac.RoleSuperAdmin: permissionNames(),
	rbac.RoleTenantAdmin: {
		"users:read", "users:create", "users:update", "users:delete",
		"roles:read", "roles:create", "roles:update", "roles:delete",
		"permissions:read",
		"settings:read", "settings:update",
	},
	rbac.RoleTenantUser: {
		"users:read",
		"roles:read",
		"permissions:read",
		"settings:read",
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with the permission catalog, roles and demo accounts",
	Long:  `Seed the permission catalog, the built-in global roles, a default tenant and demo accounts for development.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		if clearData {
			clearAll(db)
		}

		seedPermissions(db)
		seedRoles(db)
		tenantID := seedDefaultTenant(db)
		seedDemoUsers(db, tenantID, cfg.Security.BCryptCost)
		seedTheme(db, tenantID)

		fmt.Println("Seeding completed")
	},
}

func permissionNames() []string {
	names := make([]string, len(permissionCatalog))
	for i, p := range permissionCatalog {
		names[i] = p.Name
	}
	return names
}

func clearAll(db *gorm.DB) {
	// Child tables first.
	tables := []string{
		"refresh_tokens", "user_roles", "role_permissions",
		"settings", "theme_templates",
		"users", "roles", "permissions", "tenants",
	}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			log.Fatalf("failed to clear %s: %v", table, err)
		}
	}
	fmt.Println("Cleared existing data")
}

func seedPermissions(db *gorm.DB) {
	for _, p := range permissionCatalog {
		var exists int
		if err := db.Raw("SELECT 1 FROM permissions WHERE name = ?", p.Name).Row().Scan(&exists); err == nil {
			continue
		}
		err := db.Exec(
			"INSERT INTO permissions (id, name, description, created_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)",
			uuid.NewString(), p.Name, p.Desc,
		).Error
		if err != nil {
			log.Fatalf("failed to insert permission %s: %v", p.Name, err)
		}
	}
	fmt.Println("Seeded permission catalog")
}

func seedRoles(db *gorm.DB) {
	for roleName, grants := range rolePermissions {
		roleID := lookupOrCreateRole(db, roleName)

		for _, permName := range grants {
			var permID string
			if err := db.Raw("SELECT id FROM permissions WHERE name = ?", permName).Row().Scan(&permID); err != nil {
				log.Fatalf("permission not found %s: %v", permName, err)
			}

			var exists int
			if err := db.Raw("SELECT 1 FROM role_permissions WHERE role_id = ? AND permission_id = ?", roleID, permID).Row().Scan(&exists); err == nil {
				continue
			}
			err := db.Exec(
				"INSERT INTO role_permissions (id, role_id, permission_id) VALUES (?, ?, ?)",
				uuid.NewString(), roleID, permID,
			).Error
			if err != nil {
				log.Fatalf("failed to grant %s to %s: %v", permName, roleName, err)
			}
		}
	}
	fmt.Println("Seeded built-in roles")
}

func lookupOrCreateRole(db *gorm.DB, name string) string {
	var id string
	if err := db.Raw("SELECT id FROM roles WHERE name = ?", name).Row().Scan(&id); err == nil {
		return id
	}

	id = uuid.NewString()
	err := db.Exec(
		"INSERT INTO roles (id, name, description, is_global, tenant_id, created_at, updated_at) VALUES (?, ?, ?, true, NULL, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)",
		id, name, "Built-in "+name+" role",
	).Error
	if err != nil {
		log.Fatalf("failed to insert role %s: %v", name, err)
	}
	return id
}

func seedDefaultTenant(db *gorm.DB) string {
	var id string
	if err := db.Raw("SELECT id FROM tenants WHERE slug = ?", "default").Row().Scan(&id); err == nil {
		return id
	}

	id = uuid.NewString()
	err := db.Exec(
		"INSERT INTO tenants (id, name, slug, is_active, created_at, updated_at) VALUES (?, ?, ?, true, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)",
		id, "Default Organization", "default",
	).Error
	if err != nil {
		log.Fatalf("failed to insert default tenant: %v", err)
	}
	fmt.Println("Seeded default tenant")
	return id
}

func seedDemoUsers(db *gorm.DB, tenantID string, bcryptCost int) {
	hash, err := auth.HashPassword("Admin123!", bcryptCost)
	if err != nil {
		log.Fatalf("failed to hash demo password: %v", err)
	}

	demos := []struct {
		Email      string
		Name       string
		SuperAdmin bool
		Role       string
	}{
		{"superadmin@example.com", "Super Admin", true, rbac.RoleSuperAdmin},
		{"admin@example.com", "Tenant Admin", false, rbac.RoleTenantAdmin},
		{"user@example.com", "Tenant User", false, rbac.RoleTenantUser},
	}

	for _, demo := range demos {
		var userID string
		if err := db.Raw("SELECT id FROM users WHERE email = ?", demo.Email).Row().Scan(&userID); err != nil {
			userID = uuid.NewString()
			var userTenant *string
			if !demo.SuperAdmin {
				userTenant = &tenantID
			}
			err := db.Exec(
				"INSERT INTO users (id, email, password_hash, name, is_active, is_super_admin, tenant_id, created_at, updated_at) VALUES (?, ?, ?, ?, true, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)",
				userID, demo.Email, hash, demo.Name, demo.SuperAdmin, userTenant,
			).Error
			if err != nil {
				log.Fatalf("failed to insert demo user %s: %v", demo.Email, err)
			}
			fmt.Println("Seeded demo user:", demo.Email)
		}

		var roleID string
		if err := db.Raw("SELECT id FROM roles WHERE name = ?", demo.Role).Row().Scan(&roleID); err != nil {
			log.Fatalf("role not found %s: %v", demo.Role, err)
		}

		var exists int
		if err := db.Raw("SELECT 1 FROM user_roles WHERE user_id = ? AND role_id = ?", userID, roleID).Row().Scan(&exists); err == nil {
			continue
		}
		err := db.Exec(
			"INSERT INTO user_roles (id, user_id, role_id) VALUES (?, ?, ?)",
			uuid.NewString(), userID, roleID,
		).Error
		if err != nil {
			log.Fatalf("failed to assign role %s to %s: %v", demo.Role, demo.Email, err)
		}
	}
}

func seedTheme(db *gorm.DB, tenantID string) {
	theme, err := json.Marshal(settings.DefaultTheme())
	if err != nil {
		log.Fatalf("failed to encode default theme: %v", err)
	}

	var exists int
	if err := db.Raw("SELECT 1 FROM settings WHERE tenant_id = ? AND key = ?", tenantID, settings.ThemeKey).Row().Scan(&exists); err != nil {
		err := db.Exec(
			"INSERT INTO settings (id, tenant_id, key, value, created_at, updated_at) VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)",
			uuid.NewString(), tenantID, settings.ThemeKey, string(theme),
		).Error
		if err != nil {
			log.Fatalf("failed to seed default theme: %v", err)
		}
		fmt.Println("Seeded default theme")
	}

	if err := db.Raw("SELECT 1 FROM theme_templates WHERE name = ?", "Default").Row().Scan(&exists); err != nil {
		err := db.Exec(
			"INSERT INTO theme_templates (id, name, is_global, is_default, tenant_id, settings, created_at) VALUES (?, ?, true, true, NULL, ?, CURRENT_TIMESTAMP)",
			uuid.NewString(), "Default", string(theme),
		).Error
		if err != nil {
			log.Fatalf("failed to seed default theme template: %v", err)
		}
		fmt.Println("Seeded default theme template")
	}
}
