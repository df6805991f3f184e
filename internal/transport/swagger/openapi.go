package swagger

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

var (
	buildOnce sync.Once
	document  *openapi3.T
)

// Document returns the API description, built explicitly as an object
// rather than collected through a global registry. Built once, read-only
// afterwards.
func Document() *openapi3.T {
	buildOnce.Do(func() {
		document = buildDocument()
	})
	return document
}

// ServeDocument serves the OpenAPI document as JSON.
func ServeDocument(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(Document())
}

func buildDocument() *openapi3.T {
	bearer := &openapi3.SecuritySchemeRef{
		Value: openapi3.NewJWTSecurityScheme(),
	}

	paths := openapi3.NewPaths(
		openapi3.WithPath("/api/v1/auth/login", &openapi3.PathItem{
			Post: op("Authenticate with email and password; sets the refresh cookie", "auth"),
		}),
		openapi3.WithPath("/api/v1/auth/refresh", &openapi3.PathItem{
			Post: op("Rotate the refresh token from the cookie", "auth"),
		}),
		openapi3.WithPath("/api/v1/auth/logout", &openapi3.PathItem{
			Post: op("Revoke the refresh token and clear the cookie", "auth"),
		}),
		openapi3.WithPath("/api/v1/auth/register", &openapi3.PathItem{
			Post: op("Register a new account", "auth"),
		}),
		openapi3.WithPath("/api/v1/auth/me", &openapi3.PathItem{
			Get: secured(op("Current principal with roles and permissions", "auth")),
		}),
		openapi3.WithPath("/api/v1/users", &openapi3.PathItem{
			Get:  secured(op("List users in the acting tenant scope", "users")),
			Post: secured(op("Create a user in one tenant", "users")),
		}),
		openapi3.WithPath("/api/v1/users/{id}", &openapi3.PathItem{
			Get:    secured(op("Get a user", "users")),
			Put:    secured(op("Update a user, optionally replacing role assignments", "users")),
			Delete: secured(op("Delete a user", "users")),
		}),
		openapi3.WithPath("/api/v1/roles", &openapi3.PathItem{
			Get:  secured(op("List roles visible in the acting tenant scope", "roles")),
			Post: secured(op("Create a role with permission grants", "roles")),
		}),
		openapi3.WithPath("/api/v1/roles/{id}", &openapi3.PathItem{
			Get:    secured(op("Get a role with its grants", "roles")),
			Put:    secured(op("Update a role, optionally replacing grants", "roles")),
			Delete: secured(op("Delete a custom role", "roles")),
		}),
		openapi3.WithPath("/api/v1/permissions", &openapi3.PathItem{
			Get: secured(op("List the permission catalog", "permissions")),
		}),
		openapi3.WithPath("/api/v1/tenants", &openapi3.PathItem{
			Get:  secured(op("List tenants visible to the principal", "tenants")),
			Post: secured(op("Provision a tenant (super-admin)", "tenants")),
		}),
		openapi3.WithPath("/api/v1/tenants/{id}", &openapi3.PathItem{
			Get:    secured(op("Get a tenant", "tenants")),
			Put:    secured(op("Update a tenant (super-admin)", "tenants")),
			Delete: secured(op("Delete a tenant (super-admin)", "tenants")),
		}),
		openapi3.WithPath("/api/v1/settings/theme", &openapi3.PathItem{
			Get: secured(op("Get the tenant theme", "settings")),
			Put: secured(op("Update the tenant theme", "settings")),
		}),
		openapi3.WithPath("/api/v1/settings/theme-templates", &openapi3.PathItem{
			Get:  secured(op("List theme templates", "settings")),
			Post: secured(op("Create a theme template", "settings")),
		}),
		openapi3.WithPath("/api/v1/health", &openapi3.PathItem{
			Get: op("Readiness check including the database", "health"),
		}),
	)

	return &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       "Tenant Auth API",
			Description: "Multi-tenant authentication and authorization service",
			Version:     "1.0.0",
		},
		Paths: paths,
		Components: &openapi3.Components{
			SecuritySchemes: openapi3.SecuritySchemes{
				"bearerAuth": bearer,
			},
		},
	}
}

func op(summary, tag string) *openapi3.Operation {
	return &openapi3.Operation{
		Summary:   summary,
		Tags:      []string{tag},
		Responses: openapi3.NewResponses(),
	}
}

func secured(operation *openapi3.Operation) *openapi3.Operation {
	operation.Security = openapi3.NewSecurityRequirements().
		With(openapi3.NewSecurityRequirement().Authenticate("bearerAuth"))
	return operation
}
