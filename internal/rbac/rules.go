package rbac

// Simple default policy. Expand as needed.
var RolePermissions = map[string][]string{
	"student": {
		"course:view",
		"course:register",
		"research:generate",
		"chat:ask",
		"grade:submit",
		"certificate:view",
		"user:change_password",
	},
	"admin": {
		"*", // everything
	},
}
