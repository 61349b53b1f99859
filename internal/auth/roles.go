package auth

import (
	"fmt"
)

// Permission is a closed enumeration of capability tokens. Unknown strings
// are rejected at the boundary by ParsePermission instead of silently
// evaluating to false deep inside permission checks.
type Permission string

const (
	PermissionViewAllPraesidia Permission = "view_all_praesidia"
	PermissionViewFinances     Permission = "view_finances"
	PermissionApproveAccounts  Permission = "approve_accounts"
	PermissionApprovePresences Permission = "approve_presences"
	PermissionApproveFinances  Permission = "approve_finances"
	PermissionViewAllReports   Permission = "view_all_reports"
	PermissionManageMembers    Permission = "manage_members"
	PermissionManageOfficers   Permission = "manage_officers"
)

var allPermissions = []Permission{
	PermissionViewAllPraesidia,
	PermissionViewFinances,
	PermissionApproveAccounts,
	PermissionApprovePresences,
	PermissionApproveFinances,
	PermissionViewAllReports,
	PermissionManageMembers,
	PermissionManageOfficers,
}

// ParsePermission validates a raw token against the closed set.
func ParsePermission(raw string) (Permission, error) {
	for _, p := range allPermissions {
		if string(p) == raw {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown permission %q", raw)
}

// rolePermissions maps a poste (job title) to the permissions it grants.
// Authored configuration, not derived; postes absent from the table grant
// nothing.
var rolePermissions = map[string][]Permission{
	"Président du Conseil": {
		PermissionViewAllPraesidia,
		PermissionViewFinances,
		PermissionApproveAccounts,
		PermissionApprovePresences,
		PermissionApproveFinances,
		PermissionViewAllReports,
		PermissionManageMembers,
		PermissionManageOfficers,
	},
	"Vice-Président du Conseil": {
		PermissionViewAllPraesidia,
		PermissionApproveAccounts,
		PermissionApprovePresences,
		PermissionViewAllReports,
		PermissionManageOfficers,
	},
	"Secrétaire du Conseil": {
		PermissionViewAllPraesidia,
		PermissionApprovePresences,
		PermissionViewAllReports,
	},
	"Trésorier du Conseil": {
		PermissionViewAllPraesidia,
		PermissionViewFinances,
		PermissionApproveFinances,
		PermissionViewAllReports,
	},
	"Président de Praesidium": {
		PermissionViewFinances,
		PermissionApprovePresences,
		PermissionManageMembers,
	},
	"Vice-Président de Praesidium": {
		PermissionManageMembers,
	},
	"Secrétaire de Praesidium": {
		PermissionApprovePresences,
		PermissionManageMembers,
	},
	"Trésorier de Praesidium": {
		PermissionViewFinances,
	},
}

// PermissionsFor resolves a poste to its permission set. Unknown postes
// yield an empty set, never an error. The returned slice is a copy.
func PermissionsFor(poste string) []Permission {
	perms, ok := rolePermissions[poste]
	if !ok {
		return []Permission{}
	}
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}

// Allowed applies the scoping rule on top of the plain permission check:
// council officers are never scope-restricted; praesidium officers are
// restricted to their own praesidium when a scope is supplied, and
// unrestricted when none is given.
func Allowed(u *User, permission Permission, praesidiumID *int64) bool {
	if u == nil {
		return false
	}
	if !u.HasPermission(permission) {
		return false
	}
	if u.AccountType == AccountTypeCouncilOfficer {
		return true
	}
	if praesidiumID == nil {
		return true
	}
	return u.PraesidiumID != nil && *u.PraesidiumID == *praesidiumID
}
