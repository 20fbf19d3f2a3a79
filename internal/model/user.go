// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Role is a backend user role.
type Role string

// User roles
const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleSuperAdmin Role = "superadmin"
)

// Roles lists the assignable roles.
var Roles = []Role{RoleUser, RoleAdmin, RoleManager, RoleSuperAdmin}

// Label returns the role name for display.
func (r Role) Label() string {
	switch r {
	case RoleUser:
		return "User"
	case RoleAdmin:
		return "Admin"
	case RoleManager:
		return "Manager"
	case RoleSuperAdmin:
		return "Super Admin"
	}
	return string(r)
}

// Badge returns the badge colour class for the role.
func (r Role) Badge() string {
	switch r {
	case RoleSuperAdmin:
		return "danger"
	case RoleAdmin:
		return "primary"
	case RoleManager:
		return "info"
	}
	return "secondary"
}

// CanAccessBackOffice reports whether the role may sign in to the admin area.
func (r Role) CanAccessBackOffice() bool {
	return r == RoleAdmin || r == RoleSuperAdmin || r == RoleManager
}

// User is a backend account.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	MobileNumber string `json:"mobile_number"`
	Role         Role   `json:"role"`
}

// RecordID implements Record.
func (u User) RecordID() int64 { return u.ID }

// IsProtected reports whether the account may not be edited or deleted from
// the back-office.
func (u User) IsProtected() bool {
	return u.Role == RoleSuperAdmin
}
