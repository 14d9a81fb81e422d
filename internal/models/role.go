package models

// Role is a closed enumeration of the permission levels a user can hold on a
// class or organization. Ownership is not a Role: it is a distinct relation on
// the entity itself and always takes precedence over role rows.
type Role string

const (
	RoleOwner            Role = "owner" // display only, never stored as a membership row
	RoleAdmin            Role = "admin"
	RoleTeacher          Role = "teacher"
	RoleAssistantTeacher Role = "assistant_teacher"
	RoleStudent          Role = "student"
	RoleGuardian         Role = "guardian"
)

// ClassRolePrecedence orders class roles for "already a member" reporting.
var ClassRolePrecedence = []Role{
	RoleAdmin,
	RoleTeacher,
	RoleAssistantTeacher,
	RoleStudent,
	RoleGuardian,
}

// OrganizationRolePrecedence orders organization roles the same way.
var OrganizationRolePrecedence = []Role{
	RoleAdmin,
	RoleTeacher,
}
