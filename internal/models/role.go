package models

import "fmt"

// Role is the numeric role stored on a login credential. The values are
// fixed by the credential table and must not be reordered.
type Role int

const (
	RoleSuperadmin Role = 1
	RoleAdmin      Role = 2
	RoleTeacher    Role = 3
	RoleAccountant Role = 4
	RoleLibrarian  Role = 5
	RoleParent     Role = 6
	RoleStudent    Role = 7
)

// UserType is the coarse classification derived from a role. It drives
// dashboard routing; handlers never branch on the raw role integer.
type UserType string

const (
	UserTypeSuperadmin UserType = "superadmin"
	UserTypeStaff      UserType = "staff"
	UserTypeParent     UserType = "parent"
	UserTypeStudent    UserType = "student"
)

// Valid reports whether r is one of the seven known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperadmin, RoleAdmin, RoleTeacher, RoleAccountant, RoleLibrarian, RoleParent, RoleStudent:
		return true
	}
	return false
}

// UserType maps a role to its coarse user type. Unknown role values return
// an error instead of falling through to staff.
func (r Role) UserType() (UserType, error) {
	switch r {
	case RoleSuperadmin:
		return UserTypeSuperadmin, nil
	case RoleParent:
		return UserTypeParent, nil
	case RoleStudent:
		return UserTypeStudent, nil
	case RoleAdmin, RoleTeacher, RoleAccountant, RoleLibrarian:
		return UserTypeStaff, nil
	}
	return "", fmt.Errorf("unknown role value: %d", r)
}

func (r Role) String() string {
	switch r {
	case RoleSuperadmin:
		return "superadmin"
	case RoleAdmin:
		return "admin"
	case RoleTeacher:
		return "teacher"
	case RoleAccountant:
		return "accountant"
	case RoleLibrarian:
		return "librarian"
	case RoleParent:
		return "parent"
	case RoleStudent:
		return "student"
	}
	return fmt.Sprintf("role(%d)", int(r))
}
