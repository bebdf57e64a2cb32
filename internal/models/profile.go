package models

import "time"

// Profile is the canonical projection of a role-specific record. BranchID
// is normalized here so nothing downstream cares which table it came from.
type Profile struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Email    *string `json:"email"`
	Photo    *string `json:"photo"`
	BranchID *uint   `json:"branch_id"`
}

// SuperadminProfile is the synthetic identity for role 1, which has no
// backing profile row.
func SuperadminProfile() *Profile {
	return &Profile{Name: "Superadmin"}
}

type Staff struct {
	ID       uint    `json:"id" gorm:"primaryKey"`
	Name     string  `json:"name" gorm:"not null;size:191"`
	Email    *string `json:"email" gorm:"size:191"`
	Photo    *string `json:"photo" gorm:"size:500"`
	BranchID *uint   `json:"branch_id" gorm:"index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Staff) TableName() string {
	return "staff"
}

type Parent struct {
	ID       uint    `json:"id" gorm:"primaryKey"`
	Name     string  `json:"name" gorm:"not null;size:191"`
	Email    *string `json:"email" gorm:"size:191"`
	Photo    *string `json:"photo" gorm:"size:500"`
	BranchID *uint   `json:"branch_id" gorm:"index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Children []Student `json:"children,omitempty" gorm:"foreignKey:ParentID"`
}

func (Parent) TableName() string {
	return "parents"
}

type Student struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	FirstName     string     `json:"first_name" gorm:"not null;size:100"`
	LastName      string     `json:"last_name" gorm:"size:100"`
	Email         *string    `json:"email" gorm:"size:191"`
	Photo         *string    `json:"photo" gorm:"size:500"`
	BranchID      *uint      `json:"branch_id" gorm:"index"`
	ParentID      *uint      `json:"parent_id" gorm:"index"`
	AdmissionDate *time.Time `json:"admission_date" gorm:"index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Enrolls []Enroll `json:"enrolls,omitempty" gorm:"foreignKey:StudentID"`
}

func (Student) TableName() string {
	return "students"
}

// FullName joins first and last name with a single space, matching how the
// student name is presented everywhere else in the system.
func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// Branch is a tenant site. The studentLogin/parentLogin toggles gate whether
// those roles may authenticate at all.
type Branch struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Name         string `json:"name" gorm:"not null;size:191"`
	StudentLogin int    `json:"student_login" gorm:"default:1"`
	ParentLogin  int    `json:"parent_login" gorm:"default:1"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Branch) TableName() string {
	return "branches"
}

// GlobalSetting is a singleton row holding the active academic session.
type GlobalSetting struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	SessionID uint `json:"session_id"`
}

func (GlobalSetting) TableName() string {
	return "global_settings"
}
