package models

import "time"

// Attendance statuses as stored. Present and Late both count as attended
// for the dashboard series.
const (
	AttendancePresent = "P"
	AttendanceAbsent  = "A"
	AttendanceLate    = "L"
)

// Session is one academic term. Exactly one session is "active" at a time,
// selected by the global settings row.
type Session struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"not null;size:100"`

	CreatedAt time.Time `json:"created_at"`
}

func (Session) TableName() string {
	return "sessions"
}

type Class struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Name     string `json:"name" gorm:"not null;size:100"`
	BranchID uint   `json:"branch_id" gorm:"index"`
}

func (Class) TableName() string {
	return "classes"
}

type Section struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	Name    string `json:"name" gorm:"not null;size:100"`
	ClassID uint   `json:"class_id" gorm:"index"`
}

func (Section) TableName() string {
	return "sections"
}

// Enroll assigns a student to a class/section for one session within a
// branch. One row per student per session.
type Enroll struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	StudentID uint `json:"student_id" gorm:"not null;index:idx_enroll_student_session"`
	ClassID   uint `json:"class_id" gorm:"not null;index"`
	SectionID uint `json:"section_id" gorm:"not null"`
	BranchID  uint `json:"branch_id" gorm:"not null;index"`
	SessionID uint `json:"session_id" gorm:"not null;index:idx_enroll_student_session"`

	CreatedAt time.Time `json:"created_at"`

	Student Student `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Class   Class   `json:"class,omitempty" gorm:"foreignKey:ClassID"`
	Section Section `json:"section,omitempty" gorm:"foreignKey:SectionID"`
}

func (Enroll) TableName() string {
	return "enrolls"
}

type StudentAttendance struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	EnrollID uint      `json:"enroll_id" gorm:"not null;index"`
	BranchID uint      `json:"branch_id" gorm:"not null;index"`
	Date     time.Time `json:"date" gorm:"not null;index"`
	Status   string    `json:"status" gorm:"not null;size:1"`
}

func (StudentAttendance) TableName() string {
	return "student_attendances"
}

type StaffAttendance struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	StaffID  uint      `json:"staff_id" gorm:"not null;index"`
	BranchID uint      `json:"branch_id" gorm:"not null;index"`
	Date     time.Time `json:"date" gorm:"not null;index"`
	Status   string    `json:"status" gorm:"not null;size:1"`
}

func (StaffAttendance) TableName() string {
	return "staff_attendances"
}

// Transaction is one row of the financial ledger. Dr is expense (debit),
// Cr is income (credit).
type Transaction struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	BranchID uint      `json:"branch_id" gorm:"not null;index"`
	Date     time.Time `json:"date" gorm:"not null;index"`
	Dr       float64   `json:"dr" gorm:"type:numeric(12,2);default:0"`
	Cr       float64   `json:"cr" gorm:"type:numeric(12,2);default:0"`

	CreatedAt time.Time `json:"created_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}

type FeeAllocation struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	StudentID uint `json:"student_id" gorm:"not null;index:idx_fee_student_session"`
	SessionID uint `json:"session_id" gorm:"not null;index:idx_fee_student_session"`
	BranchID  uint `json:"branch_id" gorm:"index"`

	Payments []FeePayment `json:"payments,omitempty" gorm:"foreignKey:AllocationID"`
}

func (FeeAllocation) TableName() string {
	return "fee_allocations"
}

type FeePayment struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	AllocationID uint      `json:"allocation_id" gorm:"not null;index"`
	Amount       float64   `json:"amount" gorm:"type:numeric(12,2);not null"`
	Date         time.Time `json:"date" gorm:"not null"`
}

func (FeePayment) TableName() string {
	return "fee_payments"
}
