package models

import (
	"time"

	"gorm.io/datatypes"
)

// LoginCredential is the single login table shared by every role. UserID
// points into the role-specific profile table and is only unique together
// with Role.
type LoginCredential struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Username string `json:"username" gorm:"uniqueIndex;not null;size:191"`
	Password string `json:"-" gorm:"not null;size:255"` // bcrypt hash
	Role     Role   `json:"role" gorm:"not null;index:idx_role_user"`
	UserID   uint   `json:"user_id" gorm:"not null;index:idx_role_user"`
	Active   int    `json:"active" gorm:"default:1"`

	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (LoginCredential) TableName() string {
	return "login_credentials"
}

// PasswordReset is a single-use reset token. At most one live token exists
// per credential; issuing a new one deletes the previous rows.
type PasswordReset struct {
	ID                uint   `json:"id" gorm:"primaryKey"`
	Key               string `json:"-" gorm:"uniqueIndex;not null;size:191"`
	LoginCredentialID uint   `json:"login_credential_id" gorm:"not null;index"`
	Username          string `json:"username" gorm:"not null;size:191"`

	CreatedAt time.Time `json:"created_at"`

	LoginCredential LoginCredential `json:"-" gorm:"foreignKey:LoginCredentialID;constraint:OnDelete:CASCADE"`
}

func (PasswordReset) TableName() string {
	return "reset_passwords"
}

// LoginLog is the append-only login audit trail. Client metadata is
// best effort; missing fields stay empty.
type LoginLog struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	UserID   uint   `json:"user_id" gorm:"not null;index"`
	Role     Role   `json:"role" gorm:"not null"`
	BranchID uint   `json:"branch_id" gorm:"not null;index"`
	IP       string `json:"ip" gorm:"size:45"`
	Platform string `json:"platform" gorm:"size:64"`
	Browser  string `json:"browser" gorm:"size:64"`

	// Raw client details (full user agent, headers of interest).
	Meta datatypes.JSON `json:"meta" gorm:"type:jsonb"`

	Timestamp time.Time `json:"timestamp" gorm:"not null;index"`
}

func (LoginLog) TableName() string {
	return "login_logs"
}
