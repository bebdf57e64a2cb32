package events

import (
	"time"

	"github.com/edupulse/school-service/internal/models"
)

// Topics published by this service. Consumers (mailer, audit sink) live in
// other services.
const (
	TopicPasswordResetRequested = "auth.password_reset_requested"
	TopicUserLoggedIn           = "auth.user_logged_in"
)

// PasswordResetRequested asks the notification service to deliver a reset
// link. Delivery is out-of-band; failure to deliver does not roll back the
// token.
type PasswordResetRequested struct {
	Username    string    `json:"username"`
	Email       *string   `json:"email"`
	ResetURL    string    `json:"reset_url"`
	RequestedAt time.Time `json:"requested_at"`
}

// UserLoggedIn mirrors the login audit row for downstream consumers.
type UserLoggedIn struct {
	CredentialID uint            `json:"credential_id"`
	UserID       uint            `json:"user_id"`
	Role         models.Role     `json:"role"`
	BranchID     uint            `json:"branch_id"`
	UserType     models.UserType `json:"user_type"`
	LoggedInAt   time.Time       `json:"logged_in_at"`
}
