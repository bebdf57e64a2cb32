package validator

// LoginRequest carries the credentials for a session issuance attempt.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ForgotPasswordRequest starts a password reset flow by username.
type ForgotPasswordRequest struct {
	Username string `json:"username" validate:"required"`
}

// ResetPasswordRequest consumes an emailed reset key.
type ResetPasswordRequest struct {
	Key             string `json:"key" validate:"required"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}
