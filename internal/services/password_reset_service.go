package services

import (
	"context"
	"crypto/rand"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/edupulse/school-service/internal/events"
	"github.com/edupulse/school-service/internal/models"
	"github.com/edupulse/school-service/internal/repositories"
)

// resetRequestAck is returned whether or not the username exists. Revealing
// which usernames are registered would enable account enumeration.
const resetRequestAck = "If your email exists in our system, you will receive a password reset link"

const resetTokenTTL = 24 * time.Hour

const resetPasswordHashCost = 10

type passwordResetService struct {
	repo        repositories.Repository
	publisher   events.EventPublisher
	frontendURL string
	logger      *slog.Logger
}

func NewPasswordResetService(repo repositories.Repository, publisher events.EventPublisher, frontendURL string, logger *slog.Logger) PasswordResetService {
	return &passwordResetService{
		repo:        repo,
		publisher:   publisher,
		frontendURL: frontendURL,
		logger:      logger,
	}
}

func (s *passwordResetService) RequestReset(ctx context.Context, username string) (*MessageResponse, error) {
	cred, err := s.repo.Credential().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return &MessageResponse{Message: resetRequestAck}, nil
		}
		return nil, fmt.Errorf("failed to look up credential: %w", err)
	}

	key, err := generateResetKey(cred)
	if err != nil {
		return nil, fmt.Errorf("failed to generate reset key: %w", err)
	}

	// At most one live token per credential.
	if err := s.repo.Credential().DeleteResetsByCredential(ctx, cred.ID); err != nil {
		return nil, fmt.Errorf("failed to clear previous reset tokens: %w", err)
	}

	reset := &models.PasswordReset{
		Key:               key,
		LoginCredentialID: cred.ID,
		Username:          cred.Username,
	}
	if err := s.repo.Credential().CreateReset(ctx, reset); err != nil {
		return nil, fmt.Errorf("failed to store reset token: %w", err)
	}

	// Delivery is out-of-band; a failed dispatch does not roll back the
	// token and the caller still sees the generic message.
	var email *string
	if profile, err := s.repo.Profile().ResolveByRole(ctx, cred.Role, cred.UserID); err == nil {
		email = profile.Email
	} else {
		s.logger.Warn("Failed to resolve profile for reset email", "username", username, "error", err)
	}

	event := events.PasswordResetRequested{
		Username:    cred.Username,
		Email:       email,
		ResetURL:    fmt.Sprintf("%s/auth/reset-password?key=%s", s.frontendURL, key),
		RequestedAt: time.Now(),
	}
	if err := s.publisher.Publish(ctx, events.TopicPasswordResetRequested, event); err != nil {
		s.logger.Warn("Failed to publish reset event", "username", username, "error", err)
	}

	return &MessageResponse{Message: resetRequestAck}, nil
}

func (s *passwordResetService) ResetPassword(ctx context.Context, req ResetPasswordRequest) (*MessageResponse, error) {
	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	reset, err := s.repo.Credential().GetResetByKey(ctx, req.Key)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrResetTokenNotFound
		}
		return nil, fmt.Errorf("failed to look up reset token: %w", err)
	}

	if time.Since(reset.CreatedAt) > resetTokenTTL {
		// Expired tokens are consumed on the failed attempt, not retryable.
		if err := s.repo.Credential().DeleteResetByKey(ctx, req.Key); err != nil {
			s.logger.Warn("Failed to delete expired reset token", "error", err)
		}
		return nil, ErrResetTokenExpired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), resetPasswordHashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash new password: %w", err)
	}

	if err := s.repo.Credential().UpdatePassword(ctx, reset.LoginCredentialID, string(hash)); err != nil {
		return nil, fmt.Errorf("failed to update password: %w", err)
	}

	if err := s.repo.Credential().DeleteResetByKey(ctx, req.Key); err != nil {
		return nil, fmt.Errorf("failed to consume reset token: %w", err)
	}

	return &MessageResponse{Message: "Password has been reset successfully"}, nil
}

// generateResetKey derives an unguessable single-use key from the
// credential plus fresh random bytes.
func generateResetKey(cred *models.LoginCredential) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	sum := sha512.Sum512([]byte(fmt.Sprintf("%d%s%d%x", cred.Role, cred.Username, time.Now().UnixNano(), salt)))
	return hex.EncodeToString(sum[:]), nil
}
