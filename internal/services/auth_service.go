package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"

	"github.com/edupulse/school-service/internal/auth"
	"github.com/edupulse/school-service/internal/events"
	"github.com/edupulse/school-service/internal/models"
	"github.com/edupulse/school-service/internal/repositories"
)

// defaultAuditBranch is logged when the credential resolves to no branch
// (superadmin, staff without a branch assignment).
const defaultAuditBranch uint = 1

type authService struct {
	repo      repositories.Repository
	tokens    *auth.TokenManager
	publisher events.EventPublisher
	logger    *slog.Logger
}

func NewAuthService(repo repositories.Repository, tokens *auth.TokenManager, publisher events.EventPublisher, logger *slog.Logger) AuthService {
	return &authService{
		repo:      repo,
		tokens:    tokens,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *authService) Login(ctx context.Context, req LoginRequest, client ClientInfo) (*LoginResponse, error) {
	cred, err := s.repo.Credential().GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// Unknown username and wrong password are indistinguishable.
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up credential: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if cred.Active != 1 {
		return nil, ErrAccountInactive
	}

	profile, err := s.repo.Profile().ResolveByRole(ctx, cred.Role, cred.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProfileMissing
		}
		return nil, fmt.Errorf("failed to resolve profile: %w", err)
	}

	if err := s.checkBranchEligibility(ctx, cred.Role, profile.BranchID); err != nil {
		return nil, err
	}

	userType, err := cred.Role.UserType()
	if err != nil {
		return nil, fmt.Errorf("failed to classify role: %w", err)
	}

	claims := auth.SessionClaims{
		UserID:   cred.UserID,
		Username: cred.Username,
		Role:     cred.Role,
		BranchID: profile.BranchID,
		Name:     profile.Name,
		Photo:    profile.Photo,
		UserType: userType,
	}

	token, err := s.tokens.Sign(cred.ID, claims)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	now := time.Now()
	if err := s.repo.Credential().UpdateLastLogin(ctx, cred.ID, now); err != nil {
		return nil, fmt.Errorf("failed to update last login: %w", err)
	}

	auditBranch := defaultAuditBranch
	if profile.BranchID != nil {
		auditBranch = *profile.BranchID
	}
	if err := s.repo.Credential().CreateLoginLog(ctx, s.buildLoginLog(cred, auditBranch, client, now)); err != nil {
		return nil, fmt.Errorf("failed to write login log: %w", err)
	}

	event := events.UserLoggedIn{
		CredentialID: cred.ID,
		UserID:       cred.UserID,
		Role:         cred.Role,
		BranchID:     auditBranch,
		UserType:     userType,
		LoggedInAt:   now,
	}
	if err := s.publisher.Publish(ctx, events.TopicUserLoggedIn, event); err != nil {
		s.logger.Warn("Failed to publish login event", "username", cred.Username, "error", err)
	}

	return &LoginResponse{
		AccessToken: token,
		User: UserInfo{
			ID:       cred.ID,
			UserID:   cred.UserID,
			Username: cred.Username,
			Role:     cred.Role,
			Name:     profile.Name,
			Photo:    profile.Photo,
			BranchID: profile.BranchID,
			UserType: userType,
		},
	}, nil
}

// checkBranchEligibility enforces the per-branch login toggles. Only parent
// and student logins are gated; staff and superadmin always pass.
func (s *authService) checkBranchEligibility(ctx context.Context, role models.Role, branchID *uint) error {
	if branchID == nil {
		return nil
	}
	if role != models.RoleParent && role != models.RoleStudent {
		return nil
	}

	branch, err := s.repo.Branch().GetByID(ctx, *branchID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// No branch row means nothing to gate on.
			return nil
		}
		return fmt.Errorf("failed to load branch: %w", err)
	}

	if role == models.RoleParent && branch.ParentLogin == 0 {
		return ErrLoginDisabled
	}
	if role == models.RoleStudent && branch.StudentLogin == 0 {
		return ErrLoginDisabled
	}
	return nil
}

func (s *authService) buildLoginLog(cred *models.LoginCredential, branchID uint, client ClientInfo, at time.Time) *models.LoginLog {
	var meta datatypes.JSON
	if client.UserAgent != "" {
		if raw, err := json.Marshal(map[string]string{"userAgent": client.UserAgent}); err == nil {
			meta = raw
		}
	}

	return &models.LoginLog{
		UserID:    cred.UserID,
		Role:      cred.Role,
		BranchID:  branchID,
		IP:        client.IP,
		Platform:  client.Platform,
		Browser:   client.Browser,
		Meta:      meta,
		Timestamp: at,
	}
}

func (s *authService) VerifyToken(ctx context.Context, token string) (*auth.SessionClaims, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	credentialID, err := claims.CredentialID()
	if err != nil {
		return nil, ErrInvalidToken
	}

	cred, err := s.repo.Credential().GetByID(ctx, credentialID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInactiveAccount
		}
		return nil, fmt.Errorf("failed to refresh credential: %w", err)
	}
	if cred.Active != 1 {
		return nil, ErrInactiveAccount
	}

	return claims, nil
}

func (s *authService) CurrentUser(claims *auth.SessionClaims) (*UserInfo, error) {
	credentialID, err := claims.CredentialID()
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &UserInfo{
		ID:       credentialID,
		UserID:   claims.UserID,
		Username: claims.Username,
		Role:     claims.Role,
		Name:     claims.Name,
		Photo:    claims.Photo,
		BranchID: claims.BranchID,
		UserType: claims.UserType,
	}, nil
}
