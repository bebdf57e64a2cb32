package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/edupulse/school-service/internal/models"
	"github.com/edupulse/school-service/internal/repositories"
)

type profileRepository struct {
	db *gorm.DB
}

func NewProfilePostgreSQL(db *gorm.DB) repositories.ProfileRepository {
	return &profileRepository{db: db}
}

// ResolveByRole dispatches on the closed role set. Staff roles are listed
// explicitly so an out-of-range role value is an error, not a staff lookup.
func (r *profileRepository) ResolveByRole(ctx context.Context, role models.Role, userID uint) (*models.Profile, error) {
	switch role {
	case models.RoleSuperadmin:
		return models.SuperadminProfile(), nil

	case models.RoleParent:
		var parent models.Parent
		if err := r.db.WithContext(ctx).First(&parent, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, repositories.ErrNotFound
			}
			return nil, fmt.Errorf("failed to get parent profile: %w", err)
		}
		return &models.Profile{
			ID:       parent.ID,
			Name:     parent.Name,
			Email:    parent.Email,
			Photo:    parent.Photo,
			BranchID: parent.BranchID,
		}, nil

	case models.RoleStudent:
		var student models.Student
		if err := r.db.WithContext(ctx).First(&student, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, repositories.ErrNotFound
			}
			return nil, fmt.Errorf("failed to get student profile: %w", err)
		}
		return &models.Profile{
			ID:       student.ID,
			Name:     student.FullName(),
			Email:    student.Email,
			Photo:    student.Photo,
			BranchID: student.BranchID,
		}, nil

	case models.RoleAdmin, models.RoleTeacher, models.RoleAccountant, models.RoleLibrarian:
		var staff models.Staff
		if err := r.db.WithContext(ctx).First(&staff, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, repositories.ErrNotFound
			}
			return nil, fmt.Errorf("failed to get staff profile: %w", err)
		}
		return &models.Profile{
			ID:       staff.ID,
			Name:     staff.Name,
			Email:    staff.Email,
			Photo:    staff.Photo,
			BranchID: staff.BranchID,
		}, nil
	}

	return nil, fmt.Errorf("cannot resolve profile for unknown role %d", role)
}
