package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"vpcs-backend/internal/adapters/persistence/models"
	"vpcs-backend/internal/adapters/persistence/repositories"
	"vpcs-backend/internal/config"
	"vpcs-backend/internal/core/domain"
	"vpcs-backend/internal/pkg/pagination"
	"vpcs-backend/internal/pkg/validation"

	"github.com/sirupsen/logrus"
)

// UserService manages the approved-user allow-list
type UserService struct {
	userRepo         repositories.ApprovedUserRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	publisher        Publisher
	now              Clock
}

// NewUserService creates a new user service
func NewUserService(
	userRepo repositories.ApprovedUserRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	publisher Publisher,
) *UserService {
	return &UserService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		publisher:        publisher,
		now:              systemClock,
	}
}

// CreateUserInput represents approve user input
type CreateUserInput struct {
	Email    string `json:"email" validate:"required,simple_email,max=255"`
	FullName string `json:"full_name" validate:"required,max=150"`
	Role     string `json:"role" validate:"required,oneof=Administrator Supervisor Management"`
	Notes    string `json:"notes" validate:"max=1000"`
}

// UpdateStatusInput represents user status change input
type UpdateStatusInput struct {
	Status string `json:"status" validate:"required,oneof=Active Inactive Suspended Decommissioned"`
}

// ListUsersInput represents list users input
type ListUsersInput struct {
	*pagination.Params
	Role string
}

// Create approves a new account
func (s *UserService) Create(ctx context.Context, input *CreateUserInput, actor domain.Actor) (*models.ApprovedUser, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.FullName = strings.TrimSpace(input.FullName)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	role, _ := domain.ParseRole(input.Role)

	if _, err := s.userRepo.GetByEmail(ctx, input.Email); err == nil {
		return nil, domain.NewConflictError("User with email %s already exists", input.Email)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	now := s.now()
	user := &models.ApprovedUser{
		Email:      input.Email,
		Role:       string(role),
		FullName:   input.FullName,
		Status:     string(domain.UserActive),
		ApprovedBy: actor.Email,
		ApprovedAt: &now,
		Notes:      input.Notes,
		UpdatedAt:  nextUpdatedAt(time.Time{}, now),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEntry) {
			return nil, domain.NewConflictError("User with email %s already exists", input.Email)
		}
		return nil, err
	}

	publish(ctx, s.publisher, domain.TopicUsers, domain.ActionCreated, user.ID, actor, now)
	config.GetLogger().WithFields(logrus.Fields{"email": user.Email, "role": user.Role}).Info("✅ User approved")
	return user, nil
}

// UpdateStatus moves a user to any status. Leaving Active revokes every
// refresh token so the user's other sessions end.
func (s *UserService) UpdateStatus(ctx context.Context, id uint, input *UpdateStatusInput, actor domain.Actor) (*models.ApprovedUser, error) {
	status, ok := domain.ParseUserStatus(input.Status)
	if !ok {
		return nil, domain.NewValidationError("status", "status must be one of: Active Inactive Suspended Decommissioned")
	}
	if actor.UserID == id && !status.CanSignIn() {
		return nil, domain.NewValidationError("status", "You cannot deactivate your own account")
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user.Status = string(status)
	user.UpdatedAt = nextUpdatedAt(user.UpdatedAt, now)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if !status.CanSignIn() {
		if err := s.refreshTokenRepo.RevokeAllByUserID(ctx, user.ID); err != nil {
			return nil, err
		}
		publish(ctx, s.publisher, domain.TopicSessions, domain.ActionRevoked, user.ID, actor, now)
	}
	publish(ctx, s.publisher, domain.TopicUsers, domain.ActionStatusChanged, user.ID, actor, now)

	config.GetLogger().WithFields(logrus.Fields{"email": user.Email, "status": user.Status}).Info("✅ User status changed")
	return user, nil
}

// Get returns one approved user
func (s *UserService) Get(ctx context.Context, id uint) (*models.ApprovedUser, error) {
	return s.userRepo.GetByID(ctx, id)
}

// List lists approved users with role, status and search filters
func (s *UserService) List(ctx context.Context, input *ListUsersInput) ([]*models.ApprovedUserResponse, int64, error) {
	filter := repositories.UserFilter{
		ListFilter: listFilter(input.Params),
	}
	if input.Role != "" {
		role, ok := domain.ParseRole(input.Role)
		if !ok {
			return nil, 0, domain.NewValidationError("role", "role must be one of: Administrator Supervisor Management")
		}
		filter.Role = string(role)
	}
	if filter.Status != "" {
		st, ok := domain.ParseUserStatus(filter.Status)
		if !ok {
			return nil, 0, domain.NewValidationError("status", "status must be one of: Active Inactive Suspended Decommissioned")
		}
		filter.Status = string(st)
	}

	users, total, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	out := make([]*models.ApprovedUserResponse, len(users))
	for i, u := range users {
		out[i] = u.ToResponse()
	}
	return out, total, nil
}

// Stats counts users for the management header
func (s *UserService) Stats(ctx context.Context) (*repositories.UserStats, error) {
	return s.userRepo.Stats(ctx)
}

func listFilter(p *pagination.Params) repositories.ListFilter {
	if p == nil {
		p = pagination.New(1, pagination.DefaultLimit)
	}
	return repositories.ListFilter{
		Offset: p.Offset,
		Limit:  p.Limit,
		Search: p.Search,
		Status: p.Status,
	}
}
