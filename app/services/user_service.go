package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rsharma-dev/inventra/app/models"
	"github.com/rsharma-dev/inventra/app/repositories"
)

// UpdateRoleInput sets a user's role.
type UpdateRoleInput struct {
	Role string `json:"role" validate:"required,in=user,admin"`
}

// UserStats backs the admin stats endpoint.
type UserStats struct {
	Total  int64                    `json:"total"`
	ByRole []repositories.RoleCount `json:"byRole"`
	Recent []models.User            `json:"recent"`
}

// UserService implements admin user management.
type UserService struct {
	users repositories.UserRepository
}

func NewUserService(users repositories.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) Get(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *UserService) UpdateRole(ctx context.Context, id primitive.ObjectID, role string) (*models.User, error) {
	return s.users.UpdateRole(ctx, id, role)
}

func (s *UserService) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.users.Delete(ctx, id)
}

func (s *UserService) Stats(ctx context.Context) (*UserStats, error) {
	byRole, err := s.users.CountByRole(ctx)
	if err != nil {
		return nil, err
	}
	var total int64
	for _, rc := range byRole {
		total += rc.Count
	}
	recent, err := s.users.Recent(ctx, 5)
	if err != nil {
		return nil, err
	}
	return &UserStats{Total: total, ByRole: byRole, Recent: recent}, nil
}
