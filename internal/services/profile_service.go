package services

import (
	"context"

	"claims-api/internal/models"
	"claims-api/internal/pkg/errors"
	"claims-api/internal/repository"
)

type ProfileService interface {
	// Get returns the caller's profile, creating it with owner-only
	// permissions on first sight. Identity itself comes from the external
	// auth provider; this row only carries app-level profile data.
	Get(ctx context.Context, actor *Actor) (*models.User, error)
	Update(ctx context.Context, actor *Actor, name string) (*models.User, error)
}

type profileService struct {
	userRepo repository.UserRepository
}

func NewProfileService(userRepo repository.UserRepository) ProfileService {
	return &profileService{userRepo: userRepo}
}

func (s *profileService) Get(ctx context.Context, actor *Actor) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, actor.UserID)
	if err == nil {
		return user, nil
	}
	if err != errors.ErrNotFound {
		return nil, err
	}

	user = &models.User{
		ID:     actor.UserID,
		Email:  actor.Email,
		TeamID: actor.TeamID,
		ACL:    ComposeUserPermissions(actor.UserID.String()),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *profileService) Update(ctx context.Context, actor *Actor, name string) (*models.User, error) {
	user, err := s.Get(ctx, actor)
	if err != nil {
		return nil, err
	}

	if !user.ACL.CanUpdate(actor.UserID.String(), actor.TeamID) {
		return nil, errors.ErrInsufficientPermission
	}

	user.Name = name
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
