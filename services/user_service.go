package services

import (
	"context"

	"blog-cms/models"
	"blog-cms/repositories"
)

type UserService interface {
	GetProfile(ctx context.Context, identity *Identity) (*models.Profile, error)
	UpdateImage(ctx context.Context, identity *Identity, req models.UpdateImageRequest) error
}

type userService struct {
	userRepo  repositories.UserRepository
	validator *Validator
}

func NewUserService(userRepo repositories.UserRepository, validator *Validator) UserService {
	return &userService{userRepo: userRepo, validator: validator}
}

func (s *userService) GetProfile(ctx context.Context, identity *Identity) (*models.Profile, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}

	profile := user.Profile()
	return &profile, nil
}

func (s *userService) UpdateImage(ctx context.Context, identity *Identity, req models.UpdateImageRequest) error {
	if err := requireIdentity(identity); err != nil {
		return err
	}
	if err := s.validator.Struct(req); err != nil {
		return err
	}

	return s.userRepo.UpdateImage(ctx, identity.UserID, req.Image)
}
