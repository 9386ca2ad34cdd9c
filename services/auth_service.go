package services

import (
	"context"
	"errors"

	"blog-cms/models"
	"blog-cms/repositories"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
}

type authService struct {
	userRepo  repositories.UserRepository
	tokens    TokenService
	validator *Validator
	log       zerolog.Logger
}

func NewAuthService(userRepo repositories.UserRepository, tokens TokenService, validator *Validator, log zerolog.Logger) AuthService {
	return &authService{
		userRepo:  userRepo,
		tokens:    tokens,
		validator: validator,
		log:       log,
	}
}

var errInvalidCredentials = models.ErrorUnauthorized{Message: "invalid credentials"}

func (s *authService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	// Check if user already exists
	_, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err == nil {
		return nil, models.ErrorConflict{Message: "username already exists"}
	}
	var notFound models.ErrorNotFound
	if !errors.As(err, &notFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.ErrorInternalServer{Message: "failed to hash password", Err: err}
	}

	user := &models.User{
		Username: req.Username,
		Password: string(hashedPassword),
		Role:     models.RoleUser,
		Name:     req.Name,
		Surname:  req.Surname,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info().Uint("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return user, nil
}

func (s *authService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		var notFound models.ErrorNotFound
		if errors.As(err, &notFound) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, errInvalidCredentials
	}

	token, err := s.tokens.Issue(Identity{UserID: user.ID, Username: user.Username})
	if err != nil {
		return nil, models.ErrorInternalServer{Message: "failed to issue token", Err: err}
	}

	return &models.AuthResponse{
		AccessToken: token,
		UserID:      user.ID,
	}, nil
}
