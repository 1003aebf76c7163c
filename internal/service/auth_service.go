package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"receivables_monitor/internal/model"
	"receivables_monitor/internal/repository"
	"receivables_monitor/internal/utils"

	"github.com/rs/zerolog"
)

var (
	ErrUserAlreadyExists  = errors.New("analyst with this username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// AuthService registers analysts and issues session tokens
type AuthService interface {
	Register(ctx context.Context, username, password string) (*model.Analyst, string, error)
	Login(ctx context.Context, username, password string) (*model.Analyst, string, error)
}

type authService struct {
	repo         repository.AnalystRepository
	jwtUtil      *utils.JWTUtil
	initialAdmin string
	log          zerolog.Logger
}

// NewAuthService creates a new AuthService. The analyst registering as
// initialAdmin becomes an admin; everyone else is a viewer.
func NewAuthService(repo repository.AnalystRepository, jwtUtil *utils.JWTUtil, initialAdmin string, log zerolog.Logger) AuthService {
	return &authService{repo: repo, jwtUtil: jwtUtil, initialAdmin: initialAdmin, log: log}
}

func (s *authService) Register(ctx context.Context, username, password string) (*model.Analyst, string, error) {
	existing, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check existing analyst: %w", err)
	}
	if existing != nil {
		return nil, "", ErrUserAlreadyExists
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	role := model.RoleViewer
	if s.initialAdmin != "" && username == s.initialAdmin {
		role = model.RoleAdmin
		s.log.Info().Str("username", username).Msg("registering analyst as admin via INITIAL_ADMIN_USERNAME")
	}

	analyst := &model.Analyst{
		Username:     username,
		PasswordHash: hashed,
		Role:         role,
		CreatedAt:    time.Now(),
	}
	if err := s.repo.Create(ctx, analyst); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, "", ErrUserAlreadyExists
		}
		return nil, "", fmt.Errorf("failed to create analyst in repository: %w", err)
	}

	token, err := s.jwtUtil.GenerateToken(analyst.ID, analyst.Username, analyst.Role)
	if err != nil {
		s.log.Error().Err(err).Int("analyst_id", analyst.ID).Msg("analyst created but token generation failed")
		return analyst, "", fmt.Errorf("analyst created, but failed to generate token: %w", err)
	}
	return analyst, token, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (*model.Analyst, string, error) {
	analyst, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, "", fmt.Errorf("error finding analyst by username: %w", err)
	}
	if analyst == nil || !utils.CheckPasswordHash(password, analyst.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwtUtil.GenerateToken(analyst.ID, analyst.Username, analyst.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return analyst, token, nil
}
