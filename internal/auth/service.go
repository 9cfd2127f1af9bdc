package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"pitchside/marketplace-backend/internal/config"
)

// MaintenanceRunner is the session-start maintenance hook. Login invokes
// it best effort; failures never block sign-in.
type MaintenanceRunner interface {
	CleanupAbandonedDrafts(ctx context.Context, userID uuid.UUID) int
}

type Service struct {
	repo        Repository
	cfg         *config.AuthConfig
	maintenance MaintenanceRunner
	logger      *zap.Logger
}

func NewService(repo Repository, cfg *config.AuthConfig, maintenance MaintenanceRunner, logger *zap.Logger) *Service {
	return &Service{
		repo:        repo,
		cfg:         cfg,
		maintenance: maintenance,
		logger:      logger,
	}
}

func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*TokenResponse, error) {
	if req.Role != RoleTeam && req.Role != RoleSponsor {
		return nil, fmt.Errorf("unknown role %q", req.Role)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	existing, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         req.Role,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issueToken(user)
}

func (s *Service) Login(ctx context.Context, req *LoginRequest) (*TokenResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	// Session-start maintenance: sweep this user's abandoned drafts in the
	// background. Best effort only.
	if s.maintenance != nil {
		go func(userID uuid.UUID) {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			removed := s.maintenance.CleanupAbandonedDrafts(ctx, userID)
			if removed > 0 {
				s.logger.Info("removed abandoned drafts at session start",
					zap.String("user_id", userID.String()),
					zap.Int("count", removed))
			}
		}(user.ID)
	}

	return s.issueToken(user)
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetUserByID(ctx, id)
}

func (s *Service) issueToken(user *User) (*TokenResponse, error) {
	token, expiresAt, err := GenerateToken(user, s.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &TokenResponse{Token: token, ExpiresAt: expiresAt, User: user}, nil
}
