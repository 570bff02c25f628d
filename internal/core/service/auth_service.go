package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/fiapcloudgames/user-service/internal/core/domain"
	"github.com/fiapcloudgames/user-service/internal/core/ports"
	"github.com/fiapcloudgames/user-service/internal/infrastructure/metrics"
)

// AuthService implements registration and login.
type AuthService struct {
	repo     ports.UserRepository
	tokens   ports.TokenIssuer
	tokenTTL time.Duration
	log      zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, tokens ports.TokenIssuer, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, tokens: tokens, tokenTTL: tokenTTL, log: log}
}

// Register creates a Player or Publisher. The store assigns ID and CreatedAt
// and enforces email uniqueness.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.UserDTO, error) {
	role, err := domain.ParseRole(strings.TrimSpace(in.Role))
	if err != nil {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidOperation, in.Role)
	}
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrInvalidOperation)
	}

	user, err := domain.NewUser(role)
	if err != nil {
		return nil, err
	}
	switch v := user.(type) {
	case *domain.Player:
		if in.CompanyName != "" || in.Website != "" {
			return nil, fmt.Errorf("%w: publisher fields on a player", domain.ErrInvalidOperation)
		}
		v.GamerTag = in.GamerTag
		v.Library = []string{}
	case *domain.Publisher:
		if in.GamerTag != "" {
			return nil, fmt.Errorf("%w: player fields on a publisher", domain.ErrInvalidOperation)
		}
		v.CompanyName = in.CompanyName
		v.Website = in.Website
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	acc := user.Base()
	acc.Name = in.Name
	acc.Username = in.Username
	acc.Email = email
	acc.PasswordHash = string(hash)
	acc.BornDate = domain.NormalizeTime(in.BornDate)

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	metrics.UsersRegisteredTotal.WithLabelValues(string(role)).Inc()
	s.log.Info().Str("user_id", acc.ID).Str("role", string(role)).Msg("user registered")
	return toUserDTO(user), nil
}

// Login returns a signed access token. An unknown email and a wrong password
// are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *ports.UserDTO, error) {
	token, user, err := s.login(ctx, normalizeEmail(email), password)
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
	case err != nil:
		metrics.LoginAttemptsTotal.WithLabelValues(metrics.ResultError).Inc()
	default:
		metrics.LoginAttemptsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	}
	return token, user, err
}

func (s *AuthService) login(ctx context.Context, email, password string) (string, *ports.UserDTO, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}
	if user == nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Base().PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user, s.tokenTTL)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, toUserDTO(user), nil
}
