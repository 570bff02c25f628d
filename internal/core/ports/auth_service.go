package ports

import (
	"context"
	"time"

	"github.com/fiapcloudgames/user-service/internal/core/domain"
)

// RegisterInput carries everything needed to create an account.
type RegisterInput struct {
	Role     string
	Name     string
	Username string
	Email    string
	Password string
	BornDate time.Time

	GamerTag    string
	CompanyName string
	Website     string
}

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Issue(user domain.User, ttl time.Duration) (string, error)
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*UserDTO, error)
	Login(ctx context.Context, email, password string) (string, *UserDTO, error)
}
