package ports

import (
	"context"
	"iter"

	"github.com/fiapcloudgames/user-service/internal/core/domain"
)

// UserRepository persists both user variants in one logical collection.
type UserRepository interface {
	// Create assigns the ID and CreatedAt of user and stores it.
	// Returns domain.ErrDuplicateEmail when the email is already taken.
	Create(ctx context.Context, user domain.User) error
	// GetByID and GetByEmail return nil and no error when nothing matches.
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	// All streams every user in store order.
	All(ctx context.Context) iter.Seq2[domain.User, error]
	// Update overwrites every mutable field. The role cannot change.
	Update(ctx context.Context, user domain.User) error
	Delete(ctx context.Context, id string) error
	Players(ctx context.Context) iter.Seq2[*domain.Player, error]
	Publishers(ctx context.Context) iter.Seq2[*domain.Publisher, error]
}
