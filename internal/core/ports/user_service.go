package ports

import (
	"context"
	"time"
)

// AccountDTO is the outward projection of the shared user fields.
// It deliberately has no password hash field.
type AccountDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	BornDate  time.Time `json:"born_date"`
	CreatedAt time.Time `json:"created_at"`
	Role      string    `json:"role"`
}

// PlayerProfile holds the player-only fields.
type PlayerProfile struct {
	GamerTag string   `json:"gamer_tag"`
	Library  []string `json:"library"`
}

// PublisherProfile holds the publisher-only fields.
type PublisherProfile struct {
	CompanyName string `json:"company_name"`
	Website     string `json:"website,omitempty"`
}

// UserDTO is a user of any role. Exactly one of Player or Publisher is set.
type UserDTO struct {
	AccountDTO
	Player    *PlayerProfile    `json:"player,omitempty"`
	Publisher *PublisherProfile `json:"publisher,omitempty"`
}

type PlayerDTO struct {
	AccountDTO
	PlayerProfile
}

type PublisherDTO struct {
	AccountDTO
	PublisherProfile
}

// UpdateUserInput lists the only fields a caller may change. Nil means
// "keep the current value". Player fields on a publisher (and the reverse)
// are rejected.
type UpdateUserInput struct {
	Name     *string
	Username *string
	Email    *string
	BornDate *time.Time

	GamerTag *string
	Library  []string

	CompanyName *string
	Website     *string
}

// UserService is the use-case surface over stored users.
type UserService interface {
	GetByID(ctx context.Context, id string) (*UserDTO, error)
	GetAll(ctx context.Context) ([]UserDTO, error)
	Update(ctx context.Context, id string, in UpdateUserInput) (*UserDTO, error)
	Delete(ctx context.Context, id string) error
	GetPlayers(ctx context.Context) ([]PlayerDTO, error)
	GetPublishers(ctx context.Context) ([]PublisherDTO, error)
}
