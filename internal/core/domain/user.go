package domain

import (
	"fmt"
	"time"
)

// Role is the discriminator that selects the concrete User variant.
type Role string

const (
	RolePlayer    Role = "Player"
	RolePublisher Role = "Publisher"
)

// ParseRole maps a stored or requested role name to a known Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RolePlayer, RolePublisher:
		return Role(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownVariant, s)
}

// TimePrecision is the resolution timestamps keep once stored.
const TimePrecision = time.Millisecond

// NormalizeTime returns t in UTC at stored precision, so a value reads back
// exactly as it was written.
func NormalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(TimePrecision)
}

// Account holds the fields shared by every user variant.
type Account struct {
	ID           string
	Name         string
	Username     string
	Email        string
	PasswordHash string
	BornDate     time.Time
	CreatedAt    time.Time
}

// Base returns the shared account fields. It is promoted to every variant
// that embeds Account.
func (a *Account) Base() *Account { return a }

// User is the closed set of account variants: *Player and *Publisher.
type User interface {
	Base() *Account
	Role() Role
}

// Player is a user that owns and plays games.
type Player struct {
	Account
	GamerTag string
	Library  []string // owned game ids
}

func (*Player) Role() Role { return RolePlayer }

// Publisher is a user that publishes games.
type Publisher struct {
	Account
	CompanyName string
	Website     string
}

func (*Publisher) Role() Role { return RolePublisher }

// NewUser returns an empty variant for role.
func NewUser(role Role) (User, error) {
	switch role {
	case RolePlayer:
		return &Player{}, nil
	case RolePublisher:
		return &Publisher{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, role)
}
