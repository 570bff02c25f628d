package service

import (
	"slices"
	"strings"

	"github.com/fiapcloudgames/user-service/internal/core/domain"
	"github.com/fiapcloudgames/user-service/internal/core/ports"
)

func toAccountDTO(u domain.User) ports.AccountDTO {
	acc := u.Base()
	return ports.AccountDTO{
		ID:        acc.ID,
		Name:      acc.Name,
		Username:  acc.Username,
		Email:     acc.Email,
		BornDate:  acc.BornDate,
		CreatedAt: acc.CreatedAt,
		Role:      string(u.Role()),
	}
}

func toPlayerProfile(p *domain.Player) ports.PlayerProfile {
	library := slices.Clone(p.Library)
	if library == nil {
		library = []string{}
	}
	return ports.PlayerProfile{GamerTag: p.GamerTag, Library: library}
}

func toPublisherProfile(p *domain.Publisher) ports.PublisherProfile {
	return ports.PublisherProfile{CompanyName: p.CompanyName, Website: p.Website}
}

func toUserDTO(u domain.User) *ports.UserDTO {
	dto := &ports.UserDTO{AccountDTO: toAccountDTO(u)}
	switch v := u.(type) {
	case *domain.Player:
		profile := toPlayerProfile(v)
		dto.Player = &profile
	case *domain.Publisher:
		profile := toPublisherProfile(v)
		dto.Publisher = &profile
	}
	return dto
}

func toPlayerDTO(p *domain.Player) ports.PlayerDTO {
	return ports.PlayerDTO{AccountDTO: toAccountDTO(p), PlayerProfile: toPlayerProfile(p)}
}

func toPublisherDTO(p *domain.Publisher) ports.PublisherDTO {
	return ports.PublisherDTO{AccountDTO: toAccountDTO(p), PublisherProfile: toPublisherProfile(p)}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
