package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/fiapcloudgames/user-service/internal/core/domain"
	"github.com/fiapcloudgames/user-service/internal/core/ports"
	"github.com/fiapcloudgames/user-service/internal/infrastructure/metrics"
)

// UserService maps stored users to outward DTOs. Reads by id go through an
// optional cache; cache failures are logged and never fail the call.
type UserService struct {
	repo  ports.UserRepository
	cache ports.UserCache
	log   zerolog.Logger
}

func NewUserService(repo ports.UserRepository, cache ports.UserCache, log zerolog.Logger) *UserService {
	if cache == nil {
		cache = noopCache{}
	}
	return &UserService{repo: repo, cache: cache, log: log}
}

func (s *UserService) GetByID(ctx context.Context, id string) (*ports.UserDTO, error) {
	dto, generation, err := s.cache.Get(ctx, id)
	cacheable := err == nil
	switch {
	case err != nil:
		metrics.UserCacheLookupsTotal.WithLabelValues("error").Inc()
		s.log.Warn().Err(err).Str("user_id", id).Msg("user cache lookup failed")
	case dto != nil:
		metrics.UserCacheLookupsTotal.WithLabelValues("hit").Inc()
		observe("get", nil)
		return dto, nil
	default:
		metrics.UserCacheLookupsTotal.WithLabelValues("miss").Inc()
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		observe("get", err)
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		observe("get", domain.ErrUserNotFound)
		return nil, domain.ErrUserNotFound
	}

	dto = toUserDTO(user)
	if cacheable {
		if err := s.cache.Set(ctx, dto, generation); err != nil {
			s.log.Warn().Err(err).Str("user_id", id).Msg("user cache store failed")
		}
	}
	observe("get", nil)
	return dto, nil
}

func (s *UserService) GetAll(ctx context.Context) ([]ports.UserDTO, error) {
	defer timeList("list")()

	out := make([]ports.UserDTO, 0)
	for u, err := range s.repo.All(ctx) {
		if err != nil {
			observe("list", err)
			return nil, fmt.Errorf("list users: %w", err)
		}
		out = append(out, *toUserDTO(u))
	}
	observe("list", nil)
	return out, nil
}

func (s *UserService) GetPlayers(ctx context.Context) ([]ports.PlayerDTO, error) {
	defer timeList("list_players")()

	out := make([]ports.PlayerDTO, 0)
	for p, err := range s.repo.Players(ctx) {
		if err != nil {
			observe("list_players", err)
			return nil, fmt.Errorf("list players: %w", err)
		}
		out = append(out, toPlayerDTO(p))
	}
	observe("list_players", nil)
	return out, nil
}

func (s *UserService) GetPublishers(ctx context.Context) ([]ports.PublisherDTO, error) {
	defer timeList("list_publishers")()

	out := make([]ports.PublisherDTO, 0)
	for p, err := range s.repo.Publishers(ctx) {
		if err != nil {
			observe("list_publishers", err)
			return nil, fmt.Errorf("list publishers: %w", err)
		}
		out = append(out, toPublisherDTO(p))
	}
	observe("list_publishers", nil)
	return out, nil
}

// Update loads the user, applies the permitted fields of in and stores the
// full record. ID, role, creation time and password hash are never touched.
func (s *UserService) Update(ctx context.Context, id string, in ports.UpdateUserInput) (*ports.UserDTO, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		observe("update", err)
		return nil, fmt.Errorf("update user: %w", err)
	}
	if user == nil {
		observe("update", domain.ErrUserNotFound)
		return nil, domain.ErrUserNotFound
	}

	if err := applyUpdate(user, in); err != nil {
		observe("update", err)
		return nil, err
	}
	if err := s.repo.Update(ctx, user); err != nil {
		observe("update", err)
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.invalidate(ctx, id)
	observe("update", nil)
	s.log.Info().Str("user_id", id).Str("role", string(user.Role())).Msg("user updated")
	return toUserDTO(user), nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		observe("delete", err)
		return fmt.Errorf("delete user: %w", err)
	}

	s.invalidate(ctx, id)
	observe("delete", nil)
	s.log.Info().Str("user_id", id).Msg("user deleted")
	return nil
}

func (s *UserService) invalidate(ctx context.Context, id string) {
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("user_id", id).Msg("user cache invalidation failed")
	}
}

// applyUpdate rejects fields of the other variant before mutating anything.
func applyUpdate(u domain.User, in ports.UpdateUserInput) error {
	switch v := u.(type) {
	case *domain.Player:
		if in.CompanyName != nil || in.Website != nil {
			return fmt.Errorf("%w: publisher fields on a player", domain.ErrInvalidOperation)
		}
		if in.GamerTag != nil {
			v.GamerTag = *in.GamerTag
		}
		if in.Library != nil {
			v.Library = slices.Clone(in.Library)
		}
	case *domain.Publisher:
		if in.GamerTag != nil || in.Library != nil {
			return fmt.Errorf("%w: player fields on a publisher", domain.ErrInvalidOperation)
		}
		if in.CompanyName != nil {
			v.CompanyName = *in.CompanyName
		}
		if in.Website != nil {
			v.Website = *in.Website
		}
	default:
		return fmt.Errorf("%w: %T", domain.ErrUnknownVariant, u)
	}

	acc := u.Base()
	if in.Name != nil {
		acc.Name = *in.Name
	}
	if in.Username != nil {
		acc.Username = *in.Username
	}
	if in.Email != nil {
		acc.Email = normalizeEmail(*in.Email)
	}
	if in.BornDate != nil {
		acc.BornDate = domain.NormalizeTime(*in.BornDate)
	}
	return nil
}

func observe(operation string, err error) {
	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultError
	}
	metrics.UserOperationsTotal.WithLabelValues(operation, result).Inc()
}

func timeList(operation string) func() {
	start := time.Now()
	return func() {
		metrics.UserListDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}

type noopCache struct{}

func (noopCache) Get(context.Context, string) (*ports.UserDTO, uint64, error) { return nil, 0, nil }
func (noopCache) Set(context.Context, *ports.UserDTO, uint64) error { return nil }
func (noopCache) Invalidate(context.Context, string) error { return nil }
