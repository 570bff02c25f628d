package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/fiapcloudgames/user-service/internal/api/middleware"
	"github.com/fiapcloudgames/user-service/internal/core/domain"
	"github.com/fiapcloudgames/user-service/internal/core/ports"
)

type stubUserService struct {
	getFn    func(ctx context.Context, id string) (*ports.UserDTO, error)
	updateFn func(ctx context.Context, id string, in ports.UpdateUserInput) (*ports.UserDTO, error)
	deleteFn func(ctx context.Context, id string) error
	all      []ports.UserDTO
	players  []ports.PlayerDTO
	pubs     []ports.PublisherDTO
	listErr  error
}

func (s *stubUserService) GetByID(ctx context.Context, id string) (*ports.UserDTO, error) {
	return s.getFn(ctx, id)
}

func (s *stubUserService) GetAll(context.Context) ([]ports.UserDTO, error) {
	return s.all, s.listErr
}

func (s *stubUserService) Update(ctx context.Context, id string, in ports.UpdateUserInput) (*ports.UserDTO, error) {
	return s.updateFn(ctx, id, in)
}

func (s *stubUserService) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func (s *stubUserService) GetPlayers(context.Context) ([]ports.PlayerDTO, error) {
	return s.players, s.listErr
}

func (s *stubUserService) GetPublishers(context.Context) ([]ports.PublisherDTO, error) {
	return s.pubs, s.listErr
}

func withID(c echo.Context, id string) echo.Context {
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c
}

func TestUserHandler_Get(t *testing.T) {
	e := newEcho()
	stub := &stubUserService{
		getFn: func(ctx context.Context, id string) (*ports.UserDTO, error) {
			if id != "p-1" {
				t.Fatalf("unexpected id %q", id)
			}
			return &ports.UserDTO{AccountDTO: ports.AccountDTO{ID: id, Role: "Player"}}, nil
		},
	}
	c, rec := jsonRequest(e, http.MethodGet, "/v1/users/p-1", "")

	if err := serve(e, withID(c, "p-1"), NewUserHandler(stub).Get); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_Get_NotFound(t *testing.T) {
	e := newEcho()
	stub := &stubUserService{
		getFn: func(context.Context, string) (*ports.UserDTO, error) { return nil, domain.ErrUserNotFound },
	}
	c, _ := jsonRequest(e, http.MethodGet, "/v1/users/x", "")

	if err := NewUserHandler(stub).Get(withID(c, "x")); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserHandler_Me(t *testing.T) {
	e := newEcho()
	var gotID string
	stub := &stubUserService{
		getFn: func(ctx context.Context, id string) (*ports.UserDTO, error) {
			gotID = id
			return &ports.UserDTO{AccountDTO: ports.AccountDTO{ID: id}}, nil
		},
	}
	c, rec := jsonRequest(e, http.MethodGet, "/v1/users/me", "")
	c.Set(middleware.ContextUserID, "u-42")

	if err := serve(e, c, NewUserHandler(stub).Me); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if gotID != "u-42" || rec.Code != http.StatusOK {
		t.Fatalf("expected caller lookup, got id=%q code=%d", gotID, rec.Code)
	}
}

func TestUserHandler_Me_WithoutClaims(t *testing.T) {
	e := newEcho()
	stub := &stubUserService{
		getFn: func(context.Context, string) (*ports.UserDTO, error) {
			t.Fatal("should not be called")
			return nil, nil
		},
	}
	c, rec := jsonRequest(e, http.MethodGet, "/v1/users/me", "")
	_ = serve(e, c, NewUserHandler(stub).Me)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestUserHandler_Lists(t *testing.T) {
	stub := &stubUserService{
		all:     []ports.UserDTO{{AccountDTO: ports.AccountDTO{ID: "p-1"}}, {AccountDTO: ports.AccountDTO{ID: "b-1"}}},
		players: []ports.PlayerDTO{{AccountDTO: ports.AccountDTO{ID: "p-1", Role: "Player"}, PlayerProfile: ports.PlayerProfile{GamerTag: "g"}}},
		pubs:    []ports.PublisherDTO{},
	}
	h := NewUserHandler(stub)

	for name, tc := range map[string]struct {
		handler echo.HandlerFunc
		want    int
	}{
		"all":        {h.List, 2},
		"players":    {h.ListPlayers, 1},
		"publishers": {h.ListPublishers, 0},
	} {
		e := newEcho()
		c, rec := jsonRequest(e, http.MethodGet, "/v1/users", "")
		if err := serve(e, c, tc.handler); err != nil {
			t.Fatalf("%s: handler error: %v", name, err)
		}

		var items []map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
			t.Fatalf("%s: expected a JSON array, got %q", name, rec.Body.String())
		}
		if len(items) != tc.want {
			t.Errorf("%s: expected %d items, got %d", name, tc.want, len(items))
		}
	}
}

func TestUserHandler_List_Error(t *testing.T) {
	e := newEcho()
	stub := &stubUserService{listErr: domain.ErrUnknownVariant}
	c, _ := jsonRequest(e, http.MethodGet, "/v1/users", "")

	if err := NewUserHandler(stub).List(c); !errors.Is(err, domain.ErrUnknownVariant) {
		t.Fatalf("expected ErrUnknownVariant, got %v", err)
	}
}

func TestUserHandler_Update(t *testing.T) {
	e := newEcho()
	stub := &stubUserService{
		updateFn: func(ctx context.Context, id string, in ports.UpdateUserInput) (*ports.UserDTO, error) {
			if id != "p-1" {
				t.Fatalf("unexpected id %q", id)
			}
			if in.Name == nil || *in.Name != "Ana" || in.Email != nil || len(in.Library) != 2 {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.UserDTO{AccountDTO: ports.AccountDTO{ID: id, Name: *in.Name}}, nil
		},
	}
	c, rec := jsonRequest(e, http.MethodPut, "/v1/users/p-1", `{"name":"Ana","library":["g-1","g-2"]}`)

	if err := serve(e, withID(c, "p-1"), NewUserHandler(stub).Update); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_Update_Validation(t *testing.T) {
	for _, body := range []string{`{"email":"not-an-email"}`, `{"website":"::"}`, `{"library":[""]}`, `[`} {
		e := newEcho()
		stub := &stubUserService{
			updateFn: func(context.Context, string, ports.UpdateUserInput) (*ports.UserDTO, error) {
				t.Fatalf("should not be called for %s", body)
				return nil, nil
			},
		}
		c, rec := jsonRequest(e, http.MethodPut, "/v1/users/p-1", body)
		_ = serve(e, withID(c, "p-1"), NewUserHandler(stub).Update)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestUserHandler_Delete(t *testing.T) {
	e := newEcho()
	var deleted string
	stub := &stubUserService{
		deleteFn: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	c, rec := jsonRequest(e, http.MethodDelete, "/v1/users/p-1", "")

	if err := serve(e, withID(c, "p-1"), NewUserHandler(stub).Delete); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if deleted != "p-1" || rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for p-1, got %d for %q", rec.Code, deleted)
	}
}

func TestHealth_Readiness(t *testing.T) {
	up := func(context.Context) error { return nil }
	down := func(context.Context) error {
		return errors.New("server selection error: mongo-0.internal:27017 connection refused")
	}

	cases := map[string]struct {
		mongo, redis Pinger
		code         int
		status       string
	}{
		"all up":         {up, up, http.StatusOK, "ok"},
		"cache disabled": {up, nil, http.StatusOK, "ok"},
		"cache down":     {up, down, http.StatusOK, "degraded"},
		"mongo down":     {down, up, http.StatusServiceUnavailable, "unavailable"},
	}
	for name, tc := range cases {
		e := echo.New()
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)

		if err := NewHealthDependenciesHandler(tc.mongo, tc.redis, zerolog.Nop()).Readiness(c); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		var resp readinessResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%s: invalid json: %v", name, err)
		}
		if rec.Code != tc.code || resp.Status != tc.status {
			t.Errorf("%s: got %d %q, want %d %q", name, rec.Code, resp.Status, tc.code, tc.status)
		}
		if strings.Contains(rec.Body.String(), "connection refused") || strings.Contains(rec.Body.String(), "27017") {
			t.Errorf("%s: driver error leaked: %s", name, rec.Body.String())
		}
	}
}

func TestHealth_Liveness(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)

	if err := NewHealthHandler().Liveness(c); err != nil || rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%v)", rec.Code, err)
	}
}
