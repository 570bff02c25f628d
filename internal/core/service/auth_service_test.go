package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/fiapcloudgames/user-service/internal/core/domain"
	"github.com/fiapcloudgames/user-service/internal/core/ports"
)

type stubIssuer struct {
	issued []domain.User
	ttl    time.Duration
	err    error
}

func (s *stubIssuer) Issue(user domain.User, ttl time.Duration) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.issued = append(s.issued, user)
	s.ttl = ttl
	return "token-for-" + user.Base().ID, nil
}

func newAuthService() (*AuthService, *stubUserRepo, *stubIssuer) {
	repo := newStubUserRepo()
	issuer := &stubIssuer{}
	return NewAuthService(repo, issuer, time.Hour, zerolog.Nop()), repo, issuer
}

func playerInput(email string) ports.RegisterInput {
	return ports.RegisterInput{
		Role:     "Player",
		Name:     "Ana",
		Username: "ana",
		Email:    email,
		Password: "pass123",
		BornDate: bornDate,
		GamerTag: "anaplays",
	}
}

func TestAuthService_Register_Player(t *testing.T) {
	svc, repo, _ := newAuthService()

	got, err := svc.Register(context.Background(), playerInput("Ana@X.com "))
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if got.ID == "" || got.CreatedAt.IsZero() {
		t.Fatalf("store-assigned fields missing: %+v", got.AccountDTO)
	}
	if got.Role != "Player" || got.Email != "ana@x.com" {
		t.Fatalf("unexpected user: %+v", got.AccountDTO)
	}
	if got.Player == nil || got.Player.GamerTag != "anaplays" || got.Player.Library == nil {
		t.Fatalf("unexpected player profile: %+v", got.Player)
	}
	assertNoPasswordHash(t, got)

	stored := repo.users[got.ID]
	if stored.Base().PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.Base().PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestAuthService_Register_BornDateMatchesStored(t *testing.T) {
	svc, repo, _ := newAuthService()
	in := playerInput("zoned@example.com")
	in.BornDate = time.Date(1990, 1, 1, 0, 0, 0, 123_456_789, time.FixedZone("BRT", -3*60*60))

	got, err := svc.Register(context.Background(), in)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	want := time.Date(1990, 1, 1, 3, 0, 0, 123_000_000, time.UTC)
	if got.BornDate != want {
		t.Errorf("returned born_date = %v, want %v", got.BornDate, want)
	}
	if stored := repo.users[got.ID].Base().BornDate; stored != want {
		t.Errorf("stored born_date = %v, want %v", stored, want)
	}
}

func TestAuthService_Register_Publisher(t *testing.T) {
	svc, _, _ := newAuthService()

	got, err := svc.Register(context.Background(), ports.RegisterInput{
		Role:        "Publisher",
		Name:        "Bruno",
		Username:    "bruno",
		Email:       "bruno@studio.com",
		Password:    "pass123",
		CompanyName: "Studio",
		Website:     "https://studio.example",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if got.Publisher == nil || got.Publisher.CompanyName != "Studio" || got.Player != nil {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc, _, _ := newAuthService()

	bad := playerInput("ana@x.com")
	bad.Role = "Admin"
	if _, err := svc.Register(context.Background(), bad); !errors.Is(err, domain.ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation for bad role, got %v", err)
	}

	bad = playerInput("")
	if _, err := svc.Register(context.Background(), bad); !errors.Is(err, domain.ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation for missing email, got %v", err)
	}

	bad = playerInput("ana@x.com")
	bad.CompanyName = "Acme"
	if _, err := svc.Register(context.Background(), bad); !errors.Is(err, domain.ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation for publisher fields on a player, got %v", err)
	}
}

func TestAuthService_Register_DuplicateAcrossRoles(t *testing.T) {
	svc, _, _ := newAuthService()

	if _, err := svc.Register(context.Background(), playerInput("ana@x.com")); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(context.Background(), ports.RegisterInput{
		Role:        "Publisher",
		Email:       "ANA@x.com",
		Password:    "other",
		CompanyName: "Acme",
	})
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, _, issuer := newAuthService()

	created, err := svc.Register(context.Background(), playerInput("carol@example.com"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, user, err := svc.Login(context.Background(), " Carol@Example.com", "pass123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token != "token-for-"+created.ID {
		t.Fatalf("unexpected token %q", token)
	}
	if user == nil || user.ID != created.ID {
		t.Fatalf("unexpected user: %+v", user)
	}
	if issuer.ttl != time.Hour {
		t.Errorf("expected configured TTL, got %v", issuer.ttl)
	}
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	svc, _, issuer := newAuthService()
	_, _ = svc.Register(context.Background(), playerInput("dave@example.com"))

	cases := map[string][2]string{
		"wrong password": {"dave@example.com", "badpass"},
		"unknown email":  {"ghost@example.com", "pass123"},
		"empty password": {"dave@example.com", ""},
	}
	for name, c := range cases {
		if _, _, err := svc.Login(context.Background(), c[0], c[1]); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("%s: expected ErrInvalidCredentials, got %v", name, err)
		}
	}
	if len(issuer.issued) != 0 {
		t.Errorf("no token may be issued on failed login")
	}
}

func TestAuthService_Login_IssuerFailure(t *testing.T) {
	svc, _, issuer := newAuthService()
	_, _ = svc.Register(context.Background(), playerInput("erin@example.com"))
	issuer.err = errors.New("boom")

	if _, _, err := svc.Login(context.Background(), "erin@example.com", "pass123"); err == nil {
		t.Fatal("expected error")
	}
}
