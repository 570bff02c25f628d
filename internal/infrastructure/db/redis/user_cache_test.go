package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fiapcloudgames/user-service/internal/core/ports"
)

func TestUserKey(t *testing.T) {
	if got := userKey("abc"); got != "user:abc" {
		t.Fatalf("unexpected key %q", got)
	}
	if got := generationKey("abc"); got != "user:abc:gen" {
		t.Fatalf("unexpected generation key %q", got)
	}
}

func TestParseGeneration(t *testing.T) {
	cases := []struct {
		in      any
		want    uint64
		wantErr bool
	}{
		{in: nil, want: 0},
		{in: "0", want: 0},
		{in: "42", want: 42},
		{in: "not-a-number", wantErr: true},
	}
	for _, c := range cases {
		got, err := parseGeneration(c.in)
		if (err != nil) != c.wantErr {
			t.Errorf("parseGeneration(%v) error = %v, wantErr %v", c.in, err, c.wantErr)
			continue
		}
		if got != c.want {
			t.Errorf("parseGeneration(%v) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestDecodeUser_KeepsVariantProfile(t *testing.T) {
	in := &ports.UserDTO{
		AccountDTO: ports.AccountDTO{
			ID:        "b-1",
			Email:     "bruno@studio.com",
			Role:      "Publisher",
			CreatedAt: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
		},
		Publisher: &ports.PublisherProfile{CompanyName: "Studio"},
	}
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	got, err := decodeUser(b)
	if err != nil {
		t.Fatalf("decodeUser: %v", err)
	}
	if got.Publisher == nil || got.Publisher.CompanyName != "Studio" || got.Player != nil {
		t.Fatalf("unexpected profile: %+v", got)
	}
	if !got.CreatedAt.Equal(in.CreatedAt) {
		t.Errorf("created_at changed: %v", got.CreatedAt)
	}
}

func TestDecodeUser_Corrupt(t *testing.T) {
	if _, err := decodeUser([]byte("{not json")); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewUserCache_DefaultTTL(t *testing.T) {
	c := NewUserCache(nil, 0)
	if c.ttl != defaultCacheTTL {
		t.Fatalf("expected default TTL, got %v", c.ttl)
	}
}

// An unreachable server surfaces as an error, never as a miss.
func TestUserCache_Unreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	c := NewUserCache(client, time.Minute)

	got, _, err := c.Get(context.Background(), "p-1")
	if err == nil {
		t.Fatal("expected error from unreachable redis")
	}
	if got != nil {
		t.Fatalf("expected no user, got %+v", got)
	}
	if err := c.Set(context.Background(), &ports.UserDTO{AccountDTO: ports.AccountDTO{ID: "p-1"}}, 0); err == nil {
		t.Fatal("expected set error from unreachable redis")
	}
	if err := c.Invalidate(context.Background(), "p-1"); err == nil {
		t.Fatal("expected invalidate error from unreachable redis")
	}
}

func TestConnect_Unreachable(t *testing.T) {
	_, err := Connect(context.Background(), Config{Addr: "127.0.0.1:1", Timeout: 200 * time.Millisecond})
	if err == nil {
		t.Fatal("expected ping error")
	}
}
