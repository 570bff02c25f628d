// Package secrets resolves the two startup secrets of the service: the
// MongoDB connection string and the token signing key.
//
// The backend is chosen once from the deployment mode. Development reads both
// values from local configuration; every other mode reads them from the AWS
// SSM Parameter Store with decryption. Resolution either yields both values
// or fails, and a failure must stop the process before it listens.
package secrets

import (
	"context"
	"fmt"
	"strings"

	"github.com/fiapcloudgames/user-service/internal/core/domain"
	"github.com/fiapcloudgames/user-service/internal/infrastructure/config"
)

// Secrets are immutable for the lifetime of the process.
type Secrets struct {
	ConnectionString string
	SigningKey       string
}

type Source interface {
	Resolve(ctx context.Context) (Secrets, error)
}

// Static serves secrets from local configuration without any I/O.
type Static struct {
	ConnectionString string
	SigningKey       string
}

func (s Static) Resolve(context.Context) (Secrets, error) {
	var missing []string
	if strings.TrimSpace(s.ConnectionString) == "" {
		missing = append(missing, "connection string")
	}
	if strings.TrimSpace(s.SigningKey) == "" {
		missing = append(missing, "signing key")
	}
	if len(missing) > 0 {
		return Secrets{}, fmt.Errorf("%w: %s", domain.ErrConfigurationMissing, strings.Join(missing, ", "))
	}
	return Secrets{ConnectionString: s.ConnectionString, SigningKey: s.SigningKey}, nil
}

// ForMode selects the secret backend for the configured deployment mode.
func ForMode(ctx context.Context, cfg *config.Config) (Source, error) {
	if cfg.IsDevelopment() {
		return Static{ConnectionString: cfg.Mongo.URI, SigningKey: cfg.JWT.DevKey}, nil
	}
	return NewParameterStoreFromAWS(ctx, cfg.Secrets)
}
