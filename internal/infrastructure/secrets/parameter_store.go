package secrets

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"golang.org/x/sync/errgroup"

	"github.com/fiapcloudgames/user-service/internal/core/domain"
	"github.com/fiapcloudgames/user-service/internal/infrastructure/config"
)

const defaultLookupTimeout = 15 * time.Second

// ParameterGetter is the subset of *ssm.Client used here.
type ParameterGetter interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// ParameterStore reads both secrets as decrypted SSM parameters.
type ParameterStore struct {
	client                ParameterGetter
	connectionStringParam string
	signingKeyParam       string
	timeout               time.Duration
}

func NewParameterStore(client ParameterGetter, cfg config.ParameterStoreConfig) *ParameterStore {
	timeout := cfg.LookupTimeout
	if timeout <= 0 {
		timeout = defaultLookupTimeout
	}
	return &ParameterStore{
		client:                client,
		connectionStringParam: cfg.MongoURIParam,
		signingKeyParam:       cfg.JWTKeyParam,
		timeout:               timeout,
	}
}

// NewParameterStoreFromAWS builds the SSM client from the default AWS
// credential chain (environment, shared config, instance role).
func NewParameterStoreFromAWS(ctx context.Context, cfg config.ParameterStoreConfig) (*ParameterStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: load aws config: %w", domain.ErrSecretUnavailable, err)
	}
	return NewParameterStore(ssm.NewFromConfig(awsCfg), cfg), nil
}

// Resolve fetches both parameters concurrently. Either both succeed or the
// whole resolution fails; a partial result is never returned.
func (p *ParameterStore) Resolve(ctx context.Context) (Secrets, error) {
	if p.connectionStringParam == "" || p.signingKeyParam == "" {
		return Secrets{}, fmt.Errorf("%w: parameter store names are not configured", domain.ErrConfigurationMissing)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var out Secrets
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := p.lookup(gctx, p.connectionStringParam)
		out.ConnectionString = v
		return err
	})
	g.Go(func() error {
		v, err := p.lookup(gctx, p.signingKeyParam)
		out.SigningKey = v
		return err
	})
	if err := g.Wait(); err != nil {
		return Secrets{}, err
	}
	return out, nil
}

func (p *ParameterStore) lookup(ctx context.Context, name string) (string, error) {
	res, err := p.client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", domain.ErrSecretUnavailable, name, err)
	}
	if res == nil || res.Parameter == nil || aws.ToString(res.Parameter.Value) == "" {
		return "", fmt.Errorf("%w: %s has no value", domain.ErrSecretUnavailable, name)
	}
	return aws.ToString(res.Parameter.Value), nil
}
