// Package auth provides the credential providers polled by the executor.
// Every provider here reads its source on each Retrieve; wrap one with
// NewCachedProvider to reuse expiring credentials.
package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"

	"github.com/fivetwenty-io/comms-client/internal/constants"
	"github.com/fivetwenty-io/comms-client/pkg/comms"
)

// Static errors for err113 compliance.
var (
	ErrNoEnvCredentials = errors.New("no credentials in environment")
	ErrNoProviders      = errors.New("no credential providers in chain")
	ErrEmptyCredentials = errors.New("provider returned empty credentials")
)

// Provider sources reported in comms.Credentials.Source.
const (
	SourceEnv  = "EnvProvider"
	SourceFile = "FileProvider"
)

// NewStaticProvider returns a provider for fixed keys.
func NewStaticProvider(accessKeyID, secretAccessKey, sessionToken string) comms.CredentialsProvider {
	return credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, sessionToken)
}

// EnvProvider reads COMMS_* variables, then the AWS_* ones.
type EnvProvider struct {
	// Getenv defaults to os.Getenv.
	Getenv func(string) string
}

// Retrieve implements comms.CredentialsProvider.
func (p EnvProvider) Retrieve(context.Context) (comms.Credentials, error) {
	getenv := p.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	sets := [][3]string{
		{constants.EnvAccessKeyID, constants.EnvSecretAccessKey, constants.EnvSessionToken},
		{constants.EnvAWSAccessKeyID, constants.EnvAWSSecretAccessKey, constants.EnvAWSSessionToken},
	}

	for _, names := range sets {
		key := strings.TrimSpace(getenv(names[0]))
		secret := strings.TrimSpace(getenv(names[1]))

		if key == "" || secret == "" {
			continue
		}

		return comms.Credentials{
			AccessKeyID:     key,
			SecretAccessKey: secret,
			SessionToken:    strings.TrimSpace(getenv(names[2])),
			Source:          SourceEnv,
		}, nil
	}

	return comms.Credentials{}, ErrNoEnvCredentials
}

// ChainProvider returns the first credentials any of its providers yields.
type ChainProvider struct {
	Providers []comms.CredentialsProvider
}

// NewChainProvider creates a chain, skipping nil providers.
func NewChainProvider(providers ...comms.CredentialsProvider) *ChainProvider {
	chain := &ChainProvider{}

	for _, provider := range providers {
		if provider != nil {
			chain.Providers = append(chain.Providers, provider)
		}
	}

	return chain
}

// Retrieve implements comms.CredentialsProvider.
func (c *ChainProvider) Retrieve(ctx context.Context) (comms.Credentials, error) {
	if len(c.Providers) == 0 {
		return comms.Credentials{}, ErrNoProviders
	}

	errs := make([]error, 0, len(c.Providers))

	for _, provider := range c.Providers {
		creds, err := provider.Retrieve(ctx)
		if err == nil && creds.HasKeys() {
			return creds, nil
		}

		if err == nil {
			err = ErrEmptyCredentials
		}

		errs = append(errs, err)

		if ctx.Err() != nil {
			break
		}
	}

	return comms.Credentials{}, fmt.Errorf("no provider in chain returned credentials: %w", errors.Join(errs...))
}

// NewCachedProvider reuses credentials until shortly before they expire.
// Credentials without an expiry are cached for the provider's lifetime.
func NewCachedProvider(provider comms.CredentialsProvider) comms.CredentialsProvider {
	return aws.NewCredentialsCache(provider)
}

// DefaultChain is the environment followed by the credentials file profile.
func DefaultChain(profile, path string) *ChainProvider {
	return NewChainProvider(EnvProvider{}, NewFileProvider(path, profile))
}
