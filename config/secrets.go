package config

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	vault "github.com/hashicorp/vault/api"
)

// SecretProvider abstracts where sensitive configuration values come from.
type SecretProvider interface {
	GetSecret(ctx context.Context, key string) (string, error)
}

// EnvProvider reads secrets straight from environment variables. It is the
// default and the only provider that needs no extra configuration.
type EnvProvider struct{}

func (EnvProvider) GetSecret(_ context.Context, key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", fmt.Errorf("secret %q not found in environment", key)
	}
	return v, nil
}

// AWSProvider fetches secrets from AWS Secrets Manager. An optional prefix
// namespaces the keys, e.g. prefix "auth-service" turns JWT_SECRET into
// "auth-service/JWT_SECRET".
type AWSProvider struct {
	client *secretsmanager.Client
	prefix string
}

func NewAWSProvider(ctx context.Context, prefix string) (*AWSProvider, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &AWSProvider{client: secretsmanager.NewFromConfig(cfg), prefix: prefix}, nil
}

func (p *AWSProvider) secretID(key string) string {
	if p.prefix == "" {
		return key
	}
	return p.prefix + "/" + key
}

func (p *AWSProvider) GetSecret(ctx context.Context, key string) (string, error) {
	id := p.secretID(key)
	out, err := p.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(id),
	})
	if err != nil {
		return "", fmt.Errorf("aws secrets manager: get %q: %w", id, err)
	}
	if out.SecretString == nil {
		return "", fmt.Errorf("secret %q has no string value", id)
	}
	return *out.SecretString, nil
}

// VaultProvider fetches secrets from a HashiCorp Vault KV v2 mount. Each key
// lives at <path>/<key> and the value is read from the "value" field, falling
// back to a field named after the key.
type VaultProvider struct {
	client *vault.Client
	mount  string
	path   string
}

func NewVaultProvider(addr, token, mount, path string) (*VaultProvider, error) {
	cfg := vault.DefaultConfig()
	cfg.Address = addr
	client, err := vault.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create vault client: %w", err)
	}
	client.SetToken(token)
	return &VaultProvider{client: client, mount: mount, path: path}, nil
}

func (p *VaultProvider) GetSecret(ctx context.Context, key string) (string, error) {
	secret, err := p.client.KVv2(p.mount).Get(ctx, p.path+"/"+key)
	if err != nil {
		return "", fmt.Errorf("vault: read %s/%s: %w", p.path, key, err)
	}
	for _, field := range []string{"value", key} {
		if v, ok := secret.Data[field].(string); ok && v != "" {
			return v, nil
		}
	}
	return "", fmt.Errorf("secret %q not found in vault", key)
}

// SecretManager resolves sensitive values through the configured provider
// with an environment variable fallback.
type SecretManager struct {
	provider SecretProvider
}

func NewSecretManager(p SecretProvider) *SecretManager {
	return &SecretManager{provider: p}
}

// NewSecretManagerFromEnv selects a provider based on SECRET_PROVIDER:
// "env" (default), "aws" or "vault".
func NewSecretManagerFromEnv(ctx context.Context) (*SecretManager, error) {
	switch provider := getenv("SECRET_PROVIDER", "env"); provider {
	case "env":
		return NewSecretManager(EnvProvider{}), nil
	case "aws":
		p, err := NewAWSProvider(ctx, os.Getenv("AWS_SECRET_PREFIX"))
		if err != nil {
			return nil, err
		}
		return NewSecretManager(p), nil
	case "vault":
		addr := os.Getenv("VAULT_ADDR")
		token := os.Getenv("VAULT_TOKEN")
		if addr == "" || token == "" {
			return nil, fmt.Errorf("VAULT_ADDR and VAULT_TOKEN must be set for the vault secret provider")
		}
		p, err := NewVaultProvider(
			addr,
			token,
			getenv("VAULT_MOUNT", "secret"),
			getenv("VAULT_PATH", "auth-service"),
		)
		if err != nil {
			return nil, err
		}
		return NewSecretManager(p), nil
	default:
		return nil, fmt.Errorf("unknown secret provider %q (available: env, aws, vault)", provider)
	}
}

// GetSecretOrEnv asks the provider first and falls back to the environment
// variable of the same name.
func (m *SecretManager) GetSecretOrEnv(ctx context.Context, key string) (string, error) {
	if v, err := m.provider.GetSecret(ctx, key); err == nil {
		return v, nil
	}
	if v := os.Getenv(key); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("secret %q not found in secret provider or environment", key)
}

// Resolve overwrites the sensitive config fields with provider-supplied
// values when available. Missing secrets keep the env-loaded values so
// development setups keep working.
func (m *SecretManager) Resolve(ctx context.Context, cfg *Config) {
	if v, err := m.GetSecretOrEnv(ctx, "DATABASE_URL"); err == nil {
		cfg.DatabaseURL = v
	}
	if v, err := m.GetSecretOrEnv(ctx, "JWT_SECRET"); err == nil {
		cfg.JWTSecret = v
	}
	if v, err := m.GetSecretOrEnv(ctx, "DB_PASSWORD"); err == nil {
		cfg.DBPassword = v
	}
	if v, err := m.GetSecretOrEnv(ctx, "REDIS_PASSWORD"); err == nil {
		cfg.RedisPassword = v
	}
}
