package vault

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/vault/api"

	"github.com/panteparak/credential-plugins/pkg/logger"
	"github.com/panteparak/credential-plugins/pkg/vault/auth"
)

// Client wraps the Vault API client with additional metadata
type Client struct {
	*api.Client
	cacheKey      string
	authenticated bool
}

// ClientConfig holds configuration for creating a Vault client
type ClientConfig struct {
	Address   string
	Namespace string
	TLSConfig *TLSConfig
	Timeout   time.Duration
}

// TLSConfig holds TLS configuration for Vault client.
// All certificate material is PEM encoded content, not file paths.
type TLSConfig struct {
	CACert     string
	ClientCert string
	ClientKey  string
	SkipVerify bool
}

// NewClient creates a new Vault client with the given configuration
func NewClient(cfg ClientConfig) (*Client, error) {
	config := api.DefaultConfig()
	if config.Error != nil {
		return nil, fmt.Errorf("failed to load default vault config: %w", config.Error)
	}
	config.Address = cfg.Address

	if cfg.Timeout > 0 {
		config.Timeout = cfg.Timeout
	}

	if cfg.TLSConfig != nil {
		if err := configureTLS(config, cfg.TLSConfig); err != nil {
			return nil, fmt.Errorf("failed to configure TLS: %w", err)
		}
	}

	client, err := api.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}

	if cfg.Namespace != "" {
		client.SetNamespace(cfg.Namespace)
	}

	return &Client{
		Client: client,
	}, nil
}

func configureTLS(config *api.Config, cfg *TLSConfig) error {
	transport, ok := config.HttpClient.Transport.(*http.Transport)
	if !ok {
		return fmt.Errorf("unexpected vault transport %T", config.HttpClient.Transport)
	}
	if transport.TLSClientConfig == nil {
		transport.TLSClientConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	tlsConfig := transport.TLSClientConfig
	tlsConfig.InsecureSkipVerify = cfg.SkipVerify

	if cfg.CACert != "" {
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM([]byte(cfg.CACert)) {
			return fmt.Errorf("no certificates found in CA bundle")
		}
		tlsConfig.RootCAs = pool
	}

	if cfg.ClientCert != "" || cfg.ClientKey != "" {
		pair, err := tls.X509KeyPair([]byte(cfg.ClientCert), []byte(cfg.ClientKey))
		if err != nil {
			return fmt.Errorf("invalid client certificate: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{pair}
	}

	return nil
}

// SetCacheKey sets the key this client is stored under in a ClientCache
func (c *Client) SetCacheKey(key string) {
	c.cacheKey = key
}

// CacheKey returns the key this client is stored under in a ClientCache
func (c *Client) CacheKey() string {
	return c.cacheKey
}

// IsAuthenticated returns whether the client has been authenticated
func (c *Client) IsAuthenticated() bool {
	return c.authenticated
}

// AuthenticateToken authenticates using a static token
func (c *Client) AuthenticateToken(token string) error {
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}
	c.SetToken(token)
	c.authenticated = true
	return nil
}

// MethodAuth logs in with the auth method selected by req and returns the
// client token. The client keeps the token for subsequent requests.
func (c *Client) MethodAuth(ctx context.Context, req auth.Request, authParam auth.Params) (string, error) {
	m, err := auth.ParseRequest(req)
	if err != nil {
		return "", err
	}

	path := auth.LoginPath(req, m)
	log := logger.WithOperation(logger.WithVaultPath(logger.FromContext(ctx), path), logger.OpLogin)
	log.V(1).Info("performing vault login", logger.KeyAuthMethod, string(m.Type()))

	secret, err := c.Logical().WriteWithContext(ctx, path, authParam)
	if err != nil {
		return "", fmt.Errorf("%s auth failed: %w", m.Type(), err)
	}

	if secret == nil || secret.Auth == nil || secret.Auth.ClientToken == "" {
		return "", fmt.Errorf("%s auth returned no token", m.Type())
	}

	c.SetToken(secret.Auth.ClientToken)
	c.authenticated = true
	return secret.Auth.ClientToken, nil
}

// Ensure Client can serve as the login backend of an auth.Handler.
var _ auth.MethodAuthenticator = (*Client)(nil)
