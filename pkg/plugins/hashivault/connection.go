/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package hashivault

import (
	"context"
	"fmt"
	"time"

	"github.com/panteparak/credential-plugins/pkg/logger"
	"github.com/panteparak/credential-plugins/pkg/plugins"
	"github.com/panteparak/credential-plugins/pkg/vault"
	"github.com/panteparak/credential-plugins/pkg/vault/auth"
	"github.com/panteparak/credential-plugins/pkg/vault/token"
	"github.com/panteparak/credential-plugins/shared/hash"
)

// Connection input IDs shared by both Vault plugins.
const (
	InputURL        = "url"
	InputNamespace  = "namespace"
	InputCACert     = "cacert"
	InputAPIVersion = "api_version"
)

// authInputs are copied into the auth.Request handed to the selector.
var authInputs = []string{
	auth.InputToken,
	auth.InputRoleID,
	auth.InputSecretID,
	auth.InputKubernetesRole,
	auth.InputClientCertPublic,
	auth.InputClientCertPrivate,
	auth.InputClientCertRole,
	auth.InputUsername,
	auth.InputPassword,
	auth.InputAuthPath,
}

// cacheKeyInputs identify one authenticated session.
var cacheKeyInputs = append([]string{InputURL, InputNamespace, InputCACert}, authInputs...)

// connectionFields are the inputs common to hashivault_kv and hashivault_ssh.
func connectionFields() []plugins.Field {
	return []plugins.Field{
		{ID: InputURL, Label: "Server URL", Help: "The URL to the HashiCorp Vault", Rule: "url"},
		{ID: auth.InputToken, Label: "Token", Secret: true, Help: "The access token used to authenticate to the Vault server"},
		{ID: InputCACert, Label: "CA Certificate", Multiline: true, Help: "The CA certificate used to verify the SSL certificate of the Vault server"},
		{ID: auth.InputRoleID, Label: "AppRole role_id", Help: "The Role ID for AppRole Authentication"},
		{ID: auth.InputSecretID, Label: "AppRole secret_id", Secret: true, Help: "The Secret ID for AppRole Authentication"},
		{ID: auth.InputClientCertPublic, Label: "Client Certificate", Multiline: true, Help: "The PEM-encoded client certificate used for TLS client authentication"},
		{ID: auth.InputClientCertPrivate, Label: "Client Certificate Key", Secret: true, Multiline: true, Help: "The certificate private key used for TLS client authentication"},
		{ID: auth.InputClientCertRole, Label: "TLS Authentication Role", Help: "The role configured in Vault for TLS client authentication"},
		{ID: auth.InputUsername, Label: "Username", Help: "Username for user authentication"},
		{ID: auth.InputPassword, Label: "Password", Secret: true, Help: "Password for user authentication"},
		{ID: InputNamespace, Label: "Namespace name (Vault Enterprise only)", Help: "Name of the namespace to use when authenticating and retrieving secrets"},
		{ID: auth.InputKubernetesRole, Label: "Kubernetes role", Help: "The Role for Kubernetes Authentication. This is the named role, configured in Vault server"},
		{ID: auth.InputAuthPath, Label: "Path to Auth", Help: "The Authentication path to use if one isn't provided in the metadata when linking to an input field"},
	}
}

// Option configures a Vault plugin.
type Option func(*connector)

// WithClientCache shares authenticated clients between lookups. Without it
// every lookup logs in again.
func WithClientCache(cache *vault.ClientCache) Option {
	return func(c *connector) {
		c.cache = cache
	}
}

// WithTokenSource overrides where the Kubernetes service account JWT is read from.
func WithTokenSource(src token.Source) Option {
	return func(c *connector) {
		c.tokens = src
	}
}

// WithTimeout sets the HTTP timeout of the Vault client.
func WithTimeout(d time.Duration) Option {
	return func(c *connector) {
		c.timeout = d
	}
}

// connector builds and authenticates Vault clients from plugin inputs.
type connector struct {
	cache   *vault.ClientCache
	tokens  token.Source
	timeout time.Duration
}

func newConnector(opts ...Option) *connector {
	c := &connector{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// authRequest extracts the auth related inputs.
func authRequest(inputs plugins.Values) auth.Request {
	req := make(auth.Request, len(authInputs))
	for _, id := range authInputs {
		if v := inputs.Get(id); v != "" {
			req[id] = v
		}
	}
	return req
}

// clientConfig maps plugin inputs to a Vault client configuration.
func (c *connector) clientConfig(inputs plugins.Values) vault.ClientConfig {
	cfg := vault.ClientConfig{
		Address:   inputs.Get(InputURL),
		Namespace: inputs.Get(InputNamespace),
		Timeout:   c.timeout,
	}

	caCert := inputs.Get(InputCACert)
	certPublic := inputs.Get(auth.InputClientCertPublic)
	certPrivate := inputs.Get(auth.InputClientCertPrivate)
	if caCert != "" || certPublic != "" || certPrivate != "" {
		cfg.TLSConfig = &vault.TLSConfig{
			CACert:     caCert,
			ClientCert: certPublic,
			ClientKey:  certPrivate,
		}
	}
	return cfg
}

// client returns an authenticated Vault client for inputs.
func (c *connector) client(ctx context.Context, inputs plugins.Values) (*vault.Client, error) {
	log := logger.FromContext(ctx).WithValues(logger.KeyVaultAddress, inputs.Get(InputURL))
	ctx = logger.IntoContext(ctx, log)

	factory := func() (*vault.Client, error) {
		client, err := vault.NewClient(c.clientConfig(inputs))
		if err != nil {
			return nil, err
		}

		handler := auth.NewHandler(client, c.tokens)
		tok, err := handler.HandleAuth(ctx, authRequest(inputs))
		if err != nil {
			return nil, err
		}
		if err := client.AuthenticateToken(tok); err != nil {
			return nil, fmt.Errorf("vault returned an unusable token: %w", err)
		}
		return client, nil
	}

	if c.cache == nil {
		return factory()
	}

	key := hash.FromStrings(inputs, cacheKeyInputs...)
	return c.cache.GetOrCreate(key, factory)
}

// evict drops the cached client for inputs so the next lookup logs in again.
func (c *connector) evict(inputs plugins.Values) {
	if c.cache == nil {
		return
	}
	c.cache.Delete(hash.FromStrings(inputs, cacheKeyInputs...))
}
