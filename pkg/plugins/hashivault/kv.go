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
	"errors"
	"net/http"

	"github.com/hashicorp/vault/api"

	"github.com/panteparak/credential-plugins/pkg/logger"
	"github.com/panteparak/credential-plugins/pkg/plugins"
	"github.com/panteparak/credential-plugins/pkg/vault"
	"github.com/panteparak/credential-plugins/pkg/vault/auth"
)

// KVName is the registry name of the KV plugin.
const KVName = "hashivault_kv"

// Metadata IDs of the KV plugin.
const (
	MetaSecretBackend = "secret_backend"
	MetaSecretPath    = "secret_path"
	MetaSecretKey     = "secret_key"
	MetaSecretVersion = "secret_version"
)

// KVPlugin looks up a value in a Vault KV secrets engine.
type KVPlugin struct {
	conn *connector
}

// NewKV creates the hashivault_kv plugin.
func NewKV(opts ...Option) *KVPlugin {
	return &KVPlugin{conn: newConnector(opts...)}
}

// Name implements plugins.Plugin.
func (p *KVPlugin) Name() string { return KVName }

// Inputs implements plugins.Plugin.
func (p *KVPlugin) Inputs() plugins.InputSchema {
	fields := append(connectionFields(), plugins.Field{
		ID:      InputAPIVersion,
		Label:   "API Version",
		Help:    "API v1 is for static key/value lookups. API v2 is for versioned key/value lookups.",
		Default: vault.KVVersion1,
		Rule:    "oneof=v1 v2",
	})

	return plugins.InputSchema{
		Fields: fields,
		Metadata: []plugins.Field{
			{ID: MetaSecretBackend, Label: "Name of Secret Backend", Help: "The name of the kv secret backend (if left empty, the first segment of the secret path will be used)."},
			{ID: MetaSecretPath, Label: "Path to Secret", Help: "The path to the secret stored in the secret backend e.g, /some/secret/"},
			{ID: auth.InputAuthPath, Label: "Path to Auth", Help: "The path where the Authentication method is mounted e.g, approle"},
			{ID: MetaSecretKey, Label: "Key Name", Help: "The name of the key to look up in the secret."},
			{ID: MetaSecretVersion, Label: "Secret Version (v2 only)", Help: "Used to specify a specific secret version (if left empty, the latest version will be used).", Rule: "numeric"},
		},
		Required:         []string{InputURL},
		RequiredMetadata: []string{MetaSecretPath},
	}
}

// Lookup implements plugins.Plugin.
func (p *KVPlugin) Lookup(ctx context.Context, inputs, metadata plugins.Values) (string, error) {
	inputs = withAuthPath(inputs, metadata)

	req := vault.KVRequest{
		Backend:    metadata.Get(MetaSecretBackend),
		Path:       metadata.Get(MetaSecretPath),
		Key:        metadata.Get(MetaSecretKey),
		Version:    metadata.Get(MetaSecretVersion),
		APIVersion: inputs.Get(InputAPIVersion),
	}
	path, err := req.APIPath()
	if err != nil {
		return "", err
	}

	client, err := p.conn.client(ctx, inputs)
	if err != nil {
		return "", err
	}

	log := logger.WithOperation(logger.WithVaultPath(logger.FromContext(ctx), path), logger.OpRead)
	log.V(1).Info("reading secret")

	value, err := client.ReadKV(ctx, req)
	if err != nil {
		if isForbidden(err) {
			p.conn.evict(inputs)
		}
		return "", err
	}
	return value, nil
}

// withAuthPath lets metadata override the auth mount given in inputs.
func withAuthPath(inputs, metadata plugins.Values) plugins.Values {
	path := metadata.Get(auth.InputAuthPath)
	if path == "" {
		return inputs
	}
	out := make(plugins.Values, len(inputs)+1)
	for k, v := range inputs {
		out[k] = v
	}
	out[auth.InputAuthPath] = path
	return out
}

// isForbidden reports whether Vault rejected the token, which usually means
// a cached login has expired or been revoked.
func isForbidden(err error) bool {
	var respErr *api.ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == http.StatusForbidden
}
