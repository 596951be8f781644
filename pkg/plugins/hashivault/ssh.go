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

	"github.com/panteparak/credential-plugins/pkg/logger"
	"github.com/panteparak/credential-plugins/pkg/plugins"
	"github.com/panteparak/credential-plugins/pkg/vault"
	"github.com/panteparak/credential-plugins/pkg/vault/auth"
)

// SSHName is the registry name of the SSH signing plugin.
const SSHName = "hashivault_ssh"

// Metadata IDs of the SSH plugin. The SSH engine mount is read from MetaSecretPath.
const (
	MetaPublicKey       = "public_key"
	MetaRole            = "role"
	MetaValidPrincipals = "valid_principals"
)

// SSHPlugin signs SSH public keys with a Vault SSH secrets engine.
type SSHPlugin struct {
	conn *connector
}

// NewSSH creates the hashivault_ssh plugin.
func NewSSH(opts ...Option) *SSHPlugin {
	return &SSHPlugin{conn: newConnector(opts...)}
}

// Name implements plugins.Plugin.
func (p *SSHPlugin) Name() string { return SSHName }

// Inputs implements plugins.Plugin.
func (p *SSHPlugin) Inputs() plugins.InputSchema {
	return plugins.InputSchema{
		Fields: connectionFields(),
		Metadata: []plugins.Field{
			{ID: MetaPublicKey, Label: "Unsigned Public Key", Multiline: true},
			{ID: MetaSecretPath, Label: "Path to Secret", Help: "The path to the secret stored in the secret backend e.g, /some/secret/"},
			{ID: MetaRole, Label: "Role Name", Help: "The name of the role used to sign."},
			{ID: MetaValidPrincipals, Label: "Valid Principals", Help: "Valid principals (either usernames or hostnames) that the certificate should be signed for."},
			{ID: auth.InputAuthPath, Label: "Path to Auth", Help: "The path where the Authentication method is mounted e.g, approle"},
		},
		Required:         []string{InputURL},
		RequiredMetadata: []string{MetaPublicKey, MetaSecretPath, MetaRole},
	}
}

// Lookup implements plugins.Plugin. The returned value is the signed certificate.
func (p *SSHPlugin) Lookup(ctx context.Context, inputs, metadata plugins.Values) (string, error) {
	inputs = withAuthPath(inputs, metadata)

	req := vault.SSHSignRequest{
		Backend:         metadata.Get(MetaSecretPath),
		Role:            metadata.Get(MetaRole),
		PublicKey:       metadata.Get(MetaPublicKey),
		ValidPrincipals: metadata.Get(MetaValidPrincipals),
	}

	client, err := p.conn.client(ctx, inputs)
	if err != nil {
		return "", err
	}

	log := logger.WithOperation(logger.WithVaultPath(logger.FromContext(ctx), req.Backend), logger.OpSign)
	log.V(1).Info("signing ssh public key", "role", req.Role)

	signed, err := client.SignSSHKey(ctx, req)
	if err != nil {
		if isForbidden(err) {
			p.conn.evict(inputs)
		}
		return "", err
	}
	return signed, nil
}
