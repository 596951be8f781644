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

// Package dsv implements the thycotic_dsv credential plugin backed by
// Delinea DevOps Secrets Vault.
package dsv

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/DelineaXPM/dsv-sdk-go/v2/vault"

	"github.com/panteparak/credential-plugins/pkg/logger"
	"github.com/panteparak/credential-plugins/pkg/plugins"
	infraerrors "github.com/panteparak/credential-plugins/shared/infrastructure/errors"
)

// Name is the registry name of the plugin.
const Name = "thycotic_dsv"

// Input and metadata IDs.
const (
	InputTenant       = "tenant"
	InputTLD          = "tld"
	InputURLTemplate  = "url_template"
	InputClientID     = "client_id"
	InputClientSecret = "client_secret"

	MetaPath        = "path"
	MetaSecretField = "secret_field"
)

// DefaultTLD is the top-level domain used when none is given.
const DefaultTLD = "com"

// TLDs lists the DSV regions.
var TLDs = []string{"ca", "com", "com.au", "eu"}

// secretReader is the part of vault.Vault the plugin uses.
type secretReader interface {
	Secret(path string) (*vault.Secret, error)
}

type readerFactory func(cfg vault.Configuration) (secretReader, error)

// Plugin looks up secrets in DevOps Secrets Vault.
type Plugin struct {
	newReader readerFactory
}

// New creates the thycotic_dsv plugin.
func New() *Plugin {
	return &Plugin{newReader: newVault}
}

func newVault(cfg vault.Configuration) (secretReader, error) {
	return vault.New(cfg)
}

// Name implements plugins.Plugin.
func (p *Plugin) Name() string { return Name }

// Inputs implements plugins.Plugin.
func (p *Plugin) Inputs() plugins.InputSchema {
	return plugins.InputSchema{
		Fields: []plugins.Field{
			{ID: InputTenant, Label: "Tenant", Help: "The tenant e.g. \"ex\" when the URL is https://ex.secretsvaultcloud.com"},
			{ID: InputTLD, Label: "Top-level Domain (TLD)", Help: "The TLD of the tenant e.g. \"com\" when the URL is https://ex.secretsvaultcloud.com", Default: DefaultTLD, Rule: "oneof=" + strings.Join(TLDs, " ")},
			{ID: InputURLTemplate, Label: "URL template", Help: "Overrides the SDK's tenant URL template"},
			{ID: InputClientID, Label: "Client ID"},
			{ID: InputClientSecret, Label: "Client Secret", Secret: true},
		},
		Metadata: []plugins.Field{
			{ID: MetaPath, Label: "Secret Path", Help: "The secret path e.g. /test/secret1"},
			{ID: MetaSecretField, Label: "Secret Field", Help: "The field to extract from the secret, e.g. password or data.nested.key"},
		},
		Required:         []string{InputTenant, InputClientID, InputClientSecret},
		RequiredMetadata: []string{MetaPath, MetaSecretField},
	}
}

// Lookup implements plugins.Plugin.
func (p *Plugin) Lookup(ctx context.Context, inputs, metadata plugins.Values) (string, error) {
	tld := inputs.Get(InputTLD)
	if tld == "" {
		tld = DefaultTLD
	}

	reader, err := p.newReader(vault.Configuration{
		Credentials: vault.ClientCredential{
			ClientID:     inputs.Get(InputClientID),
			ClientSecret: inputs.Get(InputClientSecret),
		},
		Tenant:      inputs.Get(InputTenant),
		TLD:         tld,
		URLTemplate: inputs.Get(InputURLTemplate),
	})
	if err != nil {
		return "", infraerrors.NewBackendError(Name, "configure", err)
	}

	path := strings.TrimPrefix(metadata.Get(MetaPath), "/")
	logger.FromContext(ctx).V(1).Info("fetching secret", "tenant", inputs.Get(InputTenant), "path", path)

	secret, err := reader.Secret(path)
	if err != nil {
		return "", infraerrors.NewBackendError(Name, "get secret", err)
	}
	if secret == nil {
		return "", infraerrors.NewNotFoundError(Name, path)
	}

	return Field(secret.Data, metadata.Get(MetaSecretField))
}

// Field walks a dot separated path through secret data and returns the
// value found there. A leading "data." segment is optional. Non-string
// values are returned as JSON.
func Field(data map[string]interface{}, field string) (string, error) {
	keys := strings.Split(strings.TrimPrefix(field, "data."), ".")

	var current interface{} = data
	for _, key := range keys {
		m, ok := current.(map[string]interface{})
		if !ok {
			return "", infraerrors.NewNotFoundError(Name, field)
		}
		current, ok = m[key]
		if !ok {
			return "", infraerrors.NewNotFoundError(Name, field)
		}
	}

	if s, ok := current.(string); ok {
		return s, nil
	}
	out, err := json.Marshal(current)
	if err != nil {
		return "", fmt.Errorf("failed to encode field %s: %w", field, err)
	}
	return string(out), nil
}
