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

// Package tss implements the thycotic_tss credential plugin backed by
// Delinea Secret Server.
package tss

import (
	"context"
	"strconv"
	"strings"

	"github.com/DelineaXPM/tss-sdk-go/v2/server"

	"github.com/panteparak/credential-plugins/pkg/logger"
	"github.com/panteparak/credential-plugins/pkg/plugins"
	infraerrors "github.com/panteparak/credential-plugins/shared/infrastructure/errors"
)

// Name is the registry name of the plugin.
const Name = "thycotic_tss"

// Input and metadata IDs.
const (
	InputServerURL = "server_url"
	InputDomain    = "domain"
	InputUsername  = "username"
	InputPassword  = "password"

	MetaSecretID    = "secret_id"
	MetaSecretField = "secret_field"
)

// secretReader is the part of server.Server the plugin uses.
type secretReader interface {
	Secret(id int) (*server.Secret, error)
}

type readerFactory func(cfg server.Configuration) (secretReader, error)

// Plugin looks up secret fields in Secret Server.
type Plugin struct {
	newReader readerFactory
}

// New creates the thycotic_tss plugin.
func New() *Plugin {
	return &Plugin{newReader: newServer}
}

func newServer(cfg server.Configuration) (secretReader, error) {
	return server.New(cfg)
}

// Name implements plugins.Plugin.
func (p *Plugin) Name() string { return Name }

// Inputs implements plugins.Plugin.
func (p *Plugin) Inputs() plugins.InputSchema {
	return plugins.InputSchema{
		Fields: []plugins.Field{
			{ID: InputServerURL, Label: "Secret Server URL", Help: "The Base URL of Secret Server e.g. https://myserver/SecretServer or https://mytenant.secretservercloud.com", Rule: "url"},
			{ID: InputUsername, Label: "Username", Help: "The (Application) user username"},
			{ID: InputDomain, Label: "Domain", Help: "The (Application) user domain"},
			{ID: InputPassword, Label: "Password", Secret: true, Help: "The corresponding password"},
		},
		Metadata: []plugins.Field{
			{ID: MetaSecretID, Label: "Secret ID", Help: "The integer ID of the secret", Rule: "numeric"},
			{ID: MetaSecretField, Label: "Secret Field", Help: "The field to extract from the secret"},
		},
		Required:         []string{InputServerURL, InputUsername, InputPassword},
		RequiredMetadata: []string{MetaSecretID, MetaSecretField},
	}
}

// Lookup implements plugins.Plugin.
func (p *Plugin) Lookup(ctx context.Context, inputs, metadata plugins.Values) (string, error) {
	rawID := metadata.Get(MetaSecretID)
	id, err := strconv.Atoi(rawID)
	if err != nil {
		return "", infraerrors.NewValidationError(MetaSecretID, rawID, "must be an integer")
	}

	reader, err := p.newReader(server.Configuration{
		Credentials: server.UserCredential{
			Domain:   inputs.Get(InputDomain),
			Username: inputs.Get(InputUsername),
			Password: inputs.Get(InputPassword),
		},
		ServerURL: strings.TrimSuffix(inputs.Get(InputServerURL), "/"),
	})
	if err != nil {
		return "", infraerrors.NewBackendError(Name, "configure", err)
	}

	logger.FromContext(ctx).V(1).Info("fetching secret", logger.KeyVaultAddress, inputs.Get(InputServerURL), "secretID", id)

	secret, err := reader.Secret(id)
	if err != nil {
		return "", infraerrors.NewBackendError(Name, "get secret", err)
	}
	if secret == nil {
		return "", infraerrors.NewNotFoundError(Name, rawID)
	}

	field := metadata.Get(MetaSecretField)
	value, ok := secret.Field(field)
	if !ok {
		return "", infraerrors.NewNotFoundError(Name, field+" in secret "+rawID)
	}
	return value, nil
}
