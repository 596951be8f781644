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

// Package azurekv implements the azure_kv credential plugin backed by
// Azure Key Vault secrets.
package azurekv

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"

	"github.com/panteparak/credential-plugins/pkg/logger"
	"github.com/panteparak/credential-plugins/pkg/plugins"
	infraerrors "github.com/panteparak/credential-plugins/shared/infrastructure/errors"
)

// Name is the registry name of the plugin.
const Name = "azure_kv"

// Input and metadata IDs.
const (
	InputURL       = "url"
	InputClient    = "client"
	InputSecret    = "secret"
	InputTenant    = "tenant"
	InputCloudName = "cloud_name"

	MetaSecretField   = "secret_field"
	MetaSecretVersion = "secret_version"
)

// secretGetter is the part of azsecrets.Client the plugin uses.
type secretGetter interface {
	GetSecret(ctx context.Context, name, version string, options *azsecrets.GetSecretOptions) (azsecrets.GetSecretResponse, error)
}

type clientFactory func(vaultURL string, cred azcore.TokenCredential, c Cloud) (secretGetter, error)

type credentialFactory func(inputs plugins.Values, c Cloud) (azcore.TokenCredential, error)

// Plugin looks up secrets in Azure Key Vault.
type Plugin struct {
	newClient     clientFactory
	newCredential credentialFactory
}

// New creates the azure_kv plugin.
func New() *Plugin {
	return &Plugin{
		newClient:     newSecretsClient,
		newCredential: newCredential,
	}
}

// Name implements plugins.Plugin.
func (p *Plugin) Name() string { return Name }

// Inputs implements plugins.Plugin.
func (p *Plugin) Inputs() plugins.InputSchema {
	return plugins.InputSchema{
		Fields: []plugins.Field{
			{ID: InputURL, Label: "Vault URL (DNS Name)"},
			{ID: InputClient, Label: "Client ID"},
			{ID: InputSecret, Label: "Client Secret", Secret: true},
			{ID: InputTenant, Label: "Tenant ID"},
			{
				ID:      InputCloudName,
				Label:   "Cloud Environment",
				Help:    "Specify which azure cloud environment to use.",
				Default: DefaultCloudName,
				Rule:    "oneof=" + strings.Join(CloudNames(), " "),
			},
		},
		Metadata: []plugins.Field{
			{ID: MetaSecretField, Label: "Secret Name", Help: "The name of the secret to look up."},
			{ID: MetaSecretVersion, Label: "Secret Version", Help: "Used to specify a specific secret version (if left empty, the latest version will be used)."},
		},
		Required:         []string{InputURL},
		RequiredMetadata: []string{MetaSecretField},
	}
}

// Lookup implements plugins.Plugin.
func (p *Plugin) Lookup(ctx context.Context, inputs, metadata plugins.Values) (string, error) {
	cloudName := inputs.Get(InputCloudName)
	if cloudName == "" {
		cloudName = DefaultCloudName
	}
	c, ok := FindCloud(cloudName)
	if !ok {
		return "", infraerrors.NewValidationError(InputCloudName, cloudName, "unknown Azure cloud")
	}

	vaultURL, err := VaultURL(inputs.Get(InputURL), c)
	if err != nil {
		return "", err
	}

	cred, err := p.newCredential(inputs, c)
	if err != nil {
		return "", infraerrors.NewBackendError(Name, "credential", err)
	}

	client, err := p.newClient(vaultURL, cred, c)
	if err != nil {
		return "", infraerrors.NewBackendError(Name, "client", err)
	}

	name := metadata.Get(MetaSecretField)
	logger.FromContext(ctx).V(1).Info("fetching secret", logger.KeyVaultAddress, vaultURL, "cloud", c.Name, "secret", name)

	resp, err := client.GetSecret(ctx, name, metadata.Get(MetaSecretVersion), nil)
	if err != nil {
		var respErr *azcore.ResponseError
		if errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound {
			return "", infraerrors.NewNotFoundError(Name, name)
		}
		return "", infraerrors.NewBackendError(Name, "get secret", err)
	}
	if resp.Value == nil {
		return "", infraerrors.NewNotFoundError(Name, name)
	}
	return *resp.Value, nil
}

// VaultURL normalizes raw into an https URL and checks that its host belongs
// to cloud c. A bare DNS name is accepted.
func VaultURL(raw string, c Cloud) (string, error) {
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", infraerrors.NewValidationError(InputURL, raw, err.Error())
	}
	if u.Scheme != "https" {
		return "", infraerrors.NewValidationError(InputURL, raw, "must use https")
	}
	host := strings.ToLower(u.Hostname())
	if host == "" || !strings.HasSuffix(host, c.Suffixes.KeyVaultDNS) || host == strings.TrimPrefix(c.Suffixes.KeyVaultDNS, ".") {
		return "", infraerrors.NewValidationError(InputURL, raw,
			fmt.Sprintf("host must end with %s for %s", c.Suffixes.KeyVaultDNS, c.Name))
	}
	return "https://" + u.Host + "/", nil
}

// newCredential uses a client secret when client, secret and tenant are all
// set, and a managed identity otherwise. A lone client ID selects a
// user-assigned managed identity.
func newCredential(inputs plugins.Values, c Cloud) (azcore.TokenCredential, error) {
	opts := azcore.ClientOptions{Cloud: c.Configuration}

	client, secret, tenant := inputs.Get(InputClient), inputs.Get(InputSecret), inputs.Get(InputTenant)
	if client != "" && secret != "" && tenant != "" {
		return azidentity.NewClientSecretCredential(tenant, client, secret,
			&azidentity.ClientSecretCredentialOptions{ClientOptions: opts})
	}

	miOpts := &azidentity.ManagedIdentityCredentialOptions{ClientOptions: opts}
	if client != "" {
		miOpts.ID = azidentity.ClientID(client)
	}
	return azidentity.NewManagedIdentityCredential(miOpts)
}

func newSecretsClient(vaultURL string, cred azcore.TokenCredential, c Cloud) (secretGetter, error) {
	return azsecrets.NewClient(vaultURL, cred, &azsecrets.ClientOptions{
		ClientOptions: azcore.ClientOptions{Cloud: c.Configuration},
	})
}
