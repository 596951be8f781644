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

package plugins

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infraerrors "github.com/panteparak/credential-plugins/shared/infrastructure/errors"
)

func testSchema() InputSchema {
	return InputSchema{
		Fields: []Field{
			{ID: "url", Label: "Server URL", Rule: "url"},
			{ID: "password", Label: "Password", Secret: true, Rule: "min=4"},
			{ID: "api_version", Label: "API Version", Default: "v1", Rule: "oneof=v1 v2"},
		},
		Metadata: []Field{
			{ID: "secret_path", Label: "Path to Secret"},
			{ID: "secret_version", Label: "Secret Version", Default: "latest"},
		},
		Required:         []string{"url"},
		RequiredMetadata: []string{"secret_path"},
	}
}

func TestInputSchema_ApplyDefaults(t *testing.T) {
	s := testSchema()
	in := Values{"url": "https://vault:8200", "api_version": ""}

	out := s.ApplyDefaults(in)

	assert.Equal(t, "v1", out["api_version"])
	assert.Equal(t, "https://vault:8200", out["url"])
	assert.Equal(t, "", in["api_version"], "input map must not be modified")
}

func TestInputSchema_ApplyDefaults_KeepsExplicitValue(t *testing.T) {
	out := testSchema().ApplyDefaults(Values{"api_version": "v2"})
	assert.Equal(t, "v2", out["api_version"])
}

func TestInputSchema_ApplyDefaults_NilValues(t *testing.T) {
	out := testSchema().ApplyDefaults(nil)
	require.NotNil(t, out)
	assert.Equal(t, "v1", out["api_version"])
}

func TestInputSchema_ApplyMetadataDefaults(t *testing.T) {
	out := testSchema().ApplyMetadataDefaults(Values{"secret_path": "/kv/a"})
	assert.Equal(t, "latest", out["secret_version"])
}

func TestInputSchema_Validate_Missing(t *testing.T) {
	err := testSchema().Validate(Values{}, Values{})

	require.Error(t, err)
	assert.True(t, infraerrors.IsConfigurationError(err))

	var cfgErr *infraerrors.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, []string{"url", "secret_path"}, cfgErr.Missing)
}

func TestInputSchema_Validate_EmptyCountsAsMissing(t *testing.T) {
	err := testSchema().Validate(Values{"url": ""}, Values{"secret_path": "a"})
	assert.True(t, infraerrors.IsConfigurationError(err))
}

func TestInputSchema_Validate_RuleViolation(t *testing.T) {
	err := testSchema().Validate(
		Values{"url": "https://vault:8200", "api_version": "v3"},
		Values{"secret_path": "a"},
	)

	require.Error(t, err)
	var valErr *infraerrors.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "api_version", valErr.Field)
	assert.Equal(t, "v3", valErr.Value)
}

func TestInputSchema_Validate_RedactsSecretValues(t *testing.T) {
	err := testSchema().Validate(
		Values{"url": "https://vault:8200", "password": "abc"},
		Values{"secret_path": "a"},
	)

	var valErr *infraerrors.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "password", valErr.Field)
	assert.Equal(t, "<redacted>", valErr.Value)
	assert.NotContains(t, err.Error(), "abc")
}

func TestInputSchema_Validate_OK(t *testing.T) {
	err := testSchema().Validate(
		Values{"url": "https://vault:8200", "api_version": "v2", "password": "hunter2"},
		Values{"secret_path": "a"},
	)
	assert.NoError(t, err)
}

func TestInputSchema_Field(t *testing.T) {
	s := testSchema()

	f, ok := s.Field("password")
	require.True(t, ok)
	assert.True(t, f.Secret)

	_, ok = s.Field("nope")
	assert.False(t, ok)

	m, ok := s.MetadataField("secret_version")
	require.True(t, ok)
	assert.Equal(t, "latest", m.Default)
}
