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

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"sigs.k8s.io/yaml"

	"github.com/panteparak/credential-plugins/pkg/plugins"
)

// Environment variable prefixes that carry inputs and metadata, e.g.
// CREDENTIAL_INPUT_TOKEN=... sets the "token" input.
const (
	EnvInputPrefix    = "CREDENTIAL_INPUT_"
	EnvMetadataPrefix = "CREDENTIAL_METADATA_"
	EnvPlugin         = "CREDENTIAL_PLUGIN"
)

// LookupRequest is a complete lookup as read from a request file.
type LookupRequest struct {
	Plugin   string            `json:"plugin" validate:"required"`
	Inputs   map[string]string `json:"inputs,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

func newLookupRequest() *LookupRequest {
	return &LookupRequest{
		Inputs:   map[string]string{},
		Metadata: map[string]string{},
	}
}

// merge overlays non-empty values of other onto r.
func (r *LookupRequest) merge(other *LookupRequest) {
	if other.Plugin != "" {
		r.Plugin = other.Plugin
	}
	for k, v := range other.Inputs {
		r.Inputs[k] = v
	}
	for k, v := range other.Metadata {
		r.Metadata[k] = v
	}
}

// Validate checks the request is complete enough to dispatch.
func (r *LookupRequest) Validate() error {
	return validator.New().Struct(r)
}

// readRequestFile parses a YAML or JSON request file.
func readRequestFile(path string) (*LookupRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read request file: %w", err)
	}

	req := newLookupRequest()
	if err := yaml.UnmarshalStrict(data, req); err != nil {
		return nil, fmt.Errorf("failed to parse request file %s: %w", path, err)
	}
	if req.Inputs == nil {
		req.Inputs = map[string]string{}
	}
	if req.Metadata == nil {
		req.Metadata = map[string]string{}
	}
	return req, nil
}

// fromEnv collects the prefixed variables of environ ("KEY=value" pairs).
func fromEnv(environ []string) *LookupRequest {
	vars := make(map[string]string, len(environ))
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok {
			vars[k] = v
		}
	}
	return fromVars(vars)
}

// readEnvFile loads prefixed variables from a dotenv file.
func readEnvFile(path string) (*LookupRequest, error) {
	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read env file %s: %w", path, err)
	}
	return fromVars(vars), nil
}

func fromVars(vars map[string]string) *LookupRequest {
	req := newLookupRequest()
	for k, v := range vars {
		switch {
		case k == EnvPlugin:
			req.Plugin = v
		case strings.HasPrefix(k, EnvInputPrefix):
			req.Inputs[strings.ToLower(strings.TrimPrefix(k, EnvInputPrefix))] = v
		case strings.HasPrefix(k, EnvMetadataPrefix):
			req.Metadata[strings.ToLower(strings.TrimPrefix(k, EnvMetadataPrefix))] = v
		}
	}
	return req
}

// parsePairs parses repeated key=value flag values. Only the first "="
// separates, so values may contain "=" and ",".
func parsePairs(flag string, pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --%s %q: expected key=value", flag, p)
		}
		out[k] = v
	}
	return out, nil
}

// schemaView is the printable form of a plugin schema.
type schemaView struct {
	Name     string      `json:"name"`
	Inputs   []fieldView `json:"inputs"`
	Metadata []fieldView `json:"metadata"`
}

type fieldView struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Help     string `json:"help,omitempty"`
	Secret   bool   `json:"secret,omitempty"`
	Required bool   `json:"required,omitempty"`
	Default  string `json:"default,omitempty"`
}

func describe(p plugins.Plugin) ([]byte, error) {
	schema := p.Inputs()
	view := schemaView{
		Name:     p.Name(),
		Inputs:   fieldViews(schema.Fields, schema.Required),
		Metadata: fieldViews(schema.Metadata, schema.RequiredMetadata),
	}
	return yaml.Marshal(view)
}

func fieldViews(fields []plugins.Field, required []string) []fieldView {
	req := make(map[string]bool, len(required))
	for _, id := range required {
		req[id] = true
	}
	out := make([]fieldView, 0, len(fields))
	for _, f := range fields {
		out = append(out, fieldView{
			ID:       f.ID,
			Label:    f.Label,
			Help:     f.Help,
			Secret:   f.Secret,
			Required: req[f.ID],
			Default:  f.Default,
		})
	}
	return out
}
