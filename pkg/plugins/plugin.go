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

// Package plugins defines the credential lookup plugin contract and the
// machinery shared by every backend: input schemas, a registry and a
// Lookup entry point that validates inputs, logs and records metrics.
package plugins

import (
	"context"

	"github.com/panteparak/credential-plugins/pkg/logger"
	"github.com/panteparak/credential-plugins/pkg/metrics"
)

// Values maps input or metadata field IDs to their values.
type Values map[string]string

// Get returns the value of id, or "" when it is not set.
func (v Values) Get(id string) string {
	if v == nil {
		return ""
	}
	return v[id]
}

// Plugin resolves a single secret value from an external backend.
type Plugin interface {
	// Name is the unique plugin identifier, e.g. "hashivault_kv".
	Name() string

	// Inputs describes the connection, credential and metadata fields.
	Inputs() InputSchema

	// Lookup fetches the secret described by metadata using the
	// connection and credential inputs.
	Lookup(ctx context.Context, inputs, metadata Values) (string, error)
}

// Lookup runs p with defaults applied and inputs validated against its schema.
// It is the entry point callers should use instead of Plugin.Lookup.
func Lookup(ctx context.Context, p Plugin, inputs, metadata Values) (string, error) {
	log := logger.NewLookupLogger(ctx, p.Name())
	ctx = log.IntoContext(ctx)

	schema := p.Inputs()
	inputs = schema.ApplyDefaults(inputs)
	metadata = schema.ApplyMetadataDefaults(metadata)

	value, err := func() (string, error) {
		if err := schema.Validate(inputs, metadata); err != nil {
			return "", err
		}
		log.V(1).Info("starting secret lookup")
		return p.Lookup(ctx, inputs, metadata)
	}()

	metrics.ObserveLookup(p.Name(), err == nil, log.Duration())
	if err != nil {
		log.LogLookupError(err)
		return "", err
	}
	log.LogLookupSuccess()
	return value, nil
}
