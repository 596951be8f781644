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

package token

import (
	"context"
	"fmt"
)

// Source supplies the bearer token presented to Vault's Kubernetes auth method.
//
// # Thread Safety
//
// Implementations must be safe for concurrent Token calls.
type Source interface {
	// Token returns the raw token. The value is passed to Vault exactly as
	// returned, so implementations must not trim or otherwise alter it.
	Token(ctx context.Context) (string, error)
}

// StaticSource returns the same token on every call.
type StaticSource string

// Token returns the static token. An empty StaticSource is an error.
func (s StaticSource) Token(_ context.Context) (string, error) {
	if s == "" {
		return "", fmt.Errorf("static token source is empty")
	}
	return string(s), nil
}

// SourceFunc adapts a plain function to the Source interface.
type SourceFunc func(ctx context.Context) (string, error)

// Token calls f(ctx).
func (f SourceFunc) Token(ctx context.Context) (string, error) {
	return f(ctx)
}

var (
	_ Source = StaticSource("")
	_ Source = SourceFunc(nil)
)
