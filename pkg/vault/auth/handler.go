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

package auth

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/panteparak/credential-plugins/pkg/logger"
	"github.com/panteparak/credential-plugins/pkg/metrics"
	"github.com/panteparak/credential-plugins/pkg/vault/token"
)

// MethodAuthenticator exchanges login parameters for a Vault client token.
// req is the caller's original request, so implementations can read
// connection inputs such as auth_path or the client certificate.
type MethodAuthenticator interface {
	MethodAuth(ctx context.Context, req Request, authParam Params) (string, error)
}

// MethodAuthFunc adapts a plain function to MethodAuthenticator.
type MethodAuthFunc func(ctx context.Context, req Request, authParam Params) (string, error)

// MethodAuth calls f.
func (f MethodAuthFunc) MethodAuth(ctx context.Context, req Request, authParam Params) (string, error) {
	return f(ctx, req, authParam)
}

// Handler turns a Request into a Vault client token.
// It holds no mutable state and is safe for concurrent use.
type Handler struct {
	authenticator MethodAuthenticator
	tokens        token.Source
}

// NewHandler creates a Handler. A nil tokens source reads the service
// account token from DefaultKubernetesTokenPath.
func NewHandler(authenticator MethodAuthenticator, tokens token.Source) *Handler {
	if tokens == nil {
		tokens = token.NewMountedSource(DefaultKubernetesTokenPath, logr.Discard())
	}
	return &Handler{
		authenticator: authenticator,
		tokens:        tokens,
	}
}

// AuthParams derives the login payload for m.
// It returns nil for the token method, which needs no login.
func (h *Handler) AuthParams(ctx context.Context, m Method) (Params, error) {
	switch m := m.(type) {
	case TokenMethod:
		return nil, nil
	case AppRoleMethod:
		return ApproleAuth(m.RoleID, m.SecretID), nil
	case KubernetesMethod:
		return KubernetesAuth(ctx, h.tokens, m.Role)
	case ClientCertMethod:
		return ClientCertAuth(m.Role), nil
	case UserpassMethod:
		return UserpassAuth(m.Username, m.Password), nil
	default:
		return nil, fmt.Errorf("unsupported auth method %T", m)
	}
}

// HandleAuth returns a Vault client token for req.
//
// A token input is returned verbatim without contacting Vault. Otherwise the
// selected method's payload is passed to the authenticator together with a
// copy of req, and the authenticator's result is returned unchanged, error
// included.
func (h *Handler) HandleAuth(ctx context.Context, req Request) (string, error) {
	m, err := ParseRequest(req)
	if err != nil {
		return "", err
	}

	if t, ok := m.(TokenMethod); ok {
		return t.Token, nil
	}

	log := logger.WithAuthMethod(logger.FromContext(ctx), string(m.Type()))

	params, err := h.AuthParams(ctx, m)
	if err != nil {
		metrics.IncrementAuth(string(m.Type()), false)
		return "", err
	}

	log.V(1).Info("authenticating to vault", logger.KeyVaultPath, LoginPath(req, m))

	clientToken, err := h.authenticator.MethodAuth(ctx, req.Clone(), params)
	metrics.IncrementAuth(string(m.Type()), err == nil)
	if err != nil {
		return "", err
	}
	return clientToken, nil
}
