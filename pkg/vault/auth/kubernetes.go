/*
Package auth provides the Vault authentication method selector.

This file implements the Kubernetes service account login payload.
*/
package auth

import (
	"context"
	"fmt"

	"github.com/panteparak/credential-plugins/pkg/vault/token"
)

const (
	// DefaultKubernetesTokenPath is the default path for mounted service account tokens
	DefaultKubernetesTokenPath = token.DefaultServiceAccountTokenPath

	// DefaultKubernetesAuthPath is the default mount path for Kubernetes auth in Vault
	DefaultKubernetesAuthPath = "kubernetes"
)

// KubernetesAuth returns the Kubernetes login payload, reading the JWT from src.
// The JWT is passed through exactly as read. Read errors are returned wrapped.
func KubernetesAuth(ctx context.Context, src token.Source, role string) (Params, error) {
	jwt, err := src.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("kubernetes auth: %w", err)
	}
	return Params{
		"role": role,
		"jwt":  jwt,
	}, nil
}
