package vault

import (
	"context"
	"fmt"
	"strings"

	infraerrors "github.com/panteparak/credential-plugins/shared/infrastructure/errors"
)

// SSHSignRequest asks an SSH secrets engine to sign a public key
type SSHSignRequest struct {
	// Backend is the SSH engine mount, e.g. "ssh-client-signer"
	Backend string

	// Role is the signing role on that mount
	Role string

	// PublicKey is the OpenSSH public key to sign
	PublicKey string

	// ValidPrincipals is a comma separated list; empty uses the role default
	ValidPrincipals string
}

// SignSSHKey signs r.PublicKey and returns the signed certificate.
func (c *Client) SignSSHKey(ctx context.Context, r SSHSignRequest) (string, error) {
	backend := strings.Trim(r.Backend, "/")
	if backend == "" {
		return "", infraerrors.NewValidationError("secret_path", r.Backend, "must name the SSH secrets engine mount")
	}
	if r.Role == "" {
		return "", infraerrors.NewValidationError("role", "", "must not be empty")
	}

	path := fmt.Sprintf("%s/sign/%s", backend, r.Role)
	data := map[string]interface{}{
		"public_key": r.PublicKey,
	}
	if r.ValidPrincipals != "" {
		data["valid_principals"] = r.ValidPrincipals
	}

	secret, err := c.Logical().WriteWithContext(ctx, path, data)
	if err != nil {
		return "", fmt.Errorf("failed to sign ssh key at %s: %w", path, err)
	}

	if secret == nil || secret.Data == nil {
		return "", infraerrors.NewNotFoundError("vault", path)
	}
	signed, ok := secret.Data["signed_key"].(string)
	if !ok || signed == "" {
		return "", infraerrors.NewNotFoundError("vault", "signed_key at "+path)
	}
	return signed, nil
}
