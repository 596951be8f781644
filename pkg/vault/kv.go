package vault

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	infraerrors "github.com/panteparak/credential-plugins/shared/infrastructure/errors"
)

// KV engine API versions
const (
	KVVersion1 = "v1"
	KVVersion2 = "v2"
)

// KVRequest describes a single KV lookup
type KVRequest struct {
	// Backend is the KV mount. When empty, the first segment of Path is used.
	Backend string

	// Path is the secret path below the mount
	Path string

	// Key selects one value of the secret. When empty the whole secret is
	// returned as a JSON object.
	Key string

	// Version pins a KV v2 secret version. Ignored for v1.
	Version string

	// APIVersion is KVVersion1 or KVVersion2. Defaults to KVVersion1.
	APIVersion string
}

// SplitBackend returns the mount and the path below it.
func (r KVRequest) SplitBackend() (string, string) {
	path := strings.Trim(r.Path, "/")
	backend := strings.Trim(r.Backend, "/")
	if backend != "" {
		return backend, path
	}
	backend, rest, _ := strings.Cut(path, "/")
	return backend, rest
}

// APIPath returns the logical path that has to be read for r.
func (r KVRequest) APIPath() (string, error) {
	backend, path := r.SplitBackend()
	if backend == "" || path == "" {
		return "", infraerrors.NewValidationError("secret_path", r.Path, "must name a secret below the KV mount")
	}

	switch r.APIVersion {
	case "", KVVersion1:
		return backend + "/" + path, nil
	case KVVersion2:
		return backend + "/data/" + path, nil
	default:
		return "", infraerrors.NewValidationError("api_version", r.APIVersion, "must be v1 or v2")
	}
}

// ReadKV reads a secret from a KV engine and returns the value for r.Key.
func (c *Client) ReadKV(ctx context.Context, r KVRequest) (string, error) {
	path, err := r.APIPath()
	if err != nil {
		return "", err
	}

	var query map[string][]string
	if r.APIVersion == KVVersion2 && r.Version != "" {
		query = map[string][]string{"version": {r.Version}}
	}

	secret, err := c.Logical().ReadWithDataWithContext(ctx, path, query)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	if secret == nil || secret.Data == nil {
		return "", infraerrors.NewNotFoundError("vault", path)
	}

	data := secret.Data
	if r.APIVersion == KVVersion2 {
		inner, ok := secret.Data["data"].(map[string]interface{})
		if !ok {
			return "", infraerrors.NewNotFoundError("vault", path)
		}
		data = inner
	}

	if r.Key == "" {
		out, err := json.Marshal(data)
		if err != nil {
			return "", fmt.Errorf("failed to encode secret at %s: %w", path, err)
		}
		return string(out), nil
	}

	value, ok := data[r.Key]
	if !ok {
		return "", infraerrors.NewNotFoundError("vault", fmt.Sprintf("%s at %s", r.Key, path))
	}
	return stringify(value)
}

// stringify renders a KV value. Strings are returned as-is, everything else as JSON.
func stringify(value interface{}) (string, error) {
	if s, ok := value.(string); ok {
		return s, nil
	}
	out, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("failed to encode secret value: %w", err)
	}
	return string(out), nil
}
