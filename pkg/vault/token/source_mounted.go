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
	"os"
	"time"

	"github.com/go-logr/logr"
)

// DefaultServiceAccountTokenPath is the default location for the mounted SA token.
const DefaultServiceAccountTokenPath = "/var/run/secrets/kubernetes.io/serviceaccount/token"

// MountedSource reads the token from a file projected into the pod filesystem.
//
// The file is read on every call; rotated tokens are picked up without restart.
type MountedSource struct {
	tokenPath string
	log       logr.Logger
}

// NewMountedSource creates a new MountedSource.
// If tokenPath is empty, it defaults to DefaultServiceAccountTokenPath.
func NewMountedSource(tokenPath string, log logr.Logger) *MountedSource {
	if tokenPath == "" {
		tokenPath = DefaultServiceAccountTokenPath
	}
	return &MountedSource{
		tokenPath: tokenPath,
		log:       log.WithName("mounted-token-source"),
	}
}

// Path returns the file the source reads from.
func (s *MountedSource) Path() string {
	return s.tokenPath
}

// Token returns the full content of the token file.
// The returned error wraps the underlying *fs.PathError.
func (s *MountedSource) Token(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.log.V(1).Info("reading mounted token", "path", s.tokenPath)

	data, err := os.ReadFile(s.tokenPath)
	if err != nil {
		return "", fmt.Errorf("failed to read service account token from %s: %w", s.tokenPath, err)
	}

	token := string(data)
	if info, ok := Inspect(token); ok {
		// Still returned as-is; Vault decides whether to accept it.
		if info.Expired(time.Now()) {
			s.log.Info("mounted token has expired", "path", s.tokenPath, "expiresAt", info.ExpirationTime)
		} else {
			s.log.V(1).Info("read mounted token",
				"expiresAt", info.ExpirationTime,
				"issuedAt", info.IssuedAt,
			)
		}
	}

	return token, nil
}

// Ensure MountedSource implements Source.
var _ Source = (*MountedSource)(nil)
