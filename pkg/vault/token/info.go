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
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo contains metadata decoded from a service account JWT.
type TokenInfo struct {
	// ExpirationTime is when the token expires. Zero if the token has no exp claim.
	ExpirationTime time.Time

	// IssuedAt is when the token was issued.
	IssuedAt time.Time

	// Audiences are the audiences the token is valid for.
	Audiences []string
}

// Expired reports whether the token had expired at now.
// Tokens without an exp claim never expire.
func (i *TokenInfo) Expired(now time.Time) bool {
	if i.ExpirationTime.IsZero() {
		return false
	}
	return !now.Before(i.ExpirationTime)
}

// Inspect decodes the claims of a JWT without verifying its signature.
// Vault verifies the token; this is only used for diagnostics.
// It returns false when the value is not a JWT.
func Inspect(raw string) (*TokenInfo, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return nil, false
	}

	info := &TokenInfo{
		Audiences: claims.Audience,
	}
	if claims.ExpiresAt != nil {
		info.ExpirationTime = claims.ExpiresAt.Time
	}
	if claims.IssuedAt != nil {
		info.IssuedAt = claims.IssuedAt.Time
	}
	return info, true
}
