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

// Package token provides the bearer tokens used by Vault's Kubernetes auth method.
//
// # Overview
//
// Kubernetes login needs the pod's service account JWT. Rather than reading the
// mounted file inline, callers depend on a Source, so tests and alternative
// deployments can substitute their own token without touching the filesystem.
//
// # Implementations
//
//   - MountedSource: reads the projected service account token file
//   - StaticSource: returns a fixed token
//
// # Usage
//
//	src := token.NewMountedSource("", log)
//	jwt, err := src.Token(ctx)
//	if err != nil {
//	    return err
//	}
//	if info, ok := token.Inspect(jwt); ok && info.Expired(time.Now()) {
//	    log.Info("service account token has expired", "expiresAt", info.ExpirationTime)
//	}
package token
