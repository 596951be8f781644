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

import "maps"

// Input names recognised by the selector.
const (
	InputToken             = "token"
	InputRoleID            = "role_id"
	InputSecretID          = "secret_id"
	InputKubernetesRole    = "kubernetes_role"
	InputClientCertPublic  = "client_cert_public"
	InputClientCertPrivate = "client_cert_private"
	InputClientCertRole    = "client_cert_role"
	InputUsername          = "username"
	InputPassword          = "password"

	// InputAuthPath overrides the mount path of the selected method.
	InputAuthPath = "auth_path"
)

// Request maps input names to values as supplied by the caller.
type Request map[string]string

// Get returns the value of name and whether it is set to a non-empty string.
func (r Request) Get(name string) (string, bool) {
	v, ok := r[name]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Has reports whether every name is set to a non-empty string.
func (r Request) Has(names ...string) bool {
	for _, name := range names {
		if _, ok := r.Get(name); !ok {
			return false
		}
	}
	return true
}

// Clone returns a shallow copy of the request.
func (r Request) Clone() Request {
	if r == nil {
		return Request{}
	}
	return maps.Clone(r)
}

// Params is the login payload sent to the selected auth method's endpoint.
type Params map[string]interface{}
