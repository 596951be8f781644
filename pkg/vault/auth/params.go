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

// ApproleAuth returns the AppRole login payload.
func ApproleAuth(roleID, secretID string) Params {
	return Params{
		"role_id":   roleID,
		"secret_id": secretID,
	}
}

// ClientCertAuth returns the TLS certificate login payload.
// A nil role is sent as JSON null so Vault tries every certificate role.
func ClientCertAuth(role *string) Params {
	if role == nil {
		return Params{"name": nil}
	}
	return Params{"name": *role}
}

// UserpassAuth returns the userpass login payload.
func UserpassAuth(username, password string) Params {
	return Params{
		"username": username,
		"password": password,
	}
}
