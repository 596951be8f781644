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
	"fmt"

	infraerrors "github.com/panteparak/credential-plugins/shared/infrastructure/errors"
)

// MethodType names a Vault auth method.
type MethodType string

const (
	MethodToken      MethodType = "token"
	MethodAppRole    MethodType = "approle"
	MethodKubernetes MethodType = "kubernetes"
	MethodCert       MethodType = "cert"
	MethodUserpass   MethodType = "userpass"
)

// Method is one of TokenMethod, AppRoleMethod, KubernetesMethod,
// ClientCertMethod or UserpassMethod.
type Method interface {
	// Type returns the Vault auth method name.
	Type() MethodType

	// DefaultMountPath is the mount used when auth_path is not supplied.
	// It is empty for the token method, which never logs in.
	DefaultMountPath() string

	isMethod()
}

// TokenMethod uses a pre-issued Vault token.
type TokenMethod struct {
	Token string
}

// AppRoleMethod logs in with a role ID and secret ID.
type AppRoleMethod struct {
	RoleID   string
	SecretID string
}

// KubernetesMethod logs in with the pod's service account JWT.
type KubernetesMethod struct {
	Role string
}

// ClientCertMethod logs in with a TLS client certificate.
// The certificate itself is presented by the transport, not the payload.
type ClientCertMethod struct {
	PublicCert string
	PrivateKey string

	// Role is the named certificate role; nil lets Vault match any role.
	Role *string
}

// UserpassMethod logs in with a username and password.
type UserpassMethod struct {
	Username string
	Password string
}

func (TokenMethod) Type() MethodType      { return MethodToken }
func (AppRoleMethod) Type() MethodType    { return MethodAppRole }
func (KubernetesMethod) Type() MethodType { return MethodKubernetes }
func (ClientCertMethod) Type() MethodType { return MethodCert }
func (UserpassMethod) Type() MethodType   { return MethodUserpass }

func (TokenMethod) DefaultMountPath() string      { return "" }
func (AppRoleMethod) DefaultMountPath() string    { return "approle" }
func (KubernetesMethod) DefaultMountPath() string { return DefaultKubernetesAuthPath }
func (ClientCertMethod) DefaultMountPath() string { return "cert" }
func (UserpassMethod) DefaultMountPath() string   { return "userpass" }

func (TokenMethod) isMethod()      {}
func (AppRoleMethod) isMethod()    {}
func (KubernetesMethod) isMethod() {}
func (ClientCertMethod) isMethod() {}
func (UserpassMethod) isMethod()   {}

// ParseRequest selects the authentication method described by req.
//
// Groups are tried in the order token, AppRole, Kubernetes, TLS certificate,
// userpass, and the first complete group is returned. Inputs belonging to
// later groups are ignored. When no group is complete the error is a
// *infraerrors.ConfigurationError listing the inputs of the groups that were
// partially supplied.
func ParseRequest(req Request) (Method, error) {
	if t, ok := req.Get(InputToken); ok {
		return TokenMethod{Token: t}, nil
	}

	if req.Has(InputRoleID, InputSecretID) {
		return AppRoleMethod{
			RoleID:   req[InputRoleID],
			SecretID: req[InputSecretID],
		}, nil
	}

	if role, ok := req.Get(InputKubernetesRole); ok {
		return KubernetesMethod{Role: role}, nil
	}

	if req.Has(InputClientCertPublic, InputClientCertPrivate) {
		m := ClientCertMethod{
			PublicCert: req[InputClientCertPublic],
			PrivateKey: req[InputClientCertPrivate],
		}
		if role, ok := req.Get(InputClientCertRole); ok {
			m.Role = &role
		}
		return m, nil
	}

	if req.Has(InputUsername, InputPassword) {
		return UserpassMethod{
			Username: req[InputUsername],
			Password: req[InputPassword],
		}, nil
	}

	return nil, infraerrors.NewConfigurationError(
		"token, AppRole, Kubernetes, TLS certificate or username/password authentication parameters must be set",
		missingInputs(req)...,
	)
}

// missingInputs reports the absent half of every partially supplied group.
func missingInputs(req Request) []string {
	groups := [][]string{
		{InputRoleID, InputSecretID},
		{InputClientCertPublic, InputClientCertPrivate},
		{InputUsername, InputPassword},
	}

	var missing []string
	for _, group := range groups {
		present := false
		for _, name := range group {
			if _, ok := req.Get(name); ok {
				present = true
			}
		}
		if !present {
			continue
		}
		for _, name := range group {
			if _, ok := req.Get(name); !ok {
				missing = append(missing, name)
			}
		}
	}
	return missing
}

// MountPath returns the auth mount for m, honouring the auth_path input.
func MountPath(req Request, m Method) string {
	if p, ok := req.Get(InputAuthPath); ok {
		return p
	}
	return m.DefaultMountPath()
}

// LoginPath returns the Vault API path used to log in with m.
// Userpass appends the username to the login path.
func LoginPath(req Request, m Method) string {
	path := fmt.Sprintf("auth/%s/login", MountPath(req, m))
	if u, ok := m.(UserpassMethod); ok {
		path = fmt.Sprintf("%s/%s", path, u.Username)
	}
	return path
}
