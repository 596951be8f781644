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

package hashivault_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// recordedRequest is a request seen by fakeVault.
type recordedRequest struct {
	Method    string
	Path      string
	Query     string
	Token     string
	Namespace string
	Body      map[string]interface{}
}

// fakeVault serves the handful of Vault endpoints the plugins use.
type fakeVault struct {
	*httptest.Server

	mu       sync.Mutex
	requests []recordedRequest
	logins   int

	// tokens maps accepted client tokens; revoked ones get 403.
	tokens map[string]bool

	kvV1 map[string]map[string]interface{}
	kvV2 map[string]map[string]interface{}
}

func newFakeVault() *fakeVault {
	fv := &fakeVault{
		tokens: map[string]bool{"root-token": true},
		kvV1:   map[string]map[string]interface{}{},
		kvV2:   map[string]map[string]interface{}{},
	}
	fv.Server = httptest.NewServer(http.HandlerFunc(fv.handle))
	return fv
}

func (fv *fakeVault) Requests() []recordedRequest {
	fv.mu.Lock()
	defer fv.mu.Unlock()
	return append([]recordedRequest(nil), fv.requests...)
}

func (fv *fakeVault) Logins() int {
	fv.mu.Lock()
	defer fv.mu.Unlock()
	return fv.logins
}

func (fv *fakeVault) Revoke(token string) {
	fv.mu.Lock()
	defer fv.mu.Unlock()
	fv.tokens[token] = false
}

func (fv *fakeVault) handle(w http.ResponseWriter, r *http.Request) {
	var body map[string]interface{}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}

	fv.mu.Lock()
	fv.requests = append(fv.requests, recordedRequest{
		Method:    r.Method,
		Path:      r.URL.Path,
		Query:     r.URL.RawQuery,
		Token:     r.Header.Get("X-Vault-Token"),
		Namespace: r.Header.Get("X-Vault-Namespace"),
		Body:      body,
	})
	fv.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/v1/")
	if strings.HasPrefix(path, "auth/") {
		fv.login(w, path, body)
		return
	}

	fv.mu.Lock()
	valid := fv.tokens[r.Header.Get("X-Vault-Token")]
	fv.mu.Unlock()
	if !valid {
		writeJSON(w, http.StatusForbidden, map[string]interface{}{"errors": []string{"permission denied"}})
		return
	}

	switch {
	case r.Method == http.MethodPut || r.Method == http.MethodPost:
		if strings.HasPrefix(path, "ssh/sign/") {
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"data": map[string]interface{}{"signed_key": "ssh-rsa-cert-v01@openssh.com SIGNED"},
			})
			return
		}
	case strings.HasPrefix(path, "secret/data/"):
		if data, ok := fv.kvV2[strings.TrimPrefix(path, "secret/data/")]; ok {
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"data": map[string]interface{}{"data": data, "metadata": map[string]interface{}{"version": 1}},
			})
			return
		}
	default:
		if data, ok := fv.kvV1[path]; ok {
			writeJSON(w, http.StatusOK, map[string]interface{}{"data": data})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]interface{}{"errors": []string{}})
}

func (fv *fakeVault) login(w http.ResponseWriter, path string, body map[string]interface{}) {
	var tok string
	switch {
	case path == "auth/approle/login" && body["role_id"] == "the_role_id" && body["secret_id"] == "the_secret_id":
		tok = "approle-token"
	case path == "auth/custom-approle/login" && body["role_id"] == "the_role_id":
		tok = "custom-token"
	case path == "auth/kubernetes/login" && body["role"] == "the_kubernetes_role" && body["jwt"] == "the_jwt":
		tok = "kubernetes-token"
	case path == "auth/userpass/login/the_username" && body["password"] == "the_password":
		tok = "userpass-token"
	default:
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"errors": []string{"invalid credentials"}})
		return
	}

	fv.mu.Lock()
	fv.logins++
	fv.tokens[tok] = true
	fv.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"auth": map[string]interface{}{"client_token": tok, "lease_duration": 3600, "renewable": true},
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
