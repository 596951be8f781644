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
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/panteparak/credential-plugins/pkg/plugins"
	"github.com/panteparak/credential-plugins/pkg/plugins/hashivault"
	"github.com/panteparak/credential-plugins/pkg/vault"
	"github.com/panteparak/credential-plugins/pkg/vault/token"
	infraerrors "github.com/panteparak/credential-plugins/shared/infrastructure/errors"
)

var _ = Describe("hashivault_kv", func() {
	var (
		fv  *fakeVault
		ctx context.Context
	)

	BeforeEach(func() {
		fv = newFakeVault()
		DeferCleanup(fv.Close)
		ctx = context.Background()

		fv.kvV1["kv/app"] = map[string]interface{}{"password": "v1-password", "port": float64(5432)}
		fv.kvV2["app"] = map[string]interface{}{"password": "v2-password"}
	})

	Describe("schema", func() {
		It("requires url and secret_path", func() {
			schema := hashivault.NewKV().Inputs()
			Expect(schema.Required).To(ConsistOf("url"))
			Expect(schema.RequiredMetadata).To(ConsistOf("secret_path"))
		})

		It("defaults api_version to v1", func() {
			f, ok := hashivault.NewKV().Inputs().Field("api_version")
			Expect(ok).To(BeTrue())
			Expect(f.Default).To(Equal("v1"))
		})

		It("marks credentials as secret", func() {
			schema := hashivault.NewKV().Inputs()
			for _, id := range []string{"token", "secret_id", "password", "client_cert_private"} {
				f, ok := schema.Field(id)
				Expect(ok).To(BeTrue(), id)
				Expect(f.Secret).To(BeTrue(), id)
			}
		})
	})

	Context("with a token", func() {
		It("reads a KV v1 key without logging in", func() {
			value, err := plugins.Lookup(ctx, hashivault.NewKV(),
				plugins.Values{"url": fv.URL, "token": "root-token"},
				plugins.Values{"secret_path": "/kv/app", "secret_key": "password"},
			)
			Expect(err).NotTo(HaveOccurred())
			Expect(value).To(Equal("v1-password"))
			Expect(fv.Logins()).To(BeZero())
		})

		It("renders non-string values as JSON", func() {
			value, err := plugins.Lookup(ctx, hashivault.NewKV(),
				plugins.Values{"url": fv.URL, "token": "root-token"},
				plugins.Values{"secret_path": "kv/app", "secret_key": "port"},
			)
			Expect(err).NotTo(HaveOccurred())
			Expect(value).To(Equal("5432"))
		})

		It("reads a KV v2 key with an explicit backend and version", func() {
			value, err := plugins.Lookup(ctx, hashivault.NewKV(),
				plugins.Values{"url": fv.URL, "token": "root-token", "api_version": "v2", "namespace": "team-a"},
				plugins.Values{"secret_backend": "secret", "secret_path": "app", "secret_key": "password", "secret_version": "3"},
			)
			Expect(err).NotTo(HaveOccurred())
			Expect(value).To(Equal("v2-password"))

			reqs := fv.Requests()
			Expect(reqs).To(HaveLen(1))
			Expect(reqs[0].Path).To(Equal("/v1/secret/data/app"))
			Expect(reqs[0].Query).To(Equal("version=3"))
			Expect(reqs[0].Namespace).To(Equal("team-a"))
		})

		It("returns the whole secret as JSON when no key is given", func() {
			value, err := plugins.Lookup(ctx, hashivault.NewKV(),
				plugins.Values{"url": fv.URL, "token": "root-token", "api_version": "v2"},
				plugins.Values{"secret_path": "secret/app"},
			)
			Expect(err).NotTo(HaveOccurred())
			Expect(value).To(MatchJSON(`{"password":"v2-password"}`))
		})

		It("reports a missing key as not found", func() {
			_, err := plugins.Lookup(ctx, hashivault.NewKV(),
				plugins.Values{"url": fv.URL, "token": "root-token"},
				plugins.Values{"secret_path": "kv/app", "secret_key": "nope"},
			)
			Expect(infraerrors.IsNotFoundError(err)).To(BeTrue())
		})

		It("reports a missing secret as not found", func() {
			_, err := plugins.Lookup(ctx, hashivault.NewKV(),
				plugins.Values{"url": fv.URL, "token": "root-token"},
				plugins.Values{"secret_path": "kv/missing", "secret_key": "password"},
			)
			Expect(infraerrors.IsNotFoundError(err)).To(BeTrue())
		})
	})

	Context("with login credentials", func() {
		It("logs in with approle", func() {
			value, err := plugins.Lookup(ctx, hashivault.NewKV(),
				plugins.Values{"url": fv.URL, "role_id": "the_role_id", "secret_id": "the_secret_id"},
				plugins.Values{"secret_path": "kv/app", "secret_key": "password"},
			)
			Expect(err).NotTo(HaveOccurred())
			Expect(value).To(Equal("v1-password"))

			reqs := fv.Requests()
			Expect(reqs).To(HaveLen(2))
			Expect(reqs[0].Path).To(Equal("/v1/auth/approle/login"))
			Expect(reqs[0].Body).To(Equal(map[string]interface{}{"role_id": "the_role_id", "secret_id": "the_secret_id"}))
			Expect(reqs[1].Token).To(Equal("approle-token"))
		})

		It("uses auth_path from metadata", func() {
			_, err := plugins.Lookup(ctx, hashivault.NewKV(),
				plugins.Values{"url": fv.URL, "role_id": "the_role_id", "secret_id": "x", "auth_path": "ignored"},
				plugins.Values{"secret_path": "kv/app", "secret_key": "password", "auth_path": "custom-approle"},
			)
			Expect(err).NotTo(HaveOccurred())
			Expect(fv.Requests()[0].Path).To(Equal("/v1/auth/custom-approle/login"))
		})

		It("logs in with kubernetes using the injected service account token", func() {
			kv := hashivault.NewKV(hashivault.WithTokenSource(token.StaticSource("the_jwt")))
			value, err := plugins.Lookup(ctx, kv,
				plugins.Values{"url": fv.URL, "kubernetes_role": "the_kubernetes_role"},
				plugins.Values{"secret_path": "kv/app", "secret_key": "password"},
			)
			Expect(err).NotTo(HaveOccurred())
			Expect(value).To(Equal("v1-password"))
			Expect(fv.Requests()[0].Body).To(Equal(map[string]interface{}{"role": "the_kubernetes_role", "jwt": "the_jwt"}))
		})

		It("logs in with userpass", func() {
			value, err := plugins.Lookup(ctx, hashivault.NewKV(),
				plugins.Values{"url": fv.URL, "username": "the_username", "password": "the_password"},
				plugins.Values{"secret_path": "kv/app", "secret_key": "password"},
			)
			Expect(err).NotTo(HaveOccurred())
			Expect(value).To(Equal("v1-password"))
			Expect(fv.Requests()[0].Path).To(Equal("/v1/auth/userpass/login/the_username"))
		})

		It("prefers the token over other credentials", func() {
			_, err := plugins.Lookup(ctx, hashivault.NewKV(),
				plugins.Values{"url": fv.URL, "token": "root-token", "role_id": "the_role_id", "secret_id": "the_secret_id"},
				plugins.Values{"secret_path": "kv/app", "secret_key": "password"},
			)
			Expect(err).NotTo(HaveOccurred())
			Expect(fv.Logins()).To(BeZero())
		})

		It("surfaces rejected logins", func() {
			_, err := plugins.Lookup(ctx, hashivault.NewKV(),
				plugins.Values{"url": fv.URL, "role_id": "the_role_id", "secret_id": "wrong"},
				plugins.Values{"secret_path": "kv/app", "secret_key": "password"},
			)
			Expect(err).To(MatchError(ContainSubstring("approle auth failed")))
		})

		It("fails with a configuration error when no auth group is complete", func() {
			_, err := plugins.Lookup(ctx, hashivault.NewKV(),
				plugins.Values{"url": fv.URL, "role_id": "the_role_id"},
				plugins.Values{"secret_path": "kv/app", "secret_key": "password"},
			)
			Expect(infraerrors.IsConfigurationError(err)).To(BeTrue())
			Expect(fv.Requests()).To(BeEmpty())
		})
	})

	Context("with a client cache", func() {
		var (
			cache *vault.ClientCache
			kv    *hashivault.KVPlugin
			in    plugins.Values
			meta  plugins.Values
		)

		BeforeEach(func() {
			cache = vault.NewClientCache()
			kv = hashivault.NewKV(hashivault.WithClientCache(cache))
			in = plugins.Values{"url": fv.URL, "role_id": "the_role_id", "secret_id": "the_secret_id"}
			meta = plugins.Values{"secret_path": "kv/app", "secret_key": "password"}
		})

		It("reuses the login across lookups", func() {
			for i := 0; i < 3; i++ {
				_, err := plugins.Lookup(ctx, kv, in, meta)
				Expect(err).NotTo(HaveOccurred())
			}
			Expect(fv.Logins()).To(Equal(1))
			Expect(cache.Size()).To(Equal(1))
		})

		It("keeps separate clients for separate credentials", func() {
			_, err := plugins.Lookup(ctx, kv, in, meta)
			Expect(err).NotTo(HaveOccurred())

			_, err = plugins.Lookup(ctx, kv, plugins.Values{"url": fv.URL, "username": "the_username", "password": "the_password"}, meta)
			Expect(err).NotTo(HaveOccurred())

			Expect(cache.Size()).To(Equal(2))
		})

		It("drops a client whose token was revoked", func() {
			_, err := plugins.Lookup(ctx, kv, in, meta)
			Expect(err).NotTo(HaveOccurred())

			fv.Revoke("approle-token")
			_, err = plugins.Lookup(ctx, kv, in, meta)
			Expect(err).To(HaveOccurred())
			Expect(cache.Size()).To(BeZero())

			_, err = plugins.Lookup(ctx, kv, in, meta)
			Expect(err).NotTo(HaveOccurred())
			Expect(fv.Logins()).To(Equal(2))
		})
	})

	It("rejects an unknown api_version", func() {
		_, err := plugins.Lookup(ctx, hashivault.NewKV(),
			plugins.Values{"url": fv.URL, "token": "root-token", "api_version": "v3"},
			plugins.Values{"secret_path": "kv/app"},
		)
		Expect(infraerrors.IsValidationError(err)).To(BeTrue())
	})
})
