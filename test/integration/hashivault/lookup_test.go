//go:build integration

package hashivault

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/panteparak/credential-plugins/pkg/plugins"
	"github.com/panteparak/credential-plugins/pkg/plugins/hashivault"
	"github.com/panteparak/credential-plugins/pkg/vault"
	infraerrors "github.com/panteparak/credential-plugins/shared/infrastructure/errors"
	"github.com/panteparak/credential-plugins/test/integration"
)

var _ = Describe("Vault credential plugins", func() {
	var url string

	BeforeEach(func() {
		url = container.Address()
	})

	Describe("hashivault_kv", func() {
		It("reads a KV v1 secret with the root token", func() {
			value, err := plugins.Lookup(ctx, hashivault.NewKV(),
				plugins.Values{"url": url, "token": container.RootToken()},
				plugins.Values{"secret_path": integration.KVv1Mount + "/app", "secret_key": "username"},
			)
			Expect(err).NotTo(HaveOccurred())
			Expect(value).To(Equal("app"))
		})

		It("reads the latest and a pinned KV v2 version", func() {
			in := plugins.Values{"url": url, "token": container.RootToken(), "api_version": "v2"}

			latest, err := plugins.Lookup(ctx, hashivault.NewKV(), in,
				plugins.Values{"secret_path": integration.KVv2Mount + "/app", "secret_key": "password"},
			)
			Expect(err).NotTo(HaveOccurred())
			Expect(latest).To(Equal("v2-password"))

			first, err := plugins.Lookup(ctx, hashivault.NewKV(), in,
				plugins.Values{"secret_path": integration.KVv2Mount + "/app", "secret_key": "password", "secret_version": "1"},
			)
			Expect(err).NotTo(HaveOccurred())
			Expect(first).To(Equal("v2-password-old"))
		})

		It("logs in with approle", func() {
			roleID, secretID, err := container.AppRoleCredentials(ctx)
			Expect(err).NotTo(HaveOccurred())

			value, err := plugins.Lookup(ctx, hashivault.NewKV(),
				plugins.Values{"url": url, "role_id": roleID, "secret_id": secretID},
				plugins.Values{"secret_path": integration.KVv1Mount + "/app", "secret_key": "password"},
			)
			Expect(err).NotTo(HaveOccurred())
			Expect(value).To(Equal("v1-password"))
		})

		It("logs in with userpass", func() {
			value, err := plugins.Lookup(ctx, hashivault.NewKV(),
				plugins.Values{"url": url, "username": integration.UserpassUser, "password": integration.UserpassPass},
				plugins.Values{"secret_path": integration.KVv1Mount + "/app", "secret_key": "password"},
			)
			Expect(err).NotTo(HaveOccurred())
			Expect(value).To(Equal("v1-password"))
		})

		It("rejects bad userpass credentials", func() {
			_, err := plugins.Lookup(ctx, hashivault.NewKV(),
				plugins.Values{"url": url, "username": integration.UserpassUser, "password": "wrong"},
				plugins.Values{"secret_path": integration.KVv1Mount + "/app", "secret_key": "password"},
			)
			Expect(err).To(MatchError(ContainSubstring("userpass auth failed")))
		})

		It("reports missing keys as not found", func() {
			_, err := plugins.Lookup(ctx, hashivault.NewKV(),
				plugins.Values{"url": url, "token": container.RootToken()},
				plugins.Values{"secret_path": integration.KVv1Mount + "/app", "secret_key": "nope"},
			)
			Expect(infraerrors.IsNotFoundError(err)).To(BeTrue())
		})

		It("logs in again after a cached token is revoked", func() {
			cache := vault.NewClientCache()
			kv := hashivault.NewKV(hashivault.WithClientCache(cache))
			in := plugins.Values{"url": url, "username": integration.UserpassUser, "password": integration.UserpassPass}
			meta := plugins.Values{"secret_path": integration.KVv1Mount + "/app", "secret_key": "password"}

			_, err := plugins.Lookup(ctx, kv, in, meta)
			Expect(err).NotTo(HaveOccurred())
			Expect(cache.Size()).To(Equal(1))

			Expect(container.RevokeMountTokens(ctx, "userpass")).To(Succeed())

			_, err = plugins.Lookup(ctx, kv, in, meta)
			Expect(err).To(HaveOccurred())
			Expect(cache.Size()).To(BeZero())

			_, err = plugins.Lookup(ctx, kv, in, meta)
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("hashivault_ssh", func() {
		It("signs a public key", func() {
			signed, err := plugins.Lookup(ctx, hashivault.NewSSH(),
				plugins.Values{"url": url, "username": integration.UserpassUser, "password": integration.UserpassPass},
				plugins.Values{
					"public_key":  testPublicKey,
					"secret_path": integration.SSHMount,
					"role":        integration.SSHRole,
				},
			)
			Expect(err).NotTo(HaveOccurred())
			Expect(strings.HasPrefix(signed, "ssh-ed25519-cert-v01@openssh.com ")).To(BeTrue(), signed)
		})
	})
})

const testPublicKey = "ssh-ed25519 AAAAC3NzaC1lZDI1NTE5AAAAIOMqqnkVzrm0SdG6UOoqKLsabgH5C9okWi0dh2l9GKJl test@example"
