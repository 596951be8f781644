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
	infraerrors "github.com/panteparak/credential-plugins/shared/infrastructure/errors"
)

var _ = Describe("hashivault_ssh", func() {
	var (
		fv  *fakeVault
		ctx context.Context
	)

	BeforeEach(func() {
		fv = newFakeVault()
		DeferCleanup(fv.Close)
		ctx = context.Background()
	})

	It("requires the public key, mount and role", func() {
		schema := hashivault.NewSSH().Inputs()
		Expect(schema.RequiredMetadata).To(ConsistOf("public_key", "secret_path", "role"))

		_, err := plugins.Lookup(ctx, hashivault.NewSSH(),
			plugins.Values{"url": fv.URL, "token": "root-token"},
			plugins.Values{"secret_path": "ssh"},
		)
		Expect(infraerrors.IsConfigurationError(err)).To(BeTrue())
	})

	It("signs the public key", func() {
		signed, err := plugins.Lookup(ctx, hashivault.NewSSH(),
			plugins.Values{"url": fv.URL, "token": "root-token"},
			plugins.Values{
				"public_key":       "ssh-rsa AAAA",
				"secret_path":      "/ssh/",
				"role":             "deployer",
				"valid_principals": "ubuntu,ec2-user",
			},
		)
		Expect(err).NotTo(HaveOccurred())
		Expect(signed).To(Equal("ssh-rsa-cert-v01@openssh.com SIGNED"))

		reqs := fv.Requests()
		Expect(reqs).To(HaveLen(1))
		Expect(reqs[0].Path).To(Equal("/v1/ssh/sign/deployer"))
		Expect(reqs[0].Body).To(HaveKeyWithValue("public_key", "ssh-rsa AAAA"))
		Expect(reqs[0].Body).To(HaveKeyWithValue("valid_principals", "ubuntu,ec2-user"))
	})

	It("omits valid_principals when not set", func() {
		_, err := plugins.Lookup(ctx, hashivault.NewSSH(),
			plugins.Values{"url": fv.URL, "username": "the_username", "password": "the_password"},
			plugins.Values{"public_key": "ssh-rsa AAAA", "secret_path": "ssh", "role": "deployer"},
		)
		Expect(err).NotTo(HaveOccurred())

		reqs := fv.Requests()
		Expect(reqs).To(HaveLen(2))
		Expect(reqs[1].Body).NotTo(HaveKey("valid_principals"))
	})

	It("surfaces permission errors", func() {
		_, err := plugins.Lookup(ctx, hashivault.NewSSH(),
			plugins.Values{"url": fv.URL, "token": "bogus"},
			plugins.Values{"public_key": "ssh-rsa AAAA", "secret_path": "ssh", "role": "deployer"},
		)
		Expect(err).To(MatchError(ContainSubstring("permission denied")))
	})
})
