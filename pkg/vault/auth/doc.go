/*
Package auth selects and prepares the Vault authentication method for a credential lookup.

A lookup receives a flat set of named inputs. Exactly one group of those inputs
describes how to authenticate, and this package turns the inputs into a Method
value before any network call is made.

# Supported Authentication Methods

Groups are checked in a fixed precedence order. The first complete group wins:

 1. token: token
 2. AppRole: role_id, secret_id
 3. Kubernetes: kubernetes_role (JWT read from the service account token file)
 4. TLS certificate: client_cert_public, client_cert_private, optional client_cert_role
 5. Userpass: username, password

An empty input counts as absent. A request without any complete group is
rejected with a configuration error.

# Common Pattern

	h := auth.NewHandler(vaultClient, nil)
	clientToken, err := h.HandleAuth(ctx, auth.Request{
	    "role_id":   roleID,
	    "secret_id": secretID,
	})

The token method never reaches the authenticator. For every other method the
Handler derives the login parameters and passes them, together with the original
request, to the MethodAuthenticator, which performs the login against Vault.
*/
package auth
