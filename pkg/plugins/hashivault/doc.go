// Package hashivault implements the HashiCorp Vault credential plugins:
// hashivault_kv reads a value from a KV secrets engine and hashivault_ssh
// signs an SSH public key. Both share the same connection and auth inputs,
// and the auth method is picked from those inputs by pkg/vault/auth.
package hashivault
