/*
Package integration provides testcontainers-based integration testing for the credential plugins.

This file implements the VaultTestContainer wrapper around testcontainers-go's Vault module,
seeding a dev-mode Vault with the auth methods and secrets engines the plugins talk to.
*/
package integration

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/exec"
	"github.com/testcontainers/testcontainers-go/modules/vault"
)

// Fixture values seeded into every container.
const (
	KVv1Mount    = "kv"
	KVv2Mount    = "secret"
	SSHMount     = "ssh-client-signer"
	SSHRole      = "deployer"
	AppRoleName  = "lookup"
	UserpassUser = "lookup-user"
	UserpassPass = "lookup-pass"
	ReaderPolicy = "credential-reader"
)

const readerPolicyHCL = `
path "kv/*" {
  capabilities = ["read"]
}
path "secret/data/*" {
  capabilities = ["read"]
}
path "ssh-client-signer/sign/*" {
  capabilities = ["create", "update"]
}
`

// VaultTestContainer wraps a testcontainers Vault instance with plugin fixtures
type VaultTestContainer struct {
	*vault.VaultContainer
	rootToken string
	address   string
}

// VaultContainerOption configures a VaultTestContainer
type VaultContainerOption func(*vaultContainerOptions)

type vaultContainerOptions struct {
	imageTag       string
	rootToken      string
	logLevel       string
	startupTimeout time.Duration
	initCommands   []string
}

func defaultOptions() *vaultContainerOptions {
	return &vaultContainerOptions{
		imageTag:       "1.17.2",
		rootToken:      "root-token",
		logLevel:       "info",
		startupTimeout: 30 * time.Second,
	}
}

// WithImageTag sets the Vault image tag
func WithImageTag(tag string) VaultContainerOption {
	return func(o *vaultContainerOptions) {
		o.imageTag = tag
	}
}

// WithRootToken sets a custom root token
func WithRootToken(token string) VaultContainerOption {
	return func(o *vaultContainerOptions) {
		o.rootToken = token
	}
}

// WithLogLevel sets Vault log level (trace, debug, info, warn, err)
func WithLogLevel(level string) VaultContainerOption {
	return func(o *vaultContainerOptions) {
		o.logLevel = level
	}
}

// WithStartupTimeout sets custom startup timeout
func WithStartupTimeout(timeout time.Duration) VaultContainerOption {
	return func(o *vaultContainerOptions) {
		o.startupTimeout = timeout
	}
}

// WithInitCommand adds a vault CLI command to run after the fixtures are seeded
func WithInitCommand(cmd string) VaultContainerOption {
	return func(o *vaultContainerOptions) {
		o.initCommands = append(o.initCommands, cmd)
	}
}

// fixtureCommands seed auth methods, engines and secrets.
// Use || true for idempotency where a mount may already exist.
func fixtureCommands() []string {
	escaped := strings.ReplaceAll(readerPolicyHCL, "'", "'\\''")
	return []string{
		fmt.Sprintf("policy write %s - <<'EOF'\n%s\nEOF", ReaderPolicy, escaped),

		fmt.Sprintf("secrets enable -path=%s -version=1 kv || true", KVv1Mount),
		fmt.Sprintf("kv put %s/app password=v1-password username=app", KVv1Mount),
		fmt.Sprintf("kv put %s/app password=v2-password-old", KVv2Mount),
		fmt.Sprintf("kv put %s/app password=v2-password", KVv2Mount),

		"auth enable approle || true",
		fmt.Sprintf("write auth/approle/role/%s token_policies=%s token_ttl=1h", AppRoleName, ReaderPolicy),

		"auth enable userpass || true",
		fmt.Sprintf("write auth/userpass/users/%s password=%s token_policies=%s", UserpassUser, UserpassPass, ReaderPolicy),

		fmt.Sprintf("secrets enable -path=%s ssh || true", SSHMount),
		fmt.Sprintf("write %s/config/ca generate_signing_key=true", SSHMount),
		fmt.Sprintf(`write %s/roles/%s key_type=ca allow_user_certificates=true allowed_users="*" default_user=ubuntu ttl=30m`, SSHMount, SSHRole),
	}
}

// NewVaultTestContainer creates and starts a new Vault test container
func NewVaultTestContainer(ctx context.Context, opts ...VaultContainerOption) (*VaultTestContainer, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	containerOpts := []testcontainers.ContainerCustomizer{
		vault.WithToken(options.rootToken),
	}
	for _, cmd := range append(fixtureCommands(), options.initCommands...) {
		containerOpts = append(containerOpts, vault.WithInitCommand(cmd))
	}
	if options.logLevel != "" {
		containerOpts = append(containerOpts, testcontainers.WithEnv(map[string]string{
			"VAULT_LOG_LEVEL": options.logLevel,
		}))
	}

	startCtx, cancel := context.WithTimeout(ctx, options.startupTimeout)
	defer cancel()

	container, err := vault.Run(startCtx, "hashicorp/vault:"+options.imageTag, containerOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to start vault container: %w", err)
	}

	address, err := container.HttpHostAddress(ctx)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("failed to get vault address: %w", err)
	}

	return &VaultTestContainer{
		VaultContainer: container,
		rootToken:      options.rootToken,
		address:        address,
	}, nil
}

// Address returns the HTTP address of the Vault container
func (v *VaultTestContainer) Address() string {
	return v.address
}

// RootToken returns the root token
func (v *VaultTestContainer) RootToken() string {
	return v.rootToken
}

// Exec executes a vault CLI command inside the container
func (v *VaultTestContainer) Exec(ctx context.Context, cmd []string) (int, string, error) {
	fullCmd := append([]string{"vault"}, cmd...)

	exitCode, reader, err := v.VaultContainer.Exec(ctx, fullCmd, exec.Multiplexed())
	if err != nil {
		return exitCode, "", fmt.Errorf("exec failed: %w", err)
	}

	var output string
	if reader != nil {
		data, err := io.ReadAll(reader)
		if err != nil {
			return exitCode, "", fmt.Errorf("failed to read exec output: %w", err)
		}
		output = string(data)
	}

	return exitCode, output, nil
}

// field runs a vault command with -field and returns the trimmed value
func (v *VaultTestContainer) field(ctx context.Context, args ...string) (string, error) {
	exitCode, output, err := v.Exec(ctx, args)
	if err != nil {
		return "", err
	}
	if exitCode != 0 {
		return "", fmt.Errorf("vault %s failed with exit code %d: %s", strings.Join(args, " "), exitCode, output)
	}
	return strings.TrimSpace(output), nil
}

// AppRoleCredentials returns the role_id and a fresh secret_id of the fixture role
func (v *VaultTestContainer) AppRoleCredentials(ctx context.Context) (string, string, error) {
	roleID, err := v.field(ctx, "read", "-field=role_id", fmt.Sprintf("auth/approle/role/%s/role-id", AppRoleName))
	if err != nil {
		return "", "", err
	}
	secretID, err := v.field(ctx, "write", "-f", "-field=secret_id", fmt.Sprintf("auth/approle/role/%s/secret-id", AppRoleName))
	if err != nil {
		return "", "", err
	}
	return roleID, secretID, nil
}

// RevokeMountTokens revokes every token issued by the auth method mounted at mount
func (v *VaultTestContainer) RevokeMountTokens(ctx context.Context, mount string) error {
	_, err := v.field(ctx, "token", "revoke", "-mode=path", fmt.Sprintf("auth/%s/", mount))
	return err
}

// Health checks if Vault is healthy
func (v *VaultTestContainer) Health(ctx context.Context) (bool, error) {
	exitCode, _, err := v.Exec(ctx, []string{"status"})
	if err != nil {
		return false, err
	}
	// exit code 0 means healthy, initialized, and unsealed
	return exitCode == 0, nil
}

// WaitForHealthy polls Health until Vault reports ready
func (v *VaultTestContainer) WaitForHealthy(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for vault to be healthy")
		case <-ticker.C:
			healthy, err := v.Health(ctx)
			if err == nil && healthy {
				return nil
			}
		}
	}
}

// Terminate stops and removes the container
func (v *VaultTestContainer) Terminate(ctx context.Context) error {
	if v.VaultContainer != nil {
		return v.VaultContainer.Terminate(ctx)
	}
	return nil
}
