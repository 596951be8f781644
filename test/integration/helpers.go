/*
Package integration provides testcontainers-based integration testing for the credential plugins.

This file exports test helpers for use by subpackages.
*/
package integration

import (
	"os/exec"
)

// IsDockerAvailable checks if Docker daemon is running and accessible.
// Returns true if Docker is available, false otherwise.
func IsDockerAvailable() bool {
	cmd := exec.Command("docker", "info")
	err := cmd.Run()
	return err == nil
}
