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

// Package errors provides domain-specific error types for the credential plugins.
// These errors separate caller mistakes (missing or conflicting inputs) from
// backend failures so the CLI and embedding programs can report them differently.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ConfigurationError indicates the supplied inputs do not describe a usable
// configuration, for example when no authentication method can be selected.
// Retrying won't help without user correction.
type ConfigurationError struct {
	Message string   // What is wrong
	Missing []string // Input names that would have made the configuration usable
}

func (e *ConfigurationError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("configuration error: %s (missing: %s)", e.Message, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// NewConfigurationError creates a ConfigurationError.
func NewConfigurationError(message string, missing ...string) *ConfigurationError {
	return &ConfigurationError{
		Message: message,
		Missing: missing,
	}
}

// IsConfigurationError returns true if the error is a ConfigurationError.
func IsConfigurationError(err error) bool {
	var configErr *ConfigurationError
	return errors.As(err, &configErr)
}

// ValidationError indicates an input is present but has an invalid value.
type ValidationError struct {
	Field   string // The input that failed validation
	Value   string // The invalid value (redacted for secret inputs)
	Message string // Why validation failed
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error on %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NewValidationError creates a ValidationError.
func NewValidationError(field, value, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// IsValidationError returns true if the error is a ValidationError.
func IsValidationError(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// NotFoundError indicates the backend returned a secret but it does not
// contain the requested key or field.
type NotFoundError struct {
	Provider string // e.g., "hashivault_kv", "azure_kv"
	Key      string // The key, field or path that was requested
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("secret not found: %s in %s", e.Key, e.Provider)
}

// NewNotFoundError creates a NotFoundError.
func NewNotFoundError(provider, key string) *NotFoundError {
	return &NotFoundError{
		Provider: provider,
		Key:      key,
	}
}

// IsNotFoundError returns true if the error is a NotFoundError.
func IsNotFoundError(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// BackendError indicates a call to an external secret backend failed.
type BackendError struct {
	Provider  string // Backend that failed
	Operation string // What operation was attempted
	Cause     error  // The underlying error
}

func (e *BackendError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s failed: %v", e.Provider, e.Operation, e.Cause)
	}
	return fmt.Sprintf("%s: %s failed", e.Provider, e.Operation)
}

// Unwrap returns the underlying cause for errors.As/Is support.
func (e *BackendError) Unwrap() error {
	return e.Cause
}

// NewBackendError creates a BackendError.
func NewBackendError(provider, operation string, cause error) *BackendError {
	return &BackendError{
		Provider:  provider,
		Operation: operation,
		Cause:     cause,
	}
}

// IsBackendError returns true if the error is a BackendError.
func IsBackendError(err error) bool {
	var backendErr *BackendError
	return errors.As(err, &backendErr)
}
