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

// Package logger provides structured logging utilities for the credential plugins.
// It defines standard log fields and helper functions for consistent logging across
// plugins and the Vault client. Secret values must never be passed as log values.
package logger

import (
	"context"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"sigs.k8s.io/controller-runtime/pkg/log"
)

// Standard log field keys for consistent structured logging.
const (
	// KeyPlugin identifies the credential plugin performing the lookup
	KeyPlugin = "plugin"

	// KeyRequestID correlates all log lines of a single lookup
	KeyRequestID = "requestID"

	// KeyAuthMethod identifies the Vault auth method selected for a request
	KeyAuthMethod = "authMethod"

	// KeyVaultPath identifies the Vault path being accessed
	KeyVaultPath = "vaultPath"

	// KeyVaultAddress identifies the Vault server
	KeyVaultAddress = "vaultAddress"

	// KeyOperation identifies the operation being performed (login, read, sign)
	KeyOperation = "operation"

	// KeyDuration records the time taken for an operation
	KeyDuration = "duration"

	// KeyError includes error details
	KeyError = "error"
)

// Operation types for logging
const (
	OpLogin  = "login"
	OpRead   = "read"
	OpSign   = "sign"
	OpLookup = "lookup"
)

// LookupLogger wraps a logr.Logger with context for a single secret lookup.
type LookupLogger struct {
	logr.Logger
	requestID string
	startTime time.Time
}

// NewLookupLogger creates a logger with standard lookup context.
// Each call gets a fresh request ID.
func NewLookupLogger(ctx context.Context, plugin string) *LookupLogger {
	id := uuid.NewString()
	l := log.FromContext(ctx).WithValues(
		KeyPlugin, plugin,
		KeyRequestID, id,
	)

	return &LookupLogger{
		Logger:    l,
		requestID: id,
		startTime: time.Now(),
	}
}

// RequestID returns the correlation ID attached to every log line.
func (l *LookupLogger) RequestID() string {
	return l.requestID
}

// IntoContext stores the lookup logger in ctx so that code further down the
// call chain picks it up through FromContext.
func (l *LookupLogger) IntoContext(ctx context.Context) context.Context {
	return log.IntoContext(ctx, l.Logger)
}

// WithOperation returns a new logger with operation context added.
func (l *LookupLogger) WithOperation(op string) *LookupLogger {
	return &LookupLogger{
		Logger:    l.Logger.WithValues(KeyOperation, op),
		requestID: l.requestID,
		startTime: l.startTime,
	}
}

// WithVaultPath returns a new logger with Vault path context added.
func (l *LookupLogger) WithVaultPath(path string) *LookupLogger {
	return &LookupLogger{
		Logger:    l.Logger.WithValues(KeyVaultPath, path),
		requestID: l.requestID,
		startTime: l.startTime,
	}
}

// Duration returns the elapsed time since the logger was created.
func (l *LookupLogger) Duration() time.Duration {
	return time.Since(l.startTime)
}

// InfoWithDuration logs an info message with the elapsed duration.
func (l *LookupLogger) InfoWithDuration(msg string, keysAndValues ...interface{}) {
	l.Info(msg, append(keysAndValues, KeyDuration, l.Duration().String())...)
}

// ErrorWithDuration logs an error with the elapsed duration.
func (l *LookupLogger) ErrorWithDuration(err error, msg string, keysAndValues ...interface{}) {
	l.Error(err, msg, append(keysAndValues, KeyDuration, l.Duration().String())...)
}

// LogLookupSuccess logs successful completion of a lookup.
func (l *LookupLogger) LogLookupSuccess() {
	l.InfoWithDuration("secret lookup completed")
}

// LogLookupError logs a failed lookup.
func (l *LookupLogger) LogLookupError(err error) {
	l.ErrorWithDuration(err, "secret lookup failed")
}

// FromContext extracts a logger from context with standard fields.
// Falls back to a background logger if none is found.
func FromContext(ctx context.Context, keysAndValues ...interface{}) logr.Logger {
	return log.FromContext(ctx, keysAndValues...)
}

// WithAuthMethod adds auth method context to an existing logger.
func WithAuthMethod(l logr.Logger, method string) logr.Logger {
	return l.WithValues(KeyAuthMethod, method)
}

// WithVaultPath adds Vault path context to an existing logger.
func WithVaultPath(l logr.Logger, path string) logr.Logger {
	return l.WithValues(KeyVaultPath, path)
}

// WithOperation adds operation context to an existing logger.
func WithOperation(l logr.Logger, op string) logr.Logger {
	return l.WithValues(KeyOperation, op)
}

// IntoContext stores l in ctx for retrieval with FromContext.
func IntoContext(ctx context.Context, l logr.Logger) context.Context {
	return log.IntoContext(ctx, l)
}
