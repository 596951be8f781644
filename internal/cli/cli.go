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

// Package cli implements the credential-lookup command.
package cli

import (
	"context"
	"errors"
	goflag "flag"
	"fmt"
	"io"
	"strings"
	"time"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap/zapcore"
	ctrllog "sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/panteparak/credential-plugins/pkg/plugins"
	"github.com/panteparak/credential-plugins/pkg/plugins/builtin"
	"github.com/panteparak/credential-plugins/pkg/plugins/hashivault"
	"github.com/panteparak/credential-plugins/pkg/vault/token"
)

const usage = "credential-lookup --plugin <name> [--input key=value]... [--metadata key=value]... [--file request.yaml]"

// App is the credential-lookup command. Zero values of Stdout and Stderr
// discard output.
type App struct {
	Stdout io.Writer
	Stderr io.Writer

	// Environ returns the process environment as "KEY=value" pairs.
	Environ func() []string

	// Registry overrides the built-in plugins. Used by tests.
	Registry *plugins.Registry
}

type options struct {
	plugin    string
	inputs    []string
	metadata  []string
	file      string
	envFile   string
	list      bool
	describe  bool
	timeout   time.Duration
	tokenPath string
}

// Run parses args (without the program name) and performs one lookup, or
// lists or describes plugins.
func (a *App) Run(ctx context.Context, args []string) error {
	stdout, stderr := orDiscard(a.Stdout), orDiscard(a.Stderr)

	var opts options
	fs := flag.NewFlagSet("credential-lookup", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s\n", usage)
		fs.PrintDefaults()
	}
	fs.StringVarP(&opts.plugin, "plugin", "p", "", "Name of the credential plugin")
	fs.StringArrayVarP(&opts.inputs, "input", "i", nil, "Plugin input as key=value (repeatable)")
	fs.StringArrayVarP(&opts.metadata, "metadata", "m", nil, "Lookup metadata as key=value (repeatable)")
	fs.StringVarP(&opts.file, "file", "f", "", "YAML or JSON request file with plugin, inputs and metadata")
	fs.StringVar(&opts.envFile, "env-file", "", "dotenv file with "+EnvInputPrefix+"* and "+EnvMetadataPrefix+"* variables")
	fs.BoolVar(&opts.list, "list", false, "List available plugins and exit")
	fs.BoolVar(&opts.describe, "describe", false, "Print the input schema of --plugin and exit")
	fs.DurationVar(&opts.timeout, "timeout", 30*time.Second, "Timeout for Vault requests")
	fs.StringVar(&opts.tokenPath, "kubernetes-token-path", token.DefaultServiceAccountTokenPath, "Service account token used for Vault kubernetes auth")

	zapOpts := zap.Options{TimeEncoder: zapcore.ISO8601TimeEncoder}
	goFlags := goflag.NewFlagSet("zap", goflag.ContinueOnError)
	zapOpts.BindFlags(goFlags)
	fs.AddGoFlagSet(goFlags)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	log := zap.New(zap.UseFlagOptions(&zapOpts), zap.WriteTo(stderr))
	ctrllog.SetLogger(log)
	ctx = ctrllog.IntoContext(ctx, log)

	registry := a.Registry
	if registry == nil {
		registry = builtin.NewRegistry(
			hashivault.WithTimeout(opts.timeout),
			hashivault.WithTokenSource(token.NewMountedSource(opts.tokenPath, log)),
		)
	}

	if opts.list {
		fmt.Fprintln(stdout, strings.Join(registry.Names(), "\n"))
		return nil
	}

	req, err := a.buildRequest(opts)
	if err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid request (set the plugin with --plugin, %s or a request file): %w", EnvPlugin, err)
	}

	p, ok := registry.Get(req.Plugin)
	if !ok {
		return fmt.Errorf("unknown plugin %q, available: %s", req.Plugin, strings.Join(registry.Names(), ", "))
	}

	if opts.describe {
		out, err := describe(p)
		if err != nil {
			return err
		}
		_, err = stdout.Write(out)
		return err
	}

	value, err := plugins.Lookup(ctx, p, req.Inputs, req.Metadata)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, value)
	return err
}

// buildRequest merges all request sources. Later sources win: request
// file, env file, process environment, then flags.
func (a *App) buildRequest(opts options) (*LookupRequest, error) {
	req := newLookupRequest()

	if opts.file != "" {
		fileReq, err := readRequestFile(opts.file)
		if err != nil {
			return nil, err
		}
		req.merge(fileReq)
	}

	if opts.envFile != "" {
		envReq, err := readEnvFile(opts.envFile)
		if err != nil {
			return nil, err
		}
		req.merge(envReq)
	}

	if a.Environ != nil {
		req.merge(fromEnv(a.Environ()))
	}

	inputs, err := parsePairs("input", opts.inputs)
	if err != nil {
		return nil, err
	}
	metadata, err := parsePairs("metadata", opts.metadata)
	if err != nil {
		return nil, err
	}
	req.merge(&LookupRequest{Plugin: opts.plugin, Inputs: inputs, Metadata: metadata})

	return req, nil
}

func orDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}
