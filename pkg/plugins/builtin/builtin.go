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

// Package builtin assembles a registry with every credential plugin.
package builtin

import (
	"github.com/panteparak/credential-plugins/pkg/plugins"
	"github.com/panteparak/credential-plugins/pkg/plugins/azurekv"
	"github.com/panteparak/credential-plugins/pkg/plugins/dsv"
	"github.com/panteparak/credential-plugins/pkg/plugins/hashivault"
	"github.com/panteparak/credential-plugins/pkg/plugins/tss"
)

// NewRegistry returns a registry holding all built-in plugins. The options
// apply to both Vault plugins.
func NewRegistry(opts ...hashivault.Option) *plugins.Registry {
	r := plugins.NewRegistry()
	r.MustRegister(
		hashivault.NewKV(opts...),
		hashivault.NewSSH(opts...),
		azurekv.New(),
		dsv.New(),
		tss.New(),
	)
	return r
}
