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

package azurekv

import (
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/cloud"
)

// Suffixes holds the DNS suffixes of a cloud's data plane services.
type Suffixes struct {
	// KeyVaultDNS is the host suffix of Key Vault endpoints, with leading dot.
	KeyVaultDNS string
}

// Cloud is a named Azure cloud environment.
type Cloud struct {
	Name          string
	Suffixes      Suffixes
	Configuration cloud.Configuration
}

// DefaultCloudName is used when no cloud_name input is given.
const DefaultCloudName = "AzureCloud"

// Clouds lists the Azure clouds the plugin can talk to.
var Clouds = []Cloud{
	{
		Name:          "AzureCloud",
		Suffixes:      Suffixes{KeyVaultDNS: ".vault.azure.net"},
		Configuration: cloud.AzurePublic,
	},
	{
		Name:          "AzureChinaCloud",
		Suffixes:      Suffixes{KeyVaultDNS: ".vault.azure.cn"},
		Configuration: cloud.AzureChina,
	},
	{
		Name:          "AzureUSGovernment",
		Suffixes:      Suffixes{KeyVaultDNS: ".vault.usgovcloudapi.net"},
		Configuration: cloud.AzureGovernment,
	},
}

// CloudNames returns the names of all entries in Clouds.
func CloudNames() []string {
	names := make([]string, 0, len(Clouds))
	for _, c := range Clouds {
		names = append(names, c.Name)
	}
	return names
}

// FindCloud returns the cloud named name.
func FindCloud(name string) (Cloud, bool) {
	for _, c := range Clouds {
		if c.Name == name {
			return c, true
		}
	}
	return Cloud{}, false
}
