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

// Package hash provides utilities for calculating content hashes.
// These hashes key cached Vault clients by their connection and credential
// inputs without keeping the raw credentials around as map keys.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
)

// FromBytes calculates a SHA256 hash from bytes.
func FromBytes(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// FromStrings calculates a deterministic SHA256 hash over the given keys of data.
// Keys are sorted first, so the order they are passed in does not matter.
// Absent and empty values hash the same. With no keys every entry is hashed.
// Returns empty string if data is nil.
func FromStrings(data map[string]string, keys ...string) string {
	if data == nil {
		return ""
	}

	if len(keys) == 0 {
		keys = make([]string, 0, len(data))
		for k := range data {
			keys = append(keys, k)
		}
	} else {
		keys = append([]string(nil), keys...)
	}
	sort.Strings(keys)

	ordered := make([][2]string, 0, len(keys))
	for _, k := range keys {
		ordered = append(ordered, [2]string{k, data[k]})
	}

	jsonBytes, err := json.Marshal(ordered)
	if err != nil {
		return ""
	}
	return FromBytes(jsonBytes)
}
