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

package plugins

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"

	infraerrors "github.com/panteparak/credential-plugins/shared/infrastructure/errors"
)

// Field describes a single input or metadata field.
type Field struct {
	ID    string
	Label string
	Help  string

	// Secret fields are masked by callers and never logged.
	Secret bool

	// Multiline fields hold PEM material or other multi-line text.
	Multiline bool

	Default string

	// Rule is an optional go-playground/validator tag applied to non-empty values.
	Rule string
}

// InputSchema lists the fields a plugin accepts.
type InputSchema struct {
	Fields   []Field
	Metadata []Field

	// Required and RequiredMetadata name the fields that must be non-empty.
	Required         []string
	RequiredMetadata []string
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func fieldValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// Field returns the input field with the given ID.
func (s InputSchema) Field(id string) (Field, bool) {
	return findField(s.Fields, id)
}

// MetadataField returns the metadata field with the given ID.
func (s InputSchema) MetadataField(id string) (Field, bool) {
	return findField(s.Metadata, id)
}

func findField(fields []Field, id string) (Field, bool) {
	for _, f := range fields {
		if f.ID == id {
			return f, true
		}
	}
	return Field{}, false
}

// ApplyDefaults returns a copy of inputs with defaults filled in for empty fields.
func (s InputSchema) ApplyDefaults(inputs Values) Values {
	return applyDefaults(s.Fields, inputs)
}

// ApplyMetadataDefaults returns a copy of metadata with defaults filled in for empty fields.
func (s InputSchema) ApplyMetadataDefaults(metadata Values) Values {
	return applyDefaults(s.Metadata, metadata)
}

func applyDefaults(fields []Field, values Values) Values {
	out := make(Values, len(values)+len(fields))
	for k, v := range values {
		out[k] = v
	}
	for _, f := range fields {
		if f.Default != "" && out[f.ID] == "" {
			out[f.ID] = f.Default
		}
	}
	return out
}

// Validate checks that every required field is present and that set values
// satisfy their field rules. Missing fields are reported together in a single
// ConfigurationError; the first rule violation is reported as a ValidationError.
func (s InputSchema) Validate(inputs, metadata Values) error {
	var missing []string
	for _, id := range s.Required {
		if inputs.Get(id) == "" {
			missing = append(missing, id)
		}
	}
	for _, id := range s.RequiredMetadata {
		if metadata.Get(id) == "" {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return infraerrors.NewConfigurationError("required fields not provided", missing...)
	}

	if err := checkRules(s.Fields, inputs); err != nil {
		return err
	}
	return checkRules(s.Metadata, metadata)
}

func checkRules(fields []Field, values Values) error {
	v := fieldValidator()
	for _, f := range fields {
		value := values.Get(f.ID)
		if f.Rule == "" || value == "" {
			continue
		}
		if err := v.Var(value, f.Rule); err != nil {
			shown := value
			if f.Secret {
				shown = "<redacted>"
			}
			return infraerrors.NewValidationError(f.ID, shown, fmt.Sprintf("must satisfy %q", f.Rule))
		}
	}
	return nil
}
