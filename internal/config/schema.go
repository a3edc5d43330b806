// SPDX-License-Identifier: MPL-2.0

package config

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed config_schema.cue
var configSchema string

// ValidateSchema unifies the raw settings map with the embedded #Config
// schema and reports the first violation with its CUE path. The settings
// keys are the lowercase snake_case names used in config files.
func ValidateSchema(settings map[string]any) error {
	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}
	schemaRoot := schemaValue.LookupPath(cue.ParsePath("#Config"))
	if schemaRoot.Err() != nil {
		return fmt.Errorf("internal error: #Config definition not found: %w", schemaRoot.Err())
	}

	data := ctx.Encode(settings)
	if data.Err() != nil {
		return fmt.Errorf("failed to encode config for validation: %w", data.Err())
	}

	unified := schemaRoot.Unify(data)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, cueerrors.Details(err, nil))
	}
	return nil
}
