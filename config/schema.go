package config

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// schemaSource constrains every field a junco.toml may set. The
// definition is closed, so unknown sections fail validation.
const schemaSource = `
#Config: {
	heap: {
		"threshold-floor": int & >=1
		"growth-factor":   int & >=2
		"verbose-gc":      bool
	}
	telemetry: {
		enabled: bool
		driver:  "sqlite" | "duckdb"
		path:    string & !=""
	}
	snapshot: {
		dir: string & !=""
	}
}
`

// Validate unifies the configuration with the schema and rejects any
// value outside it. Defaults must already be applied: the schema
// requires every field to be concrete.
func (c *Config) Validate() error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))
	if err := def.Err(); err != nil {
		return fmt.Errorf("lookup schema: %w", err)
	}

	unified := def.Unify(ctx.Encode(c))
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return err
	}
	return nil
}
