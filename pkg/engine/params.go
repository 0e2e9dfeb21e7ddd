package engine

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// DecodeParams decodes the engine-specific params map into out.
// Scalars are weakly typed so YAML numbers and booleans can populate
// string fields; unknown keys are rejected.
func DecodeParams(params map[string]any, out any) error {
	if len(params) == 0 {
		return nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return fmt.Errorf("failed to create params decoder: %w", err)
	}
	if err := dec.Decode(params); err != nil {
		return fmt.Errorf("invalid engine params: %w", err)
	}
	return nil
}
