package provider

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// DecodeConfig decodes a factory's generic config map into out, a pointer to
// a struct with mapstructure tags. Duration strings such as "90s" are
// accepted, and numeric strings convert to numbers.
func DecodeConfig(cfg map[string]any, out any) error {
	if cfg == nil {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("provider: config decoder: %w", err)
	}
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("provider: decode config: %w", err)
	}
	return nil
}
