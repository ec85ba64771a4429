package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv overrides fields whose AF4BRIDGE_* variable is set; unset
// variables leave the current value alone.
func parseEnv(target *Bridge) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
