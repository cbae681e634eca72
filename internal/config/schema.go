package config

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// GetConfigSchema returns the JSON schema of Config with every nested section
// inlined, so editors can validate a config file without resolving $defs.
func GetConfigSchema() (string, error) {
	r := &jsonschema.Reflector{DoNotReference: true} //nolint:exhaustruct
	s := r.Reflect(Config{})                         //nolint:exhaustruct
	s.Title = "Arena configuration"
	s.Description = "Tournament, price feed, agents, output and API server settings of the arena engine"

	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal config schema: %w", err)
	}

	return string(raw), nil
}
