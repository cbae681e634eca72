package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CheckConfigCompatibility checks whether a tournament config written for
// configVersion can be loaded by an engine at engineVersion.
// Returns nil if compatible, error with details if not.
//
// Compatibility Rules:
//   - If either version is "main" (development build), compatibility check is skipped
//   - An empty config version is treated as "written for this engine"
//   - Major versions must match exactly
//   - The config's minor version must not be newer than the engine's
//   - Patch versions can differ
//
// Examples:
//   - Engine 0.4.0, Config 0.4.0 -> OK (exact match)
//   - Engine 0.4.2, Config 0.4.0 -> OK (patch differs)
//   - Engine 0.4.0, Config 0.3.1 -> OK (older config)
//   - Engine 0.3.0, Config 0.4.0 -> ERROR (config needs newer engine)
//   - Engine 1.0.0, Config 0.4.0 -> ERROR (major differs)
func CheckConfigCompatibility(engineVersion, configVersion string) error {
	engineVersion = strings.TrimPrefix(engineVersion, "v")
	configVersion = strings.TrimPrefix(configVersion, "v")

	if engineVersion == "main" || configVersion == "main" || configVersion == "" {
		return nil
	}

	engineSemver, err := semver.NewVersion(engineVersion)
	if err != nil {
		return fmt.Errorf("invalid engine version '%s': %w", engineVersion, err)
	}

	configSemver, err := semver.NewVersion(configVersion)
	if err != nil {
		return fmt.Errorf("invalid config version '%s': %w", configVersion, err)
	}

	if engineSemver.Major() != configSemver.Major() {
		return fmt.Errorf("major version mismatch: engine is %d.x.x but config requires %d.x.x",
			engineSemver.Major(), configSemver.Major())
	}

	if configSemver.Minor() > engineSemver.Minor() {
		return fmt.Errorf("config requires a newer engine: engine is %d.%d.x but config requires %d.%d.x",
			engineSemver.Major(), engineSemver.Minor(),
			configSemver.Major(), configSemver.Minor())
	}

	return nil
}
