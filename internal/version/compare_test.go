package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckConfigCompatibility(t *testing.T) {
	tests := []struct {
		name          string
		engineVersion string
		configVersion string
		expectError   bool
		errorContains string
	}{
		{
			name:          "exact match",
			engineVersion: "0.4.0",
			configVersion: "0.4.0",
			expectError:   false,
		},
		{
			name:          "engine patch higher",
			engineVersion: "0.4.2",
			configVersion: "0.4.0",
			expectError:   false,
		},
		{
			name:          "config patch higher",
			engineVersion: "0.4.0",
			configVersion: "0.4.7",
			expectError:   false,
		},
		{
			name:          "older config minor",
			engineVersion: "0.4.0",
			configVersion: "0.3.1",
			expectError:   false,
		},
		{
			name:          "newer config minor",
			engineVersion: "0.3.0",
			configVersion: "0.4.0",
			expectError:   true,
			errorContains: "config requires a newer engine",
		},
		{
			name:          "major version differs",
			engineVersion: "1.0.0",
			configVersion: "0.4.0",
			expectError:   true,
			errorContains: "major version mismatch",
		},
		{
			name:          "engine is main",
			engineVersion: "main",
			configVersion: "9.9.9",
			expectError:   false,
		},
		{
			name:          "config version omitted",
			engineVersion: "0.4.0",
			configVersion: "",
			expectError:   false,
		},
		{
			name:          "v prefix on both",
			engineVersion: "v0.4.0",
			configVersion: "v0.4.0",
			expectError:   false,
		},
		{
			name:          "prerelease version",
			engineVersion: "0.4.0-alpha",
			configVersion: "0.4.0",
			expectError:   false,
		},
		{
			name:          "invalid engine version",
			engineVersion: "not-a-version",
			configVersion: "0.4.0",
			expectError:   true,
			errorContains: "invalid engine version",
		},
		{
			name:          "invalid config version",
			engineVersion: "0.4.0",
			configVersion: "four",
			expectError:   true,
			errorContains: "invalid config version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckConfigCompatibility(tt.engineVersion, tt.configVersion)

			if tt.expectError {
				require.Error(t, err)
				if tt.errorContains != "" {
					assert.Contains(t, err.Error(), tt.errorContains)
				}
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestGetVersion(t *testing.T) {
	v := GetVersion()
	assert.Equal(t, Version, v)
}
