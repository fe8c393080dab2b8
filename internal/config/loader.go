package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const configFile = "jumper.yaml"

// Load loads the jumper configuration.
// Search order: customPath -> ~/.jumper/configs/jumper.yaml -> ./configs/jumper.yaml -> embedded default.
// Fields missing from a file keep their default values.
func Load(customPath string) (JumperConfig, error) {
	cfg := DefaultJumperConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("config: read %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", customPath, err)
		}
		return cfg, cfg.Validate()
	}

	for _, path := range []string{userConfigPath(configFile), filepath.Join("configs", configFile)} {
		if path == "" {
			continue
		}
		if loaded, ok := tryFile(path, cfg); ok {
			return loaded, nil
		}
	}

	// Use embedded default YAML
	embedded := cfg
	if err := yaml.Unmarshal(defaultJumperYAML, &embedded); err != nil || embedded.Validate() != nil {
		return DefaultJumperConfig(), nil // Fallback to hardcoded if embed fails
	}
	return embedded, nil
}

// tryFile overlays a config file on base. Unreadable or invalid files are skipped.
func tryFile(path string, base JumperConfig) (JumperConfig, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, false
	}
	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return base, false
	}
	if cfg.Validate() != nil {
		return base, false
	}
	return cfg, true
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "configs", filename)
}

// Dir returns the per-user data directory (~/.jumper), or empty if home is unavailable.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".jumper")
}
