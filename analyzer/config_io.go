package analyzer

import "gopkg.in/yaml.v3"

// LoadConfigYAML decodes a Config from YAML, starting from DefaultConfig so
// a file that only overrides one field still gets sane values for the
// rest.
func LoadConfigYAML(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// MarshalConfigYAML renders cfg back to YAML, used by debug tooling that
// dumps the effective configuration a run was invoked with.
func MarshalConfigYAML(cfg Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}
