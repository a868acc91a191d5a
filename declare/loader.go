package declare

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"supermodeler/modeler"
)

// CurrentVersion is the declaration format version written by this package.
const CurrentVersion = "1"

// LoadFile loads and parses a YAML declaration file from the given path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read declaration file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a File.
func Parse(data []byte) (*File, error) {
	var f File

	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse declaration YAML: %w", err)
	}

	applyDefaults(&f)

	return &f, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(f *File) {
	if f.Version == "" {
		f.Version = CurrentVersion
	}
}

// Marshal serializes a File to YAML.
func Marshal(f *File) ([]byte, error) {
	return yaml.Marshal(f)
}

// WriteFile writes a File to the given path.
func WriteFile(f *File, path string) error {
	data, err := Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal declarations: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write declaration file %s: %w", path, err)
	}

	return nil
}

// Load reads path, checks it and applies it to reg. Check errors are
// returned as one combined error and nothing is registered.
func Load(reg *modeler.Registry, path string, funcs *Funcs) error {
	f, err := LoadFile(path)
	if err != nil {
		return err
	}

	if err := Check(f, funcs, reg.Validators()).Error(); err != nil {
		return fmt.Errorf("invalid declaration file %s: %w", path, err)
	}

	return Apply(reg, f, funcs)
}
