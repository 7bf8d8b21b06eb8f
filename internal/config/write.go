package config

import (
	"fmt"
	"io"
	"os"

	"go.yaml.in/yaml/v3"
)

const fileHeader = "# codectx configuration\n"

// Write serializes cfg as YAML, preceded by a short header comment.
func Write(w io.Writer, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if _, err := io.WriteString(w, fileHeader); err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// WriteConfig writes cfg to the file at path, replacing any existing file.
func WriteConfig(cfg *Config, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, cfg); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
