package config

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned for a file extension other than .toml,
// .yaml or .yml.
var ErrUnknownFormat = errors.New("unknown config format")

// Format is a config file encoding.
type Format int

const (
	TOML Format = iota
	YAML
)

func (f Format) String() string {
	switch f {
	case TOML:
		return "toml"
	case YAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return TOML, nil
	case ".yaml", ".yml":
		return YAML, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
}

// Load reads the file at path over Default and validates the result.
// Fields missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	fp, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer fp.Close()

	cfg, err := Read(bufio.NewReader(fp), format)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return cfg, nil
}

// Read decodes a config over Default and validates it. Unknown fields are
// an error.
func Read(r io.Reader, format Format) (*Config, error) {
	cfg := Default()
	var err error
	switch format {
	case TOML:
		err = toml.NewDecoder(r).DisallowUnknownFields().Decode(cfg)
	case YAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		err = dec.Decode(cfg)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	default:
		err = ErrUnknownFormat
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", format, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	return cfg, nil
}

// Marshal encodes c in the given format.
func (c *Config) Marshal(format Format) ([]byte, error) {
	switch format {
	case TOML:
		var buf bytes.Buffer
		enc := toml.NewEncoder(&buf)
		enc.SetIndentTables(true)
		if err := enc.Encode(c); err != nil {
			return nil, fmt.Errorf("encode toml: %w", err)
		}
		return buf.Bytes(), nil
	case YAML:
		data, err := yaml.Marshal(c)
		if err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return data, nil
	}
	return nil, ErrUnknownFormat
}

// Save writes c to path in the format given by its extension.
func (c *Config) Save(path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := c.Marshal(format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}
