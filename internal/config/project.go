package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	"github.com/goccy/go-yaml"
)

// Version is the version of the front end checked against Project.Requires
const Version = "0.4.0"

var (
	// ErrInvalidOption is returned for unknown option values
	ErrInvalidOption = errors.New("invalid option")
	// ErrUnsupportedFormat is returned for config files that are neither YAML nor TOML
	ErrUnsupportedFormat = errors.New("unsupported config file format")
	// ErrVersionMismatch is returned when Requires does not accept Version
	ErrVersionMismatch = errors.New("front end version does not satisfy requirement")
)

// Project is the content of a luma.yaml or luma.toml file
type Project struct {
	// Requires is a semantic version constraint on the front end, e.g. ">= 0.3".
	Requires          string             `yaml:"requires" toml:"requires"`
	Dialect           Dialect            `yaml:"dialect" toml:"dialect"`
	IntegerOverflow   OverflowPolicy     `yaml:"integer_overflow" toml:"integer_overflow"`
	SpacedStringCalls bool               `yaml:"spaced_string_calls" toml:"spaced_string_calls"`
	SeparatedNumerals *bool              `yaml:"separated_numerals" toml:"separated_numerals"`
	Extensions        map[string]Dialect `yaml:"extensions" toml:"extensions"`
}

// DefaultProject returns the configuration used when no file exists
func DefaultProject() *Project {
	return &Project{
		Dialect: Extended,
		Extensions: map[string]Dialect{
			".lua":  Classic,
			".luma": Extended,
		},
	}
}

// Load reads a project file. A missing file yields DefaultProject.
func Load(path string) (*Project, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultProject(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(path, data)
}

// Parse decodes a project file. The format is chosen by the file extension.
func Parse(path string, data []byte) (*Project, error) {
	p := DefaultProject()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.UnmarshalWithOptions(data, p, yaml.Strict()); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case ".toml":
		md, err := toml.Decode(string(data), p)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("failed to parse config file: unknown key %q", undecoded[0].String())
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	if err := p.CheckVersion(Version); err != nil {
		return nil, err
	}

	return p, nil
}

// CheckVersion verifies that version satisfies Requires
func (p *Project) CheckVersion(version string) error {
	if p.Requires == "" {
		return nil
	}

	constraint, err := semver.NewConstraint(p.Requires)
	if err != nil {
		return fmt.Errorf("%w: requires %q: %v", ErrInvalidOption, p.Requires, err)
	}

	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("%w: version %q: %v", ErrInvalidOption, version, err)
	}

	if !constraint.Check(v) {
		return fmt.Errorf("%w: %s does not satisfy %s", ErrVersionMismatch, v, p.Requires)
	}

	return nil
}

// OptionsFor returns the parse options for a source file. The dialect comes
// from the extension table, falling back to the project dialect.
func (p *Project) OptionsFor(path string) Options {
	d := p.Dialect
	if ext, ok := p.Extensions[strings.ToLower(filepath.Ext(path))]; ok {
		d = ext
	}

	opts := DefaultOptions(d)
	opts.Overflow = p.IntegerOverflow
	opts.SpacedStringCalls = p.SpacedStringCalls
	if p.SeparatedNumerals != nil {
		opts.SeparatedNumerals = *p.SeparatedNumerals
	}

	return opts
}
