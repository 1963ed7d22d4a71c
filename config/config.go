// Package config loads project-level defaults for the driver's CLI flags
// from a TOML file, the way the teacher's mods package loaded chai-mod.toml
// module files, scoped down to the handful of settings this lexical core
// actually has defaults for.
package config

import (
	"errors"
	"io/ioutil"
	"os"

	"github.com/pelletier/go-toml"
)

// tomlConfig mirrors cc11.toml's on-disk shape.
type tomlConfig struct {
	Lex *tomlLexConfig `toml:"lex"`
}

type tomlLexConfig struct {
	WarnAsError     bool     `toml:"warn-as-error"`
	SilenceWarnings bool     `toml:"silence-warnings"`
	TabWidth        int      `toml:"tab-width"`
	IncludeDirs     []string `toml:"include-dirs"`
}

// Config holds the resolved defaults a driver invocation starts from,
// before any command-line flag overrides are applied.
type Config struct {
	WarnAsError     bool
	SilenceWarnings bool
	TabWidth        int
	IncludeDirs     []string
}

// Default returns the configuration used when no cc11.toml is present.
func Default() *Config {
	return &Config{TabWidth: 8}
}

// Load reads and parses the TOML file at path. A missing file is not an
// error — it is equivalent to Default() — since a project is not required
// to carry a config file at all.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	defer f.Close()

	buf, err := ioutil.ReadAll(f)
	if err != nil {
		return nil, err
	}

	tc := &tomlConfig{}
	if err := toml.Unmarshal(buf, tc); err != nil {
		return nil, err
	}

	cfg := Default()
	if tc.Lex != nil {
		cfg.WarnAsError = tc.Lex.WarnAsError
		cfg.SilenceWarnings = tc.Lex.SilenceWarnings
		if tc.Lex.TabWidth > 0 {
			cfg.TabWidth = tc.Lex.TabWidth
		}
		cfg.IncludeDirs = tc.Lex.IncludeDirs
	}
	return cfg, nil
}
