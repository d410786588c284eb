// Package project loads the optional adac.toml manifest a build runs
// against, the way the teacher's own manifest package loads project
// defaults before CLI flags override them.
package project

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Config is adac.toml's shape. Includes, Target and OutputDir have
// CLI-flag equivalents that, when set, win over the file (see cmd/adac);
// SuppressChecks is read from the file only.
type Config struct {
	// Includes lists additional source directories searched the way -I
	// does, in file order.
	Includes []string `toml:"includes"`
	// Target is the LLVM target triple to emit for; empty uses the
	// compiler's built-in default.
	Target string `toml:"target"`
	// SuppressChecks lists runtime check kinds (by the same spelling as
	// the ExprCheck attribute names). It is loaded and merged only; the
	// IR generator does not read it.
	SuppressChecks []string `toml:"suppress_checks"`
	// OutputDir is where .ali and object output are written.
	OutputDir string `toml:"output_dir"`
}

// Default returns a Config with adac's built-in defaults.
func Default() Config {
	return Config{Target: "x86_64-unknown-linux-gnu", OutputDir: "."}
}

// Load reads path (normally "adac.toml") and merges it over Default.
// A missing file is not an error: a project with no manifest just gets
// the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Merge overlays CLI-supplied overrides onto cfg, returning the result.
// Non-empty Includes in over are appended after cfg's; every other
// non-zero-valued field in over replaces cfg's.
func Merge(cfg Config, over Config) Config {
	out := cfg
	if len(over.Includes) > 0 {
		out.Includes = append(append([]string(nil), cfg.Includes...), over.Includes...)
	}
	if over.Target != "" {
		out.Target = over.Target
	}
	if len(over.SuppressChecks) > 0 {
		out.SuppressChecks = over.SuppressChecks
	}
	if over.OutputDir != "" {
		out.OutputDir = over.OutputDir
	}
	return out
}
