package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"stencil/internal/expand"
)

// ManifestName is the configuration file discovered by walking up from the
// working directory.
const ManifestName = "stencil.toml"

// Manifest is a loaded stencil.toml plus its location.
type Manifest struct {
	Path   string
	Root   string
	Config ManifestConfig
}

// ManifestConfig mirrors the TOML structure.
type ManifestConfig struct {
	Package PackageConfig          `toml:"package"`
	Entries map[string]EntryConfig `toml:"entry"`
}

// PackageConfig names the project the manifest belongs to.
type PackageConfig struct {
	Name string `toml:"name"`
}

// EntryConfig is the per-entry section:
//
//	[entry.rename]
//	kind = "attribute"
//	dummy_seed = "from_item"
type EntryConfig struct {
	Kind      string `toml:"kind"`
	DummySeed string `toml:"dummy_seed"`
}

// Resolve parses the textual configuration into the adapter's immutable
// Config, applying defaults: function kind, no dummy seeding.
func (ec EntryConfig) Resolve() (expand.Config, error) {
	cfg := expand.Config{}

	switch ec.Kind {
	case "", "function":
		cfg.Kind = expand.KindFunction
	case "attribute":
		cfg.Kind = expand.KindAttribute
	case "derive":
		cfg.Kind = expand.KindDerive
	default:
		return cfg, fmt.Errorf("registry: unknown entry kind %q", ec.Kind)
	}

	switch ec.DummySeed {
	case "", "none":
		cfg.Seed = expand.SeedNone
	case "from_input":
		cfg.Seed = expand.SeedFromInput
	case "from_item":
		cfg.Seed = expand.SeedFromItem
	default:
		return cfg, fmt.Errorf("registry: unknown dummy_seed %q", ec.DummySeed)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// FindManifest walks up from startDir looking for stencil.toml.
func FindManifest(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadManifest finds and decodes the nearest manifest. The second return is
// false when none exists between startDir and the filesystem root.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	m, err := LoadManifestFile(path)
	if err != nil {
		return nil, true, err
	}
	return m, true, nil
}

// LoadManifestFile decodes one explicit manifest file.
func LoadManifestFile(path string) (*Manifest, error) {
	var cfg ManifestConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode %q: %w", path, err)
	}
	return &Manifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
	}, nil
}

// EntryConfigFor resolves the manifest section for name, falling back to
// defaults when the manifest has no section for it.
func (m *Manifest) EntryConfigFor(name string) (expand.Config, error) {
	if m == nil {
		return EntryConfig{}.Resolve()
	}
	return m.Config.Entries[name].Resolve()
}
