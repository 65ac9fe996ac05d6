package registry

import (
	"os"
	"path/filepath"
	"testing"

	"stencil/internal/expand"
	"stencil/internal/token"
)

func passthrough() expand.Routine {
	return expand.Plain(func(in token.Stream) token.Stream { return in })
}

func TestRegistry_Register(t *testing.T) {
	r := New()

	if err := r.Register("echo", expand.Config{Kind: expand.KindFunction}, passthrough()); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := r.Register("echo", expand.Config{Kind: expand.KindFunction}, passthrough()); err == nil {
		t.Error("duplicate registration should fail")
	}
	if err := r.Register("", expand.Config{}, passthrough()); err == nil {
		t.Error("empty name should fail")
	}
	// Configuration is checked at registration, not invocation.
	if err := r.Register("bad", expand.Config{Kind: expand.KindDerive, Seed: expand.SeedFromItem}, passthrough()); err == nil {
		t.Error("invalid config should fail at registration")
	}

	if _, ok := r.Lookup("echo"); !ok {
		t.Error("Lookup(echo) failed")
	}
	if _, ok := r.Lookup("ghost"); ok {
		t.Error("Lookup(ghost) should miss")
	}
	if names := r.Names(); len(names) != 1 || names[0] != "echo" {
		t.Errorf("Names() = %v", names)
	}
}

func TestEntryConfig_Resolve(t *testing.T) {
	tests := []struct {
		name    string
		ec      EntryConfig
		want    expand.Config
		wantErr bool
	}{
		{
			name: "defaults",
			ec:   EntryConfig{},
			want: expand.Config{Kind: expand.KindFunction, Seed: expand.SeedNone},
		},
		{
			name: "attribute from item",
			ec:   EntryConfig{Kind: "attribute", DummySeed: "from_item"},
			want: expand.Config{Kind: expand.KindAttribute, Seed: expand.SeedFromItem},
		},
		{
			name: "function from input",
			ec:   EntryConfig{Kind: "function", DummySeed: "from_input"},
			want: expand.Config{Kind: expand.KindFunction, Seed: expand.SeedFromInput},
		},
		{
			name:    "from_item outside attribute",
			ec:      EntryConfig{Kind: "derive", DummySeed: "from_item"},
			wantErr: true,
		},
		{
			name:    "unknown kind",
			ec:      EntryConfig{Kind: "inline"},
			wantErr: true,
		},
		{
			name:    "unknown seed",
			ec:      EntryConfig{DummySeed: "always"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.ec.Resolve()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Resolve() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Resolve() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	manifest := `
[package]
name = "demo"

[entry.rename]
kind = "attribute"
dummy_seed = "from_item"
`
	if err := os.WriteFile(filepath.Join(dir, ManifestName), []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}

	// Discovery walks up from a nested directory.
	nested := filepath.Join(dir, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	m, ok, err := LoadManifest(nested)
	if err != nil {
		t.Fatalf("LoadManifest() error = %v", err)
	}
	if !ok {
		t.Fatal("manifest not found")
	}
	if m.Config.Package.Name != "demo" {
		t.Errorf("package name = %q", m.Config.Package.Name)
	}

	cfg, err := m.EntryConfigFor("rename")
	if err != nil {
		t.Fatalf("EntryConfigFor() error = %v", err)
	}
	if cfg.Kind != expand.KindAttribute || cfg.Seed != expand.SeedFromItem {
		t.Errorf("cfg = %+v", cfg)
	}

	// Unknown entries resolve to defaults.
	cfg, err = m.EntryConfigFor("missing")
	if err != nil {
		t.Fatalf("EntryConfigFor(missing) error = %v", err)
	}
	if cfg.Kind != expand.KindFunction || cfg.Seed != expand.SeedNone {
		t.Errorf("default cfg = %+v", cfg)
	}
}

func TestLoadManifest_Absent(t *testing.T) {
	_, ok, err := LoadManifest(t.TempDir())
	if err != nil {
		t.Fatalf("LoadManifest() error = %v", err)
	}
	if ok {
		t.Error("manifest reported found in empty dir")
	}
}
