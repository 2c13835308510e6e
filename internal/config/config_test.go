package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestValidateDefaultConfig(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default configuration should be valid: %v", err)
	}
}

func TestValidateDetectsInvalidConfigurations(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name: "missing chunks per axis",
			mutate: func(cfg *Config) {
				cfg.World.ChunksPerAxis = 0
			},
			wantErr: "world.chunksPerAxis must be positive",
		},
		{
			name: "non positive chunk dimensions",
			mutate: func(cfg *Config) {
				cfg.World.ChunkHeight = 0
			},
			wantErr: "world chunk dimensions must be positive",
		},
		{
			name: "non positive range",
			mutate: func(cfg *Config) {
				cfg.Pathfinding.MaxRange = 0
			},
			wantErr: "pathfinding ranges must be positive",
		},
		{
			name: "non positive entity height",
			mutate: func(cfg *Config) {
				cfg.Pathfinding.EntityHeight = 0
			},
			wantErr: "pathfinding.entityHeight must be positive",
		},
		{
			name: "negative drop",
			mutate: func(cfg *Config) {
				cfg.Pathfinding.MaxDrop = -1
			},
			wantErr: "pathfinding climb/drop cannot be negative",
		},
		{
			name: "negative iterations",
			mutate: func(cfg *Config) {
				cfg.Pathfinding.MaxIterations = -5
			},
			wantErr: "pathfinding limits cannot be negative",
		},
		{
			name: "unknown door mode",
			mutate: func(cfg *Config) {
				cfg.Pathfinding.Doors = "smash"
			},
			wantErr: `pathfinding.doors "smash" is not a known door mode`,
		},
		{
			name: "wall chance above one",
			mutate: func(cfg *Config) {
				cfg.Terrain.WallChance = 1.5
			},
			wantErr: "terrain.wallChance must be within [0,1]",
		},
		{
			name: "negative hut chance",
			mutate: func(cfg *Config) {
				cfg.Terrain.HutChance = -0.1
			},
			wantErr: "terrain.hutChance must be within [0,1]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected an error, got nil")
			}
			if err.Error() != tt.wantErr {
				t.Fatalf("unexpected error: got %q want %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load default config: %v", err)
	}
	if want := Default(); !reflect.DeepEqual(cfg, want) {
		t.Fatalf("default configuration mismatch:\nwant: %#v\n got: %#v", want, cfg)
	}
}

func TestLoadReadsJSONFileAndValidates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := Default()
	cfg.Pathfinding.MaxRange = 32
	cfg.Pathfinding.Doors = "ignore-closed"
	cfg.Profile.RequestTimeout = Duration(time.Second)

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !reflect.DeepEqual(got, cfg) {
		t.Fatalf("loaded configuration mismatch:\nwant: %#v\n got: %#v", cfg, got)
	}
}

func TestLoadReadsYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg := Default()
	cfg.World.ChunksPerAxis = 5
	cfg.Pathfinding.EntityHeight = 3
	cfg.Profile.RequestTimeout = Duration(75 * time.Millisecond)

	data, err := yaml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal yaml: %v", err)
	}
	if !strings.Contains(string(data), "requestTimeout: 75ms") {
		t.Fatalf("expected human readable duration in yaml, got:\n%s", data)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !reflect.DeepEqual(got, cfg) {
		t.Fatalf("loaded configuration mismatch:\nwant: %#v\n got: %#v", cfg, got)
	}
}

func TestLoadPartialYAMLKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "partial.yml")

	body := "pathfinding:\n  maxDrop: 5\n  doors: ignore-open\nprofile:\n  requestTimeout: 2000000\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if got.Pathfinding.MaxDrop != 5 || got.Pathfinding.Doors != "ignore-open" {
		t.Fatalf("pathfinding overrides not applied: %+v", got.Pathfinding)
	}
	if got.Pathfinding.MaxRange != Default().Pathfinding.MaxRange {
		t.Fatalf("expected default range to survive, got %d", got.Pathfinding.MaxRange)
	}
	if got.Profile.RequestTimeout.Duration() != 2*time.Millisecond {
		t.Fatalf("numeric duration = %v, want 2ms", got.Profile.RequestTimeout.Duration())
	}
}

func TestLoadInvalidConfiguration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := Default()
	cfg.World.ChunkWidth = 0

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, err = Load(path)
	if err == nil {
		t.Fatalf("expected load to fail")
	}
	if !strings.Contains(err.Error(), "validate config: world chunk dimensions must be positive") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDurationUnmarshalJSON(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
	}{
		{input: `"150ms"`, want: 150 * time.Millisecond},
		{input: `""`, want: 0},
		{input: `null`, want: 0},
		{input: `1000`, want: time.Microsecond},
	}
	for _, tt := range tests {
		var d Duration
		if err := json.Unmarshal([]byte(tt.input), &d); err != nil {
			t.Fatalf("unmarshal %s: %v", tt.input, err)
		}
		if d.Duration() != tt.want {
			t.Fatalf("unmarshal %s = %v, want %v", tt.input, d.Duration(), tt.want)
		}
	}

	var d Duration
	if err := json.Unmarshal([]byte(`"soon"`), &d); err == nil {
		t.Fatalf("expected parse error for invalid duration")
	}
}
