package config

import (
	"encoding/base64"
	"encoding/json"
	"path/filepath"
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"
)

func lookupFrom(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestFromEnvironmentAbsent(t *testing.T) {
	cfg, ok, err := FromEnvironment(lookupFrom(nil))
	if err != nil || ok || cfg != nil {
		t.Fatalf("expected no config, got %v %v %v", cfg, ok, err)
	}
}

func TestFromEnvironmentJSON(t *testing.T) {
	want := Default()
	want.Pathfinding.MaxRange = 12
	want.Pathfinding.Doors = "ignore-open"
	data, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}

	cfg, ok, err := FromEnvironment(lookupFrom(map[string]string{EnvConfigJSON: string(data)}))
	if err != nil {
		t.Fatalf("FromEnvironment: %v", err)
	}
	if !ok {
		t.Fatalf("expected config to be found")
	}
	if !reflect.DeepEqual(cfg, want) {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestFromEnvironmentYAML(t *testing.T) {
	want := Default()
	want.Terrain.Seed = 99
	data, err := yaml.Marshal(want)
	if err != nil {
		t.Fatalf("marshal yaml: %v", err)
	}

	cfg, ok, err := FromEnvironment(lookupFrom(map[string]string{
		EnvConfigYAMLB64: base64.StdEncoding.EncodeToString(data),
	}))
	if err != nil || !ok {
		t.Fatalf("FromEnvironment: %v (found %v)", err, ok)
	}
	if !reflect.DeepEqual(cfg, want) {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestFromEnvironmentRejectsBadPayloads(t *testing.T) {
	tests := map[string]map[string]string{
		"bad json":    {EnvConfigJSON: "{"},
		"bad base64":  {EnvConfigYAMLB64: "%%%"},
		"invalid cfg": {EnvConfigJSON: `{"pathfinding":{"maxRange":-1}}`},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			_, ok, err := FromEnvironment(lookupFrom(env))
			if err == nil {
				t.Fatalf("expected error")
			}
			if !ok {
				t.Fatalf("expected payload to be reported as present")
			}
		})
	}
}

func TestWriteFileRoundTrip(t *testing.T) {
	want := Default()
	want.World.ChunksPerAxis = 5
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	if err := WriteFile(path, want); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected config: %+v", got)
	}
}
