package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a config-friendly wrapper around time.Duration that accepts
// human readable strings such as "150ms" in both JSON and YAML files while
// still allowing numeric nanosecond values.
type Duration time.Duration

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// MarshalJSON encodes the duration using the canonical string representation.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON decodes a duration from either a string (e.g. "250ms") or a
// numeric value representing nanoseconds. Empty strings and null values decode
// to zero.
func (d *Duration) UnmarshalJSON(b []byte) error {
	if len(b) == 0 {
		return fmt.Errorf("duration: empty value")
	}
	if string(b) == "null" {
		*d = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("duration: decode string: %w", err)
		}
		return d.parse(s)
	}
	var n int64
	if err := json.Unmarshal(b, &n); err == nil {
		*d = Duration(time.Duration(n))
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*d = Duration(time.Duration(f))
		return nil
	}
	return fmt.Errorf("duration: invalid value %s", string(b))
}

// MarshalYAML encodes the duration as its string form.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML accepts the same forms as UnmarshalJSON.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("duration: expected scalar at line %d", value.Line)
	}
	if value.ShortTag() == "!!int" {
		var n int64
		if err := value.Decode(&n); err != nil {
			return fmt.Errorf("duration: decode int: %w", err)
		}
		*d = Duration(time.Duration(n))
		return nil
	}
	if value.ShortTag() == "!!null" {
		*d = 0
		return nil
	}
	return d.parse(value.Value)
}

func (d *Duration) parse(s string) error {
	if s == "" {
		*d = 0
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("duration: parse %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config captures the tunable parameters for the world model, the search
// engine and the profiling tool.
type Config struct {
	World       WorldConfig       `json:"world" yaml:"world"`
	Pathfinding PathfindingConfig `json:"pathfinding" yaml:"pathfinding"`
	Terrain     TerrainConfig     `json:"terrain" yaml:"terrain"`
	Profile     ProfileConfig     `json:"profile" yaml:"profile"`
}

type WorldConfig struct {
	ChunkOrigin   ChunkIndex `json:"chunkOrigin" yaml:"chunkOrigin"`
	ChunksPerAxis int        `json:"chunksPerAxis" yaml:"chunksPerAxis"`
	ChunkWidth    int        `json:"chunkWidth" yaml:"chunkWidth"`
	ChunkDepth    int        `json:"chunkDepth" yaml:"chunkDepth"`
	ChunkHeight   int        `json:"chunkHeight" yaml:"chunkHeight"`
}

type ChunkIndex struct {
	X int `json:"x" yaml:"x"`
	Z int `json:"z" yaml:"z"`
}

// PathfindingConfig mirrors the search engine configuration. Zero iteration
// and travel limits mean unlimited.
type PathfindingConfig struct {
	MaxRange          int    `json:"maxRange" yaml:"maxRange"`
	MaxVerticalRange  int    `json:"maxVerticalRange" yaml:"maxVerticalRange"`
	MaxClimb          int    `json:"maxClimb" yaml:"maxClimb"`
	MaxDrop           int    `json:"maxDrop" yaml:"maxDrop"`
	MaxIterations     int    `json:"maxIterations" yaml:"maxIterations"`
	MaxTravelDistance int    `json:"maxTravelDistance" yaml:"maxTravelDistance"`
	EntityHeight      int    `json:"entityHeight" yaml:"entityHeight"`
	Doors             string `json:"doors" yaml:"doors"` // open | ignore-closed | ignore-open
}

type TerrainConfig struct {
	Seed        int64   `json:"seed" yaml:"seed"`
	BaseHeight  int     `json:"baseHeight" yaml:"baseHeight"`
	Frequency   float64 `json:"frequency" yaml:"frequency"`
	Amplitude   float64 `json:"amplitude" yaml:"amplitude"`
	Octaves     int     `json:"octaves" yaml:"octaves"`
	Persistence float64 `json:"persistence" yaml:"persistence"`
	Lacunarity  float64 `json:"lacunarity" yaml:"lacunarity"`
	WallChance  float64 `json:"wallChance" yaml:"wallChance"`
	// HutChance is the per-chunk probability of a hollow hut with a door.
	HutChance   float64 `json:"hutChance" yaml:"hutChance"`
}

type ProfileConfig struct {
	Requests       int      `json:"requests" yaml:"requests"`
	Concurrency    int      `json:"concurrency" yaml:"concurrency"`
	RequestTimeout Duration `json:"requestTimeout" yaml:"requestTimeout"`
	Seed           int64    `json:"seed" yaml:"seed"`
}

// Load reads configuration from a JSON or YAML file if provided. The format
// follows the file extension; anything other than .yaml/.yml is parsed as
// JSON. An empty path returns defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func Default() *Config {
	return &Config{
		World: WorldConfig{
			ChunkOrigin:   ChunkIndex{X: 0, Z: 0},
			ChunksPerAxis: 3,
			ChunkWidth:    32,
			ChunkDepth:    32,
			ChunkHeight:   64,
		},
		Pathfinding: PathfindingConfig{
			MaxRange:          20,
			MaxVerticalRange:  16,
			MaxClimb:          1,
			MaxDrop:           3,
			MaxIterations:     0,
			MaxTravelDistance: 0,
			EntityHeight:      2,
			Doors:             "open",
		},
		Terrain: TerrainConfig{
			Seed:        1337,
			BaseHeight:  16,
			Frequency:   0.04,
			Amplitude:   6,
			Octaves:     3,
			Persistence: 0.5,
			Lacunarity:  2.0,
			WallChance:  0.04,
			HutChance:   0.25,
		},
		Profile: ProfileConfig{
			Requests:       2000,
			Concurrency:    4,
			RequestTimeout: Duration(250 * time.Millisecond),
			Seed:           1337,
		},
	}
}

func (c *Config) Validate() error {
	if c.World.ChunksPerAxis <= 0 {
		return errors.New("world.chunksPerAxis must be positive")
	}
	if c.World.ChunkWidth <= 0 || c.World.ChunkDepth <= 0 || c.World.ChunkHeight <= 0 {
		return errors.New("world chunk dimensions must be positive")
	}
	p := c.Pathfinding
	if p.MaxRange <= 0 || p.MaxVerticalRange <= 0 {
		return errors.New("pathfinding ranges must be positive")
	}
	if p.EntityHeight <= 0 {
		return errors.New("pathfinding.entityHeight must be positive")
	}
	if p.MaxClimb < 0 || p.MaxDrop < 0 {
		return errors.New("pathfinding climb/drop cannot be negative")
	}
	if p.MaxIterations < 0 || p.MaxTravelDistance < 0 {
		return errors.New("pathfinding limits cannot be negative")
	}
	switch strings.ToLower(p.Doors) {
	case "", "open", "ignore-closed", "ignore-open":
	default:
		return fmt.Errorf("pathfinding.doors %q is not a known door mode", p.Doors)
	}
	if c.Terrain.Octaves < 0 {
		return errors.New("terrain.octaves cannot be negative")
	}
	if c.Terrain.WallChance < 0 || c.Terrain.WallChance > 1 {
		return errors.New("terrain.wallChance must be within [0,1]")
	}
	if c.Terrain.HutChance < 0 || c.Terrain.HutChance > 1 {
		return errors.New("terrain.hutChance must be within [0,1]")
	}
	if c.Profile.Requests < 0 || c.Profile.Concurrency < 0 {
		return errors.New("profile requests/concurrency cannot be negative")
	}
	return nil
}
