package pathfinding

import (
	"errors"
	"fmt"
	"strings"

	"voxelpath/internal/config"
	"voxelpath/internal/world"
)

// ErrInvalidConfig wraps every configuration precondition failure.
var ErrInvalidConfig = errors.New("invalid search configuration")

// DoorMode decides how doorways count toward headroom.
type DoorMode int

const (
	// DoorsOpen treats every door as passable; the entity opens closed ones.
	DoorsOpen DoorMode = iota
	// DoorsIgnoreClosed routes through open doors only.
	DoorsIgnoreClosed
	// DoorsIgnoreOpen treats every door as an obstacle.
	DoorsIgnoreOpen
)

func (m DoorMode) String() string {
	switch m {
	case DoorsOpen:
		return "open"
	case DoorsIgnoreClosed:
		return "ignore-closed"
	case DoorsIgnoreOpen:
		return "ignore-open"
	default:
		return fmt.Sprintf("DoorMode(%d)", int(m))
	}
}

func (m DoorMode) valid() bool {
	return m >= DoorsOpen && m <= DoorsIgnoreOpen
}

// ParseDoorMode parses the labels accepted by the pathfinding.doors setting.
// An empty label selects DoorsOpen.
func ParseDoorMode(value string) (DoorMode, error) {
	switch strings.ToLower(value) {
	case "", "open":
		return DoorsOpen, nil
	case "ignore-closed":
		return DoorsIgnoreClosed, nil
	case "ignore-open":
		return DoorsIgnoreOpen, nil
	default:
		return DoorsOpen, fmt.Errorf("%w: door mode %q is not one of open, ignore-closed, ignore-open", ErrInvalidConfig, value)
	}
}

// Passable reports whether an entity may occupy the block under this mode.
func (m DoorMode) Passable(block world.Block) bool {
	if !block.IsDoor() {
		return block.Transparent()
	}
	switch m {
	case DoorsOpen:
		return true
	case DoorsIgnoreClosed:
		return block.Open
	default:
		return false
	}
}

// Config bounds a single search. Zero MaxIterations and MaxTravelDistance
// mean unlimited.
type Config struct {
	MaxRange          int // horizontal, per axis, relative to the start
	MaxVerticalRange  int
	MaxClimb          int // highest upward step per move
	MaxDrop           int // deepest downward step per move
	MaxIterations     int
	MaxTravelDistance int
	EntityHeight      int
	Doors             DoorMode
}

func DefaultConfig() Config {
	return Config{
		MaxRange:         20,
		MaxVerticalRange: 16,
		MaxClimb:         1,
		MaxDrop:          3,
		EntityHeight:     2,
		Doors:            DoorsOpen,
	}
}

// ConfigFromSettings maps the file-level pathfinding section onto a search config.
func ConfigFromSettings(settings config.PathfindingConfig) (Config, error) {
	doors, err := ParseDoorMode(settings.Doors)
	if err != nil {
		return Config{}, err
	}
	return Config{
		MaxRange:          settings.MaxRange,
		MaxVerticalRange:  settings.MaxVerticalRange,
		MaxClimb:          settings.MaxClimb,
		MaxDrop:           settings.MaxDrop,
		MaxIterations:     settings.MaxIterations,
		MaxTravelDistance: settings.MaxTravelDistance,
		EntityHeight:      settings.EntityHeight,
		Doors:             doors,
	}, nil
}

func (c Config) Validate() error {
	switch {
	case c.MaxRange <= 0:
		return fmt.Errorf("%w: maxRange must be positive", ErrInvalidConfig)
	case c.MaxVerticalRange <= 0:
		return fmt.Errorf("%w: maxVerticalRange must be positive", ErrInvalidConfig)
	case c.EntityHeight <= 0:
		return fmt.Errorf("%w: entityHeight must be positive", ErrInvalidConfig)
	case c.MaxClimb < 0:
		return fmt.Errorf("%w: maxClimb cannot be negative", ErrInvalidConfig)
	case c.MaxDrop < 0:
		return fmt.Errorf("%w: maxDrop cannot be negative", ErrInvalidConfig)
	case c.MaxIterations < 0:
		return fmt.Errorf("%w: maxIterations cannot be negative", ErrInvalidConfig)
	case c.MaxTravelDistance < 0:
		return fmt.Errorf("%w: maxTravelDistance cannot be negative", ErrInvalidConfig)
	case !c.Doors.valid():
		return fmt.Errorf("%w: unknown door mode %d", ErrInvalidConfig, int(c.Doors))
	}
	return nil
}

// inRange reports whether coord lies inside the search box around origin.
func (c Config) inRange(origin, coord world.BlockCoord) bool {
	return abs(coord.X-origin.X) <= c.MaxRange &&
		abs(coord.Z-origin.Z) <= c.MaxRange &&
		abs(coord.Y-origin.Y) <= c.MaxVerticalRange
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
