package tessera

import (
	"errors"
	"fmt"
)

// ErrNotReady is returned by operations that need a loaded WorldMap.
var ErrNotReady = errors.New("tessera: map not ready")

// LoadError reports a terminal failure to fetch or parse a map definition or
// image. An entity whose load failed never becomes ready.
type LoadError struct {
	MapID string // map (or actor) being loaded
	Op    string // "definition", "parse", "spritesheet", "sprite"
	Path  string // asset path, when known
	Err   error
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("tessera: load %s %s (%s): %v", e.MapID, e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("tessera: load %s %s: %v", e.MapID, e.Op, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ConfigError records a missing or invalid map definition field that was
// replaced by a default. It is informational: loading continues.
type ConfigError struct {
	Field   string
	Default int
}

func (e ConfigError) Error() string {
	return fmt.Sprintf("tessera: map field %q missing or invalid, using %d", e.Field, e.Default)
}
