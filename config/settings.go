package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
)

// Settings holds the operator's startup choices. None of it is written back.
type Settings struct {
	// Serial device; empty means pick the first USB port found.
	Port string `toml:"port"`
	// Serial driver: "bugst", "jacobsa" or "tarm".
	Driver string `toml:"driver"`
	// HTTP listen address for the web panel.
	Listen string `toml:"listen"`
	// Control surface: "web" or "tui".
	UI string `toml:"ui"`
	// zerolog level name.
	LogLevel string `toml:"log_level"`
	// Diagnostic log file used by the terminal panel.
	LogFile string `toml:"log_file"`
	// Drive level at startup.
	DriveLevel int `toml:"drive_level"`
}

func DefaultSettings() Settings {
	return Settings{
		Driver:     "bugst",
		Listen:     SERVER_PORT,
		UI:         "web",
		LogLevel:   "info",
		LogFile:    "motor-panel.log",
		DriveLevel: DEFAULT_DRIVE_LEVEL,
	}
}

// LoadSettings reads a TOML settings file on top of the defaults. A missing
// file is not an error.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	if path == "" {
		return s, nil
	}

	if _, err := toml.DecodeFile(path, &s); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultSettings(), nil
		}
		return s, fmt.Errorf("read settings %s: %w", path, err)
	}

	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("settings %s: %w", path, err)
	}
	return s, nil
}

func (s Settings) Validate() error {
	switch s.Driver {
	case "bugst", "jacobsa", "tarm":
	default:
		return fmt.Errorf("unknown driver %q", s.Driver)
	}
	switch s.UI {
	case "web", "tui":
	default:
		return fmt.Errorf("unknown ui %q", s.UI)
	}
	if s.DriveLevel < MIN_LEVEL || s.DriveLevel > MAX_LEVEL {
		return fmt.Errorf("drive_level %d out of range %d-%d", s.DriveLevel, MIN_LEVEL, MAX_LEVEL)
	}
	return nil
}

// Exists reports whether a settings file is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
