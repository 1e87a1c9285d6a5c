package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "motor-panel.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadSettingsMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.toml")
	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != DefaultSettings() {
		t.Errorf("got %+v, want defaults", s)
	}
	if Exists(path) {
		t.Error("Exists reported a missing file")
	}

	if s, err := LoadSettings(""); err != nil || s != DefaultSettings() {
		t.Errorf("empty path: %+v, %v", s, err)
	}
}

func TestLoadSettingsOverrides(t *testing.T) {
	path := writeFile(t, `
port = "/dev/ttyUSB3"
driver = "tarm"
ui = "tui"
drive_level = 200
`)
	s, err := LoadSettings(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.Port != "/dev/ttyUSB3" || s.Driver != "tarm" || s.UI != "tui" || s.DriveLevel != 200 {
		t.Errorf("got %+v", s)
	}
	if s.Listen != SERVER_PORT || s.LogLevel != "info" {
		t.Errorf("unset fields lost their defaults: %+v", s)
	}
}

func TestLoadSettingsRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"driver", `driver = "webserial"`, "unknown driver"},
		{"ui", `ui = "gtk"`, "unknown ui"},
		{"level", `drive_level = 300`, "drive_level"},
		{"syntax", `port = `, "read settings"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSettings(writeFile(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}
