package protocol

import (
	"errors"
	"fmt"
	"testing"
)

func TestEncodeAllValidCommands(t *testing.T) {
	for id := 1; id <= 9; id++ {
		for level := 0; level <= 255; level++ {
			got, err := Encode(Run(id, level))
			if err != nil {
				t.Fatalf("Run(%d, %d): unexpected error %v", id, level, err)
			}
			want := fmt.Sprintf("ON %d %d", id, level)
			if got != want {
				t.Fatalf("Run(%d, %d) = %q, want %q", id, level, got, want)
			}
		}

		got, err := Encode(Stop(id))
		if err != nil {
			t.Fatalf("Stop(%d): unexpected error %v", id, err)
		}
		if want := fmt.Sprintf("OFF %d", id); got != want {
			t.Errorf("Stop(%d) = %q, want %q", id, got, want)
		}
	}

	got, err := Encode(StopAll())
	if err != nil {
		t.Fatalf("StopAll: unexpected error %v", err)
	}
	if got != "OFF ALL" {
		t.Errorf("StopAll = %q, want %q", got, "OFF ALL")
	}
}

func TestEncodeRejectsOutOfRange(t *testing.T) {
	tests := []struct {
		name  string
		cmd   Command
		field string
	}{
		{"run id 0", Run(0, 10), "actuator"},
		{"run id 10", Run(10, 10), "actuator"},
		{"run negative id", Run(-1, 10), "actuator"},
		{"run level -1", Run(1, -1), "level"},
		{"run level 256", Run(1, 256), "level"},
		{"stop id 0", Stop(0), "actuator"},
		{"stop id 10", Stop(10), "actuator"},
		{"zero value", Command{kind: commandKind(42)}, "kind"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, err := Encode(tt.cmd)
			if err == nil {
				t.Fatalf("expected error, got line %q", line)
			}
			if !errors.Is(err, ErrInvalidCommand) {
				t.Errorf("error %v does not match ErrInvalidCommand", err)
			}
			var ice *InvalidCommandError
			if !errors.As(err, &ice) {
				t.Fatalf("error %T is not *InvalidCommandError", err)
			}
			if ice.Field != tt.field {
				t.Errorf("field = %q, want %q", ice.Field, tt.field)
			}
			if line != "" {
				t.Errorf("line = %q, want empty", line)
			}
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		line    string
		want    string
		wantErr bool
	}{
		{"ON 3 180", "ON 3 180", false},
		{"ON 3 180\n", "ON 3 180", false},
		{"ON 9 0\r\n", "ON 9 0", false},
		{"OFF 1", "OFF 1", false},
		{"OFF ALL", "OFF ALL", false},
		{"on 3 180", "", true},
		{"OFF all", "", true},
		{"ON 3", "", true},
		{"ON 10 5", "", true},
		{"ON 3 256", "", true},
		{"ON +3 5", "", true},
		{"ON  3 5", "", true},
		{"OFF x", "", true},
		{"ON 03 180", "", true},
		{"ON 3 -0", "", true},
		{"ON 3 00", "", true},
		{"ON 3 0180", "", true},
		{"OFF 07", "", true},
		{"ON 3 0", "ON 3 0", false},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			cmd, err := Parse(tt.line)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", cmd)
				}
				if !errors.Is(err, ErrInvalidCommand) {
					t.Errorf("error %v does not match ErrInvalidCommand", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got, err := Encode(cmd)
			if err != nil {
				t.Fatalf("re-encode: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCommandAccessors(t *testing.T) {
	run := Run(4, 99)
	if !run.IsRun() || run.IsStopAll() || run.Actuator() != 4 || run.Level() != 99 {
		t.Errorf("Run accessors wrong: %+v", run)
	}
	all := StopAll()
	if all.IsRun() || !all.IsStopAll() || all.Actuator() != 0 {
		t.Errorf("StopAll accessors wrong: %+v", all)
	}
	if s := Stop(2).String(); s != "OFF 2" {
		t.Errorf("String() = %q", s)
	}
}
