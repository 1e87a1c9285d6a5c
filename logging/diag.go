package logging

import (
	"io"
	"os"
	"time"

	"motor-control-panel/types"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the process-wide diagnostic logger. The operator activity
// log lives in Sink and is not affected.
func Init(level string, w io.Writer) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	if w == nil {
		w = os.Stderr
	}
	out := w
	if f, ok := w.(*os.File); ok && (f == os.Stderr || f == os.Stdout) {
		out = zerolog.ConsoleWriter{Out: f, TimeFormat: time.TimeOnly}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()

	if err != nil && level != "" {
		log.Warn().Str("level", level).Msg("unknown log level, using info")
	}
}

// Format renders entries one per line, as shown in the panels.
func Format(entries []types.LogEntry) string {
	var b []byte
	for _, e := range entries {
		b = append(b, e.Time.Format("15:04:05")...)
		b = append(b, ' ')
		b = append(b, e.Message...)
		b = append(b, '\n')
	}
	return string(b)
}
