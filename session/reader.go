package session

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"unicode"

	"motor-control-panel/utils"

	"github.com/rs/zerolog/log"
)

// maxLineLength bounds a line that never sees a terminator; the buffered
// bytes are logged as a line of their own.
const maxLineLength = 4096

// readLoop logs every inbound line until ctx is cancelled, the stream ends
// or a read fails. Read failures end the loop quietly: inbound telemetry is
// best effort and the session stays Connected.
func (s *Session) readLoop(ctx context.Context, r io.Reader, done chan struct{}) {
	defer close(done)

	buf := make([]byte, 256)
	var partial []byte

	for {
		if ctx.Err() != nil {
			return
		}

		n, err := r.Read(buf)
		if n > 0 {
			if e := log.Trace(); e.Enabled() {
				e.Str("data", utils.FormatDataForLog(buf[:n])).Msg("rx bytes")
			}

			partial = append(partial, buf[:n]...)
			for {
				idx := bytes.IndexByte(partial, '\n')
				if idx < 0 {
					break
				}
				line := string(partial[:idx])
				partial = partial[idx+1:]
				if !s.deliver(ctx, line) {
					return
				}
			}
			if len(partial) >= maxLineLength {
				if !s.deliver(ctx, string(partial)) {
					return
				}
				partial = nil
			}
		}

		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if errors.Is(err, io.EOF) {
				if len(partial) > 0 {
					s.deliver(ctx, string(partial))
				}
				log.Debug().Msg("read loop: end of stream")
			} else {
				log.Debug().Err(err).Msg("read loop stopped")
			}
			return
		}
	}
}

// deliver appends one inbound line unless the loop has been cancelled.
func (s *Session) deliver(ctx context.Context, line string) bool {
	if ctx.Err() != nil {
		return false
	}
	s.sink.Inbound(strings.TrimRightFunc(line, unicode.IsSpace))
	return true
}
