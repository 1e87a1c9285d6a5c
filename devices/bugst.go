package devices

import (
	"fmt"
	"time"

	"go.bug.st/serial"
)

// BugstDriver opens ports through go.bug.st/serial. It is the default.
type BugstDriver struct{}

func (BugstDriver) Name() string { return "bugst" }

func (BugstDriver) Open(port string, link LinkConfig) (Transport, error) {
	mode := &serial.Mode{
		BaudRate: link.BaudRate,
		DataBits: link.DataBits,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	conn, err := serial.Open(port, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", port, err)
	}

	flush(conn)

	if link.ReadTimeout > 0 {
		if err := conn.SetReadTimeout(link.ReadTimeout); err != nil {
			conn.Close()
			return nil, fmt.Errorf("set read timeout on %s: %w", port, err)
		}
	}

	return conn, nil
}

// flush drops whatever the board printed while it was resetting, so the
// first logged inbound line is a whole one.
func flush(port serial.Port) {
	if err := port.ResetInputBuffer(); err == nil {
		return
	}
	port.SetReadTimeout(50 * time.Millisecond)
	buf := make([]byte, 256)
	for {
		n, err := port.Read(buf)
		if err != nil || n == 0 {
			break
		}
	}
	port.SetReadTimeout(serial.NoTimeout)
}
