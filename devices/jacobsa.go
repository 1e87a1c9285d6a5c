package devices

import (
	"fmt"

	"github.com/jacobsa/go-serial/serial"
)

// JacobsaDriver opens ports through github.com/jacobsa/go-serial, for hosts
// where the termios handling of go.bug.st misbehaves.
type JacobsaDriver struct{}

func (JacobsaDriver) Name() string { return "jacobsa" }

func (JacobsaDriver) Open(port string, link LinkConfig) (Transport, error) {
	options := serial.OpenOptions{
		PortName:   port,
		BaudRate:   uint(link.BaudRate),
		DataBits:   uint(link.DataBits),
		StopBits:   1,
		ParityMode: serial.PARITY_NONE,
	}
	if link.ReadTimeout > 0 {
		// VTIME is in deciseconds; MinimumReadSize 0 lets reads return empty.
		options.InterCharacterTimeout = uint(link.ReadTimeout.Milliseconds())
		options.MinimumReadSize = 0
	} else {
		options.MinimumReadSize = 1
	}

	conn, err := serial.Open(options)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", port, err)
	}
	return newPollingFile(conn, link.ReadTimeout), nil
}
