package devices

import (
	"fmt"

	"github.com/tarm/serial"
)

// TarmDriver opens ports through github.com/tarm/serial.
type TarmDriver struct{}

func (TarmDriver) Name() string { return "tarm" }

func (TarmDriver) Open(port string, link LinkConfig) (Transport, error) {
	cfg := &serial.Config{
		Name:        port,
		Baud:        link.BaudRate,
		Size:        byte(link.DataBits),
		Parity:      serial.ParityNone,
		StopBits:    serial.Stop1,
		ReadTimeout: link.ReadTimeout,
	}

	conn, err := serial.OpenPort(cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", port, err)
	}

	if err := conn.Flush(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("flush %s: %w", port, err)
	}

	return newPollingFile(conn, link.ReadTimeout), nil
}
