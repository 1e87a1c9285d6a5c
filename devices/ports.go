package devices

import (
	"context"
	"fmt"
	"runtime"

	"github.com/rs/zerolog/log"
	"go.bug.st/serial/enumerator"
)

// PortInfo describes a serial device offered to the operator.
type PortInfo struct {
	Name    string `json:"name"`
	IsUSB   bool   `json:"usb"`
	VID     string `json:"vid,omitempty"`
	PID     string `json:"pid,omitempty"`
	Product string `json:"product,omitempty"`
}

// ListPorts returns the serial ports on this host, USB devices first.
func ListPorts() ([]PortInfo, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, err
	}

	var usb, other []PortInfo
	for _, port := range ports {
		info := PortInfo{
			Name:    port.Name,
			IsUSB:   port.IsUSB,
			VID:     port.VID,
			PID:     port.PID,
			Product: port.Product,
		}
		if port.IsUSB {
			usb = append(usb, info)
		} else {
			other = append(other, info)
		}
	}
	return append(usb, other...), nil
}

// getCommonPorts returns usual serial device names for the current platform.
// It is the fallback when enumeration finds nothing.
func getCommonPorts() []string {
	switch runtime.GOOS {
	case "windows":
		var ports []string
		for i := 1; i <= 20; i++ {
			ports = append(ports, fmt.Sprintf("COM%d", i))
		}
		return ports
	case "linux":
		return []string{
			"/dev/ttyACM0", "/dev/ttyACM1",
			"/dev/ttyUSB0", "/dev/ttyUSB1",
		}
	case "darwin":
		return []string{
			"/dev/cu.usbmodem", "/dev/cu.usbserial",
			"/dev/cu.SLAB_USBtoUART",
		}
	default:
		return []string{}
	}
}

// AutoSelector picks the first USB serial device. It never guesses among
// non-USB ports, since those are usually the machine's own UARTs.
type AutoSelector struct {
	// List is ListPorts unless replaced in tests.
	List func() ([]PortInfo, error)
}

func (a AutoSelector) SelectPort(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	list := a.List
	if list == nil {
		list = ListPorts
	}

	ports, err := list()
	if err != nil {
		return "", fmt.Errorf("list serial ports: %w", err)
	}

	for _, p := range ports {
		if p.IsUSB {
			log.Debug().Str("port", p.Name).Str("vid", p.VID).Str("pid", p.PID).Msg("auto-selected serial port")
			return p.Name, nil
		}
	}

	log.Debug().Strs("common", getCommonPorts()).Msg("no USB serial port found")
	return "", ErrNoPortSelected
}

// CommonPorts lists platform default device names for the port picker when
// enumeration is unavailable.
func CommonPorts() []PortInfo {
	names := getCommonPorts()
	out := make([]PortInfo, 0, len(names))
	for _, n := range names {
		out = append(out, PortInfo{Name: n})
	}
	return out
}
