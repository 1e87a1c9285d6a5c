package devices

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"motor-control-panel/config"
)

var (
	// ErrNoPortSelected is returned when the operator or the port scan did
	// not produce a device. It is an ordinary connect failure.
	ErrNoPortSelected = errors.New("no serial port selected")

	ErrUnknownDriver = errors.New("unknown serial driver")
)

// Transport is an open duplex byte stream to the motor controller.
//
// Read may return (0, nil) when the driver's poll timeout expires; callers
// treat that as "nothing yet". Close must unblock a pending Read.
type Transport interface {
	io.ReadWriteCloser
}

// LinkConfig is the framing the controller firmware expects.
type LinkConfig struct {
	BaudRate    int
	DataBits    int
	ReadTimeout time.Duration
}

func DefaultLink() LinkConfig {
	return LinkConfig{
		BaudRate:    config.BAUD_RATE,
		DataBits:    config.DATA_BITS,
		ReadTimeout: config.READ_POLL_MS * time.Millisecond,
	}
}

// Driver opens a named serial device.
type Driver interface {
	Name() string
	Open(port string, link LinkConfig) (Transport, error)
}

// Selector asks the host for a device to open. Implementations may block
// while the operator chooses and must honour ctx.
type Selector interface {
	SelectPort(ctx context.Context) (string, error)
}

// FixedPort selects the given device name. An empty name is a refusal.
type FixedPort string

func (p FixedPort) SelectPort(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if p == "" {
		return "", ErrNoPortSelected
	}
	return string(p), nil
}

// SelectorFunc adapts a function to Selector.
type SelectorFunc func(ctx context.Context) (string, error)

func (f SelectorFunc) SelectPort(ctx context.Context) (string, error) { return f(ctx) }

func DriverByName(name string) (Driver, error) {
	switch name {
	case "", "bugst":
		return BugstDriver{}, nil
	case "jacobsa":
		return JacobsaDriver{}, nil
	case "tarm":
		return TarmDriver{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, name)
	}
}

// maxInstantEOFs is how many back-to-back EOFs that return well before the
// poll timeout are taken as a hang-up rather than an idle line.
const maxInstantEOFs = 3

// pollingFile turns the (0, io.EOF) an *os.File reports when a termios read
// timeout expires into (0, nil), so callers can tell a timeout from a
// closed stream. A hung-up tty also reports (0, io.EOF), but without
// waiting; repeated instant EOFs are passed through as end of stream.
type pollingFile struct {
	io.ReadWriteCloser
	timeout time.Duration

	instantEOFs int
}

func newPollingFile(rwc io.ReadWriteCloser, timeout time.Duration) *pollingFile {
	return &pollingFile{ReadWriteCloser: rwc, timeout: timeout}
}

func (p *pollingFile) Read(b []byte) (int, error) {
	start := time.Now()
	n, err := p.ReadWriteCloser.Read(b)
	if n > 0 || !errors.Is(err, io.EOF) {
		p.instantEOFs = 0
		return n, err
	}

	// Without a poll timeout reads block, so EOF is always real.
	if p.timeout <= 0 {
		return 0, io.EOF
	}
	if time.Since(start) >= p.timeout/2 {
		p.instantEOFs = 0
		return 0, nil
	}
	p.instantEOFs++
	if p.instantEOFs >= maxInstantEOFs {
		return 0, io.EOF
	}
	return 0, nil
}
