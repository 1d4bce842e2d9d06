// Package accessory drives the serial box dispenser mounted next to the arm.
package accessory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"
)

const (
	DefaultPort     = "/dev/arduino_uno"
	DefaultBaudRate = 9600
	readTimeout     = 100 * time.Millisecond
)

// ErrInvalidBox is returned for box numbers below 1.
var ErrInvalidBox = errors.New("invalid box number")

// SerialAccessory is a device that deploys numbered boxes.
type SerialAccessory interface {
	Deploy(ctx context.Context, box int) error
	Close() error
}

// Box talks to the dispenser controller with one text line per command.
// Commands are fire-and-forget; the controller does not acknowledge.
type Box struct {
	port io.WriteCloser
}

// Open opens the dispenser on the given serial port.
func Open(portName string, baudRate int) (*Box, error) {
	if baudRate <= 0 {
		baudRate = DefaultBaudRate
	}
	port, err := serial.Open(portName, &serial.Mode{BaudRate: baudRate})
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", portName, err)
	}
	if err := port.SetReadTimeout(readTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("set read timeout: %w", err)
	}
	return NewBox(port), nil
}

// NewBox wraps an already open port.
func NewBox(port io.WriteCloser) *Box {
	return &Box{port: port}
}

// Deploy asks the dispenser to open box.
func (b *Box) Deploy(ctx context.Context, box int) error {
	if box < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidBox, box)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(b.port, "o %d\n", box); err != nil {
		return fmt.Errorf("write deploy command: %w", err)
	}
	return nil
}

// Close closes the serial port.
func (b *Box) Close() error {
	return b.port.Close()
}
