// Package serial provides the UART transport that connects the at
// package to a physical modem.
package serial

import (
	"time"

	"github.com/tarm/serial"
)

// Port is the transport handed to at.New; it is satisfied by
// *serial.Port from github.com/tarm/serial.
type Port = serial.Port

// Option configures a port opened by Open.
type Option func(*serial.Config)

// WithBaud sets the baud rate. Default is 115200.
func WithBaud(baud int) Option {
	return func(c *serial.Config) { c.Baud = baud }
}

// WithReadTimeout bounds how long a single Read call may block, so the
// at package's port-reader goroutine notices a closed port in bounded
// time even with no modem traffic.
func WithReadTimeout(d time.Duration) Option {
	return func(c *serial.Config) { c.ReadTimeout = d }
}

// Open opens the named serial device (e.g. "/dev/ttyUSB0", "COM3") and
// returns a transport suitable for at.New.
func Open(name string, opts ...Option) (*Port, error) {
	cfg := &serial.Config{Name: name, Baud: 115200}
	for _, opt := range opts {
		opt(cfg)
	}
	return serial.OpenPort(cfg)
}
