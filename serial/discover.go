package serial

import bugst "go.bug.st/serial"

// ListPorts enumerates the serial device names available on this host
// (e.g. "/dev/ttyUSB0", "COM3"), for use by tooling that needs to offer a
// port picker rather than requiring the caller to already know the
// device path. tarm/serial, used by Open, has no portable enumeration
// API in this pack's vendored version, so discovery is delegated to
// go.bug.st/serial, which is used only for this one concern.
func ListPorts() ([]string, error) {
	return bugst.GetPortsList()
}
