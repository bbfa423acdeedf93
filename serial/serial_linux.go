// SPDX-License-Identifier: MIT
//
// Copyright © 2020 Kent Gibson <warthog618@gmail.com>.

// +build linux

package serial

// DefaultPortName is the conventional modem device path on this platform,
// used as the default for callers (such as cmd/atconsole) that don't know
// which port to open.
const DefaultPortName = "/dev/ttyUSB0"
