//go:build darwin || linux
// +build darwin linux

package dialer

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// control runs on the raw socket before connect, so buffer sizes are in
// place before the TCP window is negotiated.
func (d *CoreDialer) control(network, address string, c syscall.RawConn) error {
	if d.ReceiveBuffer <= 0 && d.SendBuffer <= 0 {
		return nil
	}
	var serr error
	// It's annoying that golang docs didn't specify whether the
	// control action will be executed if error occurrs. According to
	// the source code errors only happen before the action runs.
	if err := c.Control(func(fd uintptr) {
		if d.ReceiveBuffer > 0 {
			if serr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_RCVBUF, d.ReceiveBuffer); serr != nil {
				return
			}
		}
		if d.SendBuffer > 0 {
			serr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_SNDBUF, d.SendBuffer)
		}
	}); err != nil {
		return err
	}
	return serr
}
