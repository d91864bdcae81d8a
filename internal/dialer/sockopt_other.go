//go:build !darwin && !linux
// +build !darwin,!linux

package dialer

import "syscall"

func (d *CoreDialer) control(network, address string, c syscall.RawConn) error {
	return nil
}
