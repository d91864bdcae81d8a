//go:build darwin || linux
// +build darwin linux

package dialer

import (
	"context"
	"net"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func socketBuffers(c syscall.RawConn) (rcv, snd int, err error) {
	var serr error
	if err := c.Control(func(fd uintptr) {
		if rcv, serr = unix.GetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_RCVBUF); serr != nil {
			return
		}
		snd, serr = unix.GetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_SNDBUF)
	}); err != nil {
		return 0, 0, err
	}
	return rcv, snd, serr
}

func TestDialSetsSocketBuffers(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	go func() {
		if c, err := l.Accept(); err == nil {
			c.Close()
		}
	}()

	d := &CoreDialer{ReceiveBuffer: 64 << 10, SendBuffer: 64 << 10}
	conn, err := d.DialContext(context.Background(), "tcp", l.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	raw, err := conn.(*net.TCPConn).SyscallConn()
	require.NoError(t, err)
	rcv, snd, err := socketBuffers(raw)
	require.NoError(t, err)
	// linux doubles the requested value for bookkeeping overhead
	assert.GreaterOrEqual(t, rcv, 64<<10)
	assert.GreaterOrEqual(t, snd, 64<<10)
}
