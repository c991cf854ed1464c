/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package sendpool

import (
	"net"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// reuseAddrControl sets SO_REUSEADDR on a UDP send socket before it binds,
// matching listener.reuseAddrControl and spec.md §4.4's "apply
// SO_REUSEADDR ... to the transient socket".
func reuseAddrControl(_, _ string, c syscall.RawConn) error {
	var ctlErr error
	err := c.Control(func(fd uintptr) {
		ctlErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
	})
	if err != nil {
		return err
	}
	return ctlErr
}

// setSendTimeout applies SO_SNDTIMEO to conn's underlying fd, the kernel
// equivalent spec.md §4.4 asks for alongside the Go-level write deadline
// already set by the caller.
func setSendTimeout(conn *net.UDPConn, timeout time.Duration) {
	if timeout <= 0 {
		return
	}

	raw, err := conn.SyscallConn()
	if err != nil {
		return
	}

	tv := unix.NsecToTimeval(timeout.Nanoseconds())
	_ = raw.Control(func(fd uintptr) {
		_ = unix.SetsockoptTimeval(int(fd), unix.SOL_SOCKET, unix.SO_SNDTIMEO, &tv)
	})
}
