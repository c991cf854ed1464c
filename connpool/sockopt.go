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

package connpool

import (
	"net"
	"time"

	"golang.org/x/sys/unix"
)

// tcpKeepIdle is the fixed idle period before the first keepalive probe
// (spec.md §6 keepalive controls the probe interval, not the idle time).
const tcpKeepIdle = 300

// tcpKeepCount is the number of unanswered probes before the kernel
// declares the connection dead.
const tcpKeepCount = 3

// applyTCPOptions sets TCP_NODELAY always, and keepalive with the given
// probe interval when keepalive > 0.
func applyTCPOptions(nc net.Conn, keepalive time.Duration) {
	tc, ok := nc.(*net.TCPConn)
	if !ok {
		return
	}

	_ = tc.SetNoDelay(true)

	if keepalive <= 0 {
		return
	}

	_ = tc.SetKeepAlive(true)

	raw, err := tc.SyscallConn()
	if err != nil {
		return
	}

	intervalSec := int(keepalive.Seconds())
	if intervalSec <= 0 {
		intervalSec = 1
	}

	_ = raw.Control(func(fd uintptr) {
		_ = unix.SetsockoptInt(int(fd), unix.IPPROTO_TCP, unix.TCP_KEEPIDLE, tcpKeepIdle)
		_ = unix.SetsockoptInt(int(fd), unix.IPPROTO_TCP, unix.TCP_KEEPINTVL, intervalSec)
		_ = unix.SetsockoptInt(int(fd), unix.IPPROTO_TCP, unix.TCP_KEEPCNT, tcpKeepCount)
	})
}
