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

// Package sendpool is the UDP send-connection pool of spec.md §4.4
// (component C4, UDP variant): one long-lived, connected UDP socket per
// destination, with fragmentation at max_send_packet_size and a
// transient per-call socket as a fallback when the pooled socket cannot
// be dialed.
package sendpool

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/3shisan3/udp-tcp-communicate/ccmap"
	"github.com/3shisan3/udp-tcp-communicate/endpoint"
	liberr "github.com/3shisan3/udp-tcp-communicate/errors"
)

// Pool is a destination-keyed pool of connected UDP sockets.
type Pool struct {
	maxFragment int
	sendTimeout time.Duration

	srcMu      sync.RWMutex
	sourceIP   string
	sourcePort int

	byKey *ccmap.Map[string, *entry]
}

type entry struct {
	mu   sync.Mutex
	conn *net.UDPConn
}

// New returns an empty Pool. maxFragment is the largest payload chunk
// sent in a single datagram; sendTimeout bounds each Write; sourceIP and
// sourcePort, if non-empty/non-zero, are used to bind outgoing sockets
// to a specific local address (spec.md §6 source_ip/source_port).
func New(maxFragment int, sendTimeout time.Duration, sourceIP string, sourcePort int) *Pool {
	return &Pool{
		maxFragment: maxFragment,
		sendTimeout: sendTimeout,
		sourceIP:    sourceIP,
		sourcePort:  sourcePort,
		byKey:       ccmap.New[string, *entry](),
	}
}

// Preconnect eagerly opens a pooled socket to (ip, port). Nothing in this
// module calls it: lifecycle pre-creates send_list connections with a
// zero-length Send, which dials through the same pooled path.
func (p *Pool) Preconnect(ip string, port int) error {
	_, err := p.get(ip, port)
	return err
}

// SetSource changes the default source address used to bind future
// outgoing sockets (spec.md §6 source_ip/source_port, §4.9's
// set_send_port operation). Sockets already pooled are unaffected; only
// connections dialed after this call use the new default.
func (p *Pool) SetSource(ip string, port int) {
	p.srcMu.Lock()
	p.sourceIP = ip
	p.sourcePort = port
	p.srcMu.Unlock()
}

func (p *Pool) source() (string, int) {
	p.srcMu.RLock()
	defer p.srcMu.RUnlock()
	return p.sourceIP, p.sourcePort
}

func (p *Pool) get(ip string, port int) (*entry, error) {
	key := endpoint.Key(ip, port)

	if e, ok := p.byKey.Load(key); ok {
		return e, nil
	}

	conn, err := p.dial(ip, port)
	if err != nil {
		return nil, err
	}

	e := &entry{conn: conn}
	actual, loaded := p.byKey.LoadOrStore(key, e)
	if loaded {
		_ = conn.Close()
		return actual, nil
	}
	return e, nil
}

func (p *Pool) dial(ip string, port int) (*net.UDPConn, error) {
	sourceIP, sourcePort := p.source()

	d := net.Dialer{Control: reuseAddrControl}
	if sourceIP != "" || sourcePort != 0 {
		d.LocalAddr = &net.UDPAddr{IP: net.ParseIP(sourceIP), Port: sourcePort}
	}

	nc, err := d.Dial("udp", fmt.Sprintf("%s:%d", ip, port))
	if err != nil {
		return nil, err
	}

	conn := nc.(*net.UDPConn)
	setSendTimeout(conn, p.sendTimeout)
	return conn, nil
}

// Send fragments payload into chunks of at most maxFragment bytes and
// writes each to the pooled connection for (ip, port). If the pooled
// connection cannot be dialed, a single transient socket is used instead.
// On a write error the pooled connection is closed and dropped, so the
// next Send to that destination dials afresh, and this call returns the
// error without retrying the remaining chunks.
func (p *Pool) Send(ctx context.Context, ip string, port int, payload []byte) (int, error) {
	e, err := p.get(ip, port)
	if err != nil {
		return 0, p.sendTransient(ip, port, payload)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	sent := 0
	for off := 0; off < len(payload); {
		end := off + p.fragmentSize()
		if end > len(payload) {
			end = len(payload)
		}
		chunk := payload[off:end]

		if p.sendTimeout > 0 {
			_ = e.conn.SetWriteDeadline(time.Now().Add(p.sendTimeout))
		}

		n, werr := e.conn.Write(chunk)
		if werr != nil {
			key := endpoint.Key(ip, port)
			p.byKey.Delete(key)
			_ = e.conn.Close()
			return sent, liberr.ErrSocketSendShort.Error(werr)
		}
		sent += n
		off = end
	}

	return sent, nil
}

func (p *Pool) fragmentSize() int {
	if p.maxFragment <= 0 {
		return 1024
	}
	return p.maxFragment
}

// sendTransient opens a one-shot socket, used as a fallback when a
// pooled connection cannot be established.
func (p *Pool) sendTransient(ip string, port int, payload []byte) error {
	conn, err := p.dial(ip, port)
	if err != nil {
		return liberr.ErrSocketConnectFailed.Error(err)
	}
	defer conn.Close()

	if p.sendTimeout > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(p.sendTimeout))
	}

	for off := 0; off < len(payload); {
		end := off + p.fragmentSize()
		if end > len(payload) {
			end = len(payload)
		}
		if _, err := conn.Write(payload[off:end]); err != nil {
			return liberr.ErrSocketSendShort.Error(err)
		}
		off = end
	}
	return nil
}

// CloseAll closes every pooled connection.
func (p *Pool) CloseAll() {
	for _, e := range p.byKey.Snapshot() {
		e.mu.Lock()
		_ = e.conn.Close()
		e.mu.Unlock()
	}
	p.byKey.Clean()
}

// Len reports how many destinations currently have a pooled connection.
func (p *Pool) Len() int {
	return p.byKey.Len()
}
