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

// Package connpool is the TCP connection machinery of spec.md §4.4/§4.6
// (component C4 TCP variant and C6): a by-destination dial pool for
// outgoing sends, a by-key active set of accepted connections, and the
// accept loop that feeds it, all bounded by a configured connection cap.
package connpool

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

// acceptPollTimeout bounds each Accept wait so the acceptor loop can
// observe context cancellation promptly (spec.md §4.6).
const acceptPollTimeout = 100 * time.Millisecond

// Conn wraps an active TCP connection with the remote endpoint it was
// established for, used as the routing key for received data.
type Conn struct {
	Key    string
	Remote endpoint.Endpoint
	NC     net.Conn
}

// Pool manages both outgoing dial connections and accepted inbound
// connections under one connection-count cap.
type Pool struct {
	maxConns    int
	maxFragment int
	connTimeout time.Duration
	keepalive   time.Duration

	srcMu      sync.RWMutex
	sourceIP   string
	sourcePort int

	dialByKey   *ccmap.Map[string, *Conn]
	activeByKey *ccmap.Map[string, *Conn]

	count sync.Mutex
	n     int
}

// New returns an empty Pool. maxConns caps the combined dial+accept
// connection count (spec.md §6 max_connections); maxFragment bounds each
// Write call (spec.md §4.5); connTimeout bounds Dial; keepalive, if > 0,
// enables TCP keepalive with that period.
func New(maxConns, maxFragment int, connTimeout, keepalive time.Duration, sourceIP string, sourcePort int) *Pool {
	return &Pool{
		maxConns:    maxConns,
		maxFragment: maxFragment,
		connTimeout: connTimeout,
		keepalive:   keepalive,
		sourceIP:    sourceIP,
		sourcePort:  sourcePort,
		dialByKey:   ccmap.New[string, *Conn](),
		activeByKey: ccmap.New[string, *Conn](),
	}
}

// SetSource changes the default local address new dials bind from
// (spec.md §4.9: TCP's set_send_port specializes to set_default_source
// (port, ip="")). Established connections are unaffected; only
// subsequent Dial calls pick up the new default.
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

func (p *Pool) reserve() bool {
	p.count.Lock()
	defer p.count.Unlock()
	if p.maxConns > 0 && p.n >= p.maxConns {
		return false
	}
	p.n++
	return true
}

func (p *Pool) release() {
	p.count.Lock()
	defer p.count.Unlock()
	if p.n > 0 {
		p.n--
	}
}

// Dial returns a pooled outgoing connection to (ip, port), dialing one
// if none exists yet.
func (p *Pool) Dial(ip string, port int) (*Conn, error) {
	key := endpoint.Key(ip, port)

	if c, ok := p.dialByKey.Load(key); ok {
		return c, nil
	}

	if !p.reserve() {
		return nil, liberr.ErrCapacityMaxConns.Error()
	}

	d := net.Dialer{Timeout: p.connTimeout}
	if sourceIP, sourcePort := p.source(); sourceIP != "" || sourcePort != 0 {
		d.LocalAddr = &net.TCPAddr{IP: net.ParseIP(sourceIP), Port: sourcePort}
	}
	nc, err := d.Dial("tcp", fmt.Sprintf("%s:%d", ip, port))
	if err != nil {
		p.release()
		return nil, liberr.ErrSocketConnectFailed.Error(err)
	}

	applyTCPOptions(nc, p.keepalive)

	c := &Conn{Key: key, Remote: endpoint.New(ip, port), NC: nc}
	actual, loaded := p.dialByKey.LoadOrStore(key, c)
	if loaded {
		_ = nc.Close()
		p.release()
		return actual, nil
	}
	return c, nil
}

// Send writes payload to the pooled dial connection for (ip, port) in
// chunks of at most maxFragment bytes, stopping on the first short write
// (spec.md §4.5: "write in chunks ... stopping on any short write").
func (p *Pool) Send(ip string, port int, payload []byte) (int, error) {
	c, err := p.Dial(ip, port)
	if err != nil {
		return 0, err
	}

	chunkSize := p.fragmentSize()
	sent := 0
	for off := 0; off < len(payload); {
		end := off + chunkSize
		if end > len(payload) {
			end = len(payload)
		}
		chunk := payload[off:end]

		n, werr := c.NC.Write(chunk)
		sent += n
		if werr != nil || n < len(chunk) {
			p.dropDial(c.Key)
			if werr == nil {
				werr = fmt.Errorf("short write: wrote %d of %d bytes", n, len(chunk))
			}
			return sent, liberr.ErrSocketSendShort.Error(werr)
		}
		off = end
	}
	return sent, nil
}

func (p *Pool) fragmentSize() int {
	if p.maxFragment <= 0 {
		return 1460
	}
	return p.maxFragment
}

func (p *Pool) dropDial(key string) {
	if c, ok := p.dialByKey.LoadAndDelete(key); ok {
		_ = c.NC.Close()
		p.release()
	}
}

// Accept runs the acceptor loop of spec.md §4.6 against ln, registering
// each new connection under its remote endpoint key until ctx is
// cancelled. onConn is invoked for every accepted connection so a caller
// can spin up a per-connection reader.
func (p *Pool) Accept(ctx context.Context, ln net.Listener, onConn func(*Conn)) error {
	type tcpListener interface {
		SetDeadline(time.Time) error
	}

	tl, hasDeadline := ln.(tcpListener)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if hasDeadline {
			_ = tl.SetDeadline(time.Now().Add(acceptPollTimeout))
		}

		nc, err := ln.Accept()
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			select {
			case <-ctx.Done():
				return nil
			default:
				return liberr.ErrSocketRecvError.Error(err)
			}
		}

		if !p.reserve() {
			_ = nc.Close()
			continue
		}

		applyTCPOptions(nc, p.keepalive)

		remote := nc.RemoteAddr()
		ip, port := splitHostPort(remote)
		key := endpoint.Key(ip, port)

		c := &Conn{Key: key, Remote: endpoint.New(ip, port), NC: nc}
		p.activeByKey.Store(key, c)

		if onConn != nil {
			onConn(c)
		}
	}
}

// Forget removes and closes the active accepted connection under key.
func (p *Pool) Forget(key string) {
	if c, ok := p.activeByKey.LoadAndDelete(key); ok {
		_ = c.NC.Close()
		p.release()
	}
}

// ActiveSnapshot returns every currently accepted inbound connection.
func (p *Pool) ActiveSnapshot() []*Conn {
	return p.activeByKey.Snapshot()
}

// CloseAll closes every dial and accepted connection.
func (p *Pool) CloseAll() {
	for _, c := range p.dialByKey.Snapshot() {
		_ = c.NC.Close()
	}
	p.dialByKey.Clean()

	for _, c := range p.activeByKey.Snapshot() {
		_ = c.NC.Close()
	}
	p.activeByKey.Clean()
}

func splitHostPort(addr net.Addr) (string, int) {
	tcpAddr, ok := addr.(*net.TCPAddr)
	if !ok {
		return "", 0
	}
	return tcpAddr.IP.String(), tcpAddr.Port
}
