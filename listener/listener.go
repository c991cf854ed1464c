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

// Package listener manages the set of bound receive sockets (spec.md §4.3,
// component C3): add-by-key, snapshot for the poll loop, and close-all on
// shutdown. No two entries ever share an endpoint key.
package listener

import (
	"fmt"
	"net"

	"github.com/3shisan3/udp-tcp-communicate/ccmap"
	"github.com/3shisan3/udp-tcp-communicate/endpoint"
	liberr "github.com/3shisan3/udp-tcp-communicate/errors"
)

// Listening is one bound socket: {conn-or-listener, endpoint key}.
type Listening struct {
	Key   string
	EP    endpoint.Endpoint
	PC    net.PacketConn // set for UDP
	LN    net.Listener   // set for TCP
}

// Set is the listen-set of spec.md §4.3, keyed by endpoint key.
type Set struct {
	udp      bool
	backlog  int
	byKey    *ccmap.Map[string, *Listening]
}

// NewUDP returns an empty UDP listen-set.
func NewUDP() *Set {
	return &Set{udp: true, byKey: ccmap.New[string, *Listening]()}
}

// NewTCP returns an empty TCP listen-set. backlog is stored but not
// applied: net.ListenConfig.Listen passes the system default backlog to
// listen() whatever value is given here.
func NewTCP(backlog int) *Set {
	return &Set{udp: false, backlog: backlog, byKey: ccmap.New[string, *Listening]()}
}

// Add binds a new listener at (ip, port). It rejects duplicates by key
// instead of erroring: re-adding an already-present key is a no-op
// success (spec.md §8, "duplicate listener key -> success (no-op)").
func (s *Set) Add(ip string, port int) (*Listening, error) {
	l, _, err := s.AddNew(ip, port)
	return l, err
}

// AddNew is Add, additionally reporting whether this call bound a new
// socket (true) or found an already-present one (false). Engines use the
// created flag to decide whether a listener added after Start needs a
// reader/acceptor goroutine spun up for it.
func (s *Set) AddNew(ip string, port int) (*Listening, bool, error) {
	key := endpoint.Key(ip, port)

	if existing, ok := s.byKey.Load(key); ok {
		return existing, false, nil
	}

	addr := fmt.Sprintf("%s:%d", ip, port)

	l := &Listening{Key: key, EP: endpoint.New(ip, port)}

	if s.udp {
		pc, err := listenUDP(addr)
		if err != nil {
			return nil, false, liberr.ErrSocketBindFailed.Error(err)
		}
		l.PC = pc
	} else {
		ln, err := listenTCP(addr, s.backlog)
		if err != nil {
			return nil, false, liberr.ErrSocketBindFailed.Error(err)
		}
		l.LN = ln
	}

	s.byKey.Store(key, l)
	return l, true, nil
}

// Snapshot returns every currently bound listener.
func (s *Set) Snapshot() []*Listening {
	return s.byKey.Snapshot()
}

// CloseAll closes and forgets every listener.
func (s *Set) CloseAll() {
	for _, l := range s.byKey.Snapshot() {
		if l.PC != nil {
			_ = l.PC.Close()
		}
		if l.LN != nil {
			_ = l.LN.Close()
		}
	}
	s.byKey.Clean()
}

// Len reports how many listeners are currently bound.
func (s *Set) Len() int {
	return s.byKey.Len()
}
