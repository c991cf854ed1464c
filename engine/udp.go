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

package engine

import (
	"context"
	"net"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/3shisan3/udp-tcp-communicate/config"
	"github.com/3shisan3/udp-tcp-communicate/listener"
	"github.com/3shisan3/udp-tcp-communicate/logger"
	"github.com/3shisan3/udp-tcp-communicate/network/protocol"
	"github.com/3shisan3/udp-tcp-communicate/periodic"
	"github.com/3shisan3/udp-tcp-communicate/sendpool"
	"github.com/3shisan3/udp-tcp-communicate/subscriber"
)

// udpEngine is the UDP Communicator variant: one listening PacketConn per
// endpoint, one reader goroutine per listener, and a pooled-connection
// sendpool for outgoing traffic.
type udpEngine struct {
	*base
	send *sendpool.Pool
}

// NewUDP builds a UDP Communicator. opts must already carry the
// protocol-specific defaults (max_send_packet_size: 1024 when unset).
func NewUDP(opts config.Options, log logger.Logger) Communicator {
	maxFrag := opts.MaxSendPacketSize
	if maxFrag <= 0 {
		maxFrag = 1024
	}

	send := sendpool.New(
		maxFrag,
		time.Duration(opts.SendTimeoutMs)*time.Millisecond,
		opts.SourceIP,
		opts.SourcePort,
	)

	e := &udpEngine{
		base: newBase(opts, log, listener.NewUDP()),
		send: send,
	}
	e.periodics = periodic.New(log, e.sendPeriodic)
	return e
}

func (e *udpEngine) Protocol() protocol.NetworkProtocol { return protocol.NetworkUDP }

func (e *udpEngine) sendPeriodic(ctx context.Context, ip string, port int, payload []byte) error {
	_, err := e.Send(ip, port, payload)
	return err
}

func (e *udpEngine) Send(ip string, port int, payload []byte) (int, error) {
	n, err := e.send.Send(context.Background(), ip, port, payload)
	if err == nil {
		e.bumpFragmentsSent()
	}
	return n, err
}

func (e *udpEngine) AsyncSend(ctx context.Context, ip string, port int, payload []byte) <-chan AsyncResult {
	out := make(chan AsyncResult, 1)
	go func() {
		n, err := e.send.Send(ctx, ip, port, payload)
		if err == nil {
			e.bumpFragmentsSent()
		}
		out <- AsyncResult{N: n, Err: err}
		close(out)
	}()
	return out
}

func (e *udpEngine) AddPeriodic(requestedID int, ip string, port int, payload []byte, rateHz int) error {
	return e.periodics.Add(requestedID, ip, port, payload, rateHz)
}

func (e *udpEngine) RemovePeriodic(requestedID int) error {
	return e.periodics.Remove(requestedID)
}

// SetSendPort changes the default source address future sends bind
// from (spec.md §6 source_ip/source_port, §4.9).
func (e *udpEngine) SetSendPort(port int, ip string) error {
	e.send.SetSource(ip, port)
	return nil
}

// Start begins the poll loop: one reader goroutine per currently bound
// listener, each reading with the recvDeadline bound (recv_timeout_ms,
// 100ms when unset) so it notices shutdown promptly (spec.md §4.6).
func (e *udpEngine) Start(ctx context.Context) error {
	e.pollSS = newPollStartStop(func(runCtx context.Context) error {
		g, gctx := errgroup.WithContext(runCtx)

		e.setRunCtx(gctx)
		defer e.setRunCtx(nil)

		for _, l := range e.listeners.Snapshot() {
			l := l
			g.Go(func() error {
				e.readLoop(gctx, l.PC, l.EP.IP, l.EP.Port)
				return nil
			})
		}

		<-gctx.Done()
		return nil
	})
	return e.pollSS.Start(ctx)
}

// AddListen binds a new receive socket at (ip, port) (spec.md §4.3). If
// the poll loop is already running and this call actually creates the
// socket (as opposed to finding one already bound at that key), a reader
// goroutine is started for it immediately — otherwise a listener added
// after Start, such as one facade.SubscribeLocal adds on demand, would
// sit bound but never read from.
func (e *udpEngine) AddListen(ip string, port int) error {
	l, created, err := e.listeners.AddNew(ip, port)
	if err != nil {
		return err
	}
	if created {
		if ctx, ok := e.liveCtx(); ok {
			go e.readLoop(ctx, l.PC, l.EP.IP, l.EP.Port)
		}
	}
	return nil
}

func (e *udpEngine) readLoop(ctx context.Context, pc net.PacketConn, localIP string, localPort int) {
	bufSize := e.opts.MaxReceivePacketSize
	if bufSize <= 0 {
		bufSize = 65507
	}
	buf := make([]byte, bufSize)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		_ = pc.SetReadDeadline(time.Now().Add(e.recvDeadline()))
		n, addr, err := pc.ReadFrom(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			return
		}

		msg := make(subscriber.Message, n)
		copy(msg, buf[:n])

		srcIP, srcPort := splitUDPAddr(addr)
		e.resolveAndRun(msg, srcIP, srcPort, localIP, localPort)
	}
}

func splitUDPAddr(addr net.Addr) (string, int) {
	ua, ok := addr.(*net.UDPAddr)
	if !ok {
		return "", 0
	}
	return ua.IP.String(), ua.Port
}

func (e *udpEngine) Shutdown(ctx context.Context) error {
	if e.pollSS != nil {
		_ = e.pollSS.Stop(ctx)
	}
	e.periodics.RemoveAll()
	e.listeners.CloseAll()
	e.send.CloseAll()
	e.subs.Clear()
	return nil
}
