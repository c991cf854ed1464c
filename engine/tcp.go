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
	"github.com/3shisan3/udp-tcp-communicate/connpool"
	"github.com/3shisan3/udp-tcp-communicate/listener"
	"github.com/3shisan3/udp-tcp-communicate/logger"
	"github.com/3shisan3/udp-tcp-communicate/network/protocol"
	"github.com/3shisan3/udp-tcp-communicate/periodic"
	"github.com/3shisan3/udp-tcp-communicate/runner"
	"github.com/3shisan3/udp-tcp-communicate/subscriber"
)

// tcpEngine is the TCP Communicator variant: an acceptor loop feeding
// connpool's active set, a reader goroutine per accepted connection, and
// a dial pool for outgoing sends.
type tcpEngine struct {
	*base
	conns *connpool.Pool

	acceptSS runner.StartStop
}

// NewTCP builds a TCP Communicator. opts must already carry the
// protocol-specific defaults (max_send_packet_size: 1460 when unset).
func NewTCP(opts config.Options, log logger.Logger) Communicator {
	backlog := opts.ListenBacklog
	if backlog <= 0 {
		backlog = 10
	}

	conns := connpool.New(
		opts.MaxConnections,
		opts.MaxSendPacketSize,
		time.Duration(opts.ConnectTimeoutMs)*time.Millisecond,
		time.Duration(opts.Keepalive)*time.Second,
		opts.SourceIP,
		opts.SourcePort,
	)

	e := &tcpEngine{
		base:  newBase(opts, log, listener.NewTCP(backlog)),
		conns: conns,
	}
	e.periodics = periodic.New(log, e.sendPeriodic)
	return e
}

func (e *tcpEngine) Protocol() protocol.NetworkProtocol { return protocol.NetworkTCP }

func (e *tcpEngine) sendPeriodic(ctx context.Context, ip string, port int, payload []byte) error {
	_, err := e.Send(ip, port, payload)
	return err
}

func (e *tcpEngine) Send(ip string, port int, payload []byte) (int, error) {
	n, err := e.conns.Send(ip, port, payload)
	if err == nil {
		e.bumpFragmentsSent()
	}
	return n, err
}

func (e *tcpEngine) AsyncSend(ctx context.Context, ip string, port int, payload []byte) <-chan AsyncResult {
	out := make(chan AsyncResult, 1)
	go func() {
		n, err := e.conns.Send(ip, port, payload)
		if err == nil {
			e.bumpFragmentsSent()
		}
		out <- AsyncResult{N: n, Err: err}
		close(out)
	}()
	return out
}

func (e *tcpEngine) AddPeriodic(requestedID int, ip string, port int, payload []byte, rateHz int) error {
	return e.periodics.Add(requestedID, ip, port, payload, rateHz)
}

func (e *tcpEngine) RemovePeriodic(requestedID int) error {
	return e.periodics.Remove(requestedID)
}

// SetSendPort specializes to set_default_source(port, ip) (spec.md
// §4.9): existing connections are unaffected, new dials bind from the
// new default.
func (e *tcpEngine) SetSendPort(port int, ip string) error {
	e.conns.SetSource(ip, port)
	return nil
}

// Start launches one acceptor goroutine per bound listener (C6) and the
// poll loop that reads every accepted connection (C5).
func (e *tcpEngine) Start(ctx context.Context) error {
	e.acceptSS = newPollStartStop(func(runCtx context.Context) error {
		g, gctx := errgroup.WithContext(runCtx)

		e.setRunCtx(gctx)
		defer e.setRunCtx(nil)

		for _, l := range e.listeners.Snapshot() {
			l := l
			g.Go(func() error {
				return e.conns.Accept(gctx, l.LN, func(c *connpool.Conn) {
					go e.readLoop(gctx, c, l.EP.IP, l.EP.Port)
				})
			})
		}
		<-gctx.Done()
		return nil
	})
	return e.acceptSS.Start(ctx)
}

// AddListen binds a new listening socket at (ip, port) (spec.md §4.3). If
// the acceptor loop is already running and this call actually creates the
// socket, an acceptor goroutine is started for it immediately — otherwise
// a listener added after Start, such as one facade.SubscribeLocal adds on
// demand, would sit bound but never accept a connection.
func (e *tcpEngine) AddListen(ip string, port int) error {
	l, created, err := e.listeners.AddNew(ip, port)
	if err != nil {
		return err
	}
	if created {
		if ctx, ok := e.liveCtx(); ok {
			go func() {
				_ = e.conns.Accept(ctx, l.LN, func(c *connpool.Conn) {
					go e.readLoop(ctx, c, l.EP.IP, l.EP.Port)
				})
			}()
		}
	}
	return nil
}

func (e *tcpEngine) readLoop(ctx context.Context, c *connpool.Conn, localIP string, localPort int) {
	bufSize := e.opts.MaxReceivePacketSize
	if bufSize <= 0 {
		bufSize = 65507
	}
	buf := make([]byte, bufSize)

	defer e.conns.Forget(c.Key)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		_ = c.NC.SetReadDeadline(time.Now().Add(e.recvDeadline()))
		n, err := c.NC.Read(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			return
		}

		msg := make(subscriber.Message, n)
		copy(msg, buf[:n])

		e.resolveAndRun(msg, c.Remote.IP, c.Remote.Port, localIP, localPort)
	}
}

func (e *tcpEngine) Shutdown(ctx context.Context) error {
	if e.acceptSS != nil {
		_ = e.acceptSS.Stop(ctx)
	}
	e.periodics.RemoveAll()
	e.conns.CloseAll()
	e.listeners.CloseAll()
	e.subs.Clear()
	return nil
}
