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

// Package engine implements the running communication engine of spec.md
// §4: the poll loop over bound sockets (C5), the async-send future (C9),
// and the Communicator surface (C10) that the lifecycle/facade layers
// drive. The UDP and TCP variants share this package's routing,
// subscription and periodic-task plumbing and differ only in their
// transport (sendpool vs connpool, plain receive vs accept-then-receive).
package engine

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/3shisan3/udp-tcp-communicate/config"
	liberr "github.com/3shisan3/udp-tcp-communicate/errors"
	"github.com/3shisan3/udp-tcp-communicate/listener"
	"github.com/3shisan3/udp-tcp-communicate/logger"
	"github.com/3shisan3/udp-tcp-communicate/network/protocol"
	"github.com/3shisan3/udp-tcp-communicate/periodic"
	"github.com/3shisan3/udp-tcp-communicate/router"
	"github.com/3shisan3/udp-tcp-communicate/runner"
	"github.com/3shisan3/udp-tcp-communicate/status"
	"github.com/3shisan3/udp-tcp-communicate/subscriber"
)

// pollInterval is the receive-side wait bound of spec.md §4.6 used when
// recv_timeout_ms is left at zero: each listening socket is polled with
// this read deadline so the poll loop's governing StartStop can observe
// shutdown within one tick.
const pollInterval = 100 * time.Millisecond

// AsyncResult is delivered once on the channel returned by AsyncSend.
type AsyncResult struct {
	N   int
	Err error
}

// Communicator is the transport-agnostic surface spec.md §4.8-§4.10
// describe as component C10; udp and tcp each implement it.
type Communicator interface {
	Protocol() protocol.NetworkProtocol

	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error

	AddListen(ip string, port int) error
	AddSubscribe(key string, handler subscriber.Handler)
	Deregister(key string)

	Send(ip string, port int, payload []byte) (int, error)
	AsyncSend(ctx context.Context, ip string, port int, payload []byte) <-chan AsyncResult

	AddPeriodic(requestedID int, ip string, port int, payload []byte, rateHz int) error
	RemovePeriodic(requestedID int) error

	// SetSendPort changes the default source address used to bind future
	// outgoing sockets (spec.md §4.9: set_send_port / set_default_source).
	// Sockets already open are unaffected.
	SetSendPort(port int, ip string) error

	SetMetrics(m *status.Metrics)
}

// base holds the fields common to both protocol variants.
type base struct {
	opts config.Options
	log  logger.Logger

	listeners *listener.Set
	subs      *subscriber.Table
	periodics *periodic.Table

	pollSS  runner.StartStop
	workers *errgroup.Group

	metrics *status.Metrics

	runMu  sync.Mutex
	runCtx context.Context
}

// setRunCtx records the context the poll/accept loop is currently running
// under, so AddListen (called after Start, e.g. from facade.SubscribeLocal)
// can tell whether a freshly bound listener needs its own reader goroutine
// started right away or will be picked up by a future Start.
func (b *base) setRunCtx(ctx context.Context) {
	b.runMu.Lock()
	b.runCtx = ctx
	b.runMu.Unlock()
}

// liveCtx returns the running loop's context, or ok=false if the engine
// isn't currently started.
func (b *base) liveCtx() (context.Context, bool) {
	b.runMu.Lock()
	ctx := b.runCtx
	b.runMu.Unlock()

	if ctx == nil {
		return nil, false
	}
	select {
	case <-ctx.Done():
		return nil, false
	default:
		return ctx, true
	}
}

// SetMetrics attaches optional Prometheus counters; nil disables them.
func (b *base) SetMetrics(m *status.Metrics) {
	b.metrics = m
	if m != nil && b.periodics != nil {
		b.periodics.OnOverrun(m.PeriodicOverruns.Inc)
	}
}

func (b *base) bumpFragmentsSent() {
	if b.metrics != nil {
		b.metrics.FragmentsSent.Inc()
	}
}

func newBase(opts config.Options, log logger.Logger, ls *listener.Set) *base {
	workers := new(errgroup.Group)
	if opts.ThreadPoolSize > 0 {
		workers.SetLimit(opts.ThreadPoolSize)
	}

	return &base{
		opts:      opts,
		log:       log,
		listeners: ls,
		subs:      subscriber.New(),
		workers:   workers,
	}
}

func (b *base) AddSubscribe(key string, handler subscriber.Handler) {
	b.subs.Register(key, handler)
}

func (b *base) Deregister(key string) {
	b.subs.Deregister(key)
}

// recvDeadline returns the per-read deadline each socket read uses
// (spec.md §6 recv_timeout_ms, the Go equivalent of SO_RCVTIMEO), falling
// back to pollInterval when unset so the read loop still notices shutdown
// within a bounded time.
func (b *base) recvDeadline() time.Duration {
	if b.opts.RecvTimeoutMs > 0 {
		return time.Duration(b.opts.RecvTimeoutMs) * time.Millisecond
	}
	return pollInterval
}

// newPollStartStop wraps fn in a StartStop whose Stop half is a no-op:
// fn is expected to return promptly once its context is cancelled.
func newPollStartStop(fn runner.StartFunc) runner.StartStop {
	return runner.New(fn, nil)
}

// resolveAndRun looks up the handler with router.Resolve and hands it to
// the bounded worker pool (config's thread_pool_size), so one slow
// handler cannot stall the socket reader that fed it.
func (b *base) resolveAndRun(msg subscriber.Message, srcIP string, srcPort int, localIP string, localPort int) {
	handler, _, ok := router.Resolve(b.subs, srcIP, srcPort, localIP, localPort)
	if !ok {
		if b.log != nil {
			b.log.Warning("no subscriber matched received message", liberr.ErrRoutingNoSubscriber.Error(), srcIP, srcPort)
		}
		if b.metrics != nil {
			b.metrics.DroppedNoSubscriber.Inc()
		}
		return
	}
	if b.metrics != nil {
		b.metrics.MessagesRouted.Inc()
	}
	b.workers.Go(func() error {
		handler(msg)
		return nil
	})
}
