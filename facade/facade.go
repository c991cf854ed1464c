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

// Package facade is the external surface of spec.md §6 (component C12):
// a single package-scoped engine handle reachable by every exported
// function here, replacing the process-wide globals a C-ABI library
// would expose with ctxbox's once-cell (spec.md §9).
package facade

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/3shisan3/udp-tcp-communicate/ctxbox"
	"github.com/3shisan3/udp-tcp-communicate/endpoint"
	liberr "github.com/3shisan3/udp-tcp-communicate/errors"
	"github.com/3shisan3/udp-tcp-communicate/lifecycle"
	"github.com/3shisan3/udp-tcp-communicate/periodic"
	"github.com/3shisan3/udp-tcp-communicate/subscriber"
)

var handle ctxbox.Box[*lifecycle.Handle]

// Initialize loads configPath and brings up the engine it describes.
// Calling it again before Destroy replaces the previous engine. reg, if
// given, is where the engine's status counters are registered; omit it to
// use prometheus.DefaultRegisterer.
func Initialize(configPath string, reg ...prometheus.Registerer) error {
	h, err := lifecycle.Initialize(configPath, reg...)
	if err != nil {
		return err
	}
	handle.Store(h)
	return nil
}

// Destroy tears down the active engine and clears the handle.
func Destroy() error {
	h, ok := handle.Load()
	if !ok {
		return liberr.ErrEngineAlreadyShutdown.Error()
	}
	err := h.Destroy()
	handle.Clear()
	return err
}

func current() (*lifecycle.Handle, error) {
	h, ok := handle.Load()
	if !ok {
		return nil, liberr.ErrEngineNotInitialized.Error()
	}
	return h, nil
}

// Send delivers payload to (ip, port) over the active engine.
func Send(ip string, port int, payload []byte) (int, error) {
	h, err := current()
	if err != nil {
		return 0, err
	}
	eng, err := h.Engine()
	if err != nil {
		return 0, err
	}
	return eng.Send(ip, port, payload)
}

// AsyncSend delivers payload to (ip, port) without blocking the caller;
// the returned channel resolves exactly once with the outcome.
func AsyncSend(ctx context.Context, ip string, port int, payload []byte) (<-chan struct {
	N   int
	Err error
}, error) {
	h, err := current()
	if err != nil {
		return nil, err
	}
	eng, err := h.Engine()
	if err != nil {
		return nil, err
	}

	out := make(chan struct {
		N   int
		Err error
	}, 1)
	res := eng.AsyncSend(ctx, ip, port, payload)
	go func() {
		r := <-res
		out <- struct {
			N   int
			Err error
		}{N: r.N, Err: r.Err}
		close(out)
	}()
	return out, nil
}

// Broadcast is the spec.md §9 adopted reading of broadcast(bytes): send
// to every configured send_list destination, aggregating the first error.
func Broadcast(payload []byte) error {
	h, err := current()
	if err != nil {
		return err
	}
	eng, err := h.Engine()
	if err != nil {
		return err
	}

	var firstErr error
	for _, dst := range h.SendList() {
		if _, serr := eng.Send(dst.IP, dst.Port, payload); serr != nil && firstErr == nil {
			firstErr = serr
		}
	}
	return firstErr
}

// AddListener binds a new receive socket at (ip, port).
func AddListener(ip string, port int) error {
	h, err := current()
	if err != nil {
		return err
	}
	eng, err := h.Engine()
	if err != nil {
		return err
	}
	return eng.AddListen(ip, port)
}

// Subscribe registers handler under the exact (ip, port) key.
func Subscribe(ip string, port int, handler subscriber.Handler) error {
	return subscribeKey(endpoint.Key(ip, port), handler)
}

// SubscribeRemote registers handler to match messages from a given
// remote sender regardless of which local socket received them.
func SubscribeRemote(remoteIP string, remotePort int, handler subscriber.Handler) error {
	return subscribeKey(endpoint.Key(remoteIP, remotePort), handler)
}

// SubscribeLocal registers handler under the local-port wildcard: any
// sender, received on localPort. A listener bound to any local address on
// localPort is added first if one isn't already present, matching the
// original SubscribeLocal's addListenAddr-then-addSubscribe ordering —
// otherwise a local_port never named in listen_list would silently
// receive nothing.
func SubscribeLocal(localPort int, handler subscriber.Handler) error {
	if err := AddListener("", localPort); err != nil {
		return err
	}
	return subscribeKey(endpoint.Key(endpoint.LocalWildcard, localPort), handler)
}

// SubscribeAny registers handler under the global any-any wildcard.
func SubscribeAny(handler subscriber.Handler) error {
	return subscribeKey(endpoint.Key("", 0), handler)
}

func subscribeKey(key string, handler subscriber.Handler) error {
	h, err := current()
	if err != nil {
		return err
	}
	eng, err := h.Engine()
	if err != nil {
		return err
	}
	eng.AddSubscribe(key, handler)
	return nil
}

// AddPeriodic registers a scheduled send task that resends payload at
// rateHz toward (ip, port). requestedID addresses it for later removal;
// pass periodic.AutoID to register an anonymous task only reachable at
// Destroy. See periodic.Table.Add for the validation taxonomy returned
// on failure.
func AddPeriodic(requestedID int, ip string, port int, payload []byte, rateHz int) error {
	h, err := current()
	if err != nil {
		return err
	}
	eng, err := h.Engine()
	if err != nil {
		return err
	}
	return eng.AddPeriodic(requestedID, ip, port, payload, rateHz)
}

// RemovePeriodic stops and forgets a previously registered periodic task.
func RemovePeriodic(requestedID int) error {
	h, err := current()
	if err != nil {
		return err
	}
	eng, err := h.Engine()
	if err != nil {
		return err
	}
	return eng.RemovePeriodic(requestedID)
}

// SetSendPort changes the default source port (and, optionally, source
// ip) future sends bind from (spec.md §6 set_send_port). Existing pooled
// or established connections are unaffected; only connections created
// after this call use the new default.
func SetSendPort(port int, ip string) error {
	h, err := current()
	if err != nil {
		return err
	}
	eng, err := h.Engine()
	if err != nil {
		return err
	}
	return eng.SetSendPort(port, ip)
}
