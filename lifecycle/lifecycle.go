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

// Package lifecycle is the bring-up/tear-down boundary of spec.md §4.10
// (component C11): read configuration, pick the protocol, construct the
// matching engine variant, wire listen_list/connect_list/send_list, and
// enforce that nothing else runs before initialize or after shutdown.
package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/3shisan3/udp-tcp-communicate/config"
	"github.com/3shisan3/udp-tcp-communicate/engine"
	liberr "github.com/3shisan3/udp-tcp-communicate/errors"
	"github.com/3shisan3/udp-tcp-communicate/logger"
	"github.com/3shisan3/udp-tcp-communicate/network/protocol"
	"github.com/3shisan3/udp-tcp-communicate/status"
)

// defaultMaxSendPacketUDP and defaultMaxSendPacketTCP are spec.md §6's
// divergent per-protocol defaults for max_send_packet_size.
const (
	defaultMaxSendPacketUDP = 1024
	defaultMaxSendPacketTCP = 1460
)

// Handle owns one initialized engine and its logger for the duration of
// a process's use of this module.
type Handle struct {
	mu  sync.Mutex
	eng engine.Communicator
	log logger.Logger
	doc *config.Document

	sendList []config.CommInfo
}

// Initialize loads configPath, builds the Communicator matching its
// protocol key, pre-wires every listen_list entry plus every connect_list
// entry (TCP) or send_list entry (UDP), and starts the engine's background
// loops. Metrics are registered
// against prometheus.DefaultRegisterer unless reg supplies a caller-owned
// Registerer (only the first one is used; pass none for the default).
func Initialize(configPath string, reg ...prometheus.Registerer) (*Handle, error) {
	doc, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	opts, err := doc.GetOptions()
	if err != nil {
		return nil, err
	}

	proto, err := protocol.Parse(opts.Protocol)
	if err != nil {
		return nil, liberr.ErrConfigUnsupported.Error(err)
	}

	log := newLogger(opts)

	applyProtocolDefaults(&opts, proto)

	var eng engine.Communicator
	switch proto {
	case protocol.NetworkTCP:
		eng = engine.NewTCP(opts, log)
	default:
		eng = engine.NewUDP(opts, log)
	}
	eng.SetMetrics(status.Register(metricsRegisterer(reg)))

	h := &Handle{eng: eng, log: log, doc: doc, sendList: opts.SendList}

	if err := h.wire(opts, proto); err != nil {
		return nil, err
	}

	if err := eng.Start(context.Background()); err != nil {
		return nil, err
	}

	return h, nil
}

// newLogger builds the logger for one engine instance and tags every
// entry it emits with a fresh instance id, so log lines from concurrent
// initialize/destroy cycles in the same process (spec.md §8's
// "initialize followed by destroy followed by initialize" law) can be
// told apart in a shared sink.
func newLogger(opts config.Options) logger.Logger {
	log := logger.New()
	log.SetLevel(logger.ParseLevelInt(opts.RuntimeLogLevel))
	log.SetFields(logger.Fields{"instance_id": uuid.NewString()})
	if opts.LogSavePath == "" || log.AddFileHook(logger.FileOptions{Directory: opts.LogSavePath}) != nil {
		log.AddStderrHook()
	}
	return log
}

// metricsRegisterer picks the caller-supplied Registerer out of
// Initialize's variadic tail, falling back to prometheus.DefaultRegisterer
// so the counters status.Register creates are always reachable by
// whatever scrapes the process's default registry (e.g. promhttp.Handler)
// even when the caller passes none.
func metricsRegisterer(reg []prometheus.Registerer) prometheus.Registerer {
	if len(reg) > 0 && reg[0] != nil {
		return reg[0]
	}
	return prometheus.DefaultRegisterer
}

func applyProtocolDefaults(opts *config.Options, proto protocol.NetworkProtocol) {
	if opts.MaxSendPacketSize > 0 {
		return
	}
	if proto == protocol.NetworkTCP {
		opts.MaxSendPacketSize = defaultMaxSendPacketTCP
	} else {
		opts.MaxSendPacketSize = defaultMaxSendPacketUDP
	}
}

// wire binds every listen_list entry, and — per protocol, spec.md §4.10
// step 4 — pre-creates a send socket for every send_list entry (UDP) or
// dials every connect_list entry (TCP), fanning the independent setup
// steps out with errgroup the way the teacher's own multi-step bring-up
// does.
func (h *Handle) wire(opts config.Options, proto protocol.NetworkProtocol) error {
	g := new(errgroup.Group)

	for _, l := range opts.ListenList {
		l := l
		g.Go(func() error {
			return h.eng.AddListen(l.IP, l.Port)
		})
	}

	if proto == protocol.NetworkTCP {
		g.Go(func() error {
			return warmConnections(h.eng, "connect", opts.ConnectList)
		})
	} else {
		g.Go(func() error {
			return warmConnections(h.eng, "send", opts.SendList)
		})
	}

	return g.Wait()
}

// warmConnections is a package-level hook so both protocol variants can
// share the same pre-creation behavior regardless of whether their
// underlying pool type is sendpool or connpool; the Communicator
// interface does not expose pool internals, so this issues a zero-length
// warm-up send instead (harmless for UDP's pooled sockets, and for TCP it
// is exactly a dial with nothing written).
func warmConnections(eng engine.Communicator, listName string, list []config.CommInfo) error {
	for _, c := range list {
		if _, err := eng.Send(c.IP, c.Port, []byte{}); err != nil {
			return fmt.Errorf("pre-creating %s_list entry %s:%d: %w", listName, c.IP, c.Port, err)
		}
	}
	return nil
}

// Destroy stops the engine's background loops and releases every socket.
func (h *Handle) Destroy() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.eng == nil {
		return liberr.ErrEngineAlreadyShutdown.Error()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := h.eng.Shutdown(ctx)
	h.eng = nil
	return err
}

// Engine returns the underlying Communicator, failing with
// ErrEngineNotInitialized if Destroy has already run.
func (h *Handle) Engine() (engine.Communicator, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.eng == nil {
		return nil, liberr.ErrEngineNotInitialized.Error()
	}
	return h.eng, nil
}

// SendList returns the send_list entries read at Initialize time, used
// by facade.Broadcast to reach every configured destination.
func (h *Handle) SendList() []config.CommInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sendList
}
