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

// Package status is the optional observability surface: counters for
// routed messages, sent fragments, periodic overruns and dropped
// no-subscriber messages, registered against a caller-supplied
// prometheus.Registerer. No component in spec.md exposes a wire-level
// metrics protocol, so this is purely the ambient instrumentation layer
// the teacher's own stack carries regardless of feature Non-goals.
package status

import "github.com/prometheus/client_golang/prometheus"

// Metrics bundles every counter this module exposes.
type Metrics struct {
	MessagesRouted      prometheus.Counter
	FragmentsSent       prometheus.Counter
	PeriodicOverruns    prometheus.Counter
	DroppedNoSubscriber prometheus.Counter
}

// Register creates and registers Metrics against reg under the
// "commengine" namespace. A second Initialize against the same reg (e.g.
// prometheus.DefaultRegisterer across an initialize/destroy/initialize
// cycle in one process) reuses the already-registered collectors instead
// of panicking, since reg is shared process-wide state this package does
// not own.
func Register(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		MessagesRouted: registerCounter(reg, prometheus.CounterOpts{
			Namespace: "commengine",
			Name:      "messages_routed_total",
			Help:      "Number of received messages successfully routed to a subscriber.",
		}),
		FragmentsSent: registerCounter(reg, prometheus.CounterOpts{
			Namespace: "commengine",
			Name:      "fragments_sent_total",
			Help:      "Number of outgoing datagram fragments written to a socket.",
		}),
		PeriodicOverruns: registerCounter(reg, prometheus.CounterOpts{
			Namespace: "commengine",
			Name:      "periodic_overruns_total",
			Help:      "Number of periodic task iterations that exceeded their period.",
		}),
		DroppedNoSubscriber: registerCounter(reg, prometheus.CounterOpts{
			Namespace: "commengine",
			Name:      "dropped_no_subscriber_total",
			Help:      "Number of received messages dropped for lack of a matching subscriber.",
		}),
	}
}

// registerCounter registers a new counter, or returns the collector
// already registered under the same descriptor if reg has seen it before.
func registerCounter(reg prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	c := prometheus.NewCounter(opts)
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(prometheus.Counter)
		}
	}
	return c
}
