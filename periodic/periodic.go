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

// Package periodic is the scheduled-send facility of spec.md §4.7
// (component C8): each registered task owns a worker goroutine built on
// runner.StartStop that repeatedly resends a fixed, copied-at-creation
// payload and sleeps the residual of its rate interval, logging an
// overrun instead of catching up when the send took longer than the
// period. Tasks are addressed externally by a caller-supplied id, or are
// anonymous (requestedID == AutoID) and only reachable at shutdown.
package periodic

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/3shisan3/udp-tcp-communicate/ccmap"
	liberr "github.com/3shisan3/udp-tcp-communicate/errors"
	"github.com/3shisan3/udp-tcp-communicate/logger"
	"github.com/3shisan3/udp-tcp-communicate/runner"
)

const (
	minRateHz = 1
	maxRateHz = 1000

	minPort = 1
	maxPort = 65535
)

// AutoID is the requested-id sentinel meaning "auto-assign, not
// individually removable" (spec.md §4.7).
const AutoID = -1

// Sender delivers one payload to (ip, port); supplied by the engine so
// periodic stays transport-agnostic between the UDP and TCP variants.
type Sender func(ctx context.Context, ip string, port int, payload []byte) error

// Table owns every registered periodic task. internalID increases
// monotonically from 1 and never repeats within the table's lifetime;
// externalID maps only the caller-addressable tasks to their internalID.
type Table struct {
	log       logger.Logger
	sender    Sender
	onOverrun func()

	nextInternalID int64

	externalToInternal *ccmap.Map[int, int64]
	byInternalID       *ccmap.Map[int64, *task]

	mu sync.Mutex // guards duplicate-id check + registration
}

// OnOverrun installs fn to be called every time a task's generate+send
// step takes longer than its configured period; used by the engine to
// feed an optional metrics counter.
func (t *Table) OnOverrun(fn func()) {
	t.onOverrun = fn
}

type task struct {
	internalID int64
	ip         string
	port       int
	period     time.Duration
	payload    []byte
	sender     Sender
	log        logger.Logger
	table      *Table

	ss runner.StartStop
}

// New returns an empty periodic task Table. sender is used by every task
// to deliver its payload.
func New(log logger.Logger, sender Sender) *Table {
	return &Table{
		log:                log,
		sender:             sender,
		externalToInternal: ccmap.New[int, int64](),
		byInternalID:       ccmap.New[int64, *task](),
	}
}

// Add validates and registers a new periodic task, copying payload and
// starting its worker immediately. The returned error, when non-nil, is
// always an errors.Error carrying one of the negative periodic codes of
// spec.md §7.
func (t *Table) Add(requestedID int, ip string, port int, payload []byte, rateHz int) error {
	if rateHz < minRateHz || rateHz > maxRateHz {
		return liberr.ErrPeriodicInvalidRate.Error()
	}
	if len(payload) == 0 {
		return liberr.ErrPeriodicInvalidData.Error()
	}
	if ip == "" || port < minPort || port > maxPort {
		return liberr.ErrPeriodicInvalidAddress.Error()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if requestedID != AutoID {
		if _, exists := t.externalToInternal.Load(requestedID); exists {
			return liberr.ErrPeriodicDuplicateID.Error()
		}
	}

	buf := make([]byte, len(payload))
	copy(buf, payload)

	internalID := atomic.AddInt64(&t.nextInternalID, 1)

	tk := &task{
		internalID: internalID,
		ip:         ip,
		port:       port,
		period:     time.Second / time.Duration(rateHz),
		payload:    buf,
		sender:     t.sender,
		log:        t.log,
		table:      t,
	}
	tk.ss = runner.New(tk.run, nil)

	if err := tk.ss.Start(context.Background()); err != nil {
		return liberr.ErrPeriodicThreadFailed.Error(err)
	}

	t.byInternalID.Store(internalID, tk)
	if requestedID != AutoID {
		t.externalToInternal.Store(requestedID, internalID)
	}
	return nil
}

// Remove stops and forgets the task registered under requestedID. It
// reports ErrPeriodicNotFound if requestedID is unknown or is AutoID,
// since anonymous tasks are never individually addressable (spec.md
// §4.7).
func (t *Table) Remove(requestedID int) error {
	internalID, ok := t.externalToInternal.LoadAndDelete(requestedID)
	if !ok {
		return liberr.ErrPeriodicNotFound.Error()
	}

	tk, ok := t.byInternalID.LoadAndDelete(internalID)
	if !ok {
		return liberr.ErrPeriodicNotFound.Error()
	}
	_ = tk.ss.Stop(context.Background())
	return nil
}

// RemoveAll stops and forgets every registered task, addressable or
// anonymous, used on shutdown.
func (t *Table) RemoveAll() {
	for _, tk := range t.byInternalID.Snapshot() {
		_ = tk.ss.Stop(context.Background())
	}
	t.byInternalID.Clean()
	t.externalToInternal.Clean()
}

// Len reports how many periodic tasks are currently registered.
func (t *Table) Len() int {
	return t.byInternalID.Len()
}

// run is the monotonic residual-sleep loop of spec.md §4.7: send the
// fixed payload, measure elapsed time, sleep what remains of the period
// or log an overrun.
func (tk *task) run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		start := time.Now()

		if err := tk.sender(ctx, tk.ip, tk.port, tk.payload); err != nil {
			if tk.log != nil {
				tk.log.Error("periodic task send failed", err, tk.internalID)
			}
		}

		elapsed := time.Since(start)
		residual := tk.period - elapsed

		if residual > 0 {
			timer := time.NewTimer(residual)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil
			case <-timer.C:
			}
		} else {
			if tk.log != nil {
				tk.log.Warning("periodic task overran its period", -residual, tk.internalID)
			}
			if tk.table.onOverrun != nil {
				tk.table.onOverrun()
			}
		}
	}
}
