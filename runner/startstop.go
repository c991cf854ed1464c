/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
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

// Package runner provides a small start/stop lifecycle primitive used to
// back every background loop in this module (the poll loop, the TCP
// acceptor loop, and each periodic task worker), instead of each one
// hand-rolling its own goroutine/channel bookkeeping.
package runner

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// StartFunc runs until ctx is cancelled or it decides to return on its own.
type StartFunc func(ctx context.Context) error

// StopFunc is called to request a running StartFunc to return.
type StopFunc func(ctx context.Context) error

// StartStop is a restartable background task with observable state.
type StartStop interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Restart(ctx context.Context) error
	IsRunning() bool
	Uptime() time.Duration
	ErrorsLast() error
	ErrorsList() []error
}

type startStop struct {
	m sync.Mutex

	start StartFunc
	stop  StopFunc

	running atomic.Bool
	begun   atomic.Value // time.Time

	cancel context.CancelFunc
	done   chan struct{}

	errM sync.Mutex
	errs []error
}

// New returns a StartStop wrapping start/stop. Either may be nil; calling
// Start/Stop with a nil function is a no-op for that half of the pair.
func New(start StartFunc, stop StopFunc) StartStop {
	return &startStop{start: start, stop: stop}
}

func (s *startStop) Start(ctx context.Context) error {
	s.m.Lock()
	defer s.m.Unlock()

	if s.running.Load() {
		// Starting again stops the previous instance first, matching the
		// teacher's "calling Start() again stops the previous instance"
		// contract.
		s.stopLocked(ctx)
	}

	if s.start == nil {
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.begun.Store(time.Now())
	s.running.Store(true)

	go func() {
		defer close(s.done)
		defer s.running.Store(false)

		if err := s.start(runCtx); err != nil {
			s.pushErr(err)
		}
	}()

	return nil
}

func (s *startStop) Stop(ctx context.Context) error {
	s.m.Lock()
	defer s.m.Unlock()
	return s.stopLocked(ctx)
}

func (s *startStop) stopLocked(ctx context.Context) error {
	if !s.running.Load() && s.cancel == nil {
		return nil
	}

	if s.cancel != nil {
		s.cancel()
	}

	if s.stop != nil {
		if err := s.stop(ctx); err != nil {
			s.pushErr(err)
		}
	}

	if s.done != nil {
		<-s.done
	}

	s.cancel = nil
	s.running.Store(false)
	return nil
}

func (s *startStop) Restart(ctx context.Context) error {
	s.m.Lock()
	s.stopLocked(ctx)
	s.m.Unlock()
	return s.Start(ctx)
}

func (s *startStop) IsRunning() bool {
	return s.running.Load()
}

func (s *startStop) Uptime() time.Duration {
	if !s.running.Load() {
		return 0
	}
	t, ok := s.begun.Load().(time.Time)
	if !ok {
		return 0
	}
	return time.Since(t)
}

func (s *startStop) pushErr(err error) {
	s.errM.Lock()
	defer s.errM.Unlock()
	s.errs = append(s.errs, err)
}

func (s *startStop) ErrorsLast() error {
	s.errM.Lock()
	defer s.errM.Unlock()
	if len(s.errs) == 0 {
		return nil
	}
	return s.errs[len(s.errs)-1]
}

func (s *startStop) ErrorsList() []error {
	s.errM.Lock()
	defer s.errM.Unlock()
	out := make([]error, len(s.errs))
	copy(out, s.errs)
	return out
}
