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

// Package subscriber holds the routing table of spec.md §4.2: a concurrent
// map from endpoint key to handler, with last-write-wins registration and
// lock-free lookups via ccmap's sync.Map backing.
package subscriber

import (
	"github.com/3shisan3/udp-tcp-communicate/ccmap"
)

// Message is a shared-owned, immutable byte slice handed to a Handler.
// Once constructed it is never mutated, so no lock is required to read it
// (spec.md §5, "shared-owned discipline").
type Message []byte

// Handler processes one received message. The engine never inspects the
// returned int; it is advisory only (spec.md §6).
type Handler func(msg Message) int

// Table is the concurrent key -> Handler map.
type Table struct {
	m *ccmap.Map[string, Handler]
}

// New returns an empty subscriber Table.
func New() *Table {
	return &Table{m: ccmap.New[string, Handler]()}
}

// Register installs handler under key, replacing any prior registration
// (last-write-wins).
func (t *Table) Register(key string, handler Handler) {
	t.m.Store(key, handler)
}

// Find looks up the handler registered under key.
func (t *Table) Find(key string) (Handler, bool) {
	return t.m.Load(key)
}

// Deregister removes the handler registered under key, if any.
func (t *Table) Deregister(key string) {
	t.m.Delete(key)
}

// Clear removes every registration, used by engine shutdown.
func (t *Table) Clear() {
	t.m.Clean()
}

// Len reports how many handlers are currently registered.
func (t *Table) Len() int {
	return t.m.Len()
}
