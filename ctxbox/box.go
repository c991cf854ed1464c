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

// Package ctxbox replaces the process-wide singleton templates the
// original source used for its communicator with a single owned handle
// behind a module-scoped once-cell, per the redesign notes in spec.md §9.
package ctxbox

import "sync/atomic"

// Box holds at most one value of type T, set by Store (which replaces any
// earlier value) and cleared by Clear. It is safe for concurrent use.
type Box[T any] struct {
	v atomic.Pointer[T]
}

// New returns an empty Box.
func New[T any]() *Box[T] {
	return &Box[T]{}
}

// Store installs val as the current value, replacing any previous one.
func (b *Box[T]) Store(val T) {
	b.v.Store(&val)
}

// Load returns the current value and whether one is set.
func (b *Box[T]) Load() (T, bool) {
	p := b.v.Load()
	if p == nil {
		var zero T
		return zero, false
	}
	return *p, true
}

// Clear removes the current value, if any.
func (b *Box[T]) Clear() {
	b.v.Store(nil)
}

// IsSet reports whether a value is currently stored.
func (b *Box[T]) IsSet() bool {
	return b.v.Load() != nil
}
