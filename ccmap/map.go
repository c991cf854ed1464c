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

// Package ccmap provides a small typed wrapper over sync.Map, used
// everywhere this module needs a reader-preferring concurrent map: the
// subscriber table, listen set, send/connection pools and periodic task
// table all share this single implementation instead of each rolling
// their own locking.
package ccmap

import "sync"

// Map is a generic, concurrency-safe map backed by sync.Map. Many
// concurrent readers and occasional writers are the expected access
// pattern; no external locking is required.
type Map[K comparable, V any] struct {
	m sync.Map
}

// New returns an empty Map ready to use.
func New[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{}
}

func (o *Map[K, V]) Load(key K) (V, bool) {
	var zero V

	v, ok := o.m.Load(key)
	if !ok {
		return zero, false
	}

	vv, ok := v.(V)
	if !ok {
		return zero, false
	}

	return vv, true
}

func (o *Map[K, V]) Store(key K, value V) {
	o.m.Store(key, value)
}

func (o *Map[K, V]) LoadOrStore(key K, value V) (V, bool) {
	v, loaded := o.m.LoadOrStore(key, value)
	vv, _ := v.(V)
	return vv, loaded
}

func (o *Map[K, V]) LoadAndDelete(key K) (V, bool) {
	var zero V

	v, ok := o.m.LoadAndDelete(key)
	if !ok {
		return zero, false
	}

	vv, ok := v.(V)
	if !ok {
		return zero, false
	}

	return vv, true
}

func (o *Map[K, V]) Delete(key K) {
	o.m.Delete(key)
}

// Range calls f for every entry, stopping early if f returns false. The
// semantics match sync.Map.Range: concurrent Store/Delete during a Range
// may or may not be observed by it.
func (o *Map[K, V]) Range(f func(key K, value V) bool) {
	o.m.Range(func(key, value any) bool {
		k, ok := key.(K)
		if !ok {
			return true
		}

		v, ok := value.(V)
		if !ok {
			return true
		}

		return f(k, v)
	})
}

// Len walks the map to count its entries. sync.Map has no O(1) size, so
// this is O(n); callers on a hot path should avoid it.
func (o *Map[K, V]) Len() int {
	n := 0
	o.Range(func(K, V) bool {
		n++
		return true
	})
	return n
}

// Snapshot returns a copy of all values currently stored; keys are not
// included.
func (o *Map[K, V]) Snapshot() []V {
	out := make([]V, 0)
	o.Range(func(_ K, v V) bool {
		out = append(out, v)
		return true
	})
	return out
}

// Clean removes every entry from the map.
func (o *Map[K, V]) Clean() {
	o.m.Range(func(key, _ any) bool {
		o.m.Delete(key)
		return true
	})
}
