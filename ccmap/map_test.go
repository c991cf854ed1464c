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

package ccmap_test

import (
	"sync"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/3shisan3/udp-tcp-communicate/ccmap"
)

func TestCCMap(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "CCMap Suite")
}

var _ = Describe("Map[K,V]", func() {
	It("supports Store/Load/Delete/LoadAndDelete/LoadOrStore", func() {
		m := ccmap.New[string, int]()

		m.Store("a", 1)
		v, ok := m.Load("a")
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(1))

		act, loaded := m.LoadOrStore("a", 2)
		Expect(loaded).To(BeTrue())
		Expect(act).To(Equal(1))

		act, loaded = m.LoadOrStore("b", 3)
		Expect(loaded).To(BeFalse())
		Expect(act).To(Equal(3))

		v, ok = m.LoadAndDelete("b")
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(3))

		_, ok = m.Load("b")
		Expect(ok).To(BeFalse())

		m.Delete("a")
		_, ok = m.Load("a")
		Expect(ok).To(BeFalse())
	})

	It("ranges, snapshots and reports length", func() {
		m := ccmap.New[int, string]()
		m.Store(1, "one")
		m.Store(2, "two")
		m.Store(3, "three")

		Expect(m.Len()).To(Equal(3))
		Expect(m.Snapshot()).To(ConsistOf("one", "two", "three"))

		seen := map[int]string{}
		m.Range(func(k int, v string) bool {
			seen[k] = v
			return true
		})
		Expect(seen).To(HaveLen(3))
	})

	It("clears every entry", func() {
		m := ccmap.New[string, int]()
		m.Store("a", 1)
		m.Store("b", 2)
		m.Clean()
		Expect(m.Len()).To(Equal(0))
	})

	It("does not invalidate concurrent lookups while writes happen", func() {
		m := ccmap.New[int, int]()
		m.Store(0, 0)

		var wg sync.WaitGroup
		wg.Add(2)

		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				m.Store(i, i)
			}
		}()

		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				m.Load(0)
			}
		}()

		wg.Wait()
		v, ok := m.Load(0)
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(0))
	})
})
