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

package ctxbox_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/3shisan3/udp-tcp-communicate/ctxbox"
)

func TestCtxBox(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "CtxBox Suite")
}

var _ = Describe("Box[T]", func() {
	It("fails fast when unset", func() {
		b := ctxbox.New[int]()
		Expect(b.IsSet()).To(BeFalse())
		_, ok := b.Load()
		Expect(ok).To(BeFalse())
	})

	It("stores, loads and clears a value", func() {
		b := ctxbox.New[string]()
		b.Store("engine")

		Expect(b.IsSet()).To(BeTrue())
		v, ok := b.Load()
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal("engine"))

		b.Clear()
		Expect(b.IsSet()).To(BeFalse())
	})

	It("replaces a previous value on Store", func() {
		b := ctxbox.New[int]()
		b.Store(1)
		b.Store(2)

		v, ok := b.Load()
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(2))
	})
})
