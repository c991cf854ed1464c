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

package listener_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/3shisan3/udp-tcp-communicate/listener"
)

func TestListener(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Listener Set Suite")
}

var _ = Describe("UDP listen set", func() {
	It("binds an ephemeral listener and reports it in Snapshot", func() {
		set := listener.NewUDP()
		defer set.CloseAll()

		l, err := set.Add("127.0.0.1", 0)
		Expect(err).ToNot(HaveOccurred())
		Expect(l.PC).ToNot(BeNil())
		Expect(set.Len()).To(Equal(1))
		Expect(set.Snapshot()).To(HaveLen(1))
	})

	It("rejects duplicate keys as a no-op success", func() {
		set := listener.NewUDP()
		defer set.CloseAll()

		first, err := set.Add("127.0.0.1", 0)
		Expect(err).ToNot(HaveOccurred())

		// Re-adding the identical (ip, port) key returns the existing
		// listener rather than erroring or creating a second socket.
		again, err := set.Add(first.EP.IP, first.EP.Port)
		Expect(err).ToNot(HaveOccurred())
		Expect(again).To(BeIdenticalTo(first))
		Expect(set.Len()).To(Equal(1))
	})

	It("closes and forgets every listener on CloseAll", func() {
		set := listener.NewUDP()
		_, err := set.Add("127.0.0.1", 0)
		Expect(err).ToNot(HaveOccurred())

		set.CloseAll()
		Expect(set.Len()).To(Equal(0))
	})

	It("reports created=true only for the call that actually binds", func() {
		set := listener.NewUDP()
		defer set.CloseAll()

		l, created, err := set.AddNew("127.0.0.1", 0)
		Expect(err).ToNot(HaveOccurred())
		Expect(created).To(BeTrue())

		again, created, err := set.AddNew(l.EP.IP, l.EP.Port)
		Expect(err).ToNot(HaveOccurred())
		Expect(created).To(BeFalse())
		Expect(again).To(BeIdenticalTo(l))
	})
})

var _ = Describe("TCP listen set", func() {
	It("binds and listens on a TCP address", func() {
		set := listener.NewTCP(5)
		defer set.CloseAll()

		l, err := set.Add("127.0.0.1", 0)
		Expect(err).ToNot(HaveOccurred())
		Expect(l.LN).ToNot(BeNil())
	})

	It("no two entries ever share an endpoint key", func() {
		set := listener.NewTCP(5)
		defer set.CloseAll()

		l1, err := set.Add("127.0.0.1", 0)
		Expect(err).ToNot(HaveOccurred())

		l2, err := set.Add(l1.EP.IP, l1.EP.Port)
		Expect(err).ToNot(HaveOccurred())
		Expect(l2.Key).To(Equal(l1.Key))
		Expect(set.Len()).To(Equal(1))
	})
})
