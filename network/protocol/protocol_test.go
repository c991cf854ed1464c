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

package protocol_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/3shisan3/udp-tcp-communicate/network/protocol"
)

func TestProtocol(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Protocol Suite")
}

var _ = Describe("Parse", func() {
	It("defaults an empty string to udp", func() {
		p, err := protocol.Parse("")
		Expect(err).ToNot(HaveOccurred())
		Expect(p).To(Equal(protocol.NetworkUDP))
	})

	It("is case-insensitive", func() {
		p, err := protocol.Parse("TCP")
		Expect(err).ToNot(HaveOccurred())
		Expect(p).To(Equal(protocol.NetworkTCP))
	})

	It("rejects an unknown protocol", func() {
		_, err := protocol.Parse("sctp")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("String/MarshalText/UnmarshalText", func() {
	It("round-trips through text marshaling", func() {
		p := protocol.NetworkTCP
		b, err := p.MarshalText()
		Expect(err).ToNot(HaveOccurred())
		Expect(string(b)).To(Equal("tcp"))

		var out protocol.NetworkProtocol
		Expect(out.UnmarshalText(b)).To(Succeed())
		Expect(out).To(Equal(p))
	})

	It("stringifies udp as the fallback", func() {
		Expect(protocol.NetworkProtocol(99).String()).To(Equal("udp"))
	})
})
