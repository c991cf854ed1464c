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

package status_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/3shisan3/udp-tcp-communicate/status"
)

func TestStatus(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Status Metrics Suite")
}

func counterValue(c prometheus.Counter) float64 {
	m := &dto.Metric{}
	Expect(c.Write(m)).To(Succeed())
	return m.GetCounter().GetValue()
}

var _ = Describe("Register", func() {
	It("registers every counter under the commengine namespace", func() {
		reg := prometheus.NewRegistry()
		m := status.Register(reg)

		Expect(m.MessagesRouted).ToNot(BeNil())
		Expect(m.FragmentsSent).ToNot(BeNil())
		Expect(m.PeriodicOverruns).ToNot(BeNil())
		Expect(m.DroppedNoSubscriber).ToNot(BeNil())

		families, err := reg.Gather()
		Expect(err).ToNot(HaveOccurred())
		Expect(families).To(HaveLen(4))
	})

	It("increments independently per counter", func() {
		m := status.Register(prometheus.NewRegistry())

		m.MessagesRouted.Inc()
		m.MessagesRouted.Inc()
		m.FragmentsSent.Inc()

		Expect(counterValue(m.MessagesRouted)).To(Equal(2.0))
		Expect(counterValue(m.FragmentsSent)).To(Equal(1.0))
		Expect(counterValue(m.PeriodicOverruns)).To(Equal(0.0))
	})
})
