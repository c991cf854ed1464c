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

package engine_test

import (
	"context"
	"net"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/3shisan3/udp-tcp-communicate/config"
	"github.com/3shisan3/udp-tcp-communicate/endpoint"
	"github.com/3shisan3/udp-tcp-communicate/engine"
	"github.com/3shisan3/udp-tcp-communicate/subscriber"
)

func TestEngine(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Communicator Engine Suite")
}

// freeUDPPort reserves and releases an ephemeral UDP port so the engine
// under test can be told to bind an address known ahead of time.
func freeUDPPort() int {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	Expect(err).ToNot(HaveOccurred())
	port := pc.LocalAddr().(*net.UDPAddr).Port
	Expect(pc.Close()).To(Succeed())
	return port
}

func freeTCPPort() int {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	Expect(err).ToNot(HaveOccurred())
	port := ln.Addr().(*net.TCPAddr).Port
	Expect(ln.Close()).To(Succeed())
	return port
}

func newUDPEngine(port int) engine.Communicator {
	opts := config.Defaults()
	opts.Protocol = "udp"
	opts.MaxSendPacketSize = 100
	e := engine.NewUDP(opts, nil)
	Expect(e.AddListen("127.0.0.1", port)).To(Succeed())
	return e
}

var _ = Describe("UDP routing", func() {
	It("delivers to the global wildcard subscriber (scenario: wildcard routing)", func() {
		port := freeUDPPort()
		e := newUDPEngine(port)
		Expect(e.Start(context.Background())).To(Succeed())
		defer e.Shutdown(context.Background())

		received := make(chan subscriber.Message, 1)
		e.AddSubscribe(endpoint.Key("", 0), func(msg subscriber.Message) int {
			received <- msg
			return 0
		})

		conn, err := net.Dial("udp", "127.0.0.1:"+portString(port))
		Expect(err).ToNot(HaveOccurred())
		defer conn.Close()

		_, err = conn.Write([]byte("hello"))
		Expect(err).ToNot(HaveOccurred())

		var msg subscriber.Message
		Eventually(received, time.Second).Should(Receive(&msg))
		Expect(msg).To(HaveLen(5))
		Expect(string(msg)).To(Equal("hello"))
	})

	It("prefers sender-exact over local-wildcard and global-wildcard (scenario: precedence)", func() {
		port := freeUDPPort()
		e := newUDPEngine(port)
		Expect(e.Start(context.Background())).To(Succeed())
		defer e.Shutdown(context.Background())

		var h1Called, h2Called int32
		h3 := make(chan subscriber.Message, 1)

		e.AddSubscribe(endpoint.Key("", 0), func(msg subscriber.Message) int {
			atomic.AddInt32(&h1Called, 1)
			return 0
		})
		e.AddSubscribe(endpoint.Key("localhost", port), func(msg subscriber.Message) int {
			atomic.AddInt32(&h2Called, 1)
			return 0
		})

		conn, err := net.Dial("udp", "127.0.0.1:"+portString(port))
		Expect(err).ToNot(HaveOccurred())
		defer conn.Close()

		localPort := conn.LocalAddr().(*net.UDPAddr).Port
		e.AddSubscribe(endpoint.Key("127.0.0.1", localPort), func(msg subscriber.Message) int {
			h3 <- msg
			return 0
		})

		_, err = conn.Write([]byte("x"))
		Expect(err).ToNot(HaveOccurred())

		Eventually(h3, time.Second).Should(Receive(Equal(subscriber.Message("x"))))
		Consistently(func() int32 { return atomic.LoadInt32(&h1Called) }, 100*time.Millisecond).Should(Equal(int32(0)))
		Consistently(func() int32 { return atomic.LoadInt32(&h2Called) }, 100*time.Millisecond).Should(Equal(int32(0)))
	})
})

var _ = Describe("AddListen after Start", func() {
	It("starts reading a listener added once the poll loop is already running", func() {
		firstPort := freeUDPPort()
		e := newUDPEngine(firstPort)
		Expect(e.Start(context.Background())).To(Succeed())
		defer e.Shutdown(context.Background())

		secondPort := freeUDPPort()
		received := make(chan subscriber.Message, 1)
		e.AddSubscribe(endpoint.Key("", 0), func(msg subscriber.Message) int {
			received <- msg
			return 0
		})

		Expect(e.AddListen("127.0.0.1", secondPort)).To(Succeed())

		conn, err := net.Dial("udp", "127.0.0.1:"+portString(secondPort))
		Expect(err).ToNot(HaveOccurred())
		defer conn.Close()

		_, err = conn.Write([]byte("late-bind"))
		Expect(err).ToNot(HaveOccurred())

		Eventually(received, time.Second).Should(Receive(Equal(subscriber.Message("late-bind"))))
	})
})

var _ = Describe("UDP fragmentation", func() {
	It("splits a 250-byte send into 100, 100, 50 at the engine's configured max", func() {
		srvPort := freeUDPPort()
		pc, err := net.ListenPacket("udp", "127.0.0.1:"+portString(srvPort))
		Expect(err).ToNot(HaveOccurred())
		defer pc.Close()

		sizes := make(chan int, 8)
		go func() {
			buf := make([]byte, 65507)
			for {
				n, _, err := pc.ReadFrom(buf)
				if err != nil {
					return
				}
				sizes <- n
			}
		}()

		opts := config.Defaults()
		opts.MaxSendPacketSize = 100
		e := engine.NewUDP(opts, nil)
		defer e.Shutdown(context.Background())

		n, err := e.Send("127.0.0.1", srvPort, make([]byte, 250))
		Expect(err).ToNot(HaveOccurred())
		Expect(n).To(Equal(250))

		Eventually(sizes, time.Second).Should(Receive(Equal(100)))
		Eventually(sizes, time.Second).Should(Receive(Equal(100)))
		Eventually(sizes, time.Second).Should(Receive(Equal(50)))
	})
})

var _ = Describe("TCP accept cap", func() {
	It("establishes exactly max_connections and closes the rest", func() {
		port := freeTCPPort()

		opts := config.Defaults()
		opts.Protocol = "tcp"
		opts.MaxConnections = 2
		e := engine.NewTCP(opts, nil)
		Expect(e.AddListen("127.0.0.1", port)).To(Succeed())
		Expect(e.Start(context.Background())).To(Succeed())
		defer e.Shutdown(context.Background())

		dial := func() net.Conn {
			c, err := net.Dial("tcp", "127.0.0.1:"+portString(port))
			Expect(err).ToNot(HaveOccurred())
			return c
		}

		c1 := dial()
		defer c1.Close()
		c2 := dial()
		defer c2.Close()
		c3 := dial()
		defer c3.Close()

		buf := make([]byte, 1)
		_ = c3.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
		_, err := c3.Read(buf)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Shutdown quiescence", func() {
	It("stops the poll loop, periodic tasks and subscriber table within bounded time", func() {
		port := freeUDPPort()
		e := newUDPEngine(port)
		Expect(e.Start(context.Background())).To(Succeed())

		e.AddSubscribe(endpoint.Key("", 0), func(msg subscriber.Message) int { return 0 })
		Expect(e.AddPeriodic(1, "127.0.0.1", freeUDPPort(), []byte("x"), 50)).To(Succeed())

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		Expect(e.Shutdown(ctx)).To(Succeed())

		conn, err := net.Dial("udp", "127.0.0.1:"+portString(port))
		Expect(err).ToNot(HaveOccurred())
		defer conn.Close()
		_, err = conn.Write([]byte("late"))
		Expect(err).ToNot(HaveOccurred())

		second := freeUDPPort()
		e2 := newUDPEngine(second)
		Expect(e2.Start(context.Background())).To(Succeed())
		defer e2.Shutdown(context.Background())
	})
})

func portString(p int) string {
	if p == 0 {
		return "0"
	}
	neg := p < 0
	if neg {
		p = -p
	}
	var b []byte
	for p > 0 {
		b = append([]byte{byte('0' + p%10)}, b...)
		p /= 10
	}
	if neg {
		b = append([]byte{'-'}, b...)
	}
	return string(b)
}
