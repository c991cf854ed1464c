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

package errors_test

import (
	"errors"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	liberr "github.com/3shisan3/udp-tcp-communicate/errors"
)

func TestErrors(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Errors Suite")
}

var _ = Describe("CodeError", func() {
	It("carries its registered message", func() {
		e := liberr.ErrSocketBindFailed.Error()
		Expect(e.Code()).To(Equal(liberr.ErrSocketBindFailed))
		Expect(e.Error()).To(ContainSubstring("bind"))
	})

	It("chains a parent error and includes it in Error()", func() {
		parent := errors.New("connection refused")
		e := liberr.ErrSocketConnectFailed.Error(parent)
		Expect(e.Error()).To(ContainSubstring("connection refused"))
		Expect(e.GetParent()).To(HaveLen(1))
	})

	It("reports IsCode/HasCode correctly", func() {
		parent := liberr.ErrSocketBindFailed.Error()
		e := liberr.New(liberr.ErrConfigUnsupported, "bad config", parent)

		Expect(e.IsCode(liberr.ErrConfigUnsupported)).To(BeTrue())
		Expect(e.IsCode(liberr.ErrSocketBindFailed)).To(BeFalse())
		Expect(e.HasCode(liberr.ErrSocketBindFailed)).To(BeTrue())
		Expect(e.HasCode(liberr.ErrRoutingNoSubscriber)).To(BeFalse())
	})

	It("ignores nil parents passed to Add", func() {
		e := liberr.ErrPeriodicInvalidRate.Error()
		e.Add(nil, errors.New("extra"))
		Expect(e.GetParent()).To(HaveLen(1))
	})

	It("supports errors.Is/errors.As through Unwrap", func() {
		parent := errors.New("root cause")
		e := liberr.ErrSocketRecvError.Error(parent)

		Expect(errors.Is(e, parent)).To(BeTrue())
	})

	It("round-trips through Get/Is/Has package helpers", func() {
		var err error = liberr.ErrCapacityMaxConns.Error()

		Expect(liberr.Is(err)).To(BeTrue())
		Expect(liberr.Get(err).Code()).To(Equal(liberr.ErrCapacityMaxConns))
		Expect(liberr.Has(err, liberr.ErrCapacityMaxConns)).To(BeTrue())
	})

	It("wraps a plain error as UnknownError via Make", func() {
		plain := errors.New("boom")
		wrapped := liberr.Make(plain)
		Expect(wrapped.Code()).To(Equal(liberr.UnknownError))

		already := liberr.ErrSocketSendShort.Error()
		Expect(liberr.Make(already)).To(Equal(already))

		Expect(liberr.Make(nil)).To(BeNil())
	})

	It("shares the -1 code between invalid_rate and not_found by design", func() {
		Expect(liberr.ErrPeriodicInvalidRate).To(Equal(liberr.ErrPeriodicNotFound))
	})
})
