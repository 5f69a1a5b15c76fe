/*
 * MIT License
 *
 * Copyright (c) 2026 Nicolas JUHEL
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
 */

package uuidgen_test

import (
	"github.com/google/uuid"

	"github.com/sabouaram/moonrt/message"
	"github.com/sabouaram/moonrt/services/svctest"
	"github.com/sabouaram/moonrt/services/uuidgen"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("uuidgen service", func() {
	It("replies with a fresh, parseable uuid for every request", func() {
		svc := uuidgen.New()
		ctx := svctest.NewFakeContext(1)
		Expect(svc.Init(ctx, nil)).To(BeTrue())

		svc.Dispatch(ctx, &message.Message{Sender: 5})
		first, ok := ctx.Last()
		Expect(ok).To(BeTrue())
		_, err := uuid.Parse(string(first.Payload.Bytes()))
		Expect(err).NotTo(HaveOccurred())

		svc.Dispatch(ctx, &message.Message{Sender: 5})
		second, _ := ctx.Last()
		Expect(string(second.Payload.Bytes())).NotTo(Equal(string(first.Payload.Bytes())))
	})
})
