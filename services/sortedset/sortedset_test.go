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

package sortedset_test

import (
	"github.com/sabouaram/moonrt/message"
	"github.com/sabouaram/moonrt/services/sortedset"
	"github.com/sabouaram/moonrt/services/svctest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("sortedset service", func() {
	It("returns members within a score range in ascending order", func() {
		svc := sortedset.New()
		ctx := svctest.NewFakeContext(1)
		Expect(svc.Init(ctx, nil)).To(BeTrue())

		add := func(member string, score string) {
			svc.Dispatch(ctx, &message.Message{Sender: 9, Header: []byte("add:" + member + ":" + score)})
		}
		add("alice", "10")
		add("bob", "5")
		add("carol", "20")

		svc.Dispatch(ctx, &message.Message{Sender: 9, Header: []byte("range:0:15")})
		sent, ok := ctx.Last()
		Expect(ok).To(BeTrue())
		Expect(string(sent.Payload.Bytes())).To(Equal("bob,alice"))
	})

	It("excludes a removed member from later range queries", func() {
		svc := sortedset.New()
		ctx := svctest.NewFakeContext(1)
		Expect(svc.Init(ctx, nil)).To(BeTrue())

		svc.Dispatch(ctx, &message.Message{Header: []byte("add:alice:10")})
		svc.Dispatch(ctx, &message.Message{Header: []byte("remove:alice")})
		svc.Dispatch(ctx, &message.Message{Header: []byte("range:0:100")})

		sent, ok := ctx.Last()
		Expect(ok).To(BeTrue())
		Expect(string(sent.Payload.Bytes())).To(Equal(""))
	})

	It("moves a member to its new score on re-add", func() {
		svc := sortedset.New()
		ctx := svctest.NewFakeContext(1)
		Expect(svc.Init(ctx, nil)).To(BeTrue())

		svc.Dispatch(ctx, &message.Message{Header: []byte("add:alice:10")})
		svc.Dispatch(ctx, &message.Message{Header: []byte("add:alice:1")})
		svc.Dispatch(ctx, &message.Message{Header: []byte("add:bob:5")})

		svc.Dispatch(ctx, &message.Message{Header: []byte("range:0:100")})
		sent, _ := ctx.Last()
		Expect(string(sent.Payload.Bytes())).To(Equal("alice,bob"))
	})
})
