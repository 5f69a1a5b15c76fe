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

package aescodec_test

import (
	"github.com/sabouaram/moonrt/buffer"
	"github.com/sabouaram/moonrt/message"
	"github.com/sabouaram/moonrt/services/aescodec"
	"github.com/sabouaram/moonrt/services/svctest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var key = []byte("0123456789abcdef")

var _ = Describe("aescodec service", func() {
	It("rejects an invalid key length at Init", func() {
		svc := aescodec.New()
		ctx := svctest.NewFakeContext(1)
		Expect(svc.Init(ctx, []byte("too-short"))).To(BeFalse())
	})

	It("round-trips a payload through encrypt then decrypt", func() {
		svc := aescodec.New()
		ctx := svctest.NewFakeContext(1)
		Expect(svc.Init(ctx, key)).To(BeTrue())

		plain := []byte("the quick brown fox")
		svc.Dispatch(ctx, &message.Message{Sender: 7, Header: []byte{1}, Payload: buffer.NewFromBytes(plain)})
		enc, ok := ctx.Last()
		Expect(ok).To(BeTrue())
		Expect(string(enc.Header)).To(Equal("encrypted"))

		svc.Dispatch(ctx, &message.Message{Sender: 7, Header: []byte{2}, Payload: enc.Payload})
		dec, ok := ctx.Last()
		Expect(ok).To(BeTrue())
		Expect(string(dec.Header)).To(Equal("decrypted"))
		Expect(dec.Payload.Bytes()).To(Equal(plain))
	})

	It("fails to decrypt a tampered ciphertext", func() {
		svc := aescodec.New()
		ctx := svctest.NewFakeContext(1)
		Expect(svc.Init(ctx, key)).To(BeTrue())

		svc.Dispatch(ctx, &message.Message{Sender: 7, Header: []byte{1}, Payload: buffer.NewFromBytes([]byte("hello"))})
		enc, _ := ctx.Last()
		tampered := append([]byte(nil), enc.Payload.Bytes()...)
		tampered[len(tampered)-1] ^= 0xFF

		svc.Dispatch(ctx, &message.Message{Sender: 7, Header: []byte{2}, Payload: buffer.NewFromBytes(tampered)})
		dec, _ := ctx.Last()
		Expect(string(dec.Header)).To(Equal("decrypt_failed"))
	})
})
