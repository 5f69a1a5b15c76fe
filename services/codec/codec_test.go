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

package codec_test

import (
	ucodec "github.com/ugorji/go/codec"

	"github.com/sabouaram/moonrt/buffer"
	"github.com/sabouaram/moonrt/message"
	"github.com/sabouaram/moonrt/services/codec"
	"github.com/sabouaram/moonrt/services/svctest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("codec service", func() {
	It("transcodes a msgpack payload to cbor", func() {
		svc := codec.New()
		ctx := svctest.NewFakeContext(0x01000001)
		Expect(svc.Init(ctx, nil)).To(BeTrue())

		var msgpackH ucodec.MsgpackHandle
		raw := make([]byte, 0, 32)
		enc := ucodec.NewEncoderBytes(&raw, &msgpackH)
		Expect(enc.Encode(map[string]interface{}{"hello": "world"})).To(Succeed())

		svc.Dispatch(ctx, &message.Message{
			Sender:  42,
			Header:  []byte{1},
			Payload: buffer.NewFromBytes(raw),
		})

		sent, ok := ctx.Last()
		Expect(ok).To(BeTrue())
		Expect(sent.Receiver).To(Equal(uint32(42)))
		Expect(string(sent.Header)).To(Equal("cbor"))

		var cborH ucodec.CborHandle
		var out map[string]interface{}
		dec := ucodec.NewDecoderBytes(sent.Payload.Bytes(), &cborH)
		Expect(dec.Decode(&out)).To(Succeed())
		Expect(out["hello"]).To(Equal("world"))
	})

	It("ignores a message without the transcode opcode", func() {
		svc := codec.New()
		ctx := svctest.NewFakeContext(1)
		Expect(svc.Init(ctx, nil)).To(BeTrue())

		svc.Dispatch(ctx, &message.Message{Sender: 2, Header: []byte{9}, Payload: buffer.NewFromBytes([]byte("x"))})
		Expect(ctx.Count()).To(Equal(0))
	})
})
