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

// Package codec is a domain service that transcodes a Msgpack-encoded
// request payload into CBOR, exercising ugorji/go/codec the way a
// wire-protocol gateway service would. It converts in that direction
// only; CBOR input is not turned back into Msgpack.
package codec

import (
	"github.com/ugorji/go/codec"

	"github.com/sabouaram/moonrt/buffer"
	"github.com/sabouaram/moonrt/message"
	"github.com/sabouaram/moonrt/service"
)

var (
	msgpackH codec.MsgpackHandle
	cborH    codec.CborHandle
)

// opTranscode is the only header byte this service understands: decode
// the payload as Msgpack, re-encode it as CBOR, and reply.
const opTranscode byte = 1

type svc struct {
	self uint32
}

// New builds an uninitialized codec service.
func New() service.Service { return &svc{} }

func (s *svc) Init(ctx service.Context, config []byte) bool {
	s.self = ctx.Self()
	return true
}

func (s *svc) Dispatch(ctx service.Context, msg *message.Message) {
	if msg.Payload == nil || len(msg.Header) == 0 || msg.Header[0] != opTranscode {
		return
	}

	var v interface{}
	dec := codec.NewDecoderBytes(msg.Payload.Bytes(), &msgpackH)
	if err := dec.Decode(&v); err != nil {
		ctx.Send(msg.Sender, nil, []byte("error"), msg.SessionID, message.Error)
		return
	}

	out := make([]byte, 0, msg.Payload.Len())
	enc := codec.NewEncoderBytes(&out, &cborH)
	if err := enc.Encode(v); err != nil {
		ctx.Send(msg.Sender, nil, []byte("error"), msg.SessionID, message.Error)
		return
	}

	ctx.Send(msg.Sender, buffer.NewFromBytes(out), []byte("cbor"), msg.SessionID, message.Text)
}

func (s *svc) OnExit(ctx service.Context) {}
