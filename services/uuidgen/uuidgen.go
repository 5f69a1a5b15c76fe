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

// Package uuidgen is a domain service that mints RFC 4122 identifiers on
// request, the way a short-lived "id allocator" actor would back a
// cluster of stateless workers needing globally-unique keys.
package uuidgen

import (
	"github.com/google/uuid"

	"github.com/sabouaram/moonrt/buffer"
	"github.com/sabouaram/moonrt/message"
	"github.com/sabouaram/moonrt/service"
)

type svc struct{}

// New builds a uuid-generating service. It holds no state.
func New() service.Service { return &svc{} }

func (s *svc) Init(ctx service.Context, config []byte) bool { return true }

func (s *svc) Dispatch(ctx service.Context, msg *message.Message) {
	id := uuid.New().String()
	ctx.Send(msg.Sender, buffer.NewFromBytes([]byte(id)), []byte("uuid"), msg.SessionID, message.Text)
}

func (s *svc) OnExit(ctx service.Context) {}
