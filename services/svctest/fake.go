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

// Package svctest provides a minimal service.Context test double shared
// by the services/* packages' own test suites, so each one doesn't
// reinvent the same fake.
package svctest

import (
	"sync"

	"github.com/sabouaram/moonrt/buffer"
	"github.com/sabouaram/moonrt/message"
	"github.com/sabouaram/moonrt/rterrors"
	"github.com/sabouaram/moonrt/timer"
)

// Sent records one ctx.Send (or Broadcast) observation.
type Sent struct {
	Receiver  uint32
	Payload   buffer.Buffer
	Header    []byte
	SessionID uint32
	Type      message.Type
}

// FakeContext is a recording service.Context double: Send appends to
// Sent rather than routing anywhere.
type FakeContext struct {
	mu   sync.Mutex
	self uint32
	Sent []Sent
}

// NewFakeContext builds a FakeContext reporting self as Self().
func NewFakeContext(self uint32) *FakeContext {
	return &FakeContext{self: self}
}

func (f *FakeContext) Self() uint32 { return f.self }

func (f *FakeContext) Send(receiver uint32, buf buffer.Buffer, header []byte, sessionID uint32, typ message.Type) bool {
	f.mu.Lock()
	f.Sent = append(f.Sent, Sent{Receiver: receiver, Payload: buf, Header: append([]byte(nil), header...), SessionID: sessionID, Type: typ})
	f.mu.Unlock()
	return true
}

func (f *FakeContext) Broadcast(header []byte, typ message.Type) {
	f.Send(0, nil, header, 0, typ)
}

func (f *FakeContext) RemoveSelf(crashed bool) {}

func (f *FakeContext) MakeResponse(sender uint32, header []byte, content buffer.Buffer, sessionID uint32, typ message.Type) *message.Message {
	return &message.Message{Sender: f.self, Receiver: sender, SessionID: sessionID, Type: typ, Header: header, Payload: content}
}

func (f *FakeContext) AddTimer(delayMs int64, tag uint64) (timer.ID, rterrors.Error) { return 0, nil }

func (f *FakeContext) AddRepeatTimer(delayMs int64, times int32, tag uint64) (timer.ID, rterrors.Error) {
	return 0, nil
}

func (f *FakeContext) RemoveTimer(id timer.ID) {}

// Last returns the most recent Send observation, or the zero value if
// none happened yet.
func (f *FakeContext) Last() (Sent, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Sent) == 0 {
		return Sent{}, false
	}
	return f.Sent[len(f.Sent)-1], true
}

// Count reports how many Send observations have been recorded.
func (f *FakeContext) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Sent)
}
