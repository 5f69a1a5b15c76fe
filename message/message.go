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

package message

import "github.com/sabouaram/moonrt/buffer"

// Message is the envelope carried between services and between the
// networking layer and the actor runtime. It is read-only once handed
// to a worker; setters below are used only during construction.
//
// Ownership: a Message is owned exclusively by its current holder. When
// enqueued across a worker boundary, ownership transfers to the
// receiving worker — callers must not retain a reference to a sent
// Message's mutable payload afterwards.
type Message struct {
	Sender    uint32 // service id, or a session id for networking-origin messages, 0 for system
	Receiver  uint32 // service id; 0 means broadcast
	SessionID uint32 // correlates a response with a caller's pending request; 0 = none expected
	Type      Type
	Header    []byte
	Payload   buffer.Buffer
	Broadcast bool
}

// New constructs a Message. Payload may be nil.
func New(sender, receiver uint32, typ Type, header []byte, payload buffer.Buffer) *Message {
	return &Message{
		Sender:   sender,
		Receiver: receiver,
		Type:     typ,
		Header:   header,
		Payload:  payload,
	}
}

// Clone deep-copies the header and payload so the clone can outlive or
// diverge from the original independently.
func (m *Message) Clone() *Message {
	c := &Message{
		Sender:    m.Sender,
		Receiver:  m.Receiver,
		SessionID: m.SessionID,
		Type:      m.Type,
		Broadcast: m.Broadcast,
	}
	if m.Header != nil {
		c.Header = append([]byte(nil), m.Header...)
	}
	if m.Payload != nil {
		c.Payload = m.Payload.Clone()
	}
	return c
}

// NewNetworkError builds an error Message from a peer address plus an
// error code, used for both network_error and network_logic_error
// emissions (§4.C, §6).
func NewNetworkError(typ Type, sessionID uint32, peerAddr string, category NetErrorCategory, detail string) *Message {
	msg := &Message{
		Sender:    sessionID,
		Type:      typ,
		SessionID: sessionID,
	}
	hdr := peerAddr + "|" + category.String()
	if detail != "" {
		hdr += "|" + detail
	}
	msg.Header = []byte(hdr)
	return msg
}
