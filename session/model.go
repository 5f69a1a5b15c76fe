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

package session

import (
	"encoding/binary"
	"errors"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sabouaram/moonrt/buffer"
	"github.com/sabouaram/moonrt/message"
)

type sess struct {
	id       uint32
	conn     net.Conn
	peerAddr string
	timeout  time.Duration
	sink     EventSink
	warn     WarnFunc

	state      atomic.Int32
	lastRecv   atomic.Int64 // unix nanos
	closeOnce  sync.Once

	writeMu    sync.Mutex
	writeQueue []buffer.Buffer
	writeCond  *sync.Cond
	warned     bool

	doneCh chan struct{}
}

func newSession(id uint32, conn net.Conn, timeout time.Duration, sink EventSink, warn WarnFunc) *sess {
	s := &sess{
		id:       id,
		conn:     conn,
		peerAddr: conn.RemoteAddr().String(),
		timeout:  timeout,
		sink:     sink,
		warn:     warn,
		doneCh:   make(chan struct{}),
	}
	s.writeCond = sync.NewCond(&s.writeMu)
	s.state.Store(int32(Connecting))
	s.lastRecv.Store(time.Now().UnixNano())
	return s
}

func (s *sess) ID() uint32        { return s.id }
func (s *sess) PeerAddr() string  { return s.peerAddr }
func (s *sess) State() State      { return State(s.state.Load()) }

func (s *sess) Start() {
	s.state.Store(int32(Open))
	s.sink(&message.Message{
		Sender: s.id,
		Type:   message.NetworkConnect,
		Header: []byte(s.peerAddr),
	})
	go s.readLoop()
	go s.writeLoop()
}

func (s *sess) Send(buf buffer.Buffer) {
	if buf.Len() > MaxMsgSize {
		s.emitLogicError(message.NetErrMessageSizeMax, "outbound frame exceeds max size")
		s.Close()
		return
	}
	if !buf.HasFlag(buffer.FlagLengthPrefixed) {
		var hdr [2]byte
		binary.BigEndian.PutUint16(hdr[:], uint16(buf.Len()))
		_, _ = buf.WriteFront(hdr[:])
		buf.SetFlags(buffer.FlagLengthPrefixed)
	}

	s.writeMu.Lock()
	if s.State() == Closed {
		s.writeMu.Unlock()
		return
	}
	s.writeQueue = append(s.writeQueue, buf)
	n := len(s.writeQueue)
	crossedSoft := n > WriteQueueSoftLimit && !s.warned
	if crossedSoft {
		s.warned = true
	}
	s.writeCond.Signal()
	s.writeMu.Unlock()

	if crossedSoft && s.warn != nil {
		s.warn(s.id, n)
	}
}

// writeLoop drains up to WriteBatchMax queued buffers per wake-up into a
// scatter-gather write; a single async write is in flight at a time
// because this goroutine alone owns s.conn's write half.
func (s *sess) writeLoop() {
	for {
		s.writeMu.Lock()
		for len(s.writeQueue) == 0 && s.State() != Closed {
			s.writeCond.Wait()
		}
		if s.State() == Closed && len(s.writeQueue) == 0 {
			s.writeMu.Unlock()
			return
		}
		batch := s.writeQueue
		if len(batch) > WriteBatchMax {
			batch = batch[:WriteBatchMax]
		}
		s.writeQueue = s.writeQueue[len(batch):]
		if len(s.writeQueue) <= WriteQueueSoftLimit {
			s.warned = false
		}
		s.writeMu.Unlock()

		bufs := make(net.Buffers, 0, len(batch))
		for _, b := range batch {
			bufs = append(bufs, b.Bytes())
		}
		if _, err := bufs.WriteTo(s.conn); err != nil {
			s.emitTransportError(err)
			s.Close()
			return
		}
	}
}

// readLoop implements the receiver half of §4.D's framing state machine:
// read exactly 2 bytes, decode length, read exactly that many bytes,
// emit network_recv, loop.
func (s *sess) readLoop() {
	hdr := make([]byte, 2)
	for {
		if _, err := io.ReadFull(s.conn, hdr); err != nil {
			if s.State() != Closed {
				s.emitTransportErrorIfReal(err)
			}
			s.Close()
			return
		}
		n := binary.BigEndian.Uint16(hdr)
		if int(n) > MaxMsgSize {
			s.emitLogicError(message.NetErrMessageSizeMax, "inbound frame exceeds max size")
			s.Close()
			return
		}
		payload := make([]byte, n)
		if n > 0 {
			if _, err := io.ReadFull(s.conn, payload); err != nil {
				if s.State() != Closed {
					s.emitTransportErrorIfReal(err)
				}
				s.Close()
				return
			}
		}
		s.lastRecv.Store(time.Now().UnixNano())
		s.sink(&message.Message{
			Sender:  s.id,
			Type:    message.NetworkRecv,
			Header:  []byte(s.peerAddr),
			Payload: buffer.NewFromBytes(payload),
		})
	}
}

func (s *sess) Close() {
	s.closeOnce.Do(func() {
		s.state.Store(int32(Closing))
		_ = s.conn.Close()
		s.state.Store(int32(Closed))
		close(s.doneCh)

		s.writeMu.Lock()
		s.writeCond.Broadcast()
		s.writeMu.Unlock()

		s.sink(&message.Message{
			Sender: s.id,
			Type:   message.NetworkClose,
			Header: []byte(s.peerAddr),
		})
	})
}

func (s *sess) CheckIdle(now time.Time) {
	if s.timeout <= 0 || s.State() != Open {
		return
	}
	last := time.Unix(0, s.lastRecv.Load())
	if now.Sub(last) > s.timeout {
		s.emitLogicError(message.NetErrSocketReadTimeout, "idle timeout exceeded")
		s.Close()
	}
}

func (s *sess) emitLogicError(cat message.NetErrorCategory, detail string) {
	s.sink(message.NewNetworkError(message.NetworkLogicError, s.id, s.peerAddr, cat, detail))
}

func (s *sess) emitTransportError(err error) {
	s.sink(message.NewNetworkError(message.NetworkError, s.id, s.peerAddr, message.NetErrTransport, err.Error()))
}

// emitTransportErrorIfReal suppresses the expected io.EOF / use-of-closed
// errors that accompany a locally-initiated or peer-initiated clean
// close, which are not transport faults worth reporting.
func (s *sess) emitTransportErrorIfReal(err error) {
	if err == io.EOF || err == io.ErrUnexpectedEOF || errors.Is(err, net.ErrClosed) {
		return
	}
	s.emitTransportError(err)
}
