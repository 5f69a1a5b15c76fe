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

package session_test

import (
	"net"
	"sync"
	"time"

	"github.com/sabouaram/moonrt/message"
	"github.com/sabouaram/moonrt/session"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// collector gathers emitted messages from a Session's EventSink under a
// mutex, since the read/write loop goroutines emit concurrently.
type collector struct {
	mu   sync.Mutex
	msgs []*message.Message
}

func (c *collector) sink(m *message.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, m)
}

func (c *collector) snapshot() []*message.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*message.Message, len(c.msgs))
	copy(out, c.msgs)
	return out
}

var _ = Describe("Session", func() {
	var (
		ln         net.Listener
		serverConn net.Conn
		clientConn net.Conn
	)

	BeforeEach(func() {
		var err error
		ln, err = net.Listen("tcp", "127.0.0.1:0")
		Expect(err).To(BeNil())

		accepted := make(chan net.Conn, 1)
		go func() {
			c, _ := ln.Accept()
			accepted <- c
		}()

		clientConn, err = net.Dial("tcp", ln.Addr().String())
		Expect(err).To(BeNil())
		serverConn = <-accepted
	})

	AfterEach(func() {
		_ = clientConn.Close()
		_ = ln.Close()
	})

	Context("framing (scenario 4)", func() {
		It("delivers one network_recv with the exact payload", func() {
			col := &collector{}
			s := session.New(1, serverConn, 0, col.sink, nil)
			s.Start()

			_, err := clientConn.Write([]byte{0x00, 0x05, 'h', 'e', 'l', 'l', 'o'})
			Expect(err).To(BeNil())

			Eventually(func() int { return len(col.snapshot()) }, time.Second).Should(BeNumerically(">=", 2))
			msgs := col.snapshot()
			Expect(msgs[0].Type).To(Equal(message.NetworkConnect))
			Expect(msgs[1].Type).To(Equal(message.NetworkRecv))
			Expect(msgs[1].Payload.Bytes()).To(Equal([]byte("hello")))
		})

		It("rejects an oversized frame with message_size_max then closes", func() {
			col := &collector{}
			s := session.New(2, serverConn, 0, col.sink, nil)
			s.Start()

			_, err := clientConn.Write([]byte{0x20, 0x01})
			Expect(err).To(BeNil())
			_, _ = clientConn.Write([]byte{0xAA})

			Eventually(func() message.Type {
				msgs := col.snapshot()
				if len(msgs) < 3 {
					return message.Unknown
				}
				return msgs[2].Type
			}, time.Second).Should(Equal(message.NetworkClose))

			msgs := col.snapshot()
			Expect(msgs[1].Type).To(Equal(message.NetworkLogicError))
		})
	})

	Context("idle timeout (scenario 5)", func() {
		It("closes with socket_read_timeout after the idle window", func() {
			col := &collector{}
			s := session.New(3, serverConn, 20*time.Millisecond, col.sink, nil)
			s.Start()

			time.Sleep(10 * time.Millisecond)
			s.CheckIdle(time.Now())
			Expect(col.snapshot()).To(HaveLen(1)) // only connect so far

			time.Sleep(30 * time.Millisecond)
			s.CheckIdle(time.Now())

			Eventually(func() int { return len(col.snapshot()) }, time.Second).Should(Equal(3))
			msgs := col.snapshot()
			Expect(msgs[1].Type).To(Equal(message.NetworkLogicError))
			Expect(msgs[2].Type).To(Equal(message.NetworkClose))
		})
	})

	Context("close idempotence", func() {
		It("emits exactly one network_close for two Close calls", func() {
			col := &collector{}
			s := session.New(4, serverConn, 0, col.sink, nil)
			s.Start()
			s.Close()
			s.Close()

			count := 0
			for _, m := range col.snapshot() {
				if m.Type == message.NetworkClose {
					count++
				}
			}
			Expect(count).To(Equal(1))
		})
	})
})
