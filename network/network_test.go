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

package network_test

import (
	"net"
	"sync"
	"time"

	"github.com/sabouaram/moonrt/buffer"
	"github.com/sabouaram/moonrt/message"
	"github.com/sabouaram/moonrt/network"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Facade", func() {
	var f network.Facade

	BeforeEach(func() {
		f = network.New(2, 8)
		f.Run()
	})

	AfterEach(func() {
		f.Stop()
	})

	It("returns an error when a sync connect fails", func() {
		_, err := f.SyncConnect("127.0.0.1:1", 50*time.Millisecond, 0)
		Expect(err).NotTo(BeNil())
	})

	It("round-trips a connect/send/recv pair end to end (scenario 4)", func() {
		ln, lerr := net.Listen("tcp", "127.0.0.1:0")
		Expect(lerr).To(BeNil())
		defer ln.Close()

		var mu sync.Mutex
		var serverConn net.Conn
		go func() {
			c, _ := ln.Accept()
			mu.Lock()
			serverConn = c
			mu.Unlock()
		}()

		id, cerr := f.SyncConnect(ln.Addr().String(), time.Second, 0)
		Expect(cerr).To(BeNil())

		Eventually(func() net.Conn {
			mu.Lock()
			defer mu.Unlock()
			return serverConn
		}, time.Second).ShouldNot(BeNil())

		mu.Lock()
		sc := serverConn
		mu.Unlock()
		_, werr := sc.Write([]byte{0x00, 0x02, 'h', 'i'})
		Expect(werr).To(BeNil())

		var got []*message.Message
		Eventually(func() int {
			got = append(got, drain(f)...)
			return len(got)
		}, time.Second).Should(BeNumerically(">=", 2))

		var recv *message.Message
		for _, m := range got {
			if m.Type == message.NetworkRecv {
				recv = m
			}
		}
		Expect(recv).NotTo(BeNil())
		Expect(recv.Sender).To(Equal(id))
		Expect(recv.Payload.Bytes()).To(Equal([]byte("hi")))

		f.Send(id, buffer.NewFromBytes([]byte("pong")))

		readBuf := make([]byte, 6)
		_ = sc.SetReadDeadline(time.Now().Add(time.Second))
		_, rerr := sc.Read(readBuf)
		Expect(rerr).To(BeNil())
		Expect(readBuf).To(Equal([]byte{0x00, 0x04, 'p', 'o', 'n', 'g'}))
	})

	It("delivers a network_connect for every connection accepted via Listen", func() {
		probe, perr := net.Listen("tcp", "127.0.0.1:0")
		Expect(perr).To(BeNil())
		addr := probe.Addr().String()
		Expect(probe.Close()).To(BeNil())

		err := f.Listen(addr, 0)
		Expect(err).To(BeNil())

		client, derr := net.Dial("tcp", addr)
		Expect(derr).To(BeNil())
		defer client.Close()

		Eventually(func() int { return len(drain(f)) }, time.Second).Should(BeNumerically(">=", 1))
	})
})

func drain(f network.Facade) []*message.Message {
	var out []*message.Message
	f.Update(func(m *message.Message) { out = append(out, m) })
	return out
}
