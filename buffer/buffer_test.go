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

package buffer_test

import (
	"github.com/sabouaram/moonrt/buffer"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Buffer", func() {
	Context("write/read round trip", func() {
		It("reads back exactly what was written", func() {
			b := buffer.New(buffer.DefaultHeadReserve, 64)
			n, err := b.WriteBack([]byte("hello"))
			Expect(err).To(BeNil())
			Expect(n).To(Equal(5))

			out := make([]byte, 5)
			n, err = b.Read(out)
			Expect(err).To(BeNil())
			Expect(n).To(Equal(5))
			Expect(out).To(Equal([]byte("hello")))
		})

		It("fails on underflow", func() {
			b := buffer.New(buffer.DefaultHeadReserve, 64)
			_, _ = b.WriteBack([]byte("hi"))
			out := make([]byte, 10)
			_, err := b.Read(out)
			Expect(err).ToNot(BeNil())
		})
	})

	Context("write_front round trip", func() {
		It("writes a prefix into the head reserve and reads it back", func() {
			b := buffer.New(buffer.DefaultHeadReserve, 64)
			_, _ = b.WriteBack([]byte("payload"))

			prefix := []byte{0x00, 0x07}
			n, err := b.WriteFront(prefix)
			Expect(err).To(BeNil())
			Expect(n).To(Equal(2))

			out := make([]byte, 2)
			_, _ = b.Read(out)
			Expect(out).To(Equal(prefix))
		})

		It("fails when there is not enough head room", func() {
			b := buffer.New(2, 16)
			_, _ = b.WriteBack([]byte("x"))
			_, err := b.WriteFront(make([]byte, 8))
			Expect(err).ToNot(BeNil())
		})
	})

	Context("growth policy", func() {
		It("grows to the smallest power of two covering the request", func() {
			b := buffer.New(buffer.DefaultHeadReserve, 8)
			_, err := b.Prepare(100)
			Expect(err).To(BeNil())
			Expect(b.Cap()).To(BeNumerically(">=", buffer.DefaultHeadReserve+100))
			// power of two
			Expect(b.Cap() & (b.Cap() - 1)).To(Equal(0))
		})

		It("never shrinks capacity across Clear", func() {
			b := buffer.New(buffer.DefaultHeadReserve, 8)
			_, _ = b.Prepare(200)
			cap1 := b.Cap()
			b.Clear()
			Expect(b.Cap()).To(Equal(cap1))
		})

		It("compacts instead of growing when live bytes plus request fit", func() {
			b := buffer.New(4, 20)
			_, _ = b.WriteBack(make([]byte, 8))
			out := make([]byte, 6)
			_, _ = b.Read(out) // readPos advances, freeing head room
			capBefore := b.Cap()
			_, err := b.Prepare(10)
			Expect(err).To(BeNil())
			Expect(b.Cap()).To(Equal(capBefore))
			Expect(b.ReadPos()).To(Equal(b.HeadReserve()))
		})
	})

	Context("invariants", func() {
		It("always holds read_pos <= write_pos <= capacity", func() {
			b := buffer.New(buffer.DefaultHeadReserve, 8)
			_, _ = b.WriteBack([]byte("0123456789"))
			out := make([]byte, 3)
			_, _ = b.Read(out)
			Expect(b.ReadPos()).To(BeNumerically("<=", b.WritePos()))
			Expect(b.WritePos()).To(BeNumerically("<=", b.Cap()))
		})
	})

	Context("flags", func() {
		It("is idempotent under repeated SetFlags", func() {
			b := buffer.New(buffer.DefaultHeadReserve, 8)
			b.SetFlags(buffer.FlagLengthPrefixed)
			b.SetFlags(buffer.FlagLengthPrefixed)
			Expect(b.HasFlag(buffer.FlagLengthPrefixed)).To(BeTrue())
		})
	})

	Context("Clone", func() {
		It("deep-copies payload bytes", func() {
			b := buffer.New(buffer.DefaultHeadReserve, 8)
			_, _ = b.WriteBack([]byte("abc"))
			c := b.Clone()

			out := make([]byte, 1)
			_, _ = b.Read(out) // mutate original only
			Expect(c.Len()).To(Equal(3))
		})
	})
})
