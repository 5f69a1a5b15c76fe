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

package buffer

import (
	"fmt"

	"github.com/sabouaram/moonrt/rterrors"
)

type buf struct {
	data     []byte
	readPos  int
	writePos int
	head     int
	flags    Flag
	prepared int // n passed to the in-flight Prepare, 0 if none
}

// New allocates a Buffer with the given head reserve and initial
// capacity. A negative headReserve selects DefaultHeadReserve, and
// initialCap is raised to at least headReserve.
func New(headReserve, initialCap int) Buffer {
	if headReserve < 0 {
		headReserve = DefaultHeadReserve
	}
	if initialCap < headReserve {
		initialCap = headReserve
	}
	return &buf{
		data:     make([]byte, initialCap),
		readPos:  headReserve,
		writePos: headReserve,
		head:     headReserve,
	}
}

// NewFromBytes builds a Buffer whose unread region is exactly p, with a
// DefaultHeadReserve head reserve prepended.
func NewFromBytes(p []byte) Buffer {
	b := New(DefaultHeadReserve, DefaultHeadReserve+len(p))
	_, _ = b.WriteBack(p)
	return b
}

func (b *buf) Len() int         { return b.writePos - b.readPos }
func (b *buf) Cap() int         { return len(b.data) }
func (b *buf) ReadPos() int     { return b.readPos }
func (b *buf) WritePos() int    { return b.writePos }
func (b *buf) HeadReserve() int { return b.head }
func (b *buf) Flags() Flag      { return b.flags }

func (b *buf) SetFlags(extra Flag) { b.flags |= extra }

func (b *buf) HasFlag(f Flag) bool { return b.flags&f == f }

func (b *buf) Bytes() []byte {
	return b.data[b.readPos:b.writePos]
}

func (b *buf) WriteBack(p []byte) (int, rterrors.Error) {
	n := len(p)
	if n == 0 {
		return 0, nil
	}
	if _, err := b.Prepare(n); err != nil {
		return 0, err
	}
	copy(b.data[b.writePos:], p)
	if err := b.Commit(n); err != nil {
		return 0, err
	}
	return n, nil
}

func (b *buf) WriteFront(p []byte) (int, rterrors.Error) {
	n := len(p)
	if n == 0 {
		return 0, nil
	}
	if b.readPos < n {
		return 0, rterrors.New(rterrors.ErrBufferFrontReserve,
			fmt.Sprintf("write_front: need %d bytes of head room, have %d", n, b.readPos))
	}
	copy(b.data[b.readPos-n:b.readPos], p)
	b.readPos -= n
	return n, nil
}

func (b *buf) Read(p []byte) (int, rterrors.Error) {
	n := len(p)
	if n > b.Len() {
		return 0, rterrors.New(rterrors.ErrBufferUnderflow,
			fmt.Sprintf("read: requested %d bytes, %d available", n, b.Len()))
	}
	copy(p, b.data[b.readPos:b.readPos+n])
	b.readPos += n
	return n, nil
}

func (b *buf) Seek(off int, origin Origin) (int, rterrors.Error) {
	var target int
	switch origin {
	case Begin:
		target = b.head + off
	case Current:
		target = b.readPos + off
	default:
		target = b.readPos + off
	}
	if target < b.head || target > b.writePos {
		return b.readPos, rterrors.New(rterrors.ErrBufferSeekBounds,
			fmt.Sprintf("seek: target %d out of bounds [%d,%d]", target, b.head, b.writePos))
	}
	b.readPos = target
	return b.readPos, nil
}

// Prepare implements the §4.A policy: grow (smallest power of two that
// satisfies the request) if compaction would not help or is insufficient,
// else compact live bytes back to the head reserve.
func (b *buf) Prepare(n int) ([]byte, rterrors.Error) {
	if n < 0 {
		return nil, rterrors.New(rterrors.ErrBufferOverflow, "prepare: negative size")
	}
	if len(b.data)-b.writePos >= n {
		b.prepared = n
		return b.data[b.writePos : b.writePos+n], nil
	}

	// Compaction is preferred when it alone creates enough room.
	live := b.writePos - b.readPos
	if b.head+live+n <= len(b.data) {
		copy(b.data[b.head:b.head+live], b.data[b.readPos:b.writePos])
		b.readPos = b.head
		b.writePos = b.head + live
		b.prepared = n
		return b.data[b.writePos : b.writePos+n], nil
	}

	// Grow: smallest power of two >= required total size, never shrinks.
	required := b.writePos + n
	newCap := nextPow2(required)
	grown := make([]byte, newCap)
	copy(grown, b.data)
	b.data = grown
	b.prepared = n
	return b.data[b.writePos : b.writePos+n], nil
}

func (b *buf) Commit(k int) rterrors.Error {
	if k < 0 || k > b.prepared {
		return rterrors.New(rterrors.ErrBufferOverflow,
			fmt.Sprintf("commit: %d exceeds prepared span %d", k, b.prepared))
	}
	b.writePos += k
	b.prepared = 0
	return nil
}

func (b *buf) Clear() {
	b.readPos = b.head
	b.writePos = b.head
	b.flags = 0
	b.prepared = 0
}

func (b *buf) Clone() Buffer {
	n := New(b.head, len(b.data))
	n2 := n.(*buf)
	n2.flags = b.flags
	_, _ = n2.WriteBack(b.Bytes())
	return n2
}

func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
