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

// Package buffer implements the growable byte container used as the unit
// of message payload throughout the runtime: a contiguous region with a
// head reserve so framing prefixes can be written without copying the
// payload, and a double-or-compact growth policy.
package buffer

import "github.com/sabouaram/moonrt/rterrors"

// Flag is an 8-bit bitmask of user flags carried alongside the buffer's
// bytes, e.g. "length prefix already written", so higher layers can make
// idempotent prefixing decisions.
type Flag uint8

const (
	// FlagLengthPrefixed marks that a framing length has already been
	// written into the head reserve via WriteFront.
	FlagLengthPrefixed Flag = 1 << iota
)

// Origin selects the reference point for Seek.
type Origin int

const (
	Begin Origin = iota
	Current
)

// DefaultHeadReserve is the default size of the head reserve new buffers
// are constructed with, enough for a 2-byte length prefix plus slack for
// future framing headers.
const DefaultHeadReserve = 16

// Buffer is a growable byte container with head-reservation and
// front/back writes. It is not safe for concurrent use; ownership
// transfers atomically when a Buffer crosses a queue boundary (§3).
type Buffer interface {
	// Len returns the number of unread bytes (WritePos - ReadPos).
	Len() int

	// Cap returns the total capacity of the underlying region.
	Cap() int

	// ReadPos, WritePos and HeadReserve expose the three offsets the
	// invariant read_pos <= write_pos <= capacity is defined over.
	ReadPos() int
	WritePos() int
	HeadReserve() int

	// WriteBack appends n bytes from p, growing or compacting as needed.
	WriteBack(p []byte) (n int, err rterrors.Error)

	// WriteFront writes p into the head reserve, immediately before
	// ReadPos. It fails if there is not enough reserved room behind
	// ReadPos (i.e. ReadPos < len(p)).
	WriteFront(p []byte) (n int, err rterrors.Error)

	// Read copies up to len(p) unread bytes into p, advancing ReadPos.
	// It fails (underflow) if fewer than len(p) bytes are available.
	Read(p []byte) (n int, err rterrors.Error)

	// Bytes returns the unread region [ReadPos:WritePos) without
	// copying or advancing ReadPos.
	Bytes() []byte

	// Seek moves ReadPos to HeadReserve+off (Begin) or ReadPos+off (Current),
	// bounded by [HeadReserve, WritePos].
	Seek(off int, origin Origin) (pos int, err rterrors.Error)

	// Prepare guarantees capacity-writePos >= n, compacting (moving live
	// bytes back to the head reserve) when that alone makes room, else
	// growing, and returns the writable span. Commit must
	// follow with k <= n actually written.
	Prepare(n int) (span []byte, err rterrors.Error)

	// Commit advances WritePos by k, k <= the n passed to the last
	// Prepare call.
	Commit(k int) rterrors.Error

	// Clear resets ReadPos and WritePos to HeadReserve, and clears
	// flags. Capacity is retained (never shrinks).
	Clear()

	// Flags returns the current user-flag bitmask.
	Flags() Flag

	// SetFlags ORs extra into the current flag bitmask.
	SetFlags(extra Flag)

	// HasFlag reports whether every bit in f is set.
	HasFlag(f Flag) bool

	// Clone duplicates the buffer, copying its unread bytes and flags
	// into a freshly allocated region of the same head reserve.
	Clone() Buffer
}
