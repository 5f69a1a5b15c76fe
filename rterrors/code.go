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

// Package rterrors provides the runtime's error classification scheme:
// numeric codes banded by subsystem, stack capture at construction, and
// parent-error chaining compatible with errors.Is / errors.As.
package rterrors

import "strconv"

// CodeError classifies an error by subsystem, the way HTTP status codes
// classify a response. Bands are reserved per component so a code alone
// tells you which package raised it.
type CodeError uint16

const (
	UnknownError CodeError = 0

	// 1000-1099: buffer (component A)
	ErrBufferUnderflow    CodeError = 1000
	ErrBufferOverflow     CodeError = 1001
	ErrBufferFrontReserve CodeError = 1002
	ErrBufferSeekBounds   CodeError = 1003

	// 1100-1199: timer wheel (component B)
	ErrTimerNegativeDelay CodeError = 1100
	ErrTimerUnknownID     CodeError = 1101

	// 1200-1299: message (component C)
	ErrMessagePayloadTooLarge CodeError = 1200

	// 1300-1399: session / network (component D, E, F, G)
	ErrSessionClosed       CodeError = 1300
	ErrSessionWriteQueue   CodeError = 1301
	ErrFrameSizeMax        CodeError = 1302
	ErrSocketReadTimeout   CodeError = 1303
	ErrInvalidAddress      CodeError = 1304
	ErrUnknownSession      CodeError = 1305

	// 1400-1499: service lifecycle (component H, I)
	ErrServiceInitFailed  CodeError = 1400
	ErrServiceNotFound    CodeError = 1401
	ErrServiceIDExhausted CodeError = 1402

	// 1500-1599: pool / runtime / configuration (component J, K)
	ErrUniqueNameTaken  CodeError = 1500
	ErrUnknownType      CodeError = 1501
	ErrWorkerOutOfRange CodeError = 1502
	ErrConfigInvalid    CodeError = 1503
	ErrRuntimeStopped   CodeError = 1504
)

// String renders the numeric code.
func (c CodeError) String() string {
	return strconv.Itoa(int(c))
}
