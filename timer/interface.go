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

// Package timer implements the hierarchical four-level timing wheel used
// by services to register one-shot and repeating timers with millisecond
// precision (component B). Tick precision P and slot count S are fixed at
// construction; maximum schedulable delay is approximately P*S^4.
package timer

import "github.com/sabouaram/moonrt/rterrors"

// ID identifies a scheduled timer, monotonically increasing per Wheel.
type ID uint64

// Callback is invoked on the owning service worker's goroutine when a
// timer fires. owner and tag are opaque to the wheel; the worker looks
// the service up by owner and invokes its timer-dispatch hook with tag.
type Callback func(owner uint32, tag uint64)

// Wheel schedules and fires one-shot and repeating callbacks. It is not
// safe for concurrent use; callers (service workers) own a Wheel
// exclusively and drive it from their single dispatch-loop goroutine.
type Wheel interface {
	// AddOnce schedules a single callback at now+delay. delay is in
	// milliseconds; delay < 0 is rejected.
	AddOnce(delay int64, owner uint32, tag uint64, cb Callback) (ID, rterrors.Error)

	// AddRepeat schedules a callback every delay milliseconds, times
	// total occurrences (-1 for infinite). delay < 0 is rejected.
	AddRepeat(delay int64, times int32, owner uint32, tag uint64, cb Callback) (ID, rterrors.Error)

	// Remove marks id as removed; a still-queued tick silently drops
	// it. Removing an unknown or already-removed id is a no-op.
	Remove(id ID)

	// Update advances the wheel by elapsedMs of wall-clock time,
	// accumulating into a debt counter and firing every whole tick of
	// precision P owed. A backward clock (elapsedMs < 0) is clamped to
	// zero elapsed.
	Update(elapsedMs int64)

	// Precision returns the configured tick precision in milliseconds.
	Precision() int64

	// Slots returns the configured per-level slot count S.
	Slots() int
}
