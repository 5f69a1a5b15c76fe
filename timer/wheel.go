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

package timer

import (
	"fmt"

	"github.com/sabouaram/moonrt/rterrors"
)

const (
	// DefaultSlots is S, the default per-level slot count.
	DefaultSlots = 256
	// DefaultPrecisionMs is P, the default tick precision in milliseconds.
	DefaultPrecisionMs = 10
	numLevels          = 4
)

type entry struct {
	id         ID
	owner      uint32
	tag        uint64
	cb         Callback
	expireTick uint64
	periodTick uint64 // 0 for one-shot
	remaining  int32  // -1 infinite, else remaining fire count
	removed    bool
}

type level struct {
	slots [][]*entry
}

func newLevel(s int) *level {
	return &level{slots: make([][]*entry, s)}
}

type wheel struct {
	slots     int
	precision int64
	now       uint64 // current tick count
	debtMs    int64
	nextID    ID
	byID      map[ID]*entry
	levels    [numLevels]*level
}

// New constructs a Wheel with the given slot count and tick precision.
// A zero or negative value selects the package default.
func New(slots int, precisionMs int64) Wheel {
	if slots <= 0 {
		slots = DefaultSlots
	}
	if precisionMs <= 0 {
		precisionMs = DefaultPrecisionMs
	}
	w := &wheel{
		slots:     slots,
		precision: precisionMs,
		byID:      make(map[ID]*entry),
	}
	for i := range w.levels {
		w.levels[i] = newLevel(slots)
	}
	return w
}

func (w *wheel) Precision() int64 { return w.precision }
func (w *wheel) Slots() int       { return w.slots }

func (w *wheel) AddOnce(delay int64, owner uint32, tag uint64, cb Callback) (ID, rterrors.Error) {
	return w.add(delay, 0, 1, owner, tag, cb)
}

func (w *wheel) AddRepeat(delay int64, times int32, owner uint32, tag uint64, cb Callback) (ID, rterrors.Error) {
	if times == 0 {
		times = 1
	}
	return w.add(delay, uint64(w.ticksFor(delay)), times, owner, tag, cb)
}

func (w *wheel) add(delay int64, periodTick uint64, times int32, owner uint32, tag uint64, cb Callback) (ID, rterrors.Error) {
	if delay < 0 {
		return 0, rterrors.New(rterrors.ErrTimerNegativeDelay,
			fmt.Sprintf("add: negative delay %dms", delay))
	}
	ticks := w.ticksFor(delay)
	if ticks == 0 {
		// add_once(0, ...) fires at the next tick's level-0 head, never
		// re-entrantly within the same Update call.
		ticks = 1
	}
	w.nextID++
	e := &entry{
		id:         w.nextID,
		owner:      owner,
		tag:        tag,
		cb:         cb,
		expireTick: w.now + ticks,
		periodTick: periodTick,
		remaining:  times,
	}
	w.byID[e.id] = e
	w.insert(e)
	return e.id, nil
}

func (w *wheel) ticksFor(delayMs int64) uint64 {
	if delayMs <= 0 {
		return 0
	}
	t := delayMs / w.precision
	if delayMs%w.precision != 0 {
		t++
	}
	return uint64(t)
}

func (w *wheel) Remove(id ID) {
	if e, ok := w.byID[id]; ok {
		e.removed = true
		delete(w.byID, id)
	}
}

// insert places e into the lowest level whose range covers its
// remaining diff, per §4.B's cascade description.
func (w *wheel) insert(e *entry) {
	var diff uint64
	if e.expireTick > w.now {
		diff = e.expireTick - w.now
	}
	s := uint64(w.slots)

	switch {
	case diff < s:
		idx := (w.now + diff) % s
		w.levels[0].slots[idx] = append(w.levels[0].slots[idx], e)
	case diff < s*s:
		idx := ((w.now + diff) / s) % s
		w.levels[1].slots[idx] = append(w.levels[1].slots[idx], e)
	case diff < s*s*s:
		idx := ((w.now + diff) / (s * s)) % s
		w.levels[2].slots[idx] = append(w.levels[2].slots[idx], e)
	default:
		// Covers diff < s^4 and beyond; a larger diff wraps around the
		// top level's slot index rather than being dropped.
		idx := ((w.now + diff) / (s * s * s)) % s
		w.levels[3].slots[idx] = append(w.levels[3].slots[idx], e)
	}
}

func (w *wheel) Update(elapsedMs int64) {
	if elapsedMs < 0 {
		elapsedMs = 0
	}
	w.debtMs += elapsedMs
	for w.debtMs >= w.precision {
		w.debtMs -= w.precision
		w.tick()
	}
}

func (w *wheel) tick() {
	w.now++
	idx0 := int(w.now % uint64(w.slots))

	// Cascade before firing: an entry cascaded down from a higher level
	// can land in level 0's current slot (its remaining diff is now 0),
	// and it must still fire this tick rather than wait a full level-0
	// cycle for that slot to come back around.
	if idx0 == 0 {
		if w.cascade(1) {
			if w.cascade(2) {
				w.cascade(3)
			}
		}
	}

	w.fireLevel0(idx0)
}

// fireLevel0 fires all due entries queued at level 0's current slot, in
// insertion order, handling removal and repeats.
func (w *wheel) fireLevel0(idx int) {
	lv := w.levels[0]
	due := lv.slots[idx]
	lv.slots[idx] = nil

	for _, e := range due {
		if e.removed {
			continue
		}
		delete(w.byID, e.id)
		e.cb(e.owner, e.tag)

		if e.periodTick == 0 {
			continue
		}
		if e.remaining > 0 {
			e.remaining--
			if e.remaining == 0 {
				continue
			}
		}
		e.expireTick = w.now + e.periodTick
		w.byID[e.id] = e
		w.insert(e)
	}
}

// cascade drains the slot of levels[level] that `now` has just reached,
// reinserting each entry — now that its remaining distance is
// recomputed from the current tick, it lands in a lower level (or the
// same level, if still far out). Returns true if that slot's index is 0,
// meaning this level's own cycle completed and the next level up must
// cascade too.
func (w *wheel) cascade(level int) bool {
	s := uint64(w.slots)
	mod := s
	for i := 1; i < level; i++ {
		mod *= s
	}
	idx := int((w.now / mod) % s)

	lv := w.levels[level]
	due := lv.slots[idx]
	lv.slots[idx] = nil

	for _, e := range due {
		if e.removed {
			continue
		}
		w.insert(e)
	}

	return idx == 0
}
