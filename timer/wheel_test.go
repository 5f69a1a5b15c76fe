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

package timer_test

import (
	"github.com/sabouaram/moonrt/timer"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Wheel", func() {
	Context("one-shot scheduling", func() {
		It("fires exactly once at the scheduled tick", func() {
			w := timer.New(256, 10)
			fired := 0
			_, err := w.AddOnce(50, 1, 7, func(owner uint32, tag uint64) {
				fired++
				Expect(owner).To(Equal(uint32(1)))
				Expect(tag).To(Equal(uint64(7)))
			})
			Expect(err).To(BeNil())

			w.Update(40)
			Expect(fired).To(Equal(0))
			w.Update(20)
			Expect(fired).To(Equal(1))
			w.Update(1000)
			Expect(fired).To(Equal(1))
		})

		It("rejects a negative delay", func() {
			w := timer.New(256, 10)
			_, err := w.AddOnce(-1, 0, 0, func(uint32, uint64) {})
			Expect(err).ToNot(BeNil())
		})

		It("schedules delay=0 at the next tick, not re-entrantly", func() {
			w := timer.New(256, 10)
			fired := 0
			_, _ = w.AddOnce(0, 0, 0, func(uint32, uint64) { fired++ })
			Expect(fired).To(Equal(0))
			w.Update(10)
			Expect(fired).To(Equal(1))
		})
	})

	Context("cascade across levels (scenario 6)", func() {
		It("fires once at the tick its rounded-up delay lands on, and no more after", func() {
			w := timer.New(256, 10)
			fired := 0
			// delay=2565ms rounds up to tick 257 (ceil(2565/10)), so it
			// fires once Update has advanced past 2560ms (tick 256, the
			// cascade boundary) into tick 257 at 2570ms.
			_, err := w.AddOnce(256*10+5, 0, 0, func(uint32, uint64) { fired++ })
			Expect(err).To(BeNil())

			w.Update(2565)
			Expect(fired).To(Equal(0))
			w.Update(5)
			Expect(fired).To(Equal(1))
			w.Update(10)
			Expect(fired).To(Equal(1))
		})

		It("fires a cascade-boundary one-shot in the tick it lands on, not a full cycle late", func() {
			w := timer.New(256, 10)
			fired := 0
			// delay=2560ms lands exactly on tick 256, where level 0's
			// slot 0 both cascades a reinsertion and fires this same
			// tick — it must not wait until tick 512 to fire.
			_, err := w.AddOnce(256*10, 0, 0, func(uint32, uint64) { fired++ })
			Expect(err).To(BeNil())

			w.Update(2560)
			Expect(fired).To(Equal(1))
		})
	})

	Context("repeating timers", func() {
		It("fires `times` occurrences then stops", func() {
			w := timer.New(256, 10)
			fired := 0
			_, _ = w.AddRepeat(10, 3, 0, 0, func(uint32, uint64) { fired++ })

			for i := 0; i < 10; i++ {
				w.Update(10)
			}
			Expect(fired).To(Equal(3))
		})

		It("repeats indefinitely when times=-1", func() {
			w := timer.New(256, 10)
			fired := 0
			_, _ = w.AddRepeat(10, -1, 0, 0, func(uint32, uint64) { fired++ })

			for i := 0; i < 20; i++ {
				w.Update(10)
			}
			Expect(fired).To(Equal(20))
		})
	})

	Context("removal", func() {
		It("silently drops an already-queued removed timer", func() {
			w := timer.New(256, 10)
			fired := 0
			id, _ := w.AddOnce(20, 0, 0, func(uint32, uint64) { fired++ })
			w.Remove(id)
			w.Update(100)
			Expect(fired).To(Equal(0))
		})

		It("is a no-op removing an unknown id", func() {
			w := timer.New(256, 10)
			Expect(func() { w.Remove(timer.ID(99999)) }).ToNot(Panic())
		})
	})

	Context("clock going backward", func() {
		It("clamps negative elapsed time to zero", func() {
			w := timer.New(256, 10)
			fired := 0
			_, _ = w.AddOnce(10, 0, 0, func(uint32, uint64) { fired++ })
			w.Update(-500)
			Expect(fired).To(Equal(0))
			w.Update(10)
			Expect(fired).To(Equal(1))
		})
	})

	Context("fire order", func() {
		It("fires same-slot timers in insertion order", func() {
			w := timer.New(256, 10)
			var order []int
			_, _ = w.AddOnce(10, 0, 1, func(_ uint32, tag uint64) { order = append(order, int(tag)) })
			_, _ = w.AddOnce(10, 0, 2, func(_ uint32, tag uint64) { order = append(order, int(tag)) })
			_, _ = w.AddOnce(10, 0, 3, func(_ uint32, tag uint64) { order = append(order, int(tag)) })
			w.Update(10)
			Expect(order).To(Equal([]int{1, 2, 3}))
		})
	})
})
