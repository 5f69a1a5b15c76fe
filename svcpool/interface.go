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

// Package svcpool implements the service pool (component J): a type
// registry for service construction, a directory of workers used to
// place new services and route cross-worker traffic, and the
// read-mostly env/unique-name maps shared across the runtime.
package svcpool

import (
	"github.com/sabouaram/moonrt/message"
	"github.com/sabouaram/moonrt/rterrors"
	"github.com/sabouaram/moonrt/service"
	"github.com/sabouaram/moonrt/svcworker"
)

// WorkerHintAny tells NewService to pick a worker itself via next_worker()
// rather than honoring a caller-supplied hint.
const WorkerHintAny = -1

// Pool is the service pool facade. It satisfies svcworker.Router so every
// worker it owns can reach cross-worker routing, broadcast, and
// unique-name release through the same value.
type Pool interface {
	svcworker.Router

	// RegisterType adds a type_name -> constructor_fn entry to the
	// registry (§4.J). Populated at startup, before Run.
	RegisterType(name string, ctor service.Constructor)

	// NewService resolves typeName's constructor, picks a worker
	// (workerHint if >= 0 and in range, else next_worker() honoring
	// exclusive), and enqueues a create-command. If unique is set, a
	// pre-check/reservation against the unique-name map (keyed by
	// typeName) prevents duplicate creation.
	NewService(typeName string, unique bool, workerHint int, config []byte) (uint32, rterrors.Error)

	// RemoveService schedules id for teardown on its owning worker.
	RemoveService(id uint32)

	// Send routes msg to its receiver: the pool itself never takes the
	// local fast path (that only exists inside a worker for same-worker
	// sends originated by a running service); this is for callers
	// outside any worker, e.g. the runtime facade or I/O pool delivery.
	Send(msg *message.Message)

	// GetEnv/SetEnv expose the pool's read-mostly environment map.
	GetEnv(key string) (string, bool)
	SetEnv(key, value string)

	// GetUniqueService/SetUniqueService expose the pool's read-mostly
	// unique-name map directly, independent of NewService's own
	// reservation (a service may register itself under a name chosen
	// at runtime, per §4.K).
	GetUniqueService(name string) (uint32, bool)
	SetUniqueService(name string, id uint32)

	// WorkerOf returns the worker hosting id's high byte, and whether
	// that worker index is in range.
	WorkerOf(id uint32) (svcworker.Worker, bool)

	WorkerCount() int
	ServiceCount() int

	// Workers exposes the underlying set so the runtime facade can
	// start/stop them directly (§4.I/§4.K shutdown orchestration).
	Workers() []svcworker.Worker
}

// New builds a Pool over an already-constructed set of workers, indexed
// by their own Index().
func New(workers []svcworker.Worker) Pool {
	return newPool(workers)
}
