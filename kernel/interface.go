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

// Package kernel implements the runtime facade (component K): it
// bootstraps the logger, the service pool and its workers, and the
// network facade from an rtconfig.Config, exposes the operations a
// process embeds the runtime through, and drives the deterministic
// shutdown order of §4.I/§4.K.
package kernel

import (
	"time"

	"github.com/sabouaram/moonrt/buffer"
	"github.com/sabouaram/moonrt/message"
	"github.com/sabouaram/moonrt/rterrors"
	"github.com/sabouaram/moonrt/rtconfig"
	"github.com/sabouaram/moonrt/service"
)

// Runtime is the facade embedded by a process main().
type Runtime interface {
	// Init takes an already loaded configuration, builds the logger, then the worker pool
	// and network facade, in that order; failure at any step aborts
	// before any goroutine starts (§4.K).
	Init(cfg rtconfig.Config) rterrors.Error

	// Run starts every worker and the network facade's accept/pump
	// loops.
	Run() rterrors.Error

	// Stop runs the deterministic shutdown order (§4.I step 1, 4, 5;
	// steps 2-3 happen inside each worker).
	Stop()

	// RegisterService adds a type_name -> constructor_fn entry, before
	// Run.
	RegisterService(typeName string, ctor service.Constructor)

	// NewService creates a service instance; see svcpool.Pool.NewService.
	NewService(typeName string, unique bool, workerHint int, config []byte) (uint32, rterrors.Error)

	// SetNetworkOwner designates the service that receives every
	// network_connect/network_recv/network_close/network_error event
	// pumped from the network facade (§4.G/§4.C).
	SetNetworkOwner(id uint32)

	// Listen/AsyncConnect/SyncConnect/SendNetwork/CloseSession expose
	// the network facade (component G) to the process and to services
	// that received a networking event.
	Listen(addr string, timeout time.Duration) rterrors.Error
	AsyncConnect(addr string, dialTimeout, idleTimeout time.Duration)
	SyncConnect(addr string, dialTimeout, idleTimeout time.Duration) (uint32, rterrors.Error)
	SendNetwork(sessionID uint32, header []byte)
	CloseSession(sessionID uint32)

	Send(msg *message.Message)
	Broadcast(sender uint32, header []byte, typ message.Type)

	GetEnv(key string) (string, bool)
	SetEnv(key, value string)
	GetUniqueService(name string) (uint32, bool)
	SetUniqueService(name string, id uint32)

	MakeResponse(sender uint32, header []byte, content buffer.Buffer, sessionID uint32, typ message.Type) *message.Message

	WorkerNum() int
	ServiceNum() int
}

// New constructs an uninitialized Runtime; call Init before Run.
func New() Runtime {
	return newRuntime()
}
