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

package kernel

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/sabouaram/moonrt/buffer"
	"github.com/sabouaram/moonrt/logger"
	"github.com/sabouaram/moonrt/message"
	"github.com/sabouaram/moonrt/network"
	"github.com/sabouaram/moonrt/rterrors"
	"github.com/sabouaram/moonrt/rtconfig"
	"github.com/sabouaram/moonrt/service"
	"github.com/sabouaram/moonrt/svcpool"
	"github.com/sabouaram/moonrt/svcworker"
)

// pumpInterval bounds how often the runtime drains the network facade's
// inbound queue into the service pool (§4.G's Update contract is a
// non-blocking drain, not a blocking read).
const pumpInterval = 2 * time.Millisecond

type runtime struct {
	cfg rtconfig.Config
	log logger.Logger
	net network.Facade
	pl  svcpool.Pool

	networkOwner atomic.Uint32

	regMu    sync.Mutex
	pending  map[string]service.Constructor

	stopOnce sync.Once
	stopPump chan struct{}
	pumpDone chan struct{}

	running atomic.Bool
}

func newRuntime() *runtime {
	return &runtime{
		pending: make(map[string]service.Constructor),
	}
}

// RegisterService is safe to call both before and after Init: entries
// added before Init are flushed into the pool once it exists; entries
// added after are applied immediately.
func (r *runtime) RegisterService(typeName string, ctor service.Constructor) {
	if r.pl == nil {
		r.regMu.Lock()
		r.pending[typeName] = ctor
		r.regMu.Unlock()
		return
	}
	r.pl.RegisterType(typeName, ctor)
}

func (r *runtime) Init(cfg rtconfig.Config) rterrors.Error {
	lg, err := logger.New(logger.Options{LogPath: cfg.LogPath, Level: logger.InfoLevel})
	if err != nil {
		return rterrors.Wrap(rterrors.ErrConfigInvalid, "kernel: cannot build logger", err)
	}
	r.log = lg
	r.cfg = cfg

	workers := make([]svcworker.Worker, cfg.WorkerNum)
	r.pl = svcpool.New(workers)
	for i := range workers {
		w := svcworker.New(uint8(i), r.pl, cfg.WheelPrecisionMs, cfg.WheelSlots)
		w.SetLogger(lg)
		workers[i] = w
	}

	r.regMu.Lock()
	for name, ctor := range r.pending {
		r.pl.RegisterType(name, ctor)
	}
	r.pending = nil
	r.regMu.Unlock()

	r.net = network.New(cfg.WorkerNum, cfg.InboundQueueSize)
	return nil
}

func (r *runtime) Run() rterrors.Error {
	if !r.running.CompareAndSwap(false, true) {
		return rterrors.New(rterrors.ErrRuntimeStopped, "kernel: already running")
	}
	for _, w := range r.pl.Workers() {
		go w.Run()
	}
	r.net.Run()

	if r.cfg.ListenAddr != "" {
		if err := r.net.Listen(r.cfg.ListenAddr, r.cfg.IdleTimeout); err != nil {
			r.Stop()
			return err
		}
	}

	r.stopPump = make(chan struct{})
	r.pumpDone = make(chan struct{})
	go r.pump()
	return nil
}

// pump drains the network facade's inbound queue on a fixed interval,
// stamping every event's Receiver with the configured owner before
// routing it into the pool (§4.G -> §4.J handoff).
func (r *runtime) pump() {
	defer close(r.pumpDone)
	ticker := time.NewTicker(pumpInterval)
	defer ticker.Stop()
	for {
		select {
		case <-r.stopPump:
			r.net.Update(r.deliverNetworkEvent)
			return
		case <-ticker.C:
			r.net.Update(r.deliverNetworkEvent)
		}
	}
}

func (r *runtime) deliverNetworkEvent(msg *message.Message) {
	msg.Receiver = r.networkOwner.Load()
	r.pl.Send(msg)
}

// Stop runs the deterministic shutdown order: stop accepting new
// network work and drain the pump (step 1), let each worker tear down
// its own services in reverse creation order (steps 2-3, inside
// svcworker.Worker.Stop), stop the network facade and its I/O pool
// (step 4), then close the logger (step 5).
func (r *runtime) Stop() {
	r.stopOnce.Do(func() {
		if r.stopPump != nil {
			close(r.stopPump)
			<-r.pumpDone
		}
		if r.pl != nil {
			for _, w := range r.pl.Workers() {
				w.Stop()
			}
		}
		if r.net != nil {
			r.net.Stop()
		}
		if r.log != nil {
			_ = r.log.Close()
		}
		r.running.Store(false)
	})
}

func (r *runtime) NewService(typeName string, unique bool, workerHint int, config []byte) (uint32, rterrors.Error) {
	return r.pl.NewService(typeName, unique, workerHint, config)
}

func (r *runtime) SetNetworkOwner(id uint32) { r.networkOwner.Store(id) }

func (r *runtime) Listen(addr string, timeout time.Duration) rterrors.Error {
	return r.net.Listen(addr, timeout)
}

func (r *runtime) AsyncConnect(addr string, dialTimeout, idleTimeout time.Duration) {
	r.net.AsyncConnect(addr, dialTimeout, idleTimeout)
}

func (r *runtime) SyncConnect(addr string, dialTimeout, idleTimeout time.Duration) (uint32, rterrors.Error) {
	return r.net.SyncConnect(addr, dialTimeout, idleTimeout)
}

func (r *runtime) SendNetwork(sessionID uint32, header []byte) {
	r.net.Send(sessionID, buffer.NewFromBytes(header))
}

func (r *runtime) CloseSession(sessionID uint32) { r.net.Close(sessionID) }

func (r *runtime) Send(msg *message.Message) { r.pl.Send(msg) }

func (r *runtime) Broadcast(sender uint32, header []byte, typ message.Type) {
	r.pl.Broadcast(&message.Message{Sender: sender, Type: typ, Header: header, Broadcast: true})
}

func (r *runtime) GetEnv(key string) (string, bool) { return r.pl.GetEnv(key) }

func (r *runtime) SetEnv(key, value string) { r.pl.SetEnv(key, value) }

func (r *runtime) GetUniqueService(name string) (uint32, bool) { return r.pl.GetUniqueService(name) }

func (r *runtime) SetUniqueService(name string, id uint32) { r.pl.SetUniqueService(name, id) }

func (r *runtime) MakeResponse(sender uint32, header []byte, content buffer.Buffer, sessionID uint32, typ message.Type) *message.Message {
	return &message.Message{Sender: 0, Receiver: sender, SessionID: sessionID, Type: typ, Header: header, Payload: content}
}

func (r *runtime) WorkerNum() int { return r.pl.WorkerCount() }

func (r *runtime) ServiceNum() int { return r.pl.ServiceCount() }
