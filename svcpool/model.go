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

package svcpool

import (
	"sync"
	"sync/atomic"

	"github.com/sabouaram/moonrt/ioworker"
	"github.com/sabouaram/moonrt/message"
	"github.com/sabouaram/moonrt/rterrors"
	"github.com/sabouaram/moonrt/service"
	"github.com/sabouaram/moonrt/svcworker"
)

type pool struct {
	workers []svcworker.Worker
	idSeq   []atomic.Uint32
	rrNext  atomic.Uint32

	regMu    sync.RWMutex
	registry map[string]service.Constructor

	mapMu  sync.RWMutex
	unique map[string]uint32
	env    map[string]string
}

func newPool(workers []svcworker.Worker) *pool {
	return &pool{
		workers:  workers,
		idSeq:    make([]atomic.Uint32, len(workers)),
		registry: make(map[string]service.Constructor),
		unique:   make(map[string]uint32),
		env:      make(map[string]string),
	}
}

func (p *pool) WorkerCount() int { return len(p.workers) }

func (p *pool) ServiceCount() int {
	n := 0
	for _, w := range p.workers {
		n += w.ServiceCount()
	}
	return n
}

func (p *pool) Workers() []svcworker.Worker { return p.workers }

func (p *pool) RegisterType(name string, ctor service.Constructor) {
	p.regMu.Lock()
	p.registry[name] = ctor
	p.regMu.Unlock()
}

// nextWorkerID rotates through worker indices skipping any flagged
// exclusive; if every worker is exclusive it falls back to the
// least-loaded one (§4.I).
func (p *pool) nextWorkerID() int {
	n := len(p.workers)
	for i := 0; i < n; i++ {
		idx := int(p.rrNext.Add(1)-1) % n
		if !p.workers[idx].Exclusive() {
			return idx
		}
	}
	least, leastN := 0, -1
	for i, w := range p.workers {
		c := w.ServiceCount()
		if leastN == -1 || c < leastN {
			least, leastN = i, c
		}
	}
	return least
}

func (p *pool) allocateID(idx int) uint32 {
	for {
		seq := p.idSeq[idx].Add(1) & 0x00FFFFFF
		if seq != 0 {
			return (uint32(idx) << 24) | seq
		}
	}
}

func (p *pool) NewService(typeName string, unique bool, workerHint int, config []byte) (uint32, rterrors.Error) {
	p.regMu.RLock()
	ctor, ok := p.registry[typeName]
	p.regMu.RUnlock()
	if !ok {
		return 0, rterrors.New(rterrors.ErrUnknownType, "svcpool: unregistered service type: "+typeName)
	}

	if unique {
		p.mapMu.Lock()
		if _, taken := p.unique[typeName]; taken {
			p.mapMu.Unlock()
			return 0, rterrors.New(rterrors.ErrUniqueNameTaken, "svcpool: unique name already in use: "+typeName)
		}
		p.unique[typeName] = 0
		p.mapMu.Unlock()
	}

	idx := workerHint
	if idx < 0 || idx >= len(p.workers) {
		idx = p.nextWorkerID()
	}
	id := p.allocateID(idx)

	reply := make(chan svcworker.CreateResult, 1)
	p.workers[idx].Post(svcworker.Command{Kind: svcworker.CmdCreate, Create: &svcworker.CreateRequest{
		ID:     id,
		Ctor:   ctor,
		Name:   typeName,
		Unique: unique,
		Config: config,
		Reply:  reply,
	}})
	res := <-reply

	if !res.OK {
		if unique {
			p.mapMu.Lock()
			delete(p.unique, typeName)
			p.mapMu.Unlock()
		}
		return 0, rterrors.New(rterrors.ErrServiceInitFailed, "svcpool: init failed for type: "+typeName)
	}

	if unique {
		p.mapMu.Lock()
		p.unique[typeName] = id
		p.mapMu.Unlock()
	}
	return id, nil
}

func (p *pool) RemoveService(id uint32) {
	idx := int(ioworker.IndexOf(id))
	if idx < 0 || idx >= len(p.workers) {
		return
	}
	p.workers[idx].Post(svcworker.Command{Kind: svcworker.CmdRemove, RemID: id})
}

func (p *pool) Send(msg *message.Message) { p.Route(msg) }

// Route implements svcworker.Router: post msg onto the command queue of
// the worker owning msg.Receiver.
func (p *pool) Route(msg *message.Message) {
	idx := int(ioworker.IndexOf(msg.Receiver))
	if idx < 0 || idx >= len(p.workers) {
		return
	}
	p.workers[idx].Post(svcworker.Command{Kind: svcworker.CmdInject, Msg: msg})
}

// Broadcast implements svcworker.Router: post msg onto every worker's
// command queue.
func (p *pool) Broadcast(msg *message.Message) {
	for _, w := range p.workers {
		w.Post(svcworker.Command{Kind: svcworker.CmdBroadcast, Msg: msg})
	}
}

// ReleaseUnique implements svcworker.Router: clear name from the
// unique-name map once its owning service has torn down.
func (p *pool) ReleaseUnique(name string) {
	p.mapMu.Lock()
	delete(p.unique, name)
	p.mapMu.Unlock()
}

func (p *pool) GetEnv(key string) (string, bool) {
	p.mapMu.RLock()
	defer p.mapMu.RUnlock()
	v, ok := p.env[key]
	return v, ok
}

func (p *pool) SetEnv(key, value string) {
	p.mapMu.Lock()
	p.env[key] = value
	p.mapMu.Unlock()
}

func (p *pool) GetUniqueService(name string) (uint32, bool) {
	p.mapMu.RLock()
	defer p.mapMu.RUnlock()
	id, ok := p.unique[name]
	return id, ok && id != 0
}

func (p *pool) SetUniqueService(name string, id uint32) {
	p.mapMu.Lock()
	p.unique[name] = id
	p.mapMu.Unlock()
}

func (p *pool) WorkerOf(id uint32) (svcworker.Worker, bool) {
	idx := int(ioworker.IndexOf(id))
	if idx < 0 || idx >= len(p.workers) {
		return nil, false
	}
	return p.workers[idx], true
}
