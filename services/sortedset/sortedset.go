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

// Package sortedset is a domain service maintaining a score-ordered set
// of members, backed by tidwall/btree, the way a leaderboard or a
// delayed-job priority queue would be implemented as a runtime service.
package sortedset

import (
	"strconv"
	"strings"
	"sync"

	"github.com/tidwall/btree"

	"github.com/sabouaram/moonrt/buffer"
	"github.com/sabouaram/moonrt/message"
	"github.com/sabouaram/moonrt/service"
)

type entry struct {
	score  float64
	member string
}

func less(a, b entry) bool {
	if a.score != b.score {
		return a.score < b.score
	}
	return a.member < b.member
}

type svc struct {
	mu      sync.Mutex
	tree    *btree.BTreeG[entry]
	byMember map[string]float64
}

// New builds an empty sorted set service.
func New() service.Service {
	return &svc{
		tree:     btree.NewBTreeG(less),
		byMember: make(map[string]float64),
	}
}

func (s *svc) Init(ctx service.Context, config []byte) bool { return true }

// Dispatch understands three commands carried in msg.Header:
//   add:<member>:<score>
//   remove:<member>
//   range:<min>:<max>
func (s *svc) Dispatch(ctx service.Context, msg *message.Message) {
	cmd := string(msg.Header)
	parts := strings.Split(cmd, ":")
	if len(parts) == 0 {
		return
	}

	switch parts[0] {
	case "add":
		if len(parts) != 3 {
			return
		}
		score, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return
		}
		s.add(parts[1], score)
		ctx.Send(msg.Sender, nil, []byte("ok"), msg.SessionID, message.Text)

	case "remove":
		if len(parts) != 2 {
			return
		}
		s.remove(parts[1])
		ctx.Send(msg.Sender, nil, []byte("ok"), msg.SessionID, message.Text)

	case "range":
		if len(parts) != 3 {
			return
		}
		min, err1 := strconv.ParseFloat(parts[1], 64)
		max, err2 := strconv.ParseFloat(parts[2], 64)
		if err1 != nil || err2 != nil {
			return
		}
		out := s.rangeScore(min, max)
		ctx.Send(msg.Sender, buffer.NewFromBytes([]byte(out)), []byte("range"), msg.SessionID, message.Text)
	}
}

func (s *svc) add(member string, score float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.byMember[member]; ok {
		s.tree.Delete(entry{score: old, member: member})
	}
	s.tree.Set(entry{score: score, member: member})
	s.byMember[member] = score
}

func (s *svc) remove(member string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.byMember[member]; ok {
		s.tree.Delete(entry{score: old, member: member})
		delete(s.byMember, member)
	}
}

func (s *svc) rangeScore(min, max float64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var b strings.Builder
	s.tree.Ascend(entry{score: min}, func(e entry) bool {
		if e.score > max {
			return false
		}
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(e.member)
		return true
	})
	return b.String()
}

func (s *svc) OnExit(ctx service.Context) {}
