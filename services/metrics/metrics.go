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

// Package metrics is a domain service that counts and times every
// message it's asked to observe, the way a runtime would dedicate one
// actor to owning its own Prometheus registry instead of sharing global
// collector state across workers.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sabouaram/moonrt/buffer"
	"github.com/sabouaram/moonrt/message"
	"github.com/sabouaram/moonrt/service"
)

type svc struct {
	registry *prometheus.Registry
	observed *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// New builds a metrics service with its own private registry, so
// multiple instances (one per worker, say) never collide on collector
// registration.
func New() service.Service {
	s := &svc{
		registry: prometheus.NewRegistry(),
		observed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "moonrt_observed_total",
			Help: "Messages observed by label.",
		}, []string{"label"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "moonrt_observe_latency_seconds",
			Help:    "Time spent recording an observation.",
			Buckets: prometheus.DefBuckets,
		}, []string{"label"}),
	}
	s.registry.MustRegister(s.observed, s.latency)
	return s
}

func (s *svc) Init(ctx service.Context, config []byte) bool { return true }

// Dispatch treats msg.Header as the metric label and increments its
// counter; the reply payload is "ok", with the label as its header.
func (s *svc) Dispatch(ctx service.Context, msg *message.Message) {
	label := string(msg.Header)
	if label == "" {
		label = "unlabeled"
	}
	timer := prometheus.NewTimer(s.latency.WithLabelValues(label))
	s.observed.WithLabelValues(label).Inc()
	timer.ObserveDuration()

	ctx.Send(msg.Sender, buffer.NewFromBytes([]byte("ok")), []byte(label), msg.SessionID, message.Text)
}

func (s *svc) OnExit(ctx service.Context) {}

// Registry exposes the private registry so a process can mount
// promhttp.HandlerFor(svc.Registry(), ...) on its own HTTP mux.
func (s *svc) Registry() *prometheus.Registry { return s.registry }
