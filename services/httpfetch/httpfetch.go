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

// Package httpfetch is a domain service that fans a request out to an
// HTTP URL with retry/backoff, the way a service would call an external
// API without blocking its own worker's dispatch loop for longer than
// one fetch at a time.
package httpfetch

import (
	"io"
	"log"

	retryablehttp "github.com/hashicorp/go-retryablehttp"

	"github.com/sabouaram/moonrt/buffer"
	"github.com/sabouaram/moonrt/message"
	"github.com/sabouaram/moonrt/service"
)

type svc struct {
	client *retryablehttp.Client
}

// New builds an httpfetch service with a quiet retryablehttp client
// (3 retries, exponential backoff, no default logging).
func New() service.Service {
	c := retryablehttp.NewClient()
	c.RetryMax = 3
	c.Logger = log.New(io.Discard, "", 0)
	return &svc{client: c}
}

func (s *svc) Init(ctx service.Context, config []byte) bool { return true }

// Dispatch treats msg.Header as the URL to GET and replies with the
// response body, or a network_error message on failure.
func (s *svc) Dispatch(ctx service.Context, msg *message.Message) {
	url := string(msg.Header)
	if url == "" {
		return
	}

	req, err := retryablehttp.NewRequest("GET", url, nil)
	if err != nil {
		ctx.Send(msg.Sender, nil, []byte("bad_url"), msg.SessionID, message.NetworkError)
		return
	}
	req.Header.Set("User-Agent", "moonrt-httpfetch/1")

	resp, err := s.client.Do(req)
	if err != nil {
		ctx.Send(msg.Sender, nil, []byte(err.Error()), msg.SessionID, message.NetworkError)
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		ctx.Send(msg.Sender, nil, []byte("read_failed"), msg.SessionID, message.NetworkError)
		return
	}

	ctx.Send(msg.Sender, buffer.NewFromBytes(body), []byte("200"), msg.SessionID, message.Text)
}

func (s *svc) OnExit(ctx service.Context) {
	s.client.HTTPClient.CloseIdleConnections()
}
