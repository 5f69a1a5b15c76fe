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

// Package aescodec is a domain service that encrypts or decrypts a
// request payload with AES-GCM, keyed by the bytes given to Init.
package aescodec

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"io"

	"github.com/sabouaram/moonrt/buffer"
	"github.com/sabouaram/moonrt/message"
	"github.com/sabouaram/moonrt/rterrors"
	"github.com/sabouaram/moonrt/service"
)

const (
	opEncrypt byte = 1
	opDecrypt byte = 2
)

type svc struct {
	gcm cipher.AEAD
}

// New builds an uninitialized aescodec service; Init's config argument
// is the 16/24/32-byte AES key.
func New() service.Service { return &svc{} }

func (s *svc) Init(ctx service.Context, config []byte) bool {
	block, err := aes.NewCipher(config)
	if err != nil {
		return false
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return false
	}
	s.gcm = gcm
	return true
}

func (s *svc) Dispatch(ctx service.Context, msg *message.Message) {
	if s.gcm == nil || msg.Payload == nil || len(msg.Header) == 0 {
		return
	}

	switch msg.Header[0] {
	case opEncrypt:
		nonce := make([]byte, s.gcm.NonceSize())
		if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
			ctx.Send(msg.Sender, nil, []byte("error"), msg.SessionID, message.Error)
			return
		}
		sealed := s.gcm.Seal(nonce, nonce, msg.Payload.Bytes(), nil)
		ctx.Send(msg.Sender, buffer.NewFromBytes(sealed), []byte("encrypted"), msg.SessionID, message.Text)

	case opDecrypt:
		raw := msg.Payload.Bytes()
		n := s.gcm.NonceSize()
		if len(raw) < n {
			ctx.Send(msg.Sender, nil, []byte(rterrors.ErrConfigInvalid.String()), msg.SessionID, message.Error)
			return
		}
		plain, err := s.gcm.Open(nil, raw[:n], raw[n:], nil)
		if err != nil {
			ctx.Send(msg.Sender, nil, []byte("decrypt_failed"), msg.SessionID, message.Error)
			return
		}
		ctx.Send(msg.Sender, buffer.NewFromBytes(plain), []byte("decrypted"), msg.SessionID, message.Text)
	}
}

func (s *svc) OnExit(ctx service.Context) {}
