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

// Package message defines the envelope (component C) carried between
// services: sender/receiver ids, a correlating session id, a type tag,
// an optional header, and a Buffer payload.
package message

// Type tags the kind of a Message. Numeric values are fixed for
// observability (§6) and must not be renumbered.
type Type uint8

const (
	Unknown           Type = 0
	System            Type = 1
	Text              Type = 2
	Lua               Type = 3
	Socket            Type = 4
	Error             Type = 5
	NetworkConnect    Type = 6
	NetworkRecv       Type = 7
	NetworkClose      Type = 8
	NetworkError      Type = 9
	NetworkLogicError Type = 10
)

func (t Type) String() string {
	switch t {
	case System:
		return "system"
	case Text:
		return "text"
	case Lua:
		return "lua"
	case Socket:
		return "socket"
	case Error:
		return "error"
	case NetworkConnect:
		return "network_connect"
	case NetworkRecv:
		return "network_recv"
	case NetworkClose:
		return "network_close"
	case NetworkError:
		return "network_error"
	case NetworkLogicError:
		return "network_logic_error"
	default:
		return "unknown"
	}
}

// NetErrorCategory enumerates the network error categories of §6.
type NetErrorCategory uint8

const (
	NetErrUnknown            NetErrorCategory = 0
	NetErrMessageSizeMax     NetErrorCategory = 1
	NetErrSocketReadTimeout  NetErrorCategory = 2
	NetErrTransport          NetErrorCategory = 3 // passed through verbatim from the reactor
)

func (c NetErrorCategory) String() string {
	switch c {
	case NetErrMessageSizeMax:
		return "message_size_max"
	case NetErrSocketReadTimeout:
		return "socket_read_timeout"
	case NetErrTransport:
		return "transport_error"
	default:
		return "unknown"
	}
}
