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

package rterrors

import (
	"errors"
	"fmt"
	"runtime"
)

// Error extends the standard error with a classification code, a capture
// site, and an optional parent for chaining across subsystem boundaries.
type Error interface {
	error

	// Code returns this error's classification.
	Code() CodeError

	// IsCode reports whether this error (not its parents) carries code.
	IsCode(code CodeError) bool

	// Parent returns the wrapped cause, or nil.
	Parent() error

	// File and Line report the call site where the error was constructed.
	File() string
	Line() int

	// Unwrap supports errors.Is / errors.As against Parent().
	Unwrap() error
}

type rtError struct {
	code   CodeError
	msg    string
	parent error
	file   string
	line   int
}

// New constructs a coded error with no parent, capturing the caller's
// site two frames up (the package-level helper that invokes New).
func New(code CodeError, msg string) Error {
	return newAt(code, msg, nil, 2)
}

// Wrap constructs a coded error chained to parent. A nil parent degenerates
// to New.
func Wrap(code CodeError, msg string, parent error) Error {
	return newAt(code, msg, parent, 2)
}

func newAt(code CodeError, msg string, parent error, skip int) Error {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		file, line = "unknown", 0
	}
	return &rtError{code: code, msg: msg, parent: parent, file: file, line: line}
}

func (e *rtError) Error() string {
	if e.msg == "" && e.parent != nil {
		return fmt.Sprintf("[%s] %s", e.code, e.parent.Error())
	}
	if e.parent != nil {
		return fmt.Sprintf("[%s] %s: %s", e.code, e.msg, e.parent.Error())
	}
	return fmt.Sprintf("[%s] %s", e.code, e.msg)
}

func (e *rtError) Code() CodeError { return e.code }

func (e *rtError) IsCode(code CodeError) bool { return e.code == code }

func (e *rtError) Parent() error { return e.parent }

func (e *rtError) File() string { return e.file }

func (e *rtError) Line() int { return e.line }

func (e *rtError) Unwrap() error { return e.parent }

// IsCode walks err's Unwrap chain looking for an Error carrying code.
func IsCode(err error, code CodeError) bool {
	for err != nil {
		var e Error
		if errors.As(err, &e) {
			if e.IsCode(code) {
				return true
			}
			err = e.Parent()
			continue
		}
		return false
	}
	return false
}
