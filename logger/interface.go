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

// Package logger is the ambient structured-logging facility: a logrus
// core with an optional file sink, plus a bridge so a spf13/viper-style
// jwalterweatherman notepad can be redirected through the same sink.
package logger

import (
	"io"

	"github.com/sirupsen/logrus"
	jww "github.com/spf13/jwalterweatherman"
)

// Level mirrors logrus.Level so callers never need to import logrus
// directly.
type Level = logrus.Level

const (
	PanicLevel Level = logrus.PanicLevel
	FatalLevel Level = logrus.FatalLevel
	ErrorLevel Level = logrus.ErrorLevel
	WarnLevel  Level = logrus.WarnLevel
	InfoLevel  Level = logrus.InfoLevel
	DebugLevel Level = logrus.DebugLevel
)

// Logger is the subset of structured logging every runtime component
// needs. svcworker.Logger is satisfied structurally by any Logger.
type Logger interface {
	io.Closer

	SetLevel(lvl Level)
	GetLevel() Level

	Debug(message string, data interface{}, args ...interface{})
	Info(message string, data interface{}, args ...interface{})
	Warning(message string, data interface{}, args ...interface{})
	Error(message string, data interface{}, args ...interface{})
	Fatal(message string, data interface{}, args ...interface{})

	// SetSPF13Level routes a jwalterweatherman notepad's output through
	// this logger at the given level, used to capture spf13/viper's own
	// diagnostic logging (§4.K).
	SetSPF13Level(lvl Level, notepad *jww.Notepad)
}

// Options configures New.
type Options struct {
	// LogPath, if non-empty, adds a file sink alongside stdout.
	LogPath string
	Level   Level
}

// New builds a Logger from opt. A bad LogPath returns an error instead
// of silently discarding the file sink, per §7's configuration-error
// taxonomy.
func New(opt Options) (Logger, error) {
	return newLogrusLogger(opt)
}
