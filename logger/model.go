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

package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/sabouaram/moonrt/rterrors"
	"github.com/sirupsen/logrus"
	jww "github.com/spf13/jwalterweatherman"
)

type lgr struct {
	log  *logrus.Logger
	file *os.File
}

func newLogrusLogger(opt Options) (Logger, error) {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetLevel(opt.Level)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	lg := &lgr{log: l}

	if opt.LogPath != "" {
		f, err := os.OpenFile(opt.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, rterrors.Wrap(rterrors.ErrConfigInvalid, "logger: cannot open log file "+opt.LogPath, err)
		}
		lg.file = f
		l.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	return lg, nil
}

func (l *lgr) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

func (l *lgr) SetLevel(lvl Level) { l.log.SetLevel(lvl) }
func (l *lgr) GetLevel() Level    { return l.log.GetLevel() }

func (l *lgr) entry(message string, data interface{}, args ...interface{}) *logrus.Entry {
	e := l.log.WithField("data", data)
	if len(args) > 0 {
		return e.WithField("args", args)
	}
	return e
}

func (l *lgr) Debug(message string, data interface{}, args ...interface{}) {
	l.entry(message, data, args...).Debug(message)
}

func (l *lgr) Info(message string, data interface{}, args ...interface{}) {
	l.entry(message, data, args...).Info(message)
}

func (l *lgr) Warning(message string, data interface{}, args ...interface{}) {
	l.entry(message, data, args...).Warn(message)
}

func (l *lgr) Error(message string, data interface{}, args ...interface{}) {
	l.entry(message, data, args...).Error(message)
}

func (l *lgr) Fatal(message string, data interface{}, args ...interface{}) {
	l.entry(message, data, args...).Error(message)
	os.Exit(1)
}

// SetSPF13Level redirects a jwalterweatherman notepad's log/feedback
// streams through this logger at lvl, the way the runtime facade
// captures spf13/viper's own diagnostics (§4.K).
func (l *lgr) SetSPF13Level(lvl Level, notepad *jww.Notepad) {
	w := &levelWriter{l: l, lvl: lvl}
	if notepad == nil {
		jww.SetLogOutput(w)
		return
	}
	notepad.SetLogOutput(w)
}

type levelWriter struct {
	l   *lgr
	lvl Level
}

func (w *levelWriter) Write(p []byte) (int, error) {
	w.l.log.WithField("source", "jwalterweatherman").Log(w.lvl, fmt.Sprintf("%s", p))
	return len(p), nil
}
