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

package logger_test

import (
	"os"
	"path/filepath"

	"github.com/sabouaram/moonrt/logger"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Logger", func() {
	It("defaults to stdout-only when LogPath is empty", func() {
		l, err := logger.New(logger.Options{Level: logger.InfoLevel})
		Expect(err).NotTo(HaveOccurred())
		defer l.Close()
		l.Info("hello", nil)
	})

	It("writes to the configured log file", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "rt.log")

		l, err := logger.New(logger.Options{LogPath: path, Level: logger.DebugLevel})
		Expect(err).NotTo(HaveOccurred())
		l.Warning("disk pressure", map[string]int{"pct": 91})
		Expect(l.Close()).To(Succeed())

		content, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(content)).To(ContainSubstring("disk pressure"))
	})

	It("reports a configuration error for an unwritable path", func() {
		_, err := logger.New(logger.Options{LogPath: "/nonexistent-dir/x/y/rt.log"})
		Expect(err).To(HaveOccurred())
	})

	It("round-trips its level", func() {
		l, err := logger.New(logger.Options{Level: logger.WarnLevel})
		Expect(err).NotTo(HaveOccurred())
		defer l.Close()
		Expect(l.GetLevel()).To(Equal(logger.WarnLevel))
		l.SetLevel(logger.DebugLevel)
		Expect(l.GetLevel()).To(Equal(logger.DebugLevel))
	})
})
