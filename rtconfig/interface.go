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

// Package rtconfig loads the runtime's configuration (worker count,
// listen address, idle timeout, log path, queue sizing, timer wheel
// shape) via spf13/viper, from a file, environment variables, and
// explicit overrides, in that precedence order (lowest to highest).
package rtconfig

import "time"

// Config is the fully resolved configuration consumed by kernel.Init.
type Config struct {
	WorkerNum        int           `mapstructure:"worker_num"`
	ListenAddr       string        `mapstructure:"listen_addr"`
	IdleTimeout      time.Duration `mapstructure:"idle_timeout"`
	LogPath          string        `mapstructure:"log_path"`
	InboundQueueSize int           `mapstructure:"inbound_queue_size"`
	WheelSlots       int           `mapstructure:"wheel_slots"`
	WheelPrecisionMs int64         `mapstructure:"wheel_precision_ms"`
}

// Defaults ensures sessions always run under a bounded idle timeout,
// never a zero-value one.
func Defaults() Config {
	return Config{
		WorkerNum:        4,
		ListenAddr:       ":9999",
		IdleTimeout:      60 * time.Second,
		LogPath:          "",
		InboundQueueSize: 1024,
		WheelSlots:       256,
		WheelPrecisionMs: 10,
	}
}

// Load reads configFile (if non-empty) over Defaults, then applies the
// MOONRT_-prefixed environment variables, then the non-zero fields of
// overrides (used for CLI flags). An unreadable-but-named config file
// is a hard error (§7 configuration-error category); a missing,
// unnamed one silently falls back to defaults+env+overrides.
func Load(configFile string, overrides Config) (Config, error) {
	return load(configFile, overrides)
}
