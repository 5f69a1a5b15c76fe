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

package rtconfig

import (
	"path/filepath"
	"strings"

	"github.com/sabouaram/moonrt/rterrors"
	"github.com/spf13/viper"
)

func load(configFile string, overrides Config) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("moonrt")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	def := Defaults()
	v.SetDefault("worker_num", def.WorkerNum)
	v.SetDefault("listen_addr", def.ListenAddr)
	v.SetDefault("idle_timeout", def.IdleTimeout)
	v.SetDefault("log_path", def.LogPath)
	v.SetDefault("inbound_queue_size", def.InboundQueueSize)
	v.SetDefault("wheel_slots", def.WheelSlots)
	v.SetDefault("wheel_precision_ms", def.WheelPrecisionMs)

	if configFile != "" {
		v.SetConfigFile(configFile)
		ext := strings.TrimPrefix(filepath.Ext(configFile), ".")
		if ext != "" {
			v.SetConfigType(ext)
		}
		if err := v.ReadInConfig(); err != nil {
			return Config{}, rterrors.Wrap(rterrors.ErrConfigInvalid, "rtconfig: cannot read config file "+configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, rterrors.Wrap(rterrors.ErrConfigInvalid, "rtconfig: cannot decode configuration", err)
	}

	applyOverride(&cfg, overrides)

	if cfg.WorkerNum <= 0 {
		return Config{}, rterrors.New(rterrors.ErrConfigInvalid, "rtconfig: worker_num must be positive")
	}
	if cfg.ListenAddr == "" {
		return Config{}, rterrors.New(rterrors.ErrConfigInvalid, "rtconfig: listen_addr must not be empty")
	}

	return cfg, nil
}

// applyOverride copies every non-zero field of o onto cfg, giving
// explicit CLI flags precedence over file/env values.
func applyOverride(cfg *Config, o Config) {
	if o.WorkerNum != 0 {
		cfg.WorkerNum = o.WorkerNum
	}
	if o.ListenAddr != "" {
		cfg.ListenAddr = o.ListenAddr
	}
	if o.IdleTimeout != 0 {
		cfg.IdleTimeout = o.IdleTimeout
	}
	if o.LogPath != "" {
		cfg.LogPath = o.LogPath
	}
	if o.InboundQueueSize != 0 {
		cfg.InboundQueueSize = o.InboundQueueSize
	}
	if o.WheelSlots != 0 {
		cfg.WheelSlots = o.WheelSlots
	}
	if o.WheelPrecisionMs != 0 {
		cfg.WheelPrecisionMs = o.WheelPrecisionMs
	}
}
