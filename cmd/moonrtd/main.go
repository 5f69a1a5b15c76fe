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

// Command moonrtd hosts the actor runtime as a standalone daemon: it
// loads configuration, registers the built-in domain services, listens
// for TCP connections, and blocks until an interrupt tears everything
// down in order.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sabouaram/moonrt/kernel"
	"github.com/sabouaram/moonrt/rtconfig"
	"github.com/sabouaram/moonrt/services/aescodec"
	"github.com/sabouaram/moonrt/services/codec"
	"github.com/sabouaram/moonrt/services/dbquery"
	"github.com/sabouaram/moonrt/services/httpfetch"
	"github.com/sabouaram/moonrt/services/metrics"
	"github.com/sabouaram/moonrt/services/sortedset"
	"github.com/sabouaram/moonrt/services/uuidgen"
	"github.com/sabouaram/moonrt/service"

	"github.com/spf13/cobra"
)

var (
	flagPort    int
	flagConfig  string
	flagThreads int
)

func main() {
	root := &cobra.Command{
		Use:   "moonrtd",
		Short: "moonrt actor-runtime daemon",
		RunE:  run,
	}
	root.Flags().IntVarP(&flagPort, "port", "p", 0, "TCP listen port (overrides config/listen_addr's port)")
	root.Flags().StringVarP(&flagConfig, "config", "c", "", "path to a moonrt config file")
	root.Flags().IntVarP(&flagThreads, "threads", "t", 0, "number of service workers (overrides config)")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	overrides := rtconfig.Config{WorkerNum: flagThreads}
	if flagPort != 0 {
		overrides.ListenAddr = fmt.Sprintf(":%d", flagPort)
	}

	cfg, err := rtconfig.Load(flagConfig, overrides)
	if err != nil {
		return err
	}

	rt := kernel.New()
	registerBuiltinServices(rt)

	if err := rt.Init(cfg); err != nil {
		return err
	}
	if err := rt.Run(); err != nil {
		return err
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	rt.Stop()
	return nil
}

// registerBuiltinServices wires the built-in domain services under
// fixed type names so a process config can spawn them by name.
func registerBuiltinServices(rt kernel.Runtime) {
	rt.RegisterService("codec", func() service.Service { return codec.New() })
	rt.RegisterService("aescodec", func() service.Service { return aescodec.New() })
	rt.RegisterService("sortedset", func() service.Service { return sortedset.New() })
	rt.RegisterService("uuidgen", func() service.Service { return uuidgen.New() })
	rt.RegisterService("httpfetch", func() service.Service { return httpfetch.New() })
	rt.RegisterService("metrics", func() service.Service { return metrics.New() })
	rt.RegisterService("dbquery", func() service.Service { return dbquery.New() })
}
