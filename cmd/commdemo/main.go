/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
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
 *
 */

// Command commdemo wires facade and config together into a minimal
// standalone process: initialize from a config file, subscribe a
// print handler, and block until interrupted.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/3shisan3/udp-tcp-communicate/facade"
	"github.com/3shisan3/udp-tcp-communicate/subscriber"
)

func main() {
	cfgPath := flag.String("config", "", "path to the JSON/YAML engine configuration")
	flag.Parse()

	if err := facade.Initialize(*cfgPath); err != nil {
		fmt.Fprintln(os.Stderr, "commdemo: initialize failed:", err)
		os.Exit(1)
	}
	defer facade.Destroy()

	_ = facade.SubscribeAny(func(msg subscriber.Message) int {
		fmt.Printf("commdemo: received %d bytes: %q\n", len(msg), msg)
		return 0
	})

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
}
