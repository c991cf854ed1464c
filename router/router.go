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

// Package router implements the fixed resolver precedence of spec.md §4.1:
// sender-exact, local-exact, local-wildcard, global-wildcard. The search
// is strictly ordered, so ties are impossible by construction.
package router

import (
	"github.com/3shisan3/udp-tcp-communicate/endpoint"
	"github.com/3shisan3/udp-tcp-communicate/subscriber"
)

// Resolve picks the best-matching handler for a message received from
// (srcIP, srcPort) on the local endpoint (localIP, localPort), returning
// the handler and the key it matched under.
func Resolve(tbl *subscriber.Table, srcIP string, srcPort int, localIP string, localPort int) (subscriber.Handler, string, bool) {
	candidates := [...]string{
		endpoint.Key(srcIP, srcPort),
		endpoint.Key(localIP, localPort),
		endpoint.Key(endpoint.LocalWildcard, localPort),
		endpoint.Key("", 0),
	}

	for _, key := range candidates {
		if h, ok := tbl.Find(key); ok {
			return h, key, true
		}
	}

	return nil, "", false
}
