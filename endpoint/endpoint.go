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

// Package endpoint defines the canonical (ip, port) pair used as a routing
// token and map key throughout the engine (spec.md §3/§4.1).
package endpoint

import "strconv"

// LocalWildcard is the reserved sender-independent local-port wildcard
// token; it is never bound, only used for routing (spec.md §4.1).
const LocalWildcard = "localhost"

// Endpoint is a (ip, port) pair. The empty ip with port 0 is the
// any-any wildcard; LocalWildcard paired with a real port is the
// local-any wildcard. Neither is ever used to bind a socket.
type Endpoint struct {
	IP   string
	Port int
}

// New returns an Endpoint for (ip, port).
func New(ip string, port int) Endpoint {
	return Endpoint{IP: ip, Port: port}
}

// Key returns the canonical "ip:port" string used as the map key and
// routing token.
func (e Endpoint) Key() string {
	return e.IP + ":" + strconv.Itoa(e.Port)
}

// IsAnyAny reports whether e is the global wildcard ("":0).
func (e Endpoint) IsAnyAny() bool {
	return e.IP == "" && e.Port == 0
}

// IsLocalWildcard reports whether e is the local-port wildcard
// (LocalWildcard:port).
func (e Endpoint) IsLocalWildcard() bool {
	return e.IP == LocalWildcard && e.Port != 0
}

// IsWildcard reports whether e is either reserved routing form; wildcards
// are never bound to an actual socket.
func (e Endpoint) IsWildcard() bool {
	return e.IsAnyAny() || e.IsLocalWildcard()
}

// Key builds the "ip:port" string directly from components, without
// allocating an Endpoint value; used on the hot dispatch path.
func Key(ip string, port int) string {
	return ip + ":" + strconv.Itoa(port)
}
