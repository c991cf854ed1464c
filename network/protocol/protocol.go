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

// Package protocol names the transport the engine binds to: spec.md §1
// supports exactly UDP and TCP, selected by the "protocol" configuration
// key (spec.md §6).
package protocol

import (
	"fmt"
	"strings"
)

type NetworkProtocol uint8

const (
	NetworkUDP NetworkProtocol = iota
	NetworkTCP
)

func Parse(s string) (NetworkProtocol, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "udp":
		return NetworkUDP, nil
	case "tcp":
		return NetworkTCP, nil
	default:
		return NetworkUDP, fmt.Errorf("protocol: unsupported network protocol %q", s)
	}
}

func (p NetworkProtocol) String() string {
	switch p {
	case NetworkTCP:
		return "tcp"
	default:
		return "udp"
	}
}

// MarshalText implements encoding.TextMarshaler so the value decodes
// cleanly through viper/mapstructure-driven config binding.
func (p NetworkProtocol) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler for the same reason.
func (p *NetworkProtocol) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
