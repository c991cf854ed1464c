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

// Package config is the external configuration reader of spec.md §6: a
// typed-key document loader over a single file describing endpoints and
// tuning knobs, backed by spf13/viper the way nabbar-golib/config wraps it
// behind libvpr.
package config

// CommInfo is the {ID?, IP, Port} shape spec.md §6 uses for listen_list,
// connect_list and send_list entries.
type CommInfo struct {
	ID   string `mapstructure:"id"`
	IP   string `mapstructure:"ip"`
	Port int    `mapstructure:"port"`
}

// Options holds every recognized configuration key from spec.md §6. Zero
// values mean "not set"; protocol-specific defaults (e.g.
// max_send_packet_size: 1024 for UDP, 1460 for TCP) are applied by the
// lifecycle package once the protocol is known, not here.
type Options struct {
	Protocol        string `mapstructure:"protocol"`
	RuntimeLogLevel int    `mapstructure:"runtime_log_level"`
	LogSavePath     string `mapstructure:"log_save_path"`

	MaxSendPacketSize    int `mapstructure:"max_send_packet_size"`
	MaxReceivePacketSize int `mapstructure:"max_receive_packet_size"`

	RecvTimeoutMs    int `mapstructure:"recv_timeout_ms"`
	SendTimeoutMs    int `mapstructure:"send_timeout_ms"`
	ConnectTimeoutMs int `mapstructure:"connect_timeout_ms"`

	SourceIP   string `mapstructure:"source_ip"`
	SourcePort int    `mapstructure:"source_port"`

	ThreadPoolSize int `mapstructure:"thread_pool_size"`
	MaxConnections int `mapstructure:"max_connections"`
	ListenBacklog  int `mapstructure:"listen_backlog"`
	Keepalive      int `mapstructure:"keepalive"`

	ListenList  []CommInfo `mapstructure:"listen_list"`
	ConnectList []CommInfo `mapstructure:"connect_list"`
	SendList    []CommInfo `mapstructure:"send_list"`
}

// Defaults returns the baseline Options of spec.md §6 before any
// protocol-specific override is applied.
func Defaults() Options {
	return Options{
		Protocol:             "udp",
		MaxReceivePacketSize: 65507,
		RecvTimeoutMs:        100,
		SendTimeoutMs:        100,
		ConnectTimeoutMs:     3000,
		ThreadPoolSize:       3,
		MaxConnections:       100,
		ListenBacklog:        10,
		Keepalive:            60,
	}
}
