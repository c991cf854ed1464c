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

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	liberr "github.com/3shisan3/udp-tcp-communicate/errors"
)

// Document is the loaded configuration: typed key lookups and list lookups
// over a viper instance, matching the "doc.get<T>(key, default)" /
// "doc.get_list<CommInfo>(key)" contract of spec.md §6.
type Document struct {
	v *viper.Viper
}

// Load reads path, detecting JSON/YAML first by extension, then by a
// content probe if the extension is missing or unrecognized.
func Load(path string) (*Document, error) {
	v := viper.New()

	for key, val := range defaultsAsMap(Defaults()) {
		v.SetDefault(key, val)
	}

	if path == "" {
		return &Document{v: v}, nil
	}

	typ := detectType(path)
	if typ == "" {
		// No recognized extension: probe the content. A document opening
		// with '{' or '[' is read as JSON, anything else as YAML.
		typ = "yaml"
		if raw, err := os.ReadFile(path); err == nil {
			if t := strings.TrimSpace(string(raw)); strings.HasPrefix(t, "{") || strings.HasPrefix(t, "[") {
				typ = "json"
			}
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType(typ)

	if err := v.ReadInConfig(); err != nil {
		return nil, liberr.ErrConfigUnsupported.Error(err)
	}

	return &Document{v: v}, nil
}

// Watch installs an fsnotify-backed reload hook, invoking fn whenever the
// underlying file changes. Nothing in this module calls it: lifecycle
// reads the document once at Initialize, and a running engine keeps the
// options it read then.
func (d *Document) Watch(fn func()) {
	d.v.OnConfigChange(func(_ fsnotify.Event) {
		fn()
	})
	d.v.WatchConfig()
}

func detectType(path string) string {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	switch strings.ToLower(ext) {
	case "yaml", "yml":
		return "yaml"
	case "json":
		return "json"
	default:
		return ""
	}
}

func defaultsAsMap(o Options) map[string]interface{} {
	return map[string]interface{}{
		"protocol":                o.Protocol,
		"max_receive_packet_size": o.MaxReceivePacketSize,
		"recv_timeout_ms":         o.RecvTimeoutMs,
		"send_timeout_ms":         o.SendTimeoutMs,
		"connect_timeout_ms":      o.ConnectTimeoutMs,
		"thread_pool_size":        o.ThreadPoolSize,
		"max_connections":         o.MaxConnections,
		"listen_backlog":          o.ListenBacklog,
		"keepalive":               o.Keepalive,
	}
}

func (d *Document) GetString(key, def string) string {
	if !d.v.IsSet(key) {
		return def
	}
	return d.v.GetString(key)
}

func (d *Document) GetInt(key string, def int) int {
	if !d.v.IsSet(key) {
		return def
	}
	return d.v.GetInt(key)
}

// GetOptions decodes the full recognized key set into an Options struct.
func (d *Document) GetOptions() (Options, error) {
	o := Defaults()
	if err := d.v.Unmarshal(&o); err != nil {
		return o, liberr.ErrConfigUnsupported.Error(err)
	}
	return o, nil
}

// GetCommInfoList decodes a list of {id?, ip, port} entries at key.
func (d *Document) GetCommInfoList(key string) ([]CommInfo, error) {
	if !d.v.IsSet(key) {
		return nil, nil
	}

	var out []CommInfo
	if err := d.v.UnmarshalKey(key, &out); err != nil {
		return nil, liberr.ErrConfigUnsupported.Error(fmt.Errorf("config: decode %s: %w", key, err))
	}
	return out, nil
}
